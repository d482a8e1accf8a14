package cmd

import (
	"github.com/spf13/cobra"

	"s3zipper/config"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "s3zipper",
	Short: "Bundle S3 objects into a single zip archive",
	Long: `s3zipper streams a set of S3 objects into one zip archive and uploads it
back to the bucket, without staging files on local disk.

It runs as an API Gateway Lambda handler, a local HTTP server, or a one-shot command.
Configuration is loaded from .env file or environment variables`,
	SilenceUsage: true,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bulkDownloadCmd)

	rootCmd.PersistentFlags().StringP("bucket", "b", "", "Override bucket name from config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func getBucketName(cmd *cobra.Command) string {
	bucket, _ := cmd.Flags().GetString("bucket")
	if bucket != "" {
		return bucket
	}
	return cfg.BucketName
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

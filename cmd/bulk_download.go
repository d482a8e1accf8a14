package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"s3zipper/internal/bulkdownload"
	"s3zipper/internal/models"
	"s3zipper/pkg/utils"
)

var bulkDownloadCmd = &cobra.Command{
	Use:   "bulk-download [keys...]",
	Short: "Zip a set of objects into a single archive in the bucket",
	Long: `Zip a set of objects into a single archive and upload it to the same bucket.

Source objects are streamed into the archive and the archive is streamed into the
upload, so nothing is written to local disk. Each entry is named after the object's
Content-Disposition filename, falling back to the key's base name.

Once uploaded, the archive is tagged contentsPreviouslyScanned=TRUE.`,
	Example: `  # Bundle two objects into out.zip
  s3zipper bulk-download --keys submissions/1/a.pdf,submissions/1/b.pdf --zip-file-name out.zip

  # Keys as arguments, generated archive name
  s3zipper bulk-download submissions/1/a.pdf submissions/1/b.pdf --confirm

  # Use a different bucket
  s3zipper bulk-download --keys a.pdf --bucket my-other-bucket --confirm`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runBulkDownload(cmd, args)
	},
}

func runBulkDownload(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()

	keys, _ := cmd.Flags().GetStringSlice("keys")
	zipFileName, _ := cmd.Flags().GetString("zip-file-name")
	confirm, _ := cmd.Flags().GetBool("confirm")

	req, err := bulkDownloadRequest(getBucketName(cmd), append(keys, args...), zipFileName)
	if err != nil {
		utils.WriteError(out, err, "bulk-download")
		return
	}

	// Show operation summary if not in confirm mode
	if !confirm {
		proceed, err := confirmBulkDownload(cmd.InOrStdin(), out, req)
		if err != nil {
			utils.WriteError(out, err, "bulk-download")
			return
		}
		if !proceed {
			fmt.Fprintln(out, "Bulk download cancelled.")
			return
		}
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg, cfg.LogFormat, isVerbose(cmd))
	handler, err := newHandler(cfg, logger, nil)
	if err != nil {
		utils.WriteError(out, err, "bulk-download")
		return
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.PrintErrf("Starting bulk download...\n")
		cmd.PrintErrf("  Keys: %d\n", len(req.Keys))
		cmd.PrintErrf("  Archive: s3://%s/%s\n", req.Bucket, req.ZipFileName)
	}

	if err := executeBulkDownload(ctx, out, handler, req); err != nil {
		utils.WriteError(out, err, "bulk-download")
		return
	}

	if isVerbose(cmd) {
		cmd.PrintErrln("Bulk download completed successfully")
	}
}

func bulkDownloadRequest(bucket string, keys []string, zipFileName string) (models.BulkDownloadRequest, error) {
	var cleaned []string
	for _, key := range keys {
		if key = strings.TrimSpace(key); key != "" {
			cleaned = append(cleaned, key)
		}
	}

	if bucket == "" {
		return models.BulkDownloadRequest{}, fmt.Errorf("bucket name is required: set BUCKET_NAME or pass --bucket")
	}
	if len(cleaned) == 0 {
		return models.BulkDownloadRequest{}, fmt.Errorf("at least one key is required")
	}
	if zipFileName == "" {
		zipFileName = utils.GenerateArchiveName(cleaned, ".zip")
	}

	return models.BulkDownloadRequest{
		Bucket:      bucket,
		Keys:        cleaned,
		ZipFileName: zipFileName,
	}, nil
}

func confirmBulkDownload(in io.Reader, out io.Writer, req models.BulkDownloadRequest) (bool, error) {
	fmt.Fprintf(out, "Bulk download operation summary:\n")
	fmt.Fprintf(out, "Bucket: %s\n", req.Bucket)
	fmt.Fprintf(out, "Keys: %s\n", strings.Join(req.Keys, ", "))
	fmt.Fprintf(out, "Archive: %s\n", req.ZipFileName)

	fmt.Fprint(out, "Continue with bulk download? (y/N): ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	response = strings.ToLower(strings.TrimSpace(response))

	return slices.Contains([]string{"y", "yes"}, response), nil
}

func executeBulkDownload(ctx context.Context, out io.Writer, handler *bulkdownload.Handler, req models.BulkDownloadRequest) error {
	result, err := handler.Run(ctx, req)
	if err != nil {
		return err
	}
	return utils.WriteJSON(out, result)
}

func init() {
	bulkDownloadCmd.Flags().StringSliceP("keys", "k", nil, "Object keys to include, in archive order")
	bulkDownloadCmd.Flags().StringP("zip-file-name", "o", "", "Destination key of the archive (default: generated from the keys)")
	bulkDownloadCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	bulkDownloadCmd.Flags().Int("timeout", 3600, "Timeout in seconds for the operation (default: 1 hour)")

	bulkDownloadCmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

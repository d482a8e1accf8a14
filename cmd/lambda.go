package cmd

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run as an API Gateway Lambda handler",
	Long: `Run the bulk download handler inside the AWS Lambda runtime.

Requests arrive as API Gateway proxy events. Logs are written as JSON to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stdout, cfg, "json", isVerbose(cmd))

		handler, err := newHandler(cfg, logger, nil)
		if err != nil {
			return err
		}

		lambda.Start(handler.Handle)
		return nil
	},
}

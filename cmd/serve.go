package cmd

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"s3zipper/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bulk download API over HTTP",
	Long: `Serve the bulk download handler as a local HTTP API.

Routes:
  POST /bulk-download   same body and responses as the gateway endpoint; the caller
                        identity is read from the X-Authentication-Provider header
  GET  /healthz         liveness probe
  GET  /metrics         Prometheus metrics`,
	Example: `  # Listen on the configured address
  s3zipper serve

  # Listen on a specific address
  s3zipper serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.ServerAddr
		}

		logger := newLogger(os.Stderr, cfg, cfg.LogFormat, isVerbose(cmd))

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		handler, err := newHandler(cfg, logger, reg)
		if err != nil {
			return err
		}

		return server.NewServer(handler, reg, logger).Run(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: SERVER_ADDR or :8080)")
}

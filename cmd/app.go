package cmd

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"s3zipper/config"
	"s3zipper/internal/bulkdownload"
	"s3zipper/internal/logging"
	"s3zipper/internal/s3client"
	"s3zipper/pkg/utils"
)

func newLogger(w io.Writer, cfg *config.Config, format string, verbose bool) *slog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(w, level, format)
}

// newHandler builds the pipeline on top of S3. reg may be nil to skip metrics.
func newHandler(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*bulkdownload.Handler, error) {
	client, err := s3client.New(cfg)
	if err != nil {
		return nil, err
	}
	return newHandlerWithStore(client, cfg, logger, reg), nil
}

func newHandlerWithStore(store bulkdownload.Store, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) *bulkdownload.Handler {
	opts := []bulkdownload.Option{
		bulkdownload.WithLogger(logger),
		bulkdownload.WithResolveConcurrency(cfg.ResolveConcurrency),
		bulkdownload.WithStrictTagging(cfg.StrictTagging),
		bulkdownload.WithArchiveOptions(utils.WithCompressionLevel(cfg.CompressionLevel)),
	}
	if reg != nil {
		opts = append(opts, bulkdownload.WithMetrics(bulkdownload.NewMetrics(reg)))
	}
	return bulkdownload.NewHandler(store, opts...)
}

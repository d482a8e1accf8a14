package bulkdownload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"s3zipper/internal/models"
	"s3zipper/pkg/utils"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Credentials": "true",
}

// Handler runs the bulk download pipeline for gateway requests:
// validate, resolve sources, archive and upload as one stream, tag, respond.
type Handler struct {
	store         Store
	resolver      *Resolver
	sink          *Sink
	logger        *slog.Logger
	metrics       *Metrics
	concurrency   int
	strictTagging bool
	archiveOpts   []utils.ArchiveOption
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(h *Handler) {
		h.metrics = metrics
	}
}

func WithResolveConcurrency(n int) Option {
	return func(h *Handler) {
		h.concurrency = n
	}
}

// WithStrictTagging controls whether a failed post-upload tag fails the request.
func WithStrictTagging(strict bool) Option {
	return func(h *Handler) {
		h.strictTagging = strict
	}
}

func WithArchiveOptions(opts ...utils.ArchiveOption) Option {
	return func(h *Handler) {
		h.archiveOpts = append(h.archiveOpts, opts...)
	}
}

func NewHandler(store Store, opts ...Option) *Handler {
	h := &Handler{
		store:         store,
		logger:        slog.Default(),
		strictTagging: true,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.resolver = NewResolver(store, h.concurrency, h.logger)
	h.sink = NewSink(store)

	return h
}

// Handle is the gateway entry point. Failures are reported through the response;
// the returned error is always nil.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := time.Now()
	resp := h.handle(ctx, event)
	h.metrics.observeRequest(resp.StatusCode, time.Since(start))
	return resp, nil
}

func (h *Handler) handle(ctx context.Context, event events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	if event.RequestContext.Identity.CognitoAuthenticationProvider == "" {
		// The gateway always sets this for authenticated routes.
		h.logger.Error("request has no authentication provider, check the gateway authorizer configuration")
		return apiResponse(http.StatusBadRequest, models.APIResponse{
			Code:    models.CodeNoAuthProvider,
			Message: "no authentication provider on request context",
		})
	}

	req, err := parseRequest(event)
	if err != nil {
		return h.errorResponse(err)
	}

	if _, err := h.Run(ctx, req); err != nil {
		return h.errorResponse(err)
	}

	return apiResponse(http.StatusOK, models.APIResponse{
		Code:    models.CodeSuccess,
		Message: "success",
	})
}

// Run executes the pipeline for an already parsed request.
func (h *Handler) Run(ctx context.Context, req models.BulkDownloadRequest) (*models.BulkDownloadResult, error) {
	start := time.Now()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	logger := h.logger.With("bucket", req.Bucket, "zipFileName", req.ZipFileName)
	logger.Info("starting bulk download", "keys", len(req.Keys))

	sources, err := h.resolver.Resolve(ctx, req.Bucket, req.Keys)
	if err != nil {
		var resolutionErr *SourceResolutionError
		if errors.As(err, &resolutionErr) {
			h.metrics.observeSourceFailures(len(resolutionErr.Failures))
			logger.Error("failed to resolve source objects", "failedKeys", resolutionErr.Keys(), "error", err)
		}
		return nil, err
	}

	entries := make([]models.ArchiveEntry, len(sources))
	for i, source := range sources {
		entries[i] = models.ArchiveEntry{Name: source.DisplayFilename, Body: source.Body}
	}

	stats, err := h.archiveAndUpload(ctx, req.Bucket, req.ZipFileName, entries)
	if err != nil {
		logger.Error("failed to stream archive", "error", err)
		return nil, err
	}
	h.metrics.observeArchive(stats)

	tagged := true
	if err := h.store.PutTag(ctx, req.Bucket, req.ZipFileName, ScannedTagKey, ScannedTagValue); err != nil {
		tagErr := &TaggingError{Bucket: req.Bucket, Key: req.ZipFileName, Err: err}
		logger.Error("failed to tag archive", "error", err, "strict", h.strictTagging)
		if h.strictTagging {
			return nil, tagErr
		}
		tagged = false
	}

	duration := time.Since(start)
	logger.Info("bulk download complete",
		"entries", stats.EntryCount,
		"originalBytes", stats.OriginalSize,
		"compressedBytes", stats.CompressedSize,
		"duration", duration.String(),
	)

	return &models.BulkDownloadResult{
		BucketName:       req.Bucket,
		ZipFileName:      req.ZipFileName,
		Keys:             req.Keys,
		TotalFiles:       stats.EntryCount,
		OriginalSize:     stats.OriginalSize,
		OriginalHuman:    utils.FormatBytes(stats.OriginalSize),
		CompressedSize:   stats.CompressedSize,
		CompressedHuman:  utils.FormatBytes(stats.CompressedSize),
		Tagged:           tagged,
		OperationTime:    utils.FormatTime(start),
		DownloadDuration: duration.String(),
	}, nil
}

// archiveAndUpload pipes the archive straight into the sink. The archive's own
// failure takes precedence over the upload failure it causes.
func (h *Handler) archiveAndUpload(ctx context.Context, bucket, key string, entries []models.ArchiveEntry) (models.ArchiveStats, error) {
	archive := utils.StreamArchive(ctx, entries, h.archiveOpts...)

	uploadErr := h.sink.Upload(ctx, bucket, key, archive)

	// Unblocks the producer if the upload stopped reading early.
	_ = archive.Close()
	stats, archiveErr := archive.Wait()

	if archiveErr != nil && !errors.Is(archiveErr, utils.ErrArchiveClosed) {
		return stats, &ArchiveError{Err: archiveErr}
	}
	if uploadErr != nil {
		return stats, uploadErr
	}
	if archiveErr != nil {
		return stats, &ArchiveError{Err: archiveErr}
	}
	return stats, nil
}

func parseRequest(event events.APIGatewayProxyRequest) (models.BulkDownloadRequest, error) {
	var req models.BulkDownloadRequest

	body := event.Body
	if event.IsBase64Encoded && body != "" {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return req, &ValidationError{Code: models.CodeBadRequest, Message: fmt.Sprintf("failed to decode request body: %v", err)}
		}
		body = string(decoded)
	}

	if strings.TrimSpace(body) == "" {
		return req, &ValidationError{Code: models.CodeBadRequest, Message: "request body is required"}
	}

	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return req, &ValidationError{Code: models.CodeBadRequest, Message: fmt.Sprintf("failed to parse request body: %v", err)}
	}

	return req, nil
}

func validateRequest(req models.BulkDownloadRequest) error {
	var missing []string
	if req.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if len(req.Keys) == 0 {
		missing = append(missing, "keys")
	}
	if req.ZipFileName == "" {
		missing = append(missing, "zipFileName")
	}
	if len(missing) > 0 {
		return &ValidationError{
			Code:    models.CodeBadRequest,
			Message: "missing required parameters: " + strings.Join(missing, ", "),
		}
	}
	return nil
}

func (h *Handler) errorResponse(err error) events.APIGatewayProxyResponse {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		h.logger.Warn("rejected bulk download request", "code", validationErr.Code, "error", validationErr.Message)
		return apiResponse(http.StatusBadRequest, models.APIResponse{
			Code:    validationErr.Code,
			Message: validationErr.Message,
		})
	}

	// Server errors carry the bare message as a JSON string.
	return apiResponse(http.StatusInternalServerError, err.Error())
}

func apiResponse(statusCode int, body interface{}) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		statusCode = http.StatusInternalServerError
		payload = []byte(`"failed to encode response"`)
	}

	headers := make(map[string]string, len(corsHeaders)+1)
	for k, v := range corsHeaders {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(payload),
	}
}

package bulkdownload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"s3zipper/internal/models"
	"s3zipper/pkg/utils"
)

// Resolver opens every requested source object concurrently.
type Resolver struct {
	store       Store
	concurrency int
	logger      *slog.Logger
}

// NewResolver returns a Resolver. A concurrency of 0 or less starts one lookup per key at once.
func NewResolver(store Store, concurrency int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:       store,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Resolve returns one SourceObject per key, in key order. The batch is all-or-nothing:
// when any key fails, every stream that did open is closed and a *SourceResolutionError
// naming each failed key is returned.
func (r *Resolver) Resolve(ctx context.Context, bucket string, keys []string) ([]models.SourceObject, error) {
	sources := make([]models.SourceObject, len(keys))
	failures := make([]error, len(keys))

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}

	for i, key := range keys {
		g.Go(func() error {
			source, err := r.resolveOne(ctx, bucket, key)
			if err != nil {
				failures[i] = err
				return err
			}
			sources[i] = source
			return nil
		})
	}

	if err := g.Wait(); err == nil {
		return sources, nil
	}

	resolutionErr := &SourceResolutionError{Bucket: bucket, Total: len(keys)}
	for i, err := range failures {
		if err != nil {
			resolutionErr.Failures = append(resolutionErr.Failures, &KeyError{Key: keys[i], Err: err})
			r.logger.Error("failed to resolve source object", "bucket", bucket, "key", keys[i], "error", err)
		}
	}
	closeSources(sources)

	return nil, resolutionErr
}

func (r *Resolver) resolveOne(ctx context.Context, bucket, key string) (models.SourceObject, error) {
	meta, err := r.store.Head(ctx, bucket, key)
	if err != nil {
		return models.SourceObject{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	filename := utils.DisplayFilename(key, meta)

	body, err := r.store.GetStream(ctx, bucket, key)
	if err != nil {
		return models.SourceObject{}, fmt.Errorf("failed to open stream: %w", err)
	}
	if body == nil {
		return models.SourceObject{}, errors.New("store returned no stream")
	}

	r.logger.Debug("resolved source object", "bucket", bucket, "key", key, "filename", filename)

	return models.SourceObject{
		Key:             key,
		DisplayFilename: filename,
		Body:            body,
	}, nil
}

func closeSources(sources []models.SourceObject) {
	for _, source := range sources {
		if source.Body != nil {
			_ = source.Body.Close()
		}
	}
}

// Package bulkdownload bundles stored documents into a single zip archive that is
// streamed back into the object store for one-shot client download.
package bulkdownload

import (
	"context"
	"io"

	"s3zipper/internal/models"
)

const (
	ContentTypeZip = "application/zip"

	ScannedTagKey   = "contentsPreviouslyScanned"
	ScannedTagValue = "TRUE"
)

// Store is the object storage the pipeline reads sources from and writes archives to.
// *s3client.Client satisfies it.
type Store interface {
	Head(ctx context.Context, bucket, key string) (*models.ObjectMetadata, error)
	GetStream(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	PutStream(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	PutTag(ctx context.Context, bucket, key, tagKey, tagValue string) error
}

package bulkdownload

import (
	"context"
	"io"
)

// Sink writes a zip stream to its destination object as it is produced.
type Sink struct {
	store Store
}

func NewSink(store Store) *Sink {
	return &Sink{store: store}
}

// Upload consumes archive until EOF or error. A read error from archive fails the
// upload, so an aborted archive is never stored as a complete object.
func (s *Sink) Upload(ctx context.Context, bucket, key string, archive io.Reader) error {
	if err := s.store.PutStream(ctx, bucket, key, archive, ContentTypeZip); err != nil {
		return &UploadError{Bucket: bucket, Key: key, Err: err}
	}
	return nil
}

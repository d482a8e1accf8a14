package bulkdownload

import (
	"fmt"
	"strings"
)

// ValidationError rejects a request before any store call is made.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// KeyError records why a single source key could not be opened.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("missing stream for key %q: %v", e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// SourceResolutionError lists every key of a batch that failed to resolve.
type SourceResolutionError struct {
	Bucket   string
	Total    int
	Failures []*KeyError
}

func (e *SourceResolutionError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, failure := range e.Failures {
		msgs[i] = failure.Error()
	}
	return fmt.Sprintf("failed to resolve %d of %d source objects in bucket %s: %s",
		len(e.Failures), e.Total, e.Bucket, strings.Join(msgs, "; "))
}

func (e *SourceResolutionError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, failure := range e.Failures {
		errs[i] = failure
	}
	return errs
}

// Keys returns the failing keys in request order.
func (e *SourceResolutionError) Keys() []string {
	keys := make([]string, len(e.Failures))
	for i, failure := range e.Failures {
		keys[i] = failure.Key
	}
	return keys
}

type ArchiveError struct {
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("failed to build archive: %v", e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

type UploadError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload archive to s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

type TaggingError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *TaggingError) Error() string {
	return fmt.Sprintf("failed to tag archive s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *TaggingError) Unwrap() error {
	return e.Err
}

package models

import (
	"io"
	"time"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}

// ObjectMetadata is the subset of a HEAD response the pipeline cares about.
type ObjectMetadata struct {
	Bucket             string            `json:"bucket"`
	Key                string            `json:"key"`
	Size               int64             `json:"size"`
	ContentType        string            `json:"content_type,omitempty"`
	ContentDisposition string            `json:"content_disposition,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	LastModified       time.Time         `json:"last_modified"`
}

// SourceObject is an opened source document. Body is read once by the archiver
// and closed by whoever ends up owning it.
type SourceObject struct {
	Key             string
	DisplayFilename string
	Body            io.ReadCloser
}

package models

import (
	"io"
	"time"
)

// ArchiveEntry is one named file queued for the zip stream.
type ArchiveEntry struct {
	Name string
	Body io.ReadCloser
}

type ArchiveStats struct {
	EntryCount       int       `json:"entry_count"`
	OriginalSize     int64     `json:"original_size"`
	CompressedSize   int64     `json:"compressed_size"`
	CompressionRatio float64   `json:"compression_ratio"`
	CreatedAt        time.Time `json:"created_at"`
}

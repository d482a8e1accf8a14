package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"s3zipper/internal/models"
)

// ErrArchiveClosed is reported to the producer when the consumer closes the stream early.
var ErrArchiveClosed = errors.New("archive stream closed by reader")

type ArchiveOption func(*archiveConfig)

type archiveConfig struct {
	modTime time.Time
	level   int
}

// WithModTime sets the modification time recorded for every entry.
func WithModTime(t time.Time) ArchiveOption {
	return func(c *archiveConfig) {
		c.modTime = t
	}
}

// WithCompressionLevel sets the deflate level. Values outside the flate range keep the default.
func WithCompressionLevel(level int) ArchiveOption {
	return func(c *archiveConfig) {
		if level >= flate.HuffmanOnly && level <= flate.BestCompression {
			c.level = level
		}
	}
}

// ArchiveStream is the read side of a zip archive that is still being written.
// Reads return the producer's error instead of io.EOF when archiving fails.
type ArchiveStream struct {
	pr    *io.PipeReader
	done  chan struct{}
	stats models.ArchiveStats
	err   error
}

// StreamArchive starts encoding entries into a zip archive and returns immediately.
// Entries are drained one at a time, in order. Every entry body is closed exactly
// once, whether it was written, failed, or skipped after an earlier failure.
func StreamArchive(ctx context.Context, entries []models.ArchiveEntry, opts ...ArchiveOption) *ArchiveStream {
	cfg := &archiveConfig{
		modTime: time.Now(),
		level:   flate.DefaultCompression,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	pr, pw := io.Pipe()
	s := &ArchiveStream{
		pr:   pr,
		done: make(chan struct{}),
	}

	go s.produce(ctx, pw, entries, cfg)

	return s
}

func (s *ArchiveStream) produce(ctx context.Context, pw *io.PipeWriter, entries []models.ArchiveEntry, cfg *archiveConfig) {
	defer close(s.done)

	counter := &ByteCounter{Writer: pw}
	stats, err := writeArchive(ctx, counter, entries, cfg)
	stats.CompressedSize = counter.Count
	if stats.OriginalSize > 0 {
		stats.CompressionRatio = float64(stats.CompressedSize) / float64(stats.OriginalSize)
	}

	s.stats = stats
	s.err = err

	// A nil error delivers io.EOF to the reader.
	_ = pw.CloseWithError(err)
}

func (s *ArchiveStream) Read(p []byte) (int, error) {
	return s.pr.Read(p)
}

// Close stops the producer. Entries that were not yet written are closed.
func (s *ArchiveStream) Close() error {
	return s.pr.CloseWithError(ErrArchiveClosed)
}

// Wait blocks until the producer finishes and returns its outcome.
func (s *ArchiveStream) Wait() (models.ArchiveStats, error) {
	<-s.done
	return s.stats, s.err
}

func writeArchive(ctx context.Context, w io.Writer, entries []models.ArchiveEntry, cfg *archiveConfig) (models.ArchiveStats, error) {
	stats := models.ArchiveStats{CreatedAt: cfg.modTime}

	zipWriter := zip.NewWriter(w)
	zipWriter.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, cfg.level)
	})

	for i, entry := range entries {
		n, err := writeEntry(ctx, zipWriter, entry, cfg.modTime)
		if err != nil {
			closeEntries(entries[i+1:])
			// A failed archive never gets a central directory.
			return stats, err
		}
		stats.EntryCount++
		stats.OriginalSize += n
	}

	if err := zipWriter.Close(); err != nil {
		return stats, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return stats, nil
}

func writeEntry(ctx context.Context, zipWriter *zip.Writer, entry models.ArchiveEntry, modTime time.Time) (int64, error) {
	defer entry.Body.Close()

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("archive cancelled before %s: %w", entry.Name, err)
	}

	header := &zip.FileHeader{
		Name:     entry.Name,
		Method:   zip.Deflate,
		Modified: modTime,
	}
	header.SetMode(0644)

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return 0, fmt.Errorf("failed to write header for %s: %w", entry.Name, err)
	}

	n, err := io.Copy(writer, &contextReader{ctx: ctx, r: entry.Body})
	if err != nil {
		return n, fmt.Errorf("failed to write content for %s: %w", entry.Name, err)
	}

	return n, nil
}

func closeEntries(entries []models.ArchiveEntry) {
	for _, entry := range entries {
		_ = entry.Body.Close()
	}
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// ByteCounter wraps an io.Writer and counts bytes written
type ByteCounter struct {
	Writer io.Writer
	Count  int64
}

func (bc *ByteCounter) Write(p []byte) (int, error) {
	n, err := bc.Writer.Write(p)
	bc.Count += int64(n)
	return n, err
}

func GenerateArchiveName(keys []string, extension string) string {
	if len(keys) == 1 {
		baseName := path.Base(keys[0])
		if ext := path.Ext(baseName); ext != "" {
			baseName = strings.TrimSuffix(baseName, ext)
		}
		return fmt.Sprintf("%s_%s%s", baseName, time.Now().Format("20060102_150405"), extension)
	}

	return fmt.Sprintf("archive_%s%s", time.Now().Format("20060102_150405"), extension)
}

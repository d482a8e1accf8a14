package bulkdownload

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"s3zipper/internal/models"
)

var errNotFound = errors.New("not found")

type storedObject struct {
	data        []byte
	disposition string
	contentType string
	tags        map[string]string
}

type trackedBody struct {
	io.Reader
	mu     sync.Mutex
	closed int
}

func (b *trackedBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

func (b *trackedBody) Closed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// memoryStore is an in-memory Store that records every call.
type memoryStore struct {
	mu      sync.Mutex
	objects map[string]*storedObject
	calls   []string
	bodies  []*trackedBody

	// Optional overrides.
	HeadFunc      func(ctx context.Context, bucket, key string) (*models.ObjectMetadata, error)
	StreamFunc    func(key string, data []byte) io.Reader
	PutStreamFunc func(body io.Reader) ([]byte, error)
	PutErr        error
	TagErr        error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string]*storedObject)}
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}

func (s *memoryStore) AddObject(bucket, key, filename string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := &storedObject{data: data, contentType: "application/pdf"}
	if filename != "" {
		obj.disposition = fmt.Sprintf(`attachment; filename="%s"`, filename)
	}
	s.objects[objectID(bucket, key)] = obj
}

func (s *memoryStore) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *memoryStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *memoryStore) Object(bucket, key string) (*storedObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[objectID(bucket, key)]
	return obj, ok
}

func (s *memoryStore) Bodies() []*trackedBody {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*trackedBody(nil), s.bodies...)
}

func (s *memoryStore) Head(ctx context.Context, bucket, key string) (*models.ObjectMetadata, error) {
	s.record("Head " + objectID(bucket, key))
	if s.HeadFunc != nil {
		return s.HeadFunc(ctx, bucket, key)
	}

	obj, ok := s.Object(bucket, key)
	if !ok {
		return nil, fmt.Errorf("head %s: %w", objectID(bucket, key), errNotFound)
	}
	return &models.ObjectMetadata{
		Bucket:             bucket,
		Key:                key,
		Size:               int64(len(obj.data)),
		ContentType:        obj.contentType,
		ContentDisposition: obj.disposition,
	}, nil
}

func (s *memoryStore) GetStream(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	s.record("GetStream " + objectID(bucket, key))

	obj, ok := s.Object(bucket, key)
	if !ok {
		return nil, fmt.Errorf("get %s: %w", objectID(bucket, key), errNotFound)
	}

	var reader io.Reader = bytes.NewReader(obj.data)
	if s.StreamFunc != nil {
		reader = s.StreamFunc(key, obj.data)
	}
	body := &trackedBody{Reader: reader}

	s.mu.Lock()
	s.bodies = append(s.bodies, body)
	s.mu.Unlock()

	return body, nil
}

func (s *memoryStore) PutStream(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	s.record("PutStream " + objectID(bucket, key))
	if s.PutErr != nil {
		return s.PutErr
	}

	var data []byte
	var err error
	if s.PutStreamFunc != nil {
		data, err = s.PutStreamFunc(body)
	} else {
		data, err = io.ReadAll(body)
	}
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectID(bucket, key), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectID(bucket, key)] = &storedObject{data: data, contentType: contentType}
	return nil
}

func (s *memoryStore) PutTag(ctx context.Context, bucket, key, tagKey, tagValue string) error {
	s.record("PutTag " + objectID(bucket, key))
	if s.TagErr != nil {
		return s.TagErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[objectID(bucket, key)]
	if !ok {
		return fmt.Errorf("tag %s: %w", objectID(bucket, key), errNotFound)
	}
	if obj.tags == nil {
		obj.tags = make(map[string]string)
	}
	obj.tags[tagKey] = tagValue
	return nil
}

type archivedFile struct {
	Name string
	Data string
}

func unzip(t *testing.T, data []byte) []archivedFile {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make([]archivedFile, 0, len(reader.File))
	for _, zf := range reader.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		require.NoError(t, err)
		files = append(files, archivedFile{Name: zf.Name, Data: string(content)})
	}
	return files
}

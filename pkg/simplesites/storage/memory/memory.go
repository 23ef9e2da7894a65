package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tendant/simple-sites/pkg/simplesites"
)

// Backend is an in-memory implementation of the simplesites.BlobStore
// interface, used in tests and local development.
type Backend struct {
	mu              sync.RWMutex
	objects         map[string][]byte
	objectsMimeType map[string]string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:         make(map[string][]byte),
		objectsMimeType: make(map[string]string),
	}
}

// PresignUpload returns a synthetic URL. The memory backend has no
// external endpoint; callers in tests write staged objects with Put.
func (b *Backend) PresignUpload(ctx context.Context, objectKey, contentType string, expiry time.Duration) (string, error) {
	expires := time.Now().UTC().Add(expiry).Unix()
	return fmt.Sprintf("memory://%s?content-type=%s&expires=%d", objectKey, contentType, expires), nil
}

// Upload writes content directly
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params simplesites.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[params.ObjectKey] = data
	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	b.objectsMimeType[params.ObjectKey] = mimeType
	return nil
}

// Download opens the object for reading
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, simplesites.ErrStagedArchiveNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete deletes the object
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return simplesites.ErrStagedArchiveNotFound
	}

	delete(b.objects, objectKey)
	return nil
}

// Head retrieves object metadata
func (b *Backend) Head(ctx context.Context, objectKey string) (*simplesites.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, simplesites.ErrStagedArchiveNotFound
	}

	return &simplesites.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(data)),
		ContentType: b.objectsMimeType[objectKey],
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

// Put stores an object directly, standing in for the client's presigned
// upload in tests.
func (b *Backend) Put(objectKey, contentType string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = append([]byte(nil), data...)
	b.objectsMimeType[objectKey] = contentType
}

// Get returns a stored object's bytes and whether it exists
func (b *Backend) Get(objectKey string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	return data, exists
}

// Keys returns all stored object keys
func (b *Backend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	return keys
}

// ContentType returns the stored content type for an object key
func (b *Backend) ContentType(objectKey string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.objectsMimeType[objectKey]
}

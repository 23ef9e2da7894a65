package simplesites

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for storage backends
type BlobStore interface {
	// PresignUpload returns a time-bounded URL for uploading one object.
	// The URL is scoped to exactly this key and requires the upload to
	// declare the given content type.
	PresignUpload(ctx context.Context, objectKey, contentType string, expiry time.Duration) (string, error)

	// Upload writes content from reader to the object key. Implementations
	// must accept readers of unknown length and keep memory bounded.
	Upload(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download opens the object for reading
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the object
	Delete(ctx context.Context, objectKey string) error

	// Head retrieves object metadata without fetching the content
	Head(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
}

// Archive abstracts a hierarchical archive format: a directory of entries
// plus lazy per-entry decompression streams. The extraction engine works
// purely against this interface so the container format can be swapped.
type Archive interface {
	// Entries returns the archive's entries in directory order
	Entries() []ArchiveEntry

	// Open returns a single-pass, non-restartable read stream for one
	// non-directory entry
	Open(path string) (io.ReadCloser, error)
}

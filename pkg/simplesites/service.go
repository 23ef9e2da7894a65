package simplesites

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default resource limits. MaxArchiveBytes bounds the staged archive;
// ExtractConcurrency bounds how many entry writes are in flight at once.
const (
	DefaultMaxArchiveBytes    = 100 * 1024 * 1024
	DefaultUploadExpiry       = 15 * time.Minute
	DefaultExtractConcurrency = 5
)

// Service is the ingestion-and-publishing pipeline: authorize an upload,
// then extract the staged archive into the tenant's namespace and return
// its public URL.
type Service interface {
	// AuthorizeUpload mints a fresh tenant and issues a write credential
	// for its staging key. No bytes are written.
	AuthorizeUpload(ctx context.Context, req AuthorizeUploadRequest) (*UploadGrant, error)

	// Publish extracts the tenant's staged archive into durable storage,
	// deletes the staging object on success, and returns the site. On any
	// failure the staged archive is left in place for inspection.
	Publish(ctx context.Context, req PublishRequest) (*Site, error)
}

// AuthorizeUploadRequest contains parameters for authorizing an upload
type AuthorizeUploadRequest struct {
	// ContentType declared by the caller for the upcoming upload. Empty
	// defaults to application/zip; anything else is rejected upstream.
	ContentType string
}

// PublishRequest contains parameters for publishing a staged archive
type PublishRequest struct {
	TenantID uuid.UUID
}

// service implements the Service interface
type service struct {
	store           BlobStore
	baseDomain      string
	maxArchiveBytes int64
	uploadExpiry    time.Duration
	concurrency     int
	openArchive     ArchiveOpener
}

// ArchiveOpener parses raw archive bytes into an Archive. The default
// opener handles zip; tests may substitute other containers.
type ArchiveOpener func(data []byte) (Archive, error)

// Option represents a functional option for configuring the service
type Option func(*service)

// WithBlobStore sets the storage backend for staging and published
// objects
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithBaseDomain sets the base domain for tenant subdomains
func WithBaseDomain(domain string) Option {
	return func(s *service) {
		s.baseDomain = domain
	}
}

// WithMaxArchiveBytes sets the staged-archive size ceiling
func WithMaxArchiveBytes(n int64) Option {
	return func(s *service) {
		if n > 0 {
			s.maxArchiveBytes = n
		}
	}
}

// WithUploadExpiry sets the write-credential lifetime
func WithUploadExpiry(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.uploadExpiry = d
		}
	}
}

// WithExtractConcurrency sets the entry-write fan-out factor
func WithExtractConcurrency(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithArchiveOpener overrides the archive container implementation
func WithArchiveOpener(open ArchiveOpener) Option {
	return func(s *service) {
		s.openArchive = open
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		maxArchiveBytes: DefaultMaxArchiveBytes,
		uploadExpiry:    DefaultUploadExpiry,
		concurrency:     DefaultExtractConcurrency,
		openArchive:     OpenZipArchive,
	}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.baseDomain == "" {
		return nil, fmt.Errorf("base domain is required")
	}

	return s, nil
}

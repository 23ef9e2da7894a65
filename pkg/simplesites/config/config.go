package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tendant/simple-sites/pkg/simplesites"
	memorystorage "github.com/tendant/simple-sites/pkg/simplesites/storage/memory"
	s3storage "github.com/tendant/simple-sites/pkg/simplesites/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top
// of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		StorageType:  "memory",
		MaxArchiveMB: 100,
		UploadExpiry: simplesites.DefaultUploadExpiry,
		Concurrency:  simplesites.DefaultExtractConcurrency,
	}
}

// ServerConfig represents server configuration for the simple-sites
// service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Authorization
	SharedSecret string

	// Site URLs
	BaseDomain string

	// Storage configuration
	StorageType string // "memory", "s3"
	S3          S3Config

	// Extraction limits
	MaxArchiveMB int
	UploadExpiry time.Duration
	Concurrency  int
}

// S3Config represents configuration for the S3 storage backend
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
	CreateBucket    bool
}

// WithSharedSecret sets the upload authorization secret
func WithSharedSecret(secret string) Option {
	return func(c *ServerConfig) error {
		c.SharedSecret = secret
		return nil
	}
}

// WithBaseDomain sets the base domain for tenant subdomains
func WithBaseDomain(domain string) Option {
	return func(c *ServerConfig) error {
		c.BaseDomain = domain
		return nil
	}
}

// WithPort sets the HTTP listen port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the runtime environment name
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		c.Environment = env
		return nil
	}
}

// WithMemoryStorage selects the in-memory backend
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.StorageType = "memory"
		return nil
	}
}

// WithS3Storage selects the S3 backend
func WithS3Storage(s3cfg S3Config) Option {
	return func(c *ServerConfig) error {
		c.StorageType = "s3"
		c.S3 = s3cfg
		return nil
	}
}

// WithMaxArchiveMB sets the staged-archive size ceiling in megabytes
func WithMaxArchiveMB(mb int) Option {
	return func(c *ServerConfig) error {
		if mb <= 0 {
			return fmt.Errorf("max archive size must be positive, got %d", mb)
		}
		c.MaxArchiveMB = mb
		return nil
	}
}

// WithConcurrency sets the extraction fan-out factor
func WithConcurrency(n int) Option {
	return func(c *ServerConfig) error {
		if n <= 0 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		c.Concurrency = n
		return nil
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.SharedSecret == "" {
		return errors.New("shared secret is required")
	}

	if c.BaseDomain == "" {
		return errors.New("base domain is required")
	}

	if c.StorageType != "memory" && c.StorageType != "s3" {
		return errors.New("storage_type must be 'memory' or 's3'")
	}

	if c.StorageType == "s3" && c.S3.Bucket == "" {
		return errors.New("s3 bucket is required when using s3 storage")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (simplesites.Service, error) {
	store, err := c.buildBlobStore(ctx)
	if err != nil {
		return nil, err
	}

	return simplesites.New(
		simplesites.WithBlobStore(store),
		simplesites.WithBaseDomain(c.BaseDomain),
		simplesites.WithMaxArchiveBytes(int64(c.MaxArchiveMB)*1024*1024),
		simplesites.WithUploadExpiry(c.UploadExpiry),
		simplesites.WithExtractConcurrency(c.Concurrency),
	)
}

func (c *ServerConfig) buildBlobStore(ctx context.Context) (simplesites.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "s3":
		store, err := s3storage.New(ctx, s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 backend: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", c.StorageType)
	}
}

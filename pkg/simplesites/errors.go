package simplesites

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrStagedArchiveNotFound indicates no staged archive exists for the
	// tenant (never uploaded, or already published)
	ErrStagedArchiveNotFound = errors.New("staged archive not found")

	// ErrArchiveTooLarge indicates the staged archive exceeds the
	// configured size ceiling
	ErrArchiveTooLarge = errors.New("archive exceeds maximum size")

	// ErrInvalidArchive indicates the staged object is not a readable
	// archive
	ErrInvalidArchive = errors.New("invalid archive")

	// ErrInvalidEntryPath indicates an archive entry path escapes the
	// tenant namespace
	ErrInvalidEntryPath = errors.New("invalid archive entry path")

	// ErrExtractionFailed indicates a storage write failed mid-extraction
	ErrExtractionFailed = errors.New("extraction failed")
)

// SiteError represents an error related to site operations
type SiteError struct {
	TenantID uuid.UUID
	Op       string
	Err      error
}

func (e *SiteError) Error() string {
	return fmt.Sprintf("site operation %s failed for tenant %s: %v", e.Op, e.TenantID, e.Err)
}

func (e *SiteError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

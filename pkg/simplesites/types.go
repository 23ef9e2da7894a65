package simplesites

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Site represents a published static site. A site is identified by its
// tenant ID, which doubles as the storage key prefix and the subdomain
// label under the configured base domain.
type Site struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	URL         string    `json:"url"`
	FileCount   int       `json:"file_count"`
	PublishedAt time.Time `json:"published_at"`
}

// UploadGrant is a time-bounded write credential for one staging key.
// The presigned URL only permits a PUT of the declared content type and
// confers no read or delete rights.
type UploadGrant struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	UploadURL   string    `json:"upload_url"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	PublishPath string    `json:"publish_path"`
}

// ArchiveEntry is one path within an uploaded archive. Paths are
// forward-slash separated and relative to the archive root. Directory
// entries carry no data.
type ArchiveEntry struct {
	Path  string
	IsDir bool
}

// archiveContentType is the only media type accepted for staged uploads.
const archiveContentType = "application/zip"

// StagingKey returns the staging object key for a tenant's uploaded
// archive.
func StagingKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("staging/%s.zip", tenantID)
}

// PublishedKey returns the destination object key for one archive entry
// of a tenant.
func PublishedKey(tenantID uuid.UUID, entryPath string) string {
	return fmt.Sprintf("%s/%s", tenantID, entryPath)
}

// SiteURL returns the public URL for a tenant under the given base
// domain.
func SiteURL(tenantID uuid.UUID, baseDomain string) string {
	return fmt.Sprintf("https://%s.%s/", tenantID, baseDomain)
}

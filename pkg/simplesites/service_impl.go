package simplesites

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *service) AuthorizeUpload(ctx context.Context, req AuthorizeUploadRequest) (*UploadGrant, error) {
	contentType := req.ContentType
	if contentType == "" {
		contentType = archiveContentType
	}
	if contentType != archiveContentType {
		return nil, fmt.Errorf("unsupported archive content type %q: %w", contentType, ErrInvalidArchive)
	}

	tenantID := uuid.New()
	stagingKey := StagingKey(tenantID)

	uploadURL, err := s.store.PresignUpload(ctx, stagingKey, contentType, s.uploadExpiry)
	if err != nil {
		return nil, &SiteError{
			TenantID: tenantID,
			Op:       "authorize",
			Err:      err,
		}
	}

	return &UploadGrant{
		TenantID:    tenantID,
		UploadURL:   uploadURL,
		ContentType: contentType,
		ExpiresAt:   time.Now().UTC().Add(s.uploadExpiry),
		PublishPath: fmt.Sprintf("/sites/%s/publish", tenantID),
	}, nil
}

func (s *service) Publish(ctx context.Context, req PublishRequest) (*Site, error) {
	stagingKey := StagingKey(req.TenantID)

	count, err := s.extract(ctx, req.TenantID, stagingKey)
	if err != nil {
		// The staged archive stays behind for manual inspection. Retried
		// publishes re-run the full extraction and overwrite any partial
		// writes from this attempt.
		return nil, &SiteError{
			TenantID: req.TenantID,
			Op:       "publish",
			Err:      err,
		}
	}

	if err := s.store.Delete(ctx, stagingKey); err != nil {
		return nil, &SiteError{
			TenantID: req.TenantID,
			Op:       "cleanup",
			Err:      err,
		}
	}

	return &Site{
		TenantID:    req.TenantID,
		URL:         SiteURL(req.TenantID, s.baseDomain),
		FileCount:   count,
		PublishedAt: time.Now().UTC(),
	}, nil
}

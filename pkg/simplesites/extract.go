package simplesites

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// extract reads the tenant's staged archive and fans its entries out to
// durable storage under the tenant prefix. The size check and the full
// staging read happen before any entry write begins.
func (s *service) extract(ctx context.Context, tenantID uuid.UUID, stagingKey string) (int, error) {
	meta, err := s.store.Head(ctx, stagingKey)
	if err != nil {
		return 0, err
	}
	if meta.Size > s.maxArchiveBytes {
		return 0, fmt.Errorf("staged archive is %d bytes, limit %d: %w", meta.Size, s.maxArchiveBytes, ErrArchiveTooLarge)
	}

	rc, err := s.store.Download(ctx, stagingKey)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	// Re-check against the bytes actually read; the object could have been
	// replaced between the head call and the fetch.
	data, err := io.ReadAll(io.LimitReader(rc, s.maxArchiveBytes+1))
	if err != nil {
		return 0, fmt.Errorf("read staged archive: %w", err)
	}
	if int64(len(data)) > s.maxArchiveBytes {
		return 0, fmt.Errorf("staged archive exceeds %d bytes: %w", s.maxArchiveBytes, ErrArchiveTooLarge)
	}

	arc, err := s.openArchive(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	files := make([]string, 0, len(arc.Entries()))
	for _, entry := range arc.Entries() {
		if entry.IsDir {
			continue
		}
		if err := validateEntryPath(entry.Path); err != nil {
			return 0, err
		}
		files = append(files, entry.Path)
	}

	if err := s.writeEntries(ctx, tenantID, arc, files); err != nil {
		return 0, err
	}
	return len(files), nil
}

// writeEntries streams each entry to its published key with a fixed
// fan-out factor. Ordering between entries is not guaranteed; each entry
// writes a disjoint key.
func (s *service) writeEntries(ctx context.Context, tenantID uuid.UUID, arc Archive, files []string) error {
	errs := make(chan error, len(files))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for _, name := range files {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := s.writeEntry(ctx, tenantID, arc, name); err != nil {
				errs <- err
			}
		}(name)
	}

	wg.Wait()
	close(errs)

	// Any entry failure fails the whole publish. Objects written by the
	// other workers stay in place; there is no rollback.
	if err := <-errs; err != nil {
		return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return nil
}

func (s *service) writeEntry(ctx context.Context, tenantID uuid.UUID, arc Archive, name string) error {
	rc, err := arc.Open(name)
	if err != nil {
		return fmt.Errorf("open entry %s: %w", name, err)
	}
	defer rc.Close()

	return s.store.Upload(ctx, rc, UploadParams{
		ObjectKey: PublishedKey(tenantID, name),
		MimeType:  contentTypeFor(name),
	})
}

// validateEntryPath rejects entry paths that could resolve outside the
// tenant namespace.
func validateEntryPath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidEntryPath, p)
	}
	if strings.ContainsAny(p, "\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidEntryPath, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidEntryPath, p)
		}
	}
	return nil
}

// contentTypeFor infers a content type from the path's extension,
// falling back to a generic binary type.
func contentTypeFor(p string) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

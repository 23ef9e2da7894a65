package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-sites/pkg/simplesites"
	"github.com/tendant/simple-sites/pkg/simplesites/storage/memory"
)

func TestUploadDownload(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	err := backend.Upload(ctx, strings.NewReader("hello"), simplesites.UploadParams{
		ObjectKey: "t1/index.html",
		MimeType:  "text/html",
	})
	require.NoError(t, err)

	rc, err := backend.Download(ctx, "t1/index.html")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDownloadMissing(t *testing.T) {
	backend := memory.New()

	_, err := backend.Download(context.Background(), "missing")
	assert.ErrorIs(t, err, simplesites.ErrStagedArchiveNotFound)
}

func TestHead(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	backend.Put("staging/abc.zip", "application/zip", []byte("12345"))

	meta, err := backend.Head(ctx, "staging/abc.zip")
	require.NoError(t, err)
	assert.Equal(t, "staging/abc.zip", meta.Key)
	assert.Equal(t, int64(5), meta.Size)
	assert.Equal(t, "application/zip", meta.ContentType)

	_, err = backend.Head(ctx, "missing")
	assert.ErrorIs(t, err, simplesites.ErrStagedArchiveNotFound)
}

func TestDelete(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	backend.Put("key", "text/plain", []byte("x"))
	require.NoError(t, backend.Delete(ctx, "key"))

	_, ok := backend.Get("key")
	assert.False(t, ok)

	err := backend.Delete(ctx, "key")
	assert.ErrorIs(t, err, simplesites.ErrStagedArchiveNotFound)
}

func TestPresignUpload(t *testing.T) {
	backend := memory.New()

	url, err := backend.PresignUpload(context.Background(), "staging/abc.zip", "application/zip", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "memory://staging/abc.zip")
	assert.Contains(t, url, "content-type=application/zip")
}

func TestDefaultMimeType(t *testing.T) {
	backend := memory.New()

	err := backend.Upload(context.Background(), strings.NewReader("x"), simplesites.UploadParams{
		ObjectKey: "blob",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", backend.ContentType("blob"))
}

package simplesites

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// zipArchive adapts a zip central directory to the Archive interface.
// Entry streams decompress lazily on Open, so the archive content is
// never held uncompressed in memory all at once.
type zipArchive struct {
	entries []ArchiveEntry
	files   map[string]*zip.File
}

// OpenZipArchive parses raw zip bytes into an Archive. It only reads the
// central directory; entry data stays compressed until opened.
func OpenZipArchive(data []byte) (Archive, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	a := &zipArchive{
		entries: make([]ArchiveEntry, 0, len(r.File)),
		files:   make(map[string]*zip.File, len(r.File)),
	}
	for _, f := range r.File {
		isDir := strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()
		a.entries = append(a.entries, ArchiveEntry{Path: f.Name, IsDir: isDir})
		if !isDir {
			a.files[f.Name] = f
		}
	}
	return a, nil
}

func (a *zipArchive) Entries() []ArchiveEntry {
	return a.entries
}

func (a *zipArchive) Open(path string) (io.ReadCloser, error) {
	f, ok := a.files[path]
	if !ok {
		return nil, fmt.Errorf("no such archive entry: %s", path)
	}
	return f.Open()
}

package simplesites

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEntryPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "index.html", false},
		{"nested file", "css/style.css", false},
		{"deeply nested", "a/b/c/d.txt", false},
		{"dotfile", ".well-known/security.txt", false},
		{"empty path", "", true},
		{"absolute path", "/etc/passwd", true},
		{"parent traversal", "../evil.html", true},
		{"embedded traversal", "a/../../evil.html", true},
		{"current dir segment", "./index.html", true},
		{"empty segment", "a//b.txt", true},
		{"backslash", "a\\b.txt", true},
		{"nul byte", "a\x00b.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEntryPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEntryPath)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"index.html", "text/html; charset=utf-8"},
		{"css/style.css", "text/css; charset=utf-8"},
		{"img/logo.png", "image/png"},
		{"data.json", "application/json"},
		{"binary.foo", "application/octet-stream"},
		{"README", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, contentTypeFor(tt.path))
		})
	}
}

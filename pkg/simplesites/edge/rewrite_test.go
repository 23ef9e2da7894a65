package edge_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-sites/pkg/simplesites/edge"
)

func TestRewrite(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		path     string
		expected string
		ok       bool
	}{
		{
			name:     "root path maps to index document",
			host:     "abc123.example.com",
			path:     "/",
			expected: "/abc123/index.html",
			ok:       true,
		},
		{
			name:     "trailing slash appends index document",
			host:     "abc123.example.com",
			path:     "/notes/",
			expected: "/abc123/notes/index.html",
			ok:       true,
		},
		{
			name:     "file path is prefixed unchanged",
			host:     "abc123.example.com",
			path:     "/app.js",
			expected: "/abc123/app.js",
			ok:       true,
		},
		{
			name:     "empty path maps to index document",
			host:     "abc123.example.com",
			path:     "",
			expected: "/abc123/index.html",
			ok:       true,
		},
		{
			name:     "missing leading slash is normalized",
			host:     "abc123.example.com",
			path:     "css/style.css",
			expected: "/abc123/css/style.css",
			ok:       true,
		},
		{
			name:     "nested file path",
			host:     "t1.sites.example.com",
			path:     "/docs/guide/intro.html",
			expected: "/t1/docs/guide/intro.html",
			ok:       true,
		},
		{
			name: "host without dot passes through",
			host: "localhost",
			path: "/app.js",
			ok:   false,
		},
		{
			name: "host without dot with port passes through",
			host: "localhost:8080",
			path: "/",
			ok:   false,
		},
		{
			name: "empty tenant label passes through",
			host: ".example.com",
			path: "/",
			ok:   false,
		},
		{
			name:     "port is ignored for tenant extraction",
			host:     "abc123.example.com:8443",
			path:     "/",
			expected: "/abc123/index.html",
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rewritten, ok := edge.Rewrite(tt.host, tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, rewritten)
			}
		})
	}
}

func TestRewriteIsDeterministic(t *testing.T) {
	first, ok1 := edge.Rewrite("t1.example.com", "/notes/")
	second, ok2 := edge.Rewrite("t1.example.com", "/notes/")

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestMiddleware(t *testing.T) {
	var gotPath string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	handler := edge.Middleware(next)

	t.Run("rewrites tenant host", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/css/style.css", nil)
		req.Host = "t1.example.com"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/t1/css/style.css", gotPath)
	})

	t.Run("passes through host without tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/css/style.css", nil)
		req.Host = "localhost"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/css/style.css", gotPath)
	})
}

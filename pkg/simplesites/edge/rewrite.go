// Package edge implements the per-request rewrite rule that maps a
// tenant subdomain plus request path to the tenant's object key prefix.
// It is pure and stateless so it can run at the content-delivery edge on
// every request, cached or not.
package edge

import (
	"net/http"
	"strings"
)

const indexDocument = "index.html"

// Rewrite maps a request's host and path to the tenant-prefixed object
// path. The leftmost host label up to the first dot is the tenant. If the
// host has no dot, or the tenant label is empty, ok is false and the
// request should pass through unmodified.
func Rewrite(host, path string) (rewritten string, ok bool) {
	tenant, ok := tenantLabel(host)
	if !ok {
		return path, false
	}
	return "/" + tenant + normalizePath(path), true
}

// tenantLabel extracts the tenant subdomain label from a host, ignoring
// any port.
func tenantLabel(host string) (string, bool) {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	i := strings.IndexByte(host, '.')
	if i <= 0 {
		return "", false
	}
	return host[:i], true
}

// normalizePath ensures a leading slash and substitutes the index
// document for bare and trailing-slash paths.
func normalizePath(path string) string {
	if path == "" {
		return "/" + indexDocument
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if strings.HasSuffix(path, "/") {
		return path + indexDocument
	}
	return path
}

// Middleware applies the rewrite to incoming requests so any file server
// keyed by {tenant}/{path} can sit behind it. Requests whose host has no
// tenant label pass through untouched.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rewritten, ok := Rewrite(r.Host, r.URL.Path); ok {
			r.URL.Path = rewritten
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}

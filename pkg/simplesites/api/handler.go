package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-sites/pkg/simplesites"
)

// SitesHandler handles site upload and publish API endpoints
type SitesHandler struct {
	service simplesites.Service
	secret  string
}

// NewSitesHandler creates a new sites handler guarded by the shared
// secret
func NewSitesHandler(service simplesites.Service, secret string) *SitesHandler {
	return &SitesHandler{
		service: service,
		secret:  secret,
	}
}

// Routes returns the router for sites endpoints
func (h *SitesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequireAPIKey(h.secret))
	r.Post("/", h.AuthorizeUpload)
	r.Post("/{tenantID}/publish", h.Publish)
	return r
}

// AuthorizeUploadRequest is the request body for authorizing an upload.
// The body is optional; an empty body defaults to application/zip.
type AuthorizeUploadRequest struct {
	ContentType string `json:"content_type,omitempty"`
}

// AuthorizeUploadResponse is the response body for a granted upload
type AuthorizeUploadResponse struct {
	TenantID    string    `json:"tenant_id"`
	UploadURL   string    `json:"upload_url"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	PublishPath string    `json:"publish_path"`
}

// PublishResponse is the response body for a published site
type PublishResponse struct {
	URL string `json:"url"`
}

// ErrorResponse is the error body for all failures
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthorizeUpload mints a tenant and returns a presigned upload URL for
// its staging key
func (h *SitesHandler) AuthorizeUpload(w http.ResponseWriter, r *http.Request) {
	var req AuthorizeUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Failed to decode request", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "malformed request body"})
		return
	}

	grant, err := h.service.AuthorizeUpload(r.Context(), simplesites.AuthorizeUploadRequest{
		ContentType: req.ContentType,
	})
	if err != nil {
		slog.Error("Failed to authorize upload", "error", err)
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, AuthorizeUploadResponse{
		TenantID:    grant.TenantID.String(),
		UploadURL:   grant.UploadURL,
		ContentType: grant.ContentType,
		ExpiresAt:   grant.ExpiresAt,
		PublishPath: grant.PublishPath,
	})
}

// Publish extracts the tenant's staged archive and returns the site URL
func (h *SitesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		slog.Error("Invalid tenant ID", "tenant_id", chi.URLParam(r, "tenantID"), "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid tenant ID"})
		return
	}

	site, err := h.service.Publish(r.Context(), simplesites.PublishRequest{TenantID: tenantID})
	if err != nil {
		slog.Error("Failed to publish site", "tenant_id", tenantID, "error", err)
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, PublishResponse{URL: site.URL})
}

// writeError maps service errors to status codes with safe messages.
// Internal detail never reaches the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, simplesites.ErrArchiveTooLarge):
		render.Status(r, http.StatusRequestEntityTooLarge)
		render.JSON(w, r, ErrorResponse{Error: "archive exceeds maximum size"})
	case errors.Is(err, simplesites.ErrStagedArchiveNotFound):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "no staged archive for tenant"})
	case errors.Is(err, simplesites.ErrInvalidEntryPath):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "archive contains an invalid entry path"})
	case errors.Is(err, simplesites.ErrInvalidArchive):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "staged object is not a valid archive"})
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "internal error"})
	}
}

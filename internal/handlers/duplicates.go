package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"song-deduper/internal/contextutil"
	"song-deduper/internal/dedup"
	"song-deduper/internal/report"
	"song-deduper/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GroupResponse is one duplicate group with its similarity rows. Paths in
// rows are relative to the library root.
type GroupResponse struct {
	Key  any                   `json:"key"`
	Rows []dedup.SimilarityRow `json:"rows"`
}

// DuplicatesResponse represents the HTTP response payload for a duplicate report.
type DuplicatesResponse struct {
	Root    string          `json:"root"`
	Entries int             `json:"entries"`
	Groups  []GroupResponse `json:"groups"`
}

// MissingResponse represents the HTTP response payload for a collection diff.
type MissingResponse struct {
	Reference string         `json:"reference"`
	Local     string         `json:"local"`
	Missing   []dedup.TagKey `json:"missing"`
}

// LibraryHandler serves read-only reports over a loaded record store.
type LibraryHandler struct {
	library  service.LibraryService
	renderer *report.Renderer
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(library service.LibraryService) *LibraryHandler {
	return &LibraryHandler{
		library:  library,
		renderer: report.NewRenderer(),
	}
}

// HashDuplicates handles GET /api/duplicates/hash.
func (h *LibraryHandler) HashDuplicates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary := h.library.Summary(ctx)
	reports := h.library.HashDuplicates(ctx)

	groups := make([]GroupResponse, len(reports))
	for i, rep := range reports {
		groups[i] = GroupResponse{Key: rep.Key, Rows: relativeRows(summary.Root, rep.Rows)}
	}
	h.writeJSON(ctx, w, DuplicatesResponse{Root: summary.Root, Entries: summary.Entries, Groups: groups})
}

// TagDuplicates handles GET /api/duplicates/tags.
func (h *LibraryHandler) TagDuplicates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary := h.library.Summary(ctx)
	reports := h.library.TagDuplicates(ctx)

	groups := make([]GroupResponse, len(reports))
	for i, rep := range reports {
		groups[i] = GroupResponse{Key: rep.Key, Rows: relativeRows(summary.Root, rep.Rows)}
	}
	h.writeJSON(ctx, w, DuplicatesResponse{Root: summary.Root, Entries: summary.Entries, Groups: groups})
}

// Missing handles GET /api/missing?reference=PREFIX.
func (h *LibraryHandler) Missing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reference := r.URL.Query().Get("reference")

	missing, err := h.library.Missing(ctx, reference)
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to compare collections")
		return
	}
	if missing == nil {
		missing = []dedup.TagKey{}
	}
	h.writeJSON(ctx, w, MissingResponse{
		Reference: reference,
		Local:     h.library.Summary(ctx).Prefix,
		Missing:   missing,
	})
}

// Page handles GET / with the full duplicate report as HTML.
func (h *LibraryHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var buf bytes.Buffer
	if err := h.renderer.HTML(&buf, h.library.Document(ctx)); err != nil {
		logger.ErrorContext(ctx, "failed to render report", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func relativeRows(root string, rows []dedup.SimilarityRow) []dedup.SimilarityRow {
	out := make([]dedup.SimilarityRow, len(rows))
	for i, row := range rows {
		out[i] = dedup.SimilarityRow{Path: report.Rel(root, row.Path), Scores: row.Scores}
	}
	return out
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func (h *LibraryHandler) handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.WarnContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Reference collection not found")
		return
	}

	if errors.Is(err, service.ErrCorrupt) {
		h.writeError(w, http.StatusUnprocessableEntity, "Reference collection is corrupt")
		return
	}

	h.writeError(w, http.StatusInternalServerError, defaultMsg)
}

func (h *LibraryHandler) writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *LibraryHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

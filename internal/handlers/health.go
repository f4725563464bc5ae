package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"song-deduper/internal/contextutil"
	"song-deduper/internal/storage"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	blobs              storage.Store
	recordsKey         string
	fingerprinterReady func() bool
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. fingerprinterReady may be nil
// when fingerprinting is not needed by the serving process.
func NewHealthHandler(blobs storage.Store, recordsKey string, fingerprinterReady func() bool) *HealthHandler {
	return &HealthHandler{
		blobs:              blobs,
		recordsKey:         recordsKey,
		fingerprinterReady: fingerprinterReady,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 OK if healthy or degraded, 503 Service Unavailable if the
// cache backend cannot be reached.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string
	unhealthy := false

	switch exists, err := h.checkStore(checkCtx, logger); {
	case err == nil && exists:
		checks["record_store"] = "ok"
	case err == nil:
		// The in-memory store still serves; the persisted copy was removed.
		checks["record_store"] = "missing"
		issues = append(issues, "record_store_not_persisted")
	default:
		checks["record_store"] = "error"
		issues = append(issues, "cache_backend_unavailable")
		unhealthy = true
	}

	if h.fingerprinterReady != nil {
		if h.fingerprinterReady() {
			checks["fingerprinter"] = "ok"
		} else {
			checks["fingerprinter"] = "unavailable"
			issues = append(issues, "fpcalc_not_found")
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	switch {
	case unhealthy:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case len(issues) > 0:
		status = "degraded"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

// checkStore checks that the cache backend answers for the records key
// without transferring the blob.
func (h *HealthHandler) checkStore(ctx context.Context, logger *slog.Logger) (bool, error) {
	exists, err := h.blobs.Exists(ctx, h.recordsKey)
	if err != nil {
		logger.WarnContext(ctx, "cache backend health check failed", "error", err)
	}
	return exists, err
}

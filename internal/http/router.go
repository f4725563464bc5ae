package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"song-deduper/internal/handlers"
	"song-deduper/internal/service"
	"song-deduper/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Library            service.LibraryService
	Blobs              storage.Store
	RecordsKey         string
	FingerprinterReady func() bool
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	libraryHandler := handlers.NewLibraryHandler(deps.Library)
	healthHandler := handlers.NewHealthHandler(deps.Blobs, deps.RecordsKey, deps.FingerprinterReady)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Get("/duplicates/hash", libraryHandler.HashDuplicates)
		r.Get("/duplicates/tags", libraryHandler.TagDuplicates)
		r.Get("/missing", libraryHandler.Missing)
	})

	r.Get("/", libraryHandler.Page)

	return r
}

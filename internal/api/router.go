package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// NewRouter creates a Chi router with all routes configured, backed by the
// given key-type registry.
func NewRouter(reg *registry.Registry, version string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(requestID)
	r.Use(logger)
	r.Use(recoverer)

	// Health endpoints
	healthHandler := NewHealthHandler(version)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	keyHandler := NewKeyHandler(NewKeyService(reg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/keys", func(r chi.Router) {
			r.Post("/generate", keyHandler.Generate)
			r.Get("/", keyHandler.List)
			r.Get("/{id}/public", keyHandler.Public)
		})
	})

	return r
}

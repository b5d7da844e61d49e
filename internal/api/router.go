package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// Structure endpoints
			r.Route("/structure", func(r chi.Router) {
				r.Get("/", s.handleGetStructure)
				r.Post("/reload", s.handleReloadStructure)
			})
			r.Get("/hierarchy/{entityID}", s.handleGetHierarchy)

			// Preview endpoints
			r.Get("/previews", s.handlePreviewAll)

			// Area endpoints
			r.Route("/areas", func(r chi.Router) {
				r.Get("/", s.handleListAreas)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/devices", s.handleListAreaDevices)
					r.Get("/preview", s.handlePreviewArea)
					r.Post("/rename", s.handleRenameArea)
				})
			})

			// Device endpoints
			r.Route("/devices", func(r chi.Router) {
				r.Get("/", s.handleListDevices)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/preview", s.handlePreviewDevice)
					r.Post("/rename", s.handleRenameDevice)
				})
			})

			// Entity endpoints. Rename addresses the entity by its
			// immutable registry ID; enable and delete by the current
			// entity ID, matching the upstream registry calls.
			r.Route("/entities", func(r chi.Router) {
				r.Get("/", s.handleListEntities)
				r.Post("/{id}/rename", s.handleRenameEntity)
				r.Post("/{id}/enable", s.handleEnableEntity)
				r.Delete("/{id}", s.handleDeleteEntity)
			})

			// Reference endpoints
			r.Route("/references", func(r chi.Router) {
				r.Get("/broken", s.handleBrokenReferences)
				r.Post("/scan", s.handleScanReferences)
				r.Get("/suggestions", s.handleSuggestions)
				r.Post("/fix", s.handleFixReference)
			})

			// Type mapping endpoints
			r.Route("/type-mappings", func(r chi.Router) {
				r.Get("/", s.handleListTypeMappings)
				r.Put("/{key}", s.handleSetTypeMapping)
				r.Delete("/{key}", s.handleDeleteTypeMapping)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

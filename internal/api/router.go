package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
//
// Device identifiers contain slashes (location/kind/instance), so the
// per-device routes use a trailing wildcard rather than a single path
// parameter.
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
		r.Get("/health", s.handleHealth)

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Get("/stats", s.handleStats)
			r.Get("/*", s.handleGetDevice)
			r.Patch("/*", s.handleUpdateDevice)
		})

		r.Get("/stats", s.handleStats)
		r.Get("/rooms", s.handleListRooms)

		r.Route("/telemetry", func(r chi.Router) {
			r.Post("/", s.handleIngestTelemetry)
			r.Get("/*", s.handleGetTelemetry)
		})
	})

	// WebSocket endpoint (path from config, default /ws)
	r.Get(s.wsCfg.Path, s.handleWebSocket)

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"devices": s.registry.Count(),
		"clients": s.hub.ClientCount(),
	})
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plantpulse/plantpulse-core/internal/dashboard"
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

	// Dashboard UI (embedded via go:embed)
	r.Handle("/dashboard/*", http.StripPrefix("/dashboard", dashboard.Handler()))
	r.Handle("/dashboard", http.RedirectHandler("/dashboard/", http.StatusMovedPermanently))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard/", http.StatusFound)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", s.handleHealth)

		// System metrics
		r.Get("/metrics", s.handleMetrics)

		// Dashboard snapshot
		r.Route("/snapshot", func(r chi.Router) {
			r.Get("/", s.handleGetSnapshot)
			r.Get("/summary", s.handleGetSummaries)
			r.Get("/anomalies", s.handleGetAnomalies)
			r.Get("/predictions", s.handleGetPredictions)
			r.Post("/refresh", s.handleRefreshSnapshot)
		})

		// WebSocket for live snapshot updates
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	storeConnected := s.store != nil && s.store.IsConnected()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"version":         s.version,
		"store_connected": storeConnected,
	})
}

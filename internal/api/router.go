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

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, HTTPError{Kind: KindNotFound, Message: msgRouteNotFound})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorEnvelope{
			StatusCode: http.StatusMethodNotAllowed,
			Message:    msgMethodNotAllow,
			Timestamp:  nowTimestamp(),
			Path:       r.URL.Path,
		})
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)

		r.Get("/", s.handleRoot)
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)
		r.Post("/auth/login", s.handleLogin)

		// WebSocket (auth via ticket, validated in handler)
		r.Get("/ws", s.handleWebSocket)
	})

	// Protected routes. Authentication runs first so a caller without a
	// valid token always sees 401, never 429.
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.rateLimitMiddleware)

		r.Post("/auth/ws-ticket", s.handleWSTicket)

		r.Route("/casos", func(r chi.Router) {
			r.Get("/", s.handleListCasos)
			r.Post("/", s.handleCreateCaso)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetCaso)
				r.Put("/", s.handleUpdateCaso)
				r.Delete("/", s.handleDeleteCaso)
			})
		})
	})

	return r
}

// handleRoot answers the banner request the frontend uses as a liveness probe.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Backend casos API funcionando",
	})
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

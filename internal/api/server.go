// Package api exposes the submission and polling HTTP surface.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maiconbalke/MVP-Review-Tools/internal/config"
	"github.com/maiconbalke/MVP-Review-Tools/internal/queue"
)

type Server struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

func NewServer(store *queue.Store, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, cfg: cfg, logger: logger}
}

// Router wires all endpoints.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/analyze/upload", s.handleUpload)
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{jobID}/status", s.handleStatus)
	r.Get("/jobs/{jobID}", s.handleResult)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// apiError renders a machine-readable error body.
func apiError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": code, "message": message})
}

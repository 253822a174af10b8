package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"visareq/adapters/excel"
	"visareq/app"
	"visareq/ports"
)

// Server is the JSON API over the pipeline and its run store.
type Server struct {
	router   *chi.Mux
	pipeline *app.Pipeline
	repo     ports.RunRepository
	exporter *excel.Exporter
	export   ExportConfig
}

// ExportConfig holds spreadsheet export settings for the API.
type ExportConfig struct {
	Dir string
}

// NewServer wires the API routes.
func NewServer(pipeline *app.Pipeline, repo ports.RunRepository, exporter *excel.Exporter, export ExportConfig) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		pipeline: pipeline,
		repo:     repo,
		exporter: exporter,
		export:   export,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/runs", s.handleCreateRun)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/report", s.handleGetReport)
		r.Get("/runs/{id}/spec", s.handleGetSpec)
		r.Get("/runs/{id}/summary", s.handleGetSummary)
		r.Post("/runs/{id}/export", s.handleExportRun)
		r.Get("/stats", s.handleStats)
	})
}

// Handler returns the http.Handler for mounting.
func (s *Server) Handler() http.Handler {
	return s.router
}

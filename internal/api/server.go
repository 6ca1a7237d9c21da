package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"statkit/internal"
	"statkit/internal/config"
	"statkit/ports"
)

// Server represents the HTTP API application
type Server struct {
	router *chi.Mux
	config *config.Config
	repo   ports.ReportRepository
	logger *internal.Logger
}

// NewServer creates a new API server backed by the given report repository
func NewServer(cfg *config.Config, repo ports.ReportRepository, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		repo:   repo,
		logger: logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/tests/run", s.handleRunTest)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
	})
}

// Router exposes the configured handler for mounting and tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server on the configured port
func (s *Server) Start() error {
	addr := ":" + s.config.Server.Port
	s.logger.Info("api listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

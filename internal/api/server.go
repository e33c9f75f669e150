package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/orgview/internal/config"
	"github.com/dgallion1/orgview/internal/org"
	"github.com/dgallion1/orgview/internal/pipeline"
	"github.com/dgallion1/orgview/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for orgview.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config

	options org.Options          // server-wide document option defaults
	export  render.ExportOptions // server-wide render defaults
}

// NewServer creates and configures the HTTP server. cfg must have passed
// Validate.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	opts, err := cfg.ParseOptions()
	if err != nil {
		log.Warn("ignoring ORG_OPTIONS", "error", err)
		opts = org.DefaultOptions()
	}
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
		options:      opts,
		export:       cfg.ExportOptions(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/render", s.handleRender)
		r.Post("/api/outline", s.handleOutline)

		r.Post("/api/jobs", s.handleSubmitJobs)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/result", s.handleJobResult)

		r.Get("/api/stats/render", s.handleRenderStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

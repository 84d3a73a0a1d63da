package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/bloomgen/internal/auth"
	"github.com/dgallion1/bloomgen/internal/config"
	"github.com/dgallion1/bloomgen/internal/export"
	"github.com/dgallion1/bloomgen/internal/llm"
	"github.com/dgallion1/bloomgen/internal/logger"
	"github.com/dgallion1/bloomgen/internal/parser"
	"github.com/dgallion1/bloomgen/internal/pipeline"
	"github.com/dgallion1/bloomgen/internal/session"
)

// Deps are the collaborators the server needs.
type Deps struct {
	Pipeline      *pipeline.Pipeline
	Extractor     *parser.Extractor
	Authenticator auth.Authenticator
	Tokens        *auth.TokenIssuer
	Sessions      session.Store
	Exporter      *export.Exporter
	DOCXTemplate  []byte
	Stats         *llm.Stats
	Model         string
}

// Server is the HTTP API server for bloomgen.
type Server struct {
	router chi.Router
	deps   Deps
	log    *logger.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *logger.Logger, cfg config.Config) *Server {
	if deps.Extractor == nil {
		deps.Extractor = &parser.Extractor{}
	}
	s := &Server{
		deps: deps,
		log:  log,
		cfg:  cfg,
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
	r.Post("/api/login", s.handleLogin)
	r.Get("/api/kinds", s.handleKinds)

	// Session endpoints.
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(s.deps.Tokens, s.deps.Sessions, s.log))

		r.Post("/api/logout", s.handleLogout)
		r.Get("/api/result", s.handleGetResult)
		r.Delete("/api/result", s.handleResetResult)
		r.Get("/api/result/export", s.handleExport)
		r.Post("/api/classify", s.handleClassify)

		r.With(RequirePermission(auth.Role.CanGenerate)).Post("/api/generate", s.handleGenerate)
		r.With(RequirePermission(auth.Role.CanViewStats)).Get("/api/admin/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

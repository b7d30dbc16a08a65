package server

import (
	"net/http"

	"github.com/drywaters/learncards/internal/config"
	"github.com/drywaters/learncards/internal/handler"
	"github.com/drywaters/learncards/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Server represents the HTTP server
type Server struct {
	cfg       *config.Config
	extractor handler.ContentExtractor
	generator handler.CardGenerator
}

// New creates a new Server
func New(cfg *config.Config, ext handler.ContentExtractor, gen handler.CardGenerator) *Server {
	return &Server{
		cfg:       cfg,
		extractor: ext,
		generator: gen,
	}
}

// Router returns the configured chi router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RealIP)
	r.Use(middleware.Trace)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(s.cfg.CORSAllowedOrigin))

	r.Get("/", handler.Root)
	r.Get("/health", handler.Health)

	processHandler := handler.NewProcessHandler(s.extractor, s.generator)
	r.Post("/api/process", processHandler.Process)

	return r
}

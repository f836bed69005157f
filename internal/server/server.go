// Package server exposes the flowsheet engine over HTTP.
//
// # Routes
//
//	GET    /health                     build information
//	GET    /api/materials              built-in material presets
//	POST   /api/solve                  solve a definition
//	POST   /api/validate               validate a definition
//	POST   /api/export                 convert a definition to TOML or JSON
//	POST   /api/flowsheets             store a definition
//	GET    /api/flowsheets             list stored definitions
//	GET    /api/flowsheets/{id}        fetch a stored definition
//	DELETE /api/flowsheets/{id}        delete a stored definition
//	POST   /api/flowsheets/{id}/solve  solve a stored definition
//	GET    /api/flowsheets/{id}/diagram/{format}
//	                                   draw a stored definition (svg, png, pdf, dot)
//
// Request and response bodies are JSON. Errors carry the engine's error
// code and are mapped to HTTP status codes by [StatusCode].
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/flowsheet/pkg/pipeline"
	"github.com/matzehuels/flowsheet/pkg/store"
)

// Defaults for [Config].
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxBodyBytes   = 1 << 20
)

// Config configures a Server.
type Config struct {
	Addr           string
	Runner         *pipeline.Runner
	Store          store.Store
	Logger         *log.Logger
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	validate *validator.Validate
}

// New creates a server. A nil Runner gets an uncached runner, a nil Store an
// in-memory store.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	return &Server{
		cfg:      cfg,
		runner:   cfg.Runner,
		store:    cfg.Store,
		logger:   cfg.Logger,
		validate: validator.New(),
	}
}

// Handler returns the router with all middleware and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/materials", s.materials)
		r.Post("/solve", s.solve)
		r.Post("/validate", s.validateDefinition)
		r.Post("/export", s.export)

		r.Route("/flowsheets", func(r chi.Router) {
			r.Post("/", s.saveFlowsheet)
			r.Get("/", s.listFlowsheets)
			r.Get("/{id}", s.getFlowsheet)
			r.Delete("/{id}", s.deleteFlowsheet)
			r.Post("/{id}/solve", s.solveFlowsheet)
			r.Get("/{id}/diagram/{format}", s.diagram)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

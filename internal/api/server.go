// Package api serves bubblepack layouts over HTTP.
//
// Stateless endpoints compute one-shot layouts through the pipeline runner
// (and its cache). Session endpoints keep a live engine per client so an
// interactive front end can switch modes, scroll and edit the radius range
// while the server keeps the layout packed.
//
// # Routes
//
//	GET    /healthz
//	GET    /version
//	POST   /v1/layout
//	POST   /v1/tune
//	POST   /v1/sessions
//	GET    /v1/sessions/{id}
//	DELETE /v1/sessions/{id}
//	POST   /v1/sessions/{id}/group
//	POST   /v1/sessions/{id}/cluster
//	POST   /v1/sessions/{id}/converge
//	POST   /v1/sessions/{id}/finish
//	POST   /v1/sessions/{id}/relayout
//	POST   /v1/sessions/{id}/viewport
//	POST   /v1/sessions/{id}/range
//	POST   /v1/sessions/{id}/columns
//	POST   /v1/sessions/{id}/groups
//	POST   /v1/sessions/{id}/count
package api

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bubblepack/pkg/config"
	"github.com/matzehuels/bubblepack/pkg/pipeline"
	"github.com/matzehuels/bubblepack/pkg/session"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP API.
type Server struct {
	layout config.LayoutConfig
	srv    config.ServerConfig
	runner *pipeline.Runner
	store  session.Store
	logger *log.Logger
	router chi.Router

	// baseCtx bounds background work such as converge fallbacks.
	baseCtx context.Context
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the server's logger. Servers log nothing by default.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithStore replaces the default in-memory session store.
func WithStore(st session.Store) Option { return func(s *Server) { s.store = st } }

// WithBaseContext sets the context background goroutines run under.
func WithBaseContext(ctx context.Context) Option { return func(s *Server) { s.baseCtx = ctx } }

// New creates a server. A nil runner computes layouts without a cache.
func New(cfg config.Config, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		layout:  cfg.Layout,
		srv:     cfg.Server,
		runner:  runner,
		baseCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = session.NewMemoryStore(s.srv.SessionTTL.Duration)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/tune", s.handleTune)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleGetSession))
			r.Delete("/", s.handleDeleteSession)
			r.Post("/group", s.withSession(s.handleGroup))
			r.Post("/cluster", s.withSession(s.handleCluster))
			r.Post("/converge", s.withSession(s.handleConverge))
			r.Post("/finish", s.withSession(s.handleFinish))
			r.Post("/relayout", s.withSession(s.handleRelayout))
			r.Post("/viewport", s.withSession(s.handleViewport))
			r.Post("/range", s.withSession(s.handleRange))
			r.Post("/columns", s.withSession(s.handleColumns))
			r.Post("/groups", s.withSession(s.handleGroups))
			r.Post("/count", s.withSession(s.handleCount))
		})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully. Expired sessions are swept in the background.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.baseCtx = ctx
	httpSrv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.srv.ReadTimeout.Duration,
		WriteTimeout: s.srv.WriteTimeout.Duration,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	if c, ok := s.store.(session.Cleaner); ok {
		go session.RunCleanup(ctx, c, session.DefaultCleanupInterval, func(n int, err error) {
			if err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
				return
			}
			s.logger.Debug("expired sessions removed", "count", n)
		})
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

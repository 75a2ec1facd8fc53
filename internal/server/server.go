// Package server exposes game sessions over HTTP and websockets for the
// browser quiz widget.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/galacticode/galacticode/internal/session"
)

// Server routes API requests to a session manager.
type Server struct {
	sessions  *session.Manager
	origins   []string
	logger    *slog.Logger
	reapEvery time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the origins allowed by CORS and the websocket
// handshake. "*" allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithLogger sets the logger for server events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithReapInterval sets how often Run reaps idle sessions. Zero disables it.
func WithReapInterval(d time.Duration) Option {
	return func(s *Server) { s.reapEvery = d }
}

// New creates a Server over sessions.
func New(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		origins:   []string{"*"},
		logger:    slog.Default(),
		reapEvery: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router with all middleware and routes installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(CORS(s.origins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.getCatalog)

		r.Post("/sessions", s.startSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.endSession)
			r.Post("/answers", s.submitAnswer)
			r.Post("/advance", s.advance)
		})
	})

	r.Get("/ws/sessions/{id}", s.serveWS)

	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully. Idle
// sessions are reaped in the background while it runs.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if s.reapEvery > 0 {
		go s.sessions.RunReaper(ctx, s.reapEvery)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

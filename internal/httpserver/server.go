// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpserver exposes the query compiler and the persistence
// store over an HTTP API, mirroring the surface the web client consumes.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/scholar-query/internal/device"
	"github.com/pdiddy/scholar-query/internal/logger"
	"github.com/pdiddy/scholar-query/internal/store"
	"github.com/pdiddy/scholar-query/pkg/types"
)

// Deps carries the collaborators handlers need.
type Deps struct {
	Store  *store.Store
	Owner  device.Identity
	Logger logger.Logger
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http   *http.Server
	logger logger.Logger
}

// New builds the HTTP server: router, middlewares, routes.
func New(cfg types.ServerConfig, d Deps) *Server {
	s := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           Router(d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{http: s, logger: d.Logger}
}

// Router builds the chi router with all routes registered. Exposed
// separately so tests can drive it through httptest.
func Router(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(d.Logger))

	r.Get("/healthz", handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/compile", handleCompile(d))

		r.Route("/searches", func(r chi.Router) {
			r.Get("/", handleListSearches(d))
			r.Post("/", handleCreateSearch(d))
			r.Delete("/", handleClearSearches(d))
			r.Get("/watch", handleWatchSearches(d))
			r.Delete("/{id}", handleDeleteSearch(d))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", handleListFavorites(d))
			r.Post("/", handleCreateFavorite(d))
			r.Delete("/{id}", handleDeleteFavorite(d))
		})
	})

	return r
}

// Start runs the HTTP server and blocks until error or shutdown.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", logger.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}

// accessLog logs one line per request.
func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", ww.Status()),
				logger.Duration("elapsed", time.Since(start)))
		})
	}
}

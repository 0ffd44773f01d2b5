// Package server hosts the cleaning pipeline over HTTP: upload a
// tabular file, get back the audit, then download the cleaned data,
// the markdown report, or a narrative story for a persisted run.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/preenlabs/preen/internal/logger"
	"github.com/preenlabs/preen/pkg/preen"
)

// Config holds server configuration.
type Config struct {
	// DBPath is the SQLite file for persisted runs; ":memory:" keeps
	// them for the process lifetime only.
	DBPath string

	// MaxUploadSize caps upload bodies in bytes. Defaults to 16 MiB.
	MaxUploadSize int64

	// Preen is the cleaning facade; nil gets a default instance.
	Preen *preen.Preen
}

// Server is the HTTP host for the cleaning pipeline.
type Server struct {
	store     *Store
	preen     *preen.Preen
	maxUpload int64
	router    chi.Router
}

// New creates a server with its run store opened and routes mounted.
func New(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = "preen.db"
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = 16 << 20
	}

	p := cfg.Preen
	if p == nil {
		var err error
		p, err = preen.New()
		if err != nil {
			return nil, err
		}
	}

	store, err := OpenStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:     store,
		preen:     p,
		maxUpload: cfg.MaxUploadSize,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/runs", func(r chi.Router) {
			r.Post("/", s.handleCreateRun)
			r.Get("/", s.handleListRuns)
			r.Route("/{runID}", func(r chi.Router) {
				r.Get("/", s.handleGetRun)
				r.Get("/data.csv", s.handleGetData)
				r.Get("/report.md", s.handleGetReport)
				r.Post("/story", s.handleCreateStory)
			})
		})
	})

	return r
}

// Handler returns the HTTP handler, for mounting and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the run store.
func (s *Server) Close() error {
	return s.store.Close()
}

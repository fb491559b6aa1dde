// Package server exposes start list conversion over HTTP.
//
// Routes:
//
//	POST /api/convert                        multipart upload, field "file", optional "marker"
//	GET  /api/runs                           recent runs, ?limit=n
//	GET  /api/runs/{id}                      run summary
//	DELETE /api/runs/{id}                    remove a run
//	GET  /api/runs/{id}/{dataset}.{format}   full or filtered dataset as csv, tsv, json or jsonl
//	GET  /healthz                            liveness
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/startlist"
	"github.com/tsawler/startlist/export"
	"github.com/tsawler/startlist/model"
	"github.com/tsawler/startlist/store"
)

// DefaultMaxUploadBytes bounds an uploaded document when Config leaves it
// unset.
const DefaultMaxUploadBytes = 32 << 20

// RunStore persists conversions.
type RunStore interface {
	Save(ctx context.Context, run store.Run) (store.Run, error)
	Get(ctx context.Context, id string) (store.Run, error)
	List(ctx context.Context, limit int) ([]store.Run, error)
	Dataset(ctx context.Context, id string, kind model.DatasetKind) (model.Dataset, error)
	FindByDigest(ctx context.Context, digest string) (store.Run, error)
	Delete(ctx context.Context, id string) error
}

// Config configures a Server.
type Config struct {
	Store  RunStore
	Logger *slog.Logger

	// MaxUploadBytes bounds the request body of an upload.
	MaxUploadBytes int64

	// Configure applies conversion settings to every upload's converter.
	Configure func(*startlist.Converter) *startlist.Converter

	// Export holds the column and caption settings for downloads. The
	// format comes from the URL.
	Export export.Options
}

// Server is the HTTP front end.
type Server struct {
	store     RunStore
	logger    *slog.Logger
	maxUpload int64
	configure func(*startlist.Converter) *startlist.Converter
	export    export.Options
	router    *chi.Mux
}

// New builds a server and its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}

	s := &Server{
		store:     cfg.Store,
		logger:    cfg.Logger,
		maxUpload: cfg.MaxUploadBytes,
		configure: cfg.Configure,
		export:    cfg.Export,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	if s.configure == nil {
		s.configure = func(c *startlist.Converter) *startlist.Converter { return c }
	}
	if s.export.Headers == (export.Headers{}) {
		s.export = export.DefaultOptions()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/convert", s.handleConvert)
	r.Route("/api/runs", func(r chi.Router) {
		r.Get("/", s.handleListRuns)
		r.Get("/{id}", s.handleGetRun)
		r.Delete("/{id}", s.handleDeleteRun)
		r.Get("/{id}/{dataset}.{format}", s.handleDataset)
	})

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

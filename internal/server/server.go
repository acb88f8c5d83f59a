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

	"github.com/thejatinbaghel/JobReady-AI/internal/config"
	"github.com/thejatinbaghel/JobReady-AI/internal/extract"
	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// Server is the HTTP proxy between browser clients and the model provider.
// The provider credential never leaves this process.
type Server struct {
	cfg       config.ServerConfig
	sessions  *Sessions
	extractor extract.TextExtractor
	logger    *slog.Logger
}

// New creates a server. extractor handles /api/extract uploads.
func New(cfg config.ServerConfig, sessions *Sessions, extractor extract.TextExtractor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:       cfg,
		sessions:  sessions,
		extractor: extractor,
		logger:    logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestID,
		middleware.RealIP,
		accessLog(s.logger),
		middleware.Recoverer,
		cors(s.cfg.AllowedOrigins),
	)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/tailor", s.handleTask(model.TaskTailor))
		r.Post("/enhance", s.handleTask(model.TaskEnhance))
		r.Post("/predict", s.handleTask(model.TaskPredict))
		r.Post("/cancel/{task}", s.handleCancel)
		r.Post("/extract", s.handleExtract)
		r.Post("/download", s.handleDownload)
		r.Get("/outcomes", s.handleOutcomes)
	})

	return r
}

// Run serves on the configured address until ctx is cancelled, then cancels
// in-flight requests and shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.cfg.Addr, "session_ttl", s.cfg.SessionTTL.String())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	s.sessions.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Package server is the HTTP boundary: routing, header config extraction,
// the error envelope, SSE streaming, and request middleware.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arlo-hs/lingopipe/internal/config"
	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
	"github.com/arlo-hs/lingopipe/internal/vibe"
)

// EasyService is the easy-mode surface consumed by the HTTP layer.
type EasyService interface {
	Translate(ctx context.Context, req domain.EasyRequest, cfg engine.Config) (domain.EasyResponse, error)
}

// SpecService is the spec-mode surface consumed by the HTTP layer.
type SpecService interface {
	Translate(ctx context.Context, req domain.SpecRequest, cfg engine.Config) (domain.SpecResponse, error)
}

// VibeService is the vibe-mode surface consumed by the HTTP layer.
type VibeService interface {
	Translate(ctx context.Context, req domain.VibeRequest, configs []engine.Config, judgeCfg *engine.Config) (domain.VibeResponse, error)
	TranslateStream(ctx context.Context, req domain.VibeRequest, configs []engine.Config, judgeCfg *engine.Config) <-chan domain.StreamEvent
}

var _ VibeService = (*vibe.Service)(nil)

// Server serves the translation API.
type Server struct {
	settings config.Settings
	logger   *zap.Logger

	easy     EasyService
	vibe     VibeService
	spec     SpecService
	registry *engine.Registry
}

// New assembles the server around the three mode services and the engine
// registry.
func New(settings config.Settings, logger *zap.Logger, easy EasyService, vibeSvc VibeService, spec SpecService, registry *engine.Registry) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		settings: settings,
		logger:   logger,
		easy:     easy,
		vibe:     vibeSvc,
		spec:     spec,
		registry: registry,
	}
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	prefix := s.settings.APIPrefix

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST "+prefix+"/translate/easy", s.handleEasy)
	mux.HandleFunc("POST "+prefix+"/translate/vibe", s.handleVibe)
	mux.HandleFunc("POST "+prefix+"/translate/vibe/stream", s.handleVibeStream)
	mux.HandleFunc("POST "+prefix+"/translate/spec", s.handleSpec)

	mux.HandleFunc("GET "+prefix+"/engines", s.handleListEngines)
	mux.HandleFunc("GET "+prefix+"/engines/{id}", s.handleGetEngine)

	var h http.Handler = mux
	h = s.recoverMiddleware(h)
	h = s.corsMiddleware(h)
	h = s.loggingMiddleware(h)
	return h
}

// Run serves until ctx is canceled, then drains connections within the
// configured shutdown timeout. Streaming responses are not force-closed
// before the drain deadline.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.settings.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.settings.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", zap.Error(err))
		return srv.Close()
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "lingopipe-api",
	})
}

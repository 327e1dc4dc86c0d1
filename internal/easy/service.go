// Package easy implements single-engine quick translation with an optional
// caller-supplied prompt.
package easy

import (
	"context"

	"go.uber.org/zap"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
	"github.com/arlo-hs/lingopipe/internal/ports"
)

// EngineBuilder constructs a translation engine from a per-request config.
type EngineBuilder interface {
	Build(cfg engine.Config) (ports.TranslationEngine, error)
}

// Service is the easy-mode translation service.
type Service struct {
	builder EngineBuilder
	logger  *zap.Logger
}

// NewService builds the easy-mode service. A nil logger disables logging.
func NewService(builder EngineBuilder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{builder: builder, logger: logger}
}

// Translate performs one engine call. With no fan-out to absorb it, an
// upstream failure surfaces as a 502 API error.
func (s *Service) Translate(ctx context.Context, req domain.EasyRequest, cfg engine.Config) (domain.EasyResponse, error) {
	eng, err := s.builder.Build(cfg)
	if err != nil {
		return domain.EasyResponse{}, err
	}

	var opts *ports.TranslateOptions
	if req.Prompt != "" {
		opts = &ports.TranslateOptions{Prompt: req.Prompt}
	}

	outcome, err := eng.Translate(ctx, req.Text, req.SourceLang, req.TargetLang, opts)
	if err != nil || !outcome.Success {
		msg := outcome.Error
		if msg == "" && err != nil {
			msg = err.Error()
		}
		s.logger.Warn("easy translation failed",
			zap.String("channel", string(cfg.Channel)),
			zap.String("error", msg),
		)
		return domain.EasyResponse{}, domain.UpstreamError(
			"upstream translation service call failed",
			map[string]string{"error": msg},
		)
	}

	label := req.Engine
	if label == "" {
		label = "custom"
	}

	return domain.EasyResponse{
		TranslatedText: outcome.Text,
		SourceLang:     outcome.SourceLang,
		TargetLang:     outcome.TargetLang,
		Engine:         label,
	}, nil
}

package vibe

import (
	"context"

	"go.uber.org/zap"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
)

// Service is the vibe-mode orchestrator: fan-out, judging, and assembly of
// the final response. It is stateless; every call carries its own configs.
type Service struct {
	dispatcher *Dispatcher
	judge      *Judge
	logger     *zap.Logger
}

// NewService wires the vibe pipeline around an engine builder.
func NewService(builder EngineBuilder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		dispatcher: NewDispatcher(builder, logger),
		judge:      NewJudge(builder, logger),
		logger:     logger,
	}
}

// Translate runs the blocking vibe pipeline: dispatch all engines, judge the
// candidates, assemble the response. A judge failure degrades to unjudged
// results instead of failing the request.
func (s *Service) Translate(
	ctx context.Context,
	req domain.VibeRequest,
	configs []engine.Config,
	judgeCfg *engine.Config,
) (domain.VibeResponse, error) {
	results := s.dispatcher.Dispatch(ctx, req, configs, nil)
	return s.assemble(ctx, req, configs, judgeCfg, results), nil
}

// assemble applies the judge to settled results and builds the response.
// Shared by the blocking and streaming paths.
func (s *Service) assemble(
	ctx context.Context,
	req domain.VibeRequest,
	configs []engine.Config,
	judgeCfg *engine.Config,
	results []domain.ScoredEngineResult,
) domain.VibeResponse {
	resp := domain.VibeResponse{
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Intent:     req.Intent,
		Results:    results,
	}

	judge := judgeCfg
	if judge == nil {
		judge = defaultJudgeConfig(configs)
	}
	if judge == nil {
		resp.BestResult = findBestResult(results)
		return resp
	}

	verdict, err := s.judge.Evaluate(ctx, *judge, req.Text, req.Intent, results)
	if err != nil {
		s.logger.Warn("judge evaluation failed, returning unjudged results", zap.Error(err))
		resp.BestResult = findBestResult(results)
		return resp
	}

	resp.Results = verdict.Results
	resp.BestResult = verdict.Best
	resp.SynthesizedTranslation = verdict.SynthesizedTranslation
	resp.SynthesisRationale = verdict.SynthesisRationale
	return resp
}

// defaultJudgeConfig picks the judge when the caller supplied none: the
// first openai-channel config, else the first config, else no judge at all.
func defaultJudgeConfig(configs []engine.Config) *engine.Config {
	for i := range configs {
		if configs[i].Channel == engine.ChannelOpenAI {
			return &configs[i]
		}
	}
	if len(configs) > 0 {
		return &configs[0]
	}
	return nil
}

// findBestResult returns the successful scored result with the highest
// overall score, preferring the earliest on ties. Nil when nothing is both
// successful and scored.
func findBestResult(results []domain.ScoredEngineResult) *domain.ScoredEngineResult {
	var best *domain.ScoredEngineResult
	for i := range results {
		r := &results[i]
		if !r.Success || r.Score == nil {
			continue
		}
		if best == nil || r.Score.Overall > best.Score.Overall {
			best = r
		}
	}
	return best
}

// Package vibe implements the multi-engine translation pipeline: parallel
// fan-out across caller-configured engines, judge scoring and synthesis of
// the candidates, and the streaming variant that reports results as engines
// settle.
package vibe

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
	"github.com/arlo-hs/lingopipe/internal/ports"
)

// DefaultMaxConcurrency bounds simultaneous engine calls per request so a
// wide fan-out cannot overwhelm the providers.
const DefaultMaxConcurrency = 8

// EngineBuilder constructs engines and raw clients from per-request configs.
// engine.Factory is the production implementation; tests substitute stubs.
type EngineBuilder interface {
	Build(cfg engine.Config) (ports.TranslationEngine, error)
	ClientFor(cfg engine.Config) (ports.LLMClient, error)
}

// Dispatcher fans a vibe request out across all configured engines.
type Dispatcher struct {
	builder EngineBuilder
	logger  *zap.Logger
}

// NewDispatcher builds a Dispatcher. A nil logger disables logging.
func NewDispatcher(builder EngineBuilder, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{builder: builder, logger: logger}
}

// Dispatch runs every engine slot concurrently and returns one result per
// slot, in slot order. The slot count is the larger of the config list and
// the request's engine id list: ids beyond the configs produce failed
// entries rather than being dropped, and configs beyond the ids get
// synthetic ids. An engine failure becomes a success:false entry; it never
// aborts sibling slots or surfaces as a request-level error.
//
// onSettled, when non-nil, is invoked once per slot as that slot's result
// becomes available, from the slot's own goroutine. Callers that need
// ordering must impose it themselves.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	req domain.VibeRequest,
	configs []engine.Config,
	onSettled func(domain.ScoredEngineResult),
) []domain.ScoredEngineResult {
	slots := len(configs)
	if len(req.Engines) > slots {
		slots = len(req.Engines)
	}

	results := make([]domain.ScoredEngineResult, slots)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultMaxConcurrency)

	for i := 0; i < slots; i++ {
		g.Go(func() error {
			r := d.runSlot(gctx, req, configs, i)
			results[i] = r
			if onSettled != nil {
				onSettled(r)
			}
			return nil
		})
	}

	// The group never returns an error: failures are encoded per slot.
	_ = g.Wait()

	return results
}

// runSlot executes one engine slot to a settled result.
func (d *Dispatcher) runSlot(ctx context.Context, req domain.VibeRequest, configs []engine.Config, i int) domain.ScoredEngineResult {
	engineID := slotID(req.Engines, i)

	if i >= len(configs) {
		return failedResult(engineID, "no engine config supplied for this engine")
	}
	cfg := configs[i]
	if cfg.APIKey == "" {
		return failedResult(engineID, "engine config is missing credentials")
	}

	eng, err := d.builder.Build(cfg)
	if err != nil {
		d.logger.Warn("engine construction failed",
			zap.String("engine_id", engineID),
			zap.String("channel", string(cfg.Channel)),
			zap.Error(err),
		)
		return failedResult(engineID, err.Error())
	}

	outcome, err := eng.Translate(ctx, req.Text, req.SourceLang, req.TargetLang, nil)
	if err != nil {
		d.logger.Warn("engine translation failed",
			zap.String("engine_id", engineID),
			zap.String("engine_name", eng.Name()),
			zap.Error(err),
		)
		return domain.ScoredEngineResult{
			EngineID:   engineID,
			EngineName: engineName(cfg),
			Success:    false,
			Error:      err.Error(),
		}
	}

	return domain.ScoredEngineResult{
		EngineID:       engineID,
		EngineName:     engineName(cfg),
		TranslatedText: outcome.Text,
		Success:        true,
	}
}

// slotID pairs slot i with the caller's engine id list, falling back to a
// synthetic positional id when the list is short.
func slotID(engines []string, i int) string {
	if i < len(engines) && engines[i] != "" {
		return engines[i]
	}
	return fmt.Sprintf("engine_%d", i)
}

func engineName(cfg engine.Config) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return string(cfg.Channel)
}

func failedResult(engineID, msg string) domain.ScoredEngineResult {
	return domain.ScoredEngineResult{
		EngineID:   engineID,
		EngineName: engineID,
		Success:    false,
		Error:      msg,
	}
}

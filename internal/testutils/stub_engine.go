// Package testutils provides deterministic test doubles for the translation
// pipeline: stub engines with configurable delays and failures, a stub LLM
// client for judge calls, and a builder that hands them out per config.
package testutils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
	"github.com/arlo-hs/lingopipe/internal/ports"
)

// StubEngine is a deterministic TranslationEngine. It returns Translation
// after Delay, or Err; both are fixed at construction so concurrent tests
// stay race-free.
type StubEngine struct {
	EngineName  string
	Translation string
	Err         error
	Delay       time.Duration

	mu    sync.Mutex
	calls int
}

var _ ports.TranslationEngine = (*StubEngine)(nil)

// Name returns the configured engine name.
func (s *StubEngine) Name() string { return s.EngineName }

// Calls reports how many times Translate was invoked.
func (s *StubEngine) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Translate waits for the configured delay (honoring ctx) and returns the
// canned outcome.
func (s *StubEngine) Translate(ctx context.Context, text, sourceLang, targetLang string, opts *ports.TranslateOptions) (domain.TranslationOutcome, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return domain.TranslationOutcome{
				SourceLang: sourceLang,
				TargetLang: targetLang,
				Error:      ctx.Err().Error(),
			}, ctx.Err()
		}
	}

	if s.Err != nil {
		return domain.TranslationOutcome{
			SourceLang: sourceLang,
			TargetLang: targetLang,
			Error:      s.Err.Error(),
		}, s.Err
	}

	return domain.TranslationOutcome{
		Text:       s.Translation,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Success:    true,
	}, nil
}

// StubBuilder implements the engine-builder seam used by all three mode
// services. Engines are matched by config model name; the judge client is
// returned for every ClientFor call.
type StubBuilder struct {
	// Engines maps a config's Model to its stub. A config whose model has
	// no entry gets DefaultEngine, and a nil DefaultEngine is a build error.
	Engines       map[string]ports.TranslationEngine
	DefaultEngine ports.TranslationEngine

	// JudgeClient serves ClientFor. Nil means ClientFor fails.
	JudgeClient ports.LLMClient

	// BuildErr, when set, fails every Build call.
	BuildErr error
}

// Build returns the stub engine registered for the config's model.
func (b *StubBuilder) Build(cfg engine.Config) (ports.TranslationEngine, error) {
	if b.BuildErr != nil {
		return nil, b.BuildErr
	}
	if eng, ok := b.Engines[cfg.Model]; ok {
		return eng, nil
	}
	if b.DefaultEngine != nil {
		return b.DefaultEngine, nil
	}
	return nil, errors.New("no stub engine registered for model " + cfg.Model)
}

// ClientFor returns the configured judge client.
func (b *StubBuilder) ClientFor(cfg engine.Config) (ports.LLMClient, error) {
	if b.JudgeClient == nil {
		return nil, errors.New("no stub judge client configured")
	}
	return b.JudgeClient, nil
}

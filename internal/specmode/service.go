// Package specmode implements blueprint-guided translation: a single engine
// call steered by a structured translation blueprint, with a decision list
// explaining how the blueprint was applied.
package specmode

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
	"github.com/arlo-hs/lingopipe/internal/ports"
	"github.com/arlo-hs/lingopipe/internal/prompt"
)

// EngineBuilder constructs a translation engine from a per-request config.
type EngineBuilder interface {
	Build(cfg engine.Config) (ports.TranslationEngine, error)
}

// Service is the spec-mode translation service.
type Service struct {
	builder EngineBuilder
	logger  *zap.Logger
}

// NewService builds the spec-mode service. A nil logger disables logging.
func NewService(builder EngineBuilder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{builder: builder, logger: logger}
}

// Translate renders the blueprint into prompt instructions, runs one engine
// call, and attaches a decision list describing the applied configuration.
// Upstream failure surfaces as a 502 API error.
func (s *Service) Translate(ctx context.Context, req domain.SpecRequest, cfg engine.Config) (domain.SpecResponse, error) {
	eng, err := s.builder.Build(cfg)
	if err != nil {
		return domain.SpecResponse{}, err
	}

	instructions := prompt.BuildBlueprintInstructions(req.Blueprint)

	outcome, err := eng.Translate(ctx, req.Text, req.SourceLang, req.TargetLang,
		&ports.TranslateOptions{Prompt: instructions})
	if err != nil || !outcome.Success {
		msg := outcome.Error
		if msg == "" && err != nil {
			msg = err.Error()
		}
		s.logger.Warn("spec translation failed",
			zap.String("channel", string(cfg.Channel)),
			zap.String("error", msg),
		)
		return domain.SpecResponse{}, domain.UpstreamError(
			"upstream translation service call failed",
			map[string]string{"error": msg},
		)
	}

	return domain.SpecResponse{
		TranslatedText:   outcome.Text,
		SourceLang:       outcome.SourceLang,
		TargetLang:       outcome.TargetLang,
		BlueprintApplied: req.Blueprint,
		Decisions:        generateDecisions(req.Blueprint),
	}, nil
}

// generateDecisions summarizes the blueprint dimensions as reviewable
// decisions. These describe the configuration that was applied, not the
// model's own choices.
func generateDecisions(bp domain.TranslationBlueprint) []domain.TranslationDecision {
	theoryNames := map[string]string{
		domain.TheoryEquivalence:   "Equivalence Theory (dynamic equivalence)",
		domain.TheoryFunctionalism: "Functionalism (Skopos Theory)",
		domain.TheoryDTS:           "Descriptive Translation Studies (DTS)",
	}

	var enabled []string
	for _, v := range bp.Theory.Configs {
		if !v.Enabled {
			continue
		}
		name := theoryNames[v.ID]
		if name == "" {
			name = v.ID
		}
		enabled = append(enabled, name)
	}
	theoryDecision := "none enabled (method/strategy only)"
	switch {
	case len(enabled) > 0:
		theoryDecision = strings.Join(enabled, ", ")
	case bp.Theory.Primary != "":
		if name := theoryNames[bp.Theory.Primary]; name != "" {
			theoryDecision = name
		} else {
			theoryDecision = bp.Theory.Primary
		}
	}

	methodNames := map[string]string{
		"literal":    "literal translation",
		"free":       "free translation",
		"balanced":   "balanced approach",
		"adaptation": "adaptation",
	}
	methodPref := bp.Method.Preference
	if methodPref == "" {
		methodPref = "balanced"
	}
	methodDecision := methodNames[methodPref]
	if methodDecision == "" {
		methodDecision = methodPref
	}

	strategyNames := map[string]string{
		"domestication":  "domestication",
		"foreignization": "foreignization",
	}
	approach := bp.Strategy.Approach
	if approach == "" {
		approach = "domestication"
	}
	strategyDecision := strategyNames[approach]
	if strategyDecision == "" {
		strategyDecision = approach
	}

	return []domain.TranslationDecision{
		{
			Aspect:    "theory framework",
			Decision:  theoryDecision,
			Rationale: "guides the overall translation direction through the enabled theory blocks",
		},
		{
			Aspect:    "translation method",
			Decision:  methodDecision,
			Rationale: fmt.Sprintf("method preference strength: %.0f%%", weightOrDefault(bp.Method.Weight)*100),
		},
		{
			Aspect:    "translation strategy",
			Decision:  strategyDecision,
			Rationale: fmt.Sprintf("strategy application strength: %.0f%%", weightOrDefault(bp.Strategy.Weight)*100),
		},
	}
}

func weightOrDefault(w float64) float64 {
	if w == 0 {
		return 0.5
	}
	return w
}

// Package ports defines the interfaces between the translation services and
// the infrastructure that backs them. Services depend on these abstractions
// only; concrete providers live under infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/arlo-hs/lingopipe/internal/domain"
)

// TranslateOptions carries per-call prompt adjustments.
type TranslateOptions struct {
	// Prompt is appended to the standard translator system prompt as
	// additional instructions (easy mode custom prompts, spec mode blueprint
	// instructions).
	Prompt string

	// SystemPrompt replaces the standard translator system prompt entirely
	// when non-empty.
	SystemPrompt string
}

// TranslationEngine is the abstract translation capability. Implementations
// wrap one configured LLM provider; the orchestration layer never sees
// provider specifics.
type TranslationEngine interface {
	// Translate renders text from sourceLang to targetLang. A provider-level
	// failure is returned as an error; the outcome is only valid when the
	// error is nil.
	Translate(ctx context.Context, text, sourceLang, targetLang string, opts *TranslateOptions) (domain.TranslationOutcome, error)

	// Name returns the display name for this engine (model or channel).
	Name() string
}

// LLMClient is the raw completion capability used where a service needs the
// model's text output directly rather than a translation, such as the vibe
// judge call.
type LLMClient interface {
	// Complete sends a prompt and returns the generated text. The options
	// map allows provider-specific settings (temperature, max_tokens,
	// system, response_format) without widening the interface.
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// EstimateTokens approximates the token count of text for cost and
	// rate-limit accounting.
	EstimateTokens(text string) (int, error)

	// GetModel returns the configured model identifier.
	GetModel() string
}

// MetricsCollector abstracts operational metrics so infrastructure can report
// without binding services to a metrics backend.
type MetricsCollector interface {
	RecordLatency(operation string, duration time.Duration, labels map[string]string)
	RecordCounter(metric string, value float64, labels map[string]string)
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// Package domain holds the request, result, and scoring types shared by the
// translation services. All values are request-scoped: created when a request
// arrives, discarded when the response completes, never cached or persisted.
package domain

// DefaultSourceLang is used when the caller does not specify a source
// language; engines are asked to detect it.
const DefaultSourceLang = "auto"

// TranslationOutcome is the result of a single engine call.
// A failed outcome has empty Text and a non-empty Error; the two states are
// mutually exclusive.
type TranslationOutcome struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// ScoredEngineResult is one engine's contribution to a vibe response.
// Score is nil until judging completes; in streaming mode partial events
// always carry a nil score and only the final event carries scored copies.
type ScoredEngineResult struct {
	EngineID       string            `json:"engine_id"`
	EngineName     string            `json:"engine_name"`
	TranslatedText string            `json:"translated_text"`
	Success        bool              `json:"success"`
	Error          string            `json:"error,omitempty"`
	Score          *TranslationScore `json:"score,omitempty"`
}

// EasyRequest is the single-engine quick translation request.
type EasyRequest struct {
	Text       string `json:"text" validate:"required"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang" validate:"required"`
	Prompt     string `json:"prompt,omitempty"`
	Engine     string `json:"engine,omitempty"`
}

// EasyResponse is the single-engine quick translation response.
type EasyResponse struct {
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	Engine         string `json:"engine"`
}

// VibeRequest drives the multi-engine fan-out pipeline. Engines lists the
// caller's engine ids; it is paired by index with the engine config list
// supplied out of band, with synthetic ids filling any gap.
type VibeRequest struct {
	Text       string   `json:"text" validate:"required"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang" validate:"required"`
	Intent     string   `json:"intent" validate:"required"`
	Engines    []string `json:"engines"`
}

// VibeResponse is the assembled vibe-mode result: every engine's outcome,
// the judge's pick, and the judge's synthesized translation when available.
type VibeResponse struct {
	SourceLang             string               `json:"source_lang"`
	TargetLang             string               `json:"target_lang"`
	Intent                 string               `json:"intent"`
	Results                []ScoredEngineResult `json:"results"`
	BestResult             *ScoredEngineResult  `json:"best_result,omitempty"`
	SynthesizedTranslation string               `json:"synthesized_translation,omitempty"`
	SynthesisRationale     string               `json:"synthesis_rationale,omitempty"`
}

// StreamEventKind tags events emitted by the vibe stream coordinator.
type StreamEventKind string

const (
	// StreamPartial carries one engine's settled (unscored) result, emitted
	// in completion order while other engines are still in flight.
	StreamPartial StreamEventKind = "partial"
	// StreamFinal carries the fully assembled VibeResponse and is always the
	// last content event of a stream.
	StreamFinal StreamEventKind = "final"
)

// StreamEvent is one element of a vibe streaming response.
// Exactly one of Partial or Final is set, matching Kind.
type StreamEvent struct {
	Kind    StreamEventKind
	Partial *ScoredEngineResult
	Final   *VibeResponse
}

package domain

import (
	"strconv"
	"strings"
)

// Score bounds for every judge-reported dimension.
const (
	MinScore = 0.0
	MaxScore = 10.0

	// DefaultScore replaces missing or non-numeric judge values so a single
	// malformed field never discards an otherwise usable verdict.
	DefaultScore = 5.0

	// MaxCommentLength caps judge commentary carried back to callers.
	MaxCommentLength = 999
)

// TranslationScore is the judge's multi-dimension quality assessment for a
// single candidate translation. Overall is always derived from the four
// sub-scores; it is never taken from the judge's own aggregate.
type TranslationScore struct {
	Accuracy    float64 `json:"accuracy"`
	Fluency     float64 `json:"fluency"`
	StyleMatch  float64 `json:"style_match"`
	Terminology float64 `json:"terminology"`
	Overall     float64 `json:"overall"`
	Comment     string  `json:"comment,omitempty"`
}

// NewTranslationScore clamps each sub-score to [MinScore, MaxScore] and
// computes Overall as their arithmetic mean. The comment is truncated to
// MaxCommentLength.
func NewTranslationScore(accuracy, fluency, styleMatch, terminology float64, comment string) TranslationScore {
	accuracy = ClampScore(accuracy)
	fluency = ClampScore(fluency)
	styleMatch = ClampScore(styleMatch)
	terminology = ClampScore(terminology)

	return TranslationScore{
		Accuracy:    accuracy,
		Fluency:     fluency,
		StyleMatch:  styleMatch,
		Terminology: terminology,
		Overall:     (accuracy + fluency + styleMatch + terminology) / 4,
		Comment:     TruncateComment(comment),
	}
}

// UniformScore builds a score with the same value on every dimension.
// Used for the judge's synthesized translation, which carries a single
// aggregate number instead of a four-axis breakdown.
func UniformScore(value float64, comment string) TranslationScore {
	value = ClampScore(value)
	return TranslationScore{
		Accuracy:    value,
		Fluency:     value,
		StyleMatch:  value,
		Terminology: value,
		Overall:     value,
		Comment:     TruncateComment(comment),
	}
}

// ClampScore restricts a value to the [MinScore, MaxScore] range.
func ClampScore(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// CoerceScore converts a raw judge value into a usable score. Numeric JSON
// values arrive as float64; anything else falls back to DefaultScore before
// clamping.
func CoerceScore(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return ClampScore(v)
	case int:
		return ClampScore(float64(v))
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return ClampScore(f)
		}
		return DefaultScore
	default:
		return DefaultScore
	}
}

// TruncateComment bounds free-text judge commentary.
func TruncateComment(s string) string {
	if len(s) > MaxCommentLength {
		return s[:MaxCommentLength]
	}
	return s
}

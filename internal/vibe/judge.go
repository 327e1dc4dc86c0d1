package vibe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
	"github.com/arlo-hs/lingopipe/internal/prompt"
)

// Judge request tuning. Low temperatures keep scoring consistent across
// otherwise identical requests.
const (
	judgeMaxTokens            = 2048
	judgeTemperatureOpenAI    = 0.3
	judgeTemperatureAnthropic = 0.2

	// nearCopyThreshold is the maximum edit distance, as a fraction of the
	// longer string, at which a synthesized translation counts as a copy of
	// a candidate.
	nearCopyThreshold = 0.1
)

// Verdict carries the judge's full output: the candidate results with scores
// attached, the synthetic best entry, and the synthesized translation.
type Verdict struct {
	Results                []domain.ScoredEngineResult
	Best                   *domain.ScoredEngineResult
	SynthesizedTranslation string
	SynthesisRationale     string
}

// Judge scores fan-out candidates with a single LLM call and synthesizes a
// final translation from their strengths.
type Judge struct {
	builder EngineBuilder
	logger  *zap.Logger
}

// NewJudge builds a Judge. A nil logger disables logging.
func NewJudge(builder EngineBuilder, logger *zap.Logger) *Judge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Judge{builder: builder, logger: logger}
}

// Evaluate makes one judge call covering every successful candidate and
// applies the verdict to the results in place. A provider failure is
// returned as an error so the caller can fall back to unjudged results; a
// malformed verdict is not an error, it degrades to default scores and an
// empty synthesis.
func (j *Judge) Evaluate(
	ctx context.Context,
	judgeCfg engine.Config,
	sourceText, intent string,
	results []domain.ScoredEngineResult,
) (Verdict, error) {
	userPrompt, err := prompt.BuildVibeJudgePrompt(sourceText, intent, results)
	if err != nil {
		return Verdict{}, fmt.Errorf("build judge prompt: %w", err)
	}

	client, err := j.builder.ClientFor(judgeCfg)
	if err != nil {
		return Verdict{}, fmt.Errorf("build judge client: %w", err)
	}

	options := map[string]any{
		"system":      prompt.VibeJudgeSystemPrompt,
		"max_tokens":  judgeMaxTokens,
		"temperature": judgeTemperatureAnthropic,
	}
	if judgeCfg.Channel == engine.ChannelOpenAI {
		options["temperature"] = judgeTemperatureOpenAI
		options["response_format"] = map[string]string{"type": "json_object"}
	}

	response, err := client.Complete(ctx, userPrompt, options)
	if err != nil {
		return Verdict{}, fmt.Errorf("judge call: %w", err)
	}

	verdict := parseVerdict(response)
	return j.apply(judgeCfg, verdict, results), nil
}

// rawVerdict mirrors the JSON contract in the judge prompt. Score values stay
// untyped because models return them as numbers or strings interchangeably.
type rawVerdict struct {
	Scores []map[string]any `json:"scores"`
	Final  map[string]any   `json:"final"`
}

// parseVerdict decodes the judge response with increasing leniency: a strict
// parse first, then after stripping code fences and surrounding prose. A
// response that survives neither step yields the empty verdict rather than
// an error.
func parseVerdict(response string) rawVerdict {
	raw := strings.TrimSpace(response)
	if raw == "" {
		return rawVerdict{}
	}

	var verdict rawVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err == nil {
		return verdict
	}

	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return rawVerdict{}
	}
	if err := json.Unmarshal([]byte(jsonStr), &verdict); err != nil {
		return rawVerdict{}
	}
	return verdict
}

// apply folds the parsed verdict into the candidate results and builds the
// synthetic best entry.
func (j *Judge) apply(judgeCfg engine.Config, verdict rawVerdict, results []domain.ScoredEngineResult) Verdict {
	byEngine := make(map[string]map[string]any, len(verdict.Scores))
	for _, item := range verdict.Scores {
		id, _ := item["engine_id"].(string)
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		byEngine[id] = item
	}

	for i := range results {
		if !results[i].Success {
			continue
		}
		item, ok := byEngine[results[i].EngineID]
		if !ok {
			continue
		}
		comment, _ := item["comment"].(string)
		score := domain.NewTranslationScore(
			domain.CoerceScore(item["accuracy"]),
			domain.CoerceScore(item["fluency"]),
			domain.CoerceScore(item["style_match"]),
			domain.CoerceScore(item["terminology"]),
			comment,
		)
		results[i].Score = &score
	}

	synthesized := stringField(verdict.Final, "translation")
	rationale := domain.TruncateComment(stringField(verdict.Final, "rationale"))
	finalComment, _ := verdict.Final["comment"].(string)

	if synthesized != "" {
		j.warnOnNearCopy(synthesized, results)
	}

	bestScore := domain.UniformScore(domain.CoerceScore(verdict.Final["overall"]), finalComment)
	best := &domain.ScoredEngineResult{
		EngineID:       "judge",
		EngineName:     judgeName(judgeCfg),
		TranslatedText: synthesized,
		Success:        true,
		Score:          &bestScore,
	}

	return Verdict{
		Results:                results,
		Best:                   best,
		SynthesizedTranslation: synthesized,
		SynthesisRationale:     rationale,
	}
}

// warnOnNearCopy flags a synthesized translation that is an edit-distance
// copy of one of the candidates. The prompt forbids verbatim copying; a hit
// here means the judge ignored that instruction.
func (j *Judge) warnOnNearCopy(synthesized string, results []domain.ScoredEngineResult) {
	for _, r := range results {
		if !r.Success || r.TranslatedText == "" {
			continue
		}
		longest := len(synthesized)
		if len(r.TranslatedText) > longest {
			longest = len(r.TranslatedText)
		}
		dist := levenshtein.ComputeDistance(synthesized, r.TranslatedText)
		if float64(dist) <= nearCopyThreshold*float64(longest) {
			j.logger.Warn("synthesized translation nearly copies a candidate",
				zap.String("engine_id", r.EngineID),
				zap.Int("edit_distance", dist),
			)
			return
		}
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func judgeName(cfg engine.Config) string {
	name := string(cfg.Channel)
	if cfg.Model != "" {
		name += ":" + cfg.Model
	}
	return name
}

// extractJSON pulls the first JSON object out of a response that wraps it in
// markdown fences or surrounding prose. Returns "" when no balanced object
// is found.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```json"); idx != -1 {
		start := idx + len("```json")
		if end := strings.Index(response[start:], "```"); end != -1 {
			return strings.TrimSpace(response[start : start+end])
		}
	}

	if idx := strings.Index(response, "```"); idx != -1 {
		start := idx + 3
		if nl := strings.Index(response[start:], "\n"); nl != -1 {
			start += nl + 1
		}
		if end := strings.Index(response[start:], "```"); end != -1 {
			candidate := strings.TrimSpace(response[start : start+end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	// Scan for the matching close brace, skipping braces inside strings.
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return response[start : i+1]
				}
			}
		}
	}
	return ""
}

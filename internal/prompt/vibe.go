package prompt

import (
	"bytes"
	"text/template"

	"github.com/arlo-hs/lingopipe/internal/domain"
)

// VibeJudgeSystemPrompt constrains the judge to strict JSON output. The
// scoring rubric itself lives in the user prompt.
const VibeJudgeSystemPrompt = "You are a translation quality evaluator. " +
	"Respond with strict JSON only, no surrounding text."

// vibeJudgeTemplate renders the judge user prompt. The output template at the
// bottom is the parsing contract: the judge service decodes exactly this
// shape, so any change here must be mirrored in the verdict types.
var vibeJudgeTemplate = template.Must(template.New("vibeJudge").Parse(
	`You are a translation quality evaluator and synthesizer.
First score every candidate translation and write a comment of roughly 100 words for each, then combine the strengths of the candidates into a final best translation.
The final best translation must be newly synthesized; copying any single candidate verbatim is not allowed.

Source text: {{.SourceText}}
Translation intent: {{.Intent}}

Candidate translations (engine_id -> translation):
{{- range .Candidates}}
- {{.EngineID}}: {{.TranslatedText}}
{{- end}}

Respond with exactly one JSON object of this structure:
{
  "scores": [
    {"engine_id": "xxx", "accuracy": 0-10, "fluency": 0-10, "style_match": 0-10, "terminology": 0-10, "comment": "roughly 100 words"},
    ...
  ],
  "final": {
    "translation": "the synthesized final best translation",
    "comment": "roughly 100 words on the final translation",
    "rationale": "roughly 200 words on how you combined the candidates",
    "overall": 0-10
  }
}`))

type vibeJudgeData struct {
	SourceText string
	Intent     string
	Candidates []domain.ScoredEngineResult
}

// BuildVibeJudgePrompt builds the judge user prompt from the fan-out results.
// Only successful candidates are included; failures never reach the judge.
func BuildVibeJudgePrompt(sourceText, intent string, results []domain.ScoredEngineResult) (string, error) {
	candidates := make([]domain.ScoredEngineResult, 0, len(results))
	for _, r := range results {
		if r.Success {
			candidates = append(candidates, r)
		}
	}

	var buf bytes.Buffer
	err := vibeJudgeTemplate.Execute(&buf, vibeJudgeData{
		SourceText: sourceText,
		Intent:     intent,
		Candidates: candidates,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

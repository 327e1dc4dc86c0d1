package prompt

import (
	"fmt"
	"strings"

	"github.com/arlo-hs/lingopipe/internal/domain"
)

// BuildBlueprintInstructions renders a translation blueprint into the
// additional-instructions block of the translator system prompt. Each
// configured dimension contributes one paragraph; the paragraphs are joined
// with blank lines so the model reads them as separate directives.
func BuildBlueprintInstructions(bp domain.TranslationBlueprint) string {
	var parts []string

	if p := theoryInstruction(bp.Theory); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, methodInstruction(bp.Method))
	parts = append(parts, strategyInstruction(bp.Strategy))

	if ctx := strings.TrimSpace(bp.Context); ctx != "" {
		parts = append(parts, "Additional context: "+ctx)
	}

	return strings.Join(parts, "\n\n")
}

func theoryInstruction(theory domain.TheoryConfig) string {
	id := theory.Primary
	if id == "" {
		id = domain.TheoryEquivalence
	}
	cfg, _ := theory.Variant(id)

	switch id {
	case domain.TheoryEquivalence:
		if cfg.EquivalenceType == "formal" {
			return "Follow Equivalence Theory with formal equivalence - " +
				"preserve the form and structure of the source text as much as possible"
		}
		return "Follow Equivalence Theory with dynamic equivalence - " +
			"prioritize equivalent reader response over literal form"

	case domain.TheoryFunctionalism:
		segs := []string{"Follow Functionalism/Skopos Theory - focus on the purpose of the translation"}
		if cfg.Purpose != "" {
			segs = append(segs, "Translation purpose: "+cfg.Purpose)
		}
		if cfg.TargetAudience != "" {
			segs = append(segs, "Target audience: "+cfg.TargetAudience)
		}
		return strings.Join(segs, ". ")

	case domain.TheoryDTS:
		segs := []string{"Follow Descriptive Translation Studies approach - " +
			"respect target culture norms and conventions"}
		if cfg.ReferenceSource != "" && cfg.ReferenceTranslation != "" {
			segs = append(segs, fmt.Sprintf("Reference style - Source: '%s' -> Translation: '%s'",
				truncateRunes(cfg.ReferenceSource, 200), truncateRunes(cfg.ReferenceTranslation, 200)))
		}
		return strings.Join(segs, ". ")
	}
	return ""
}

func methodInstruction(method domain.MethodConfig) string {
	weight := method.Weight
	if weight == 0 {
		weight = 0.5
	}
	switch method.Preference {
	case "literal":
		return fmt.Sprintf("Translation method: Literal translation (strictness: %.0f%%) - "+
			"maintain source text form and structure, translate word-by-word where possible", weight*100)
	case "free":
		return fmt.Sprintf("Translation method: Free translation (freedom: %.0f%%) - "+
			"prioritize natural expression in target language, feel free to restructure", weight*100)
	default:
		return fmt.Sprintf("Translation method: Balanced approach (weight: %.0f%%) - "+
			"balance between form preservation and natural expression", weight*100)
	}
}

func strategyInstruction(strategy domain.StrategyConfig) string {
	weight := strategy.Weight
	if weight == 0 {
		weight = 0.5
	}
	if strategy.Approach == "foreignization" {
		return fmt.Sprintf("Translation strategy: Foreignization (strength: %.0f%%) - "+
			"preserve source culture elements and foreign flavor", weight*100)
	}
	return fmt.Sprintf("Translation strategy: Domestication (strength: %.0f%%) - "+
		"adapt cultural references and expressions to target culture norms", weight*100)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

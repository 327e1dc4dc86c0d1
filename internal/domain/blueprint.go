package domain

// Translation theory identifiers accepted in a blueprint.
const (
	TheoryEquivalence   = "equivalence"
	TheoryFunctionalism = "functionalism"
	TheoryDTS           = "dts"
)

// TheoryVariant holds the settings for one theory. Only the fields relevant
// to its ID are meaningful: equivalence uses EquivalenceType, functionalism
// uses Purpose and TargetAudience, DTS uses the reference pair.
type TheoryVariant struct {
	ID                   string `json:"id"`
	Enabled              bool   `json:"enabled,omitempty"`
	EquivalenceType      string `json:"equivalenceType,omitempty"`
	Purpose              string `json:"purpose,omitempty"`
	TargetAudience       string `json:"targetAudience,omitempty"`
	ReferenceSource      string `json:"referenceSource,omitempty"`
	ReferenceTranslation string `json:"referenceTranslation,omitempty"`
}

// TheoryConfig selects the translation-theory framing for spec mode.
// Primary names the active theory; Configs carries per-theory settings.
type TheoryConfig struct {
	Primary  string          `json:"primary,omitempty"`
	Emphasis []string        `json:"emphasis,omitempty"`
	Configs  []TheoryVariant `json:"configs,omitempty"`
}

// Variant returns the settings for the named theory, if present.
func (t TheoryConfig) Variant(id string) (TheoryVariant, bool) {
	for _, v := range t.Configs {
		if v.ID == id {
			return v, true
		}
	}
	return TheoryVariant{}, false
}

// MethodConfig weights the literal/free rendering preference.
type MethodConfig struct {
	Preference string  `json:"preference,omitempty"`
	Weight     float64 `json:"weight,omitempty"`
}

// StrategyConfig weights the domestication/foreignization approach.
type StrategyConfig struct {
	Approach string  `json:"approach,omitempty"`
	Weight   float64 `json:"weight,omitempty"`
}

// TechniquesConfig toggles terminology handling.
type TechniquesConfig struct {
	UseTerminology    bool   `json:"useTerminology,omitempty"`
	TerminologySource string `json:"terminologySource,omitempty"`
	ExtractTerms      bool   `json:"extractTerms,omitempty"`
}

// TranslationBlueprint configures spec-mode translation. It is rendered into
// prompt instructions; the wording of that rendering is an implementation
// detail of the prompt package.
type TranslationBlueprint struct {
	Theory     TheoryConfig     `json:"theory"`
	Method     MethodConfig     `json:"method"`
	Strategy   StrategyConfig   `json:"strategy"`
	Techniques TechniquesConfig `json:"techniques"`
	Context    string           `json:"context,omitempty"`
}

// SpecRequest is the blueprint-guided translation request.
type SpecRequest struct {
	Text       string               `json:"text" validate:"required"`
	SourceLang string               `json:"source_lang"`
	TargetLang string               `json:"target_lang" validate:"required"`
	Blueprint  TranslationBlueprint `json:"blueprint"`
	Engine     string               `json:"engine,omitempty"`
}

// TranslationDecision explains one choice made while applying a blueprint.
type TranslationDecision struct {
	Aspect    string `json:"aspect"`
	Decision  string `json:"decision"`
	Rationale string `json:"rationale"`
}

// SpecResponse is the blueprint-guided translation response.
type SpecResponse struct {
	TranslatedText   string                `json:"translated_text"`
	SourceLang       string                `json:"source_lang"`
	TargetLang       string                `json:"target_lang"`
	BlueprintApplied TranslationBlueprint  `json:"blueprint_applied"`
	Decisions        []TranslationDecision `json:"decisions,omitempty"`
}

// Package prompt builds all LLM prompts used by the translation services.
// Services pass prompts opaquely; the wording and structure live here so the
// contract between services and providers stays text-only.
package prompt

import (
	"fmt"
	"strings"
)

// BuildTranslationSystemPrompt builds the system prompt used by every
// translation engine call. Additional instructions, when present, are
// appended verbatim under their own heading so caller-supplied guidance
// never mixes into the base contract.
func BuildTranslationSystemPrompt(sourceLang, targetLang, additionalInstructions string) string {
	base := fmt.Sprintf(
		"You are a professional translator. "+
			"Translate the following text from %s to %s.\n"+
			"Only output the translated text, without any explanations or additional content.",
		sourceLang, targetLang,
	)
	extra := strings.TrimSpace(additionalInstructions)
	if extra == "" {
		return base
	}
	return base + "\n\nAdditional instructions:\n" + extra
}

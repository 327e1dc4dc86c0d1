// Package langcode normalizes caller-supplied language codes into canonical
// BCP 47 tags before they reach prompt construction.
package langcode

import (
	"strings"

	"golang.org/x/text/language"
)

// Auto is the sentinel for source-language autodetection. It is passed
// through untouched; the model performs the detection.
const Auto = "auto"

// Normalize canonicalizes a language code ("EN-us" -> "en-US"). Unparseable
// or empty input is returned trimmed and lowercased rather than rejected:
// language choice belongs to the caller, and the models tolerate loose codes.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, Auto) {
		return Auto
	}

	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	return tag.String()
}

// NormalizePair normalizes a source and target code together, applying the
// autodetection default to an empty source.
func NormalizePair(source, target string) (string, string) {
	return Normalize(source), Normalize(target)
}

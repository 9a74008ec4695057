/*
Package locale resolves which language a translatable entity is served in.

Novels and chapters are written in an original language and may carry one
translation row per language. A reader asks for a language with ?lang=; the
resolver picks, in order:

 1. the original text when nothing was requested or the original was requested;
 2. a translation whose code matches exactly (case-insensitive);
 3. the original text when the requested base language equals the original's
    ("ja-JP" on a Japanese novel);
 4. a translation sharing the requested base language ("pt-BR" → "pt");
 5. the original text, flagged as a fallback.

The package is pure: callers load the rows and apply the chosen translation.
*/
package locale

import (
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/nathanpasca/manov-sub001/pkg/slice"
)

// Resolution describes the outcome of a localized read.
type Resolution struct {
	Requested    string   `json:"requested"`
	Resolved     string   `json:"resolved"`
	Original     string   `json:"original"`
	FallbackUsed bool     `json:"fallback_used"`
	Available    []string `json:"available"`
}

// Translated reports whether a translation (not the original text) was chosen.
func (r Resolution) Translated() bool {
	return Normalize(r.Resolved) != Normalize(r.Original)
}

// Normalize lower-cases a language code and unifies '_' to '-'.
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// Base returns the primary language subtag of code ("pt-br" → "pt").
func Base(code string) string {
	normalized := Normalize(code)
	tag, err := language.Parse(normalized)
	if err != nil {
		if head, _, found := strings.Cut(normalized, "-"); found {
			return head
		}
		return normalized
	}
	base, _ := tag.Base()
	return base.String()
}

// Resolve picks the language to serve given the original language and the
// languages that have a translation row.
func Resolve(requested, original string, available []string) Resolution {
	resolution := Resolution{
		Requested: Normalize(requested),
		Resolved:  original,
		Original:  original,
		Available: availableLanguages(original, available),
	}

	wanted := resolution.Requested
	if wanted == "" || wanted == Normalize(original) {
		return resolution
	}

	for _, code := range available {
		if Normalize(code) == wanted {
			resolution.Resolved = code
			return resolution
		}
	}

	wantedBase := Base(wanted)
	if wantedBase == Base(original) {
		return resolution
	}

	for _, code := range available {
		if Base(code) == wantedBase {
			resolution.Resolved = code
			return resolution
		}
	}

	resolution.FallbackUsed = true
	return resolution
}

// Select resolves requested against translations and returns the chosen row,
// or nil when the original text should be served.
func Select[T any](requested, original string, translations []T, codeOf func(T) string) (*T, Resolution) {
	resolution := Resolve(requested, original, slice.Map(translations, codeOf))
	if !resolution.Translated() {
		return nil, resolution
	}

	for i := range translations {
		if codeOf(translations[i]) == resolution.Resolved {
			return &translations[i], resolution
		}
	}
	return nil, resolution
}

// availableLanguages lists the original first, then translations sorted by code.
func availableLanguages(original string, translations []string) []string {
	seen := map[string]bool{Normalize(original): true}
	others := make([]string, 0, len(translations))
	for _, code := range translations {
		key := Normalize(code)
		if seen[key] {
			continue
		}
		seen[key] = true
		others = append(others, code)
	}
	sort.Strings(others)
	return append([]string{original}, others...)
}

package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Extractor unions the candidates of every Source, validates them and
// normalizes the survivors into deduplicated display names.
type Extractor struct {
	validator *Validator
	sources   []Source
}

// NewExtractor creates an Extractor. Sources are consulted in order; the
// order decides which casing wins when two sources yield the same name.
func NewExtractor(v *Validator, sources ...Source) *Extractor {
	return &Extractor{validator: v, sources: sources}
}

// Sources returns the configured source names, in order.
func (e *Extractor) Sources() []string {
	names := make([]string, len(e.sources))
	for i, s := range e.sources {
		names[i] = s.Name()
	}
	return names
}

// Extract returns the validated, normalized candidate names in review text.
// A failing source is skipped; the remaining sources still run.
func (e *Extractor) Extract(text string) []string {
	var candidates []string
	for _, src := range e.sources {
		raw, err := src.Candidates(text)
		if err != nil {
			zap.L().Debug("extract: candidate source failed, continuing without it",
				zap.String("source", src.Name()),
				zap.Error(err),
			)
			continue
		}
		for _, c := range raw {
			c = StripArticle(c)
			if e.validator.IsValidName(c) {
				candidates = append(candidates, c)
			}
		}
	}
	return e.normalize(candidates)
}

// normalize cleans each candidate, re-validates the cleaned form and drops
// case-insensitive duplicates keeping the first-seen spelling.
func (e *Extractor) normalize(candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}

	// Casers are stateful; one per call keeps Extract safe for concurrent use.
	title := cases.Title(language.Spanish)

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		name := CleanName(c, title)
		key := strings.ToLower(name)
		if utf8.RuneCountInString(name) < 2 {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		if !e.validator.IsValidName(name) {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// CleanName trims non-alphanumeric runes from both ends, collapses inner
// whitespace and title-cases every word.
func CleanName(name string, title cases.Caser) string {
	name = strings.TrimFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = title.String(w)
	}
	return strings.Join(words, " ")
}

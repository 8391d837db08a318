// Package extract turns review text into grounded agent names: candidate
// sources, the name validator, the context verifier and the per-review
// classifier.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/agent-miner/internal/lexicon"
)

// leadingArticle matches a leading article or preposition that NER spans
// and pattern captures tend to drag along ("la María", "de Pedro").
var leadingArticle = regexp.MustCompile(`(?i)^(?:el|la|los|las|un|una|de|del|a)\s+`)

// Validator decides whether a string is plausibly a Spanish personal name.
// It is pure and safe for concurrent use.
type Validator struct {
	lex *lexicon.Lexicon
}

// NewValidator creates a Validator over the given lexicon.
func NewValidator(lex *lexicon.Lexicon) *Validator {
	return &Validator{lex: lex}
}

// IsValidName reports whether candidate looks like a personal name:
// one word must be a lexicon given name, two words need one lexicon hit and
// three or more need two. Any excluded word rejects the candidate.
func (v *Validator) IsValidName(candidate string) bool {
	if utf8.RuneCountInString(candidate) < 2 {
		return false
	}

	lowered := strings.ToLower(strings.TrimSpace(candidate))
	words := strings.Fields(lowered)
	if len(words) == 0 {
		return false
	}

	if v.lex.IsExcluded(lowered) {
		return false
	}
	for _, w := range words {
		if v.lex.IsExcluded(w) {
			return false
		}
	}

	hits := 0
	for _, w := range words {
		if v.lex.IsGivenName(w) {
			hits++
		}
	}

	switch len(words) {
	case 1, 2:
		return hits >= 1
	default:
		return hits >= 2
	}
}

// StripArticle removes one leading article or preposition.
func StripArticle(s string) string {
	return leadingArticle.ReplaceAllString(strings.TrimSpace(s), "")
}

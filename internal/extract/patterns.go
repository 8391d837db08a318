package extract

import (
	"regexp"
	"strings"
)

const (
	// nameGroup captures 1-3 consecutive capitalized words. It is case
	// sensitive so "Gracias a María por su ayuda" stops at "María".
	nameGroup = `(\p{Lu}\p{Ll}+(?:\s+\p{Lu}\p{Ll}+){0,2})`
	// lead anchors a match at the start of text or after a non-letter, since
	// \b is ASCII-only and would not fire before "Álvaro".
	lead = `(?:^|[^\p{L}])`
	// tail requires the cue to end on a word boundary.
	tail = `(?:$|[^\p{L}])`

	helpVerbs = `(?:atendi[óo]|ayud[óo]|asesor[óo]|gestion[óo])`
)

// CuePattern is a named regular expression whose first group is a name.
type CuePattern struct {
	Name string
	Re   *regexp.Regexp
}

func cueBefore(name, cue string) CuePattern {
	return CuePattern{Name: name, Re: regexp.MustCompile(lead + `(?i:` + cue + `)\s+` + nameGroup)}
}

func cueAfter(name, cue string) CuePattern {
	return CuePattern{Name: name, Re: regexp.MustCompile(lead + nameGroup + `(?i:` + cue + `)` + tail)}
}

// DefaultPatterns is the ordered list of Spanish cue phrases that credit a
// person in a review.
var DefaultPatterns = []CuePattern{
	cueBefore("thanks_to", `(?:muchas\s+)?gracias\s+a`),
	cueBefore("helped_us_by", `(?:nos|me)\s+`+helpVerbs),
	cueBefore("attended_by", `atendi[óo]`),
	cueAfter("helped_us", `,?\s+(?:nos|me)\s+`+helpVerbs),
	cueBefore("the_agent", `(?:el|la)\s+agente`),
	cueBefore("contacted", `contact[ée]\s+con|habl[ée]\s+con|trabaj[ée]\s+con|con`),
	cueBefore("recommend", `recomiendo\s+a|recomiendo`),
	cueAfter("who_was", `,?\s+que\s+(?:fue|es|era)`),
	cueAfter("has_been", `\s+ha\s+sido`),
	cueBefore("in_particular", `en\s+especial\s+a|en\s+especial|especialmente\s+a|especialmente`),
}

// PatternSource yields names captured by cue patterns over the full review.
type PatternSource struct {
	Patterns []CuePattern
}

// NewPatternSource creates a PatternSource. No patterns selects
// DefaultPatterns.
func NewPatternSource(patterns ...CuePattern) *PatternSource {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &PatternSource{Patterns: patterns}
}

// Name implements Source.
func (s *PatternSource) Name() string { return "patterns" }

// Candidates implements Source.
func (s *PatternSource) Candidates(text string) ([]string, error) {
	var names []string
	for _, p := range s.Patterns {
		for _, m := range p.Re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			if n := strings.TrimSpace(m[1]); n != "" {
				names = append(names, n)
			}
		}
	}
	return names, nil
}

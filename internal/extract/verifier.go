package extract

import (
	"strings"
)

// groundingTemplates are literal lower-cased phrases; "%s" is replaced by the
// lower-cased candidate name. Each cue pattern in DefaultPatterns has at
// least one template here.
var groundingTemplates = buildGroundingTemplates()

func buildGroundingTemplates() []string {
	t := []string{
		"gracias a %s",
		"agente %s",
		"con %s",
		"recomiendo a %s",
		"recomiendo %s",
		"especial %s",
		"especial a %s",
		"especialmente %s",
		"especialmente a %s",
		"%s ha sido",
	}
	for _, verb := range []string{"fue", "es", "era"} {
		t = append(t, "%s, que "+verb, "%s que "+verb)
	}
	for _, verb := range []string{"atendió", "atendio", "ayudó", "ayudo", "asesoró", "asesoro", "gestionó", "gestiono"} {
		t = append(t,
			"nos "+verb+" %s",
			"me "+verb+" %s",
			"%s nos "+verb,
			"%s me "+verb,
			"%s, nos "+verb,
			"%s, me "+verb,
		)
	}
	t = append(t, "atendió %s", "atendio %s", "%s atendió", "%s atendio")
	return t
}

// Verifier re-checks a candidate against the literal wording of its review.
// A name surfaced only by NER, with no cue phrase next to it, is rejected.
type Verifier struct {
	validator *Validator
	templates []string
}

// NewVerifier creates a Verifier using the built-in grounding phrases.
func NewVerifier(v *Validator) *Verifier {
	return &Verifier{validator: v, templates: groundingTemplates}
}

// IsGrounded reports whether name is a valid name that appears in reviewText
// inside at least one cue phrase.
func (vf *Verifier) IsGrounded(name, reviewText string) bool {
	if !vf.validator.IsValidName(name) {
		return false
	}

	n := strings.ToLower(name)
	review := strings.ToLower(reviewText)
	for _, tmpl := range vf.templates {
		if strings.Contains(review, strings.Replace(tmpl, "%s", n, 1)) {
			return true
		}
	}
	return false
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGrounded(t *testing.T) {
	vf := NewVerifier(testValidator())

	tests := []struct {
		name   string
		agent  string
		review string
		want   bool
	}{
		{"thanks to", "María", "Gracias a María por su ayuda con el piso", true},
		{"helped us", "Pedro", "Pedro nos ayudó mucho, recomendado", true},
		{"helped us with comma", "Pedro", "Pedro, me gestionó todo", true},
		{"agent", "Lucía", "La agente Lucía fue muy atenta", true},
		{"with", "Ana López", "Contacté con Ana López para vender", true},
		{"who", "Laura", "Laura, que fue muy amable", true},
		{"has been", "Sergio", "Sergio ha sido genial", true},
		{"upper case review", "María", "GRACIAS A MARÍA", true},
		{"who without comma", "Laura", "Laura que era la agente", true},
		{"bare que", "Laura", "Laura que vive al lado lo vio", false},
		{"que with other verb", "Pedro", "Pedro, que sepa, no vino", false},
		{"no cue phrase", "Lucía", "Lucía es maja y Madrid bonito", false},
		{"invalid name with cue", "Madrid", "Gracias a Madrid", false},
		{"name absent", "Pedro", "Gracias a Juan", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vf.IsGrounded(tt.agent, tt.review))
		})
	}
}

// Every default cue pattern must have a grounding phrase, otherwise its
// captures could never survive verification.
func TestEveryPatternIsGroundable(t *testing.T) {
	samples := map[string]string{
		"thanks_to":     "Muchas gracias a Jorge por todo",
		"helped_us_by":  "Nos asesoró Beatriz en la compra",
		"attended_by":   "Atendió Carlos muy bien",
		"helped_us":     "Raquel me ayudo con la hipoteca",
		"the_agent":     "La agente Lucía fue muy atenta",
		"contacted":     "Hablé con Ana por teléfono",
		"recommend":     "Recomiendo Marta a todo el mundo",
		"who_was":       "Laura que es muy amable",
		"has_been":      "Sergio ha sido un gran profesional",
		"in_particular": "Todo bien, en especial a Carmen",
	}

	v := testValidator()
	vf := NewVerifier(v)
	for _, p := range DefaultPatterns {
		text, ok := samples[p.Name]
		if !assert.True(t, ok, "missing sample for %s", p.Name) {
			continue
		}
		e := NewExtractor(v, NewPatternSource(p))
		names := e.Extract(text)
		if assert.NotEmpty(t, names, p.Name) {
			assert.True(t, vf.IsGrounded(names[0], text), p.Name)
		}
	}
}

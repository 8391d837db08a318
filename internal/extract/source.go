package extract

import (
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/rotisserie/eris"
)

// DefaultNERMaxChars caps how much of a review the recognizer sees. Agent
// names cluster near the opening of a review.
const DefaultNERMaxChars = 2000

// Source produces raw name candidates from review text. Candidates are
// unvalidated; the Extractor strips, validates and normalizes them.
type Source interface {
	Name() string
	Candidates(text string) ([]string, error)
}

// Entity is a span tagged by a named-entity recognizer.
type Entity struct {
	Text  string
	Label string
}

// Recognizer tags named entities in text.
type Recognizer interface {
	Entities(text string) ([]Entity, error)
}

// newProseDocument is swapped in tests to observe the options passed to
// prose.
var newProseDocument = prose.NewDocument

// ProseRecognizer is a Recognizer backed by prose's averaged-perceptron
// entity model. The model is English-only; the cue verifier discards most of
// what it mislabels in Spanish text.
type ProseRecognizer struct {
	model *prose.Model
}

// NewProseRecognizer loads prose's tagger and entity weights once. The
// returned recognizer shares them read-only across goroutines.
func NewProseRecognizer() (r *ProseRecognizer, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = eris.Errorf("ner: load prose model: %v", p)
		}
	}()

	doc, err := newProseDocument("Ana", prose.WithSegmentation(false))
	if err != nil {
		return nil, eris.Wrap(err, "ner: load prose model")
	}
	if doc.Model == nil {
		return nil, eris.New("ner: load prose model: no model")
	}
	return &ProseRecognizer{model: doc.Model}, nil
}

// Entities runs prose over text and returns every tagged entity.
func (r *ProseRecognizer) Entities(text string) ([]Entity, error) {
	if r == nil || r.model == nil {
		return nil, eris.New("ner: prose model not loaded")
	}

	doc, err := newProseDocument(text, prose.WithSegmentation(false), prose.UsingModel(r.model))
	if err != nil {
		return nil, eris.Wrap(err, "ner: prose document")
	}

	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, ent := range ents {
		out = append(out, Entity{Text: ent.Text, Label: ent.Label})
	}
	return out, nil
}

// NERSource yields person entities found by a Recognizer in the opening
// MaxChars runes of a review.
type NERSource struct {
	Recognizer   Recognizer
	MaxChars     int
	PersonLabels []string
}

// NewNERSource creates a NERSource. maxChars <= 0 selects DefaultNERMaxChars.
func NewNERSource(r Recognizer, maxChars int) *NERSource {
	if maxChars <= 0 {
		maxChars = DefaultNERMaxChars
	}
	return &NERSource{
		Recognizer:   r,
		MaxChars:     maxChars,
		PersonLabels: []string{"PERSON", "PER"},
	}
}

// Name implements Source.
func (s *NERSource) Name() string { return "ner" }

// Candidates implements Source. A recognizer panic is reported as an error so
// the caller can fall back to the remaining sources.
func (s *NERSource) Candidates(text string) (names []string, err error) {
	if s.Recognizer == nil {
		return nil, eris.New("ner: no recognizer configured")
	}

	defer func() {
		if r := recover(); r != nil {
			names = nil
			err = eris.Errorf("ner: recognizer panic: %v", r)
		}
	}()

	ents, err := s.Recognizer.Entities(truncateRunes(text, s.MaxChars))
	if err != nil {
		return nil, eris.Wrap(err, "ner: recognize")
	}

	for _, ent := range ents {
		if !s.isPerson(ent.Label) {
			continue
		}
		names = append(names, splitConjunctions(ent.Text)...)
	}
	return names, nil
}

// conjunctions are the Spanish one-letter words a recognizer tends to fold
// into a person span ("Lucía y", "Ana y Pedro").
var conjunctions = map[string]struct{}{"y": {}, "e": {}, "o": {}, "u": {}}

// splitConjunctions breaks an entity span at conjunction tokens and drops
// them, so "Lucía y" yields "Lucía" and "Ana y Pedro" yields both names.
func splitConjunctions(span string) []string {
	var out, cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, tok := range strings.Fields(span) {
		if _, ok := conjunctions[strings.ToLower(tok)]; ok {
			flush()
			continue
		}
		cur = append(cur, tok)
	}
	flush()
	return out
}

func (s *NERSource) isPerson(label string) bool {
	for _, l := range s.PersonLabels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

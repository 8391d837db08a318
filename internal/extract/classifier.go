package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/agent-miner/internal/lexicon"
	"github.com/sells-group/agent-miner/internal/model"
)

// Options configures a Classifier built by NewClassifier.
type Options struct {
	// NEREnabled adds the recognizer source ahead of the pattern source.
	NEREnabled bool
	// NERMaxChars caps the runes handed to the recognizer.
	NERMaxChars int
	// Recognizer is shared by every review. When nil, NewClassifier loads a
	// prose recognizer; callers building several classifiers should load one
	// with NewProseRecognizer and pass it here.
	Recognizer Recognizer
}

// Classifier tags a review with the agent names it grounds.
type Classifier struct {
	extractor *Extractor
	verifier  *Verifier
}

// NewClassifier wires the validator, candidate sources and verifier over a
// shared read-only lexicon.
func NewClassifier(lex *lexicon.Lexicon, opts Options) *Classifier {
	v := NewValidator(lex)

	var sources []Source
	if opts.NEREnabled {
		r := opts.Recognizer
		if r == nil {
			pr, err := NewProseRecognizer()
			if err != nil {
				zap.L().Warn("extract: recognizer unavailable, using patterns only", zap.Error(err))
			} else {
				r = pr
			}
		}
		if r != nil {
			sources = append(sources, NewNERSource(r, opts.NERMaxChars))
		}
	}
	sources = append(sources, NewPatternSource())

	return &Classifier{
		extractor: NewExtractor(v, sources...),
		verifier:  NewVerifier(v),
	}
}

// NewClassifierFrom assembles a Classifier from explicit parts.
func NewClassifierFrom(e *Extractor, vf *Verifier) *Classifier {
	return &Classifier{extractor: e, verifier: vf}
}

// Classify normalizes whitespace, extracts candidates and keeps the grounded
// ones. ok is false when the review grounds no name.
func (c *Classifier) Classify(text string) (review model.ClassifiedReview, ok bool) {
	clean := NormalizeWhitespace(text)

	var agents []string
	for _, name := range c.extractor.Extract(clean) {
		if c.verifier.IsGrounded(name, clean) {
			agents = append(agents, name)
		}
	}

	if len(agents) == 0 {
		return model.ClassifiedReview{Text: clean}, false
	}
	return model.ClassifiedReview{Text: clean, Agents: agents}, true
}

// NormalizeWhitespace trims text and collapses every whitespace run to a
// single space.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

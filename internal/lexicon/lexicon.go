// Package lexicon holds the read-only name data used to gate person-name
// candidates: the given-name lexicon and the exclusion set of common false
// positives.
package lexicon

import (
	"bufio"
	"bytes"
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed data/given_names.txt
var givenNamesData []byte

//go:embed data/excluded.txt
var excludedData []byte

// Lexicon is an immutable set of given names and excluded words. It is built
// once at process start and shared by every worker.
type Lexicon struct {
	givenNames map[string]struct{}
	excluded   map[string]struct{}
}

// Overrides is the YAML shape of a lexicon override file.
type Overrides struct {
	GivenNames []string `yaml:"given_names"`
	Excluded   []string `yaml:"excluded"`
	// Replace drops the embedded defaults instead of extending them.
	Replace bool `yaml:"replace"`
}

// Default returns the lexicon built from the embedded data files.
func Default() *Lexicon {
	return &Lexicon{
		givenNames: parseList(givenNamesData),
		excluded:   parseList(excludedData),
	}
}

// New builds a lexicon from explicit word lists.
func New(givenNames, excluded []string) *Lexicon {
	l := &Lexicon{
		givenNames: make(map[string]struct{}, len(givenNames)),
		excluded:   make(map[string]struct{}, len(excluded)),
	}
	addAll(l.givenNames, givenNames)
	addAll(l.excluded, excluded)
	return l
}

// Load returns the embedded defaults when path is empty. Otherwise it reads a
// YAML override file and extends (or, with replace: true, replaces) them.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lexicon: read %s", path)
	}

	var ov Overrides
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return nil, eris.Wrapf(err, "lexicon: parse %s", path)
	}

	return apply(ov), nil
}

func apply(ov Overrides) *Lexicon {
	var l *Lexicon
	if ov.Replace {
		l = New(nil, nil)
	} else {
		l = Default()
	}
	addAll(l.givenNames, ov.GivenNames)
	addAll(l.excluded, ov.Excluded)
	return l
}

// IsGivenName reports whether word is a known given name. Matching is
// case-insensitive.
func (l *Lexicon) IsGivenName(word string) bool {
	_, ok := l.givenNames[strings.ToLower(word)]
	return ok
}

// IsExcluded reports whether word is a known false positive.
func (l *Lexicon) IsExcluded(word string) bool {
	_, ok := l.excluded[strings.ToLower(word)]
	return ok
}

// Size returns the number of given names and excluded words.
func (l *Lexicon) Size() (givenNames, excluded int) {
	return len(l.givenNames), len(l.excluded)
}

func parseList(data []byte) map[string]struct{} {
	set := make(map[string]struct{}, 256)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = struct{}{}
	}
	return set
}

func addAll(set map[string]struct{}, words []string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
}

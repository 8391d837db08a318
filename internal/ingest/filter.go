package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FilterOptions configures Filter. Zero values select the defaults.
type FilterOptions struct {
	MinLength    int     // minimum review length in runes
	MaxReviews   int     // reviews kept per agency
	MaxMonthsOld float64 // reviews older than this are dropped
	StaleLimit   int     // stop after this many too-old reviews
}

// Filter defaults.
const (
	DefaultMinLength    = 30
	DefaultMaxReviews   = 200
	DefaultMaxMonthsOld = 12
	DefaultStaleLimit   = 5
)

var (
	relevantKeywords = []string{"inmobiliaria", "agente", "casa", "piso", "vivienda", "alquiler", "venta", "compra"}
	offTopicKeywords = []string{"coche", "auto", "vehículo", "moto", "taller", "gasolina"}
)

// ageUnits converts "hace N <unit>" stamps into months.
var ageUnits = []struct {
	re     *regexp.Regexp
	months func(n float64) float64
}{
	{regexp.MustCompile(`hace\s+(\d+|un|una)\s+días?`), func(n float64) float64 { return n / 30 }},
	{regexp.MustCompile(`hace\s+(\d+|un|una)\s+semanas?`), func(n float64) float64 { return n / 4 }},
	{regexp.MustCompile(`hace\s+(\d+|un|una)\s+mes(?:es)?`), func(n float64) float64 { return n }},
	{regexp.MustCompile(`hace\s+(\d+|un|una)\s+años?`), func(n float64) float64 { return n * 12 }},
}

// Filter applies the review-card filters to one agency's reviews, in
// order: too short or repeated texts are dropped, too-old reviews are
// dropped and end the scan once StaleLimit of them were seen, and only
// on-topic reviews are kept, up to MaxReviews.
func Filter(reviews []string, opts FilterOptions) []string {
	opts = opts.withDefaults()

	seen := make(map[string]struct{}, len(reviews))
	out := make([]string, 0, len(reviews))
	stale := 0
	for _, r := range reviews {
		if len(out) >= opts.MaxReviews {
			break
		}
		txt := strings.TrimSpace(r)
		if utf8.RuneCountInString(txt) < opts.MinLength {
			continue
		}
		if _, dup := seen[txt]; dup {
			continue
		}
		if AgeMonths(txt) > opts.MaxMonthsOld {
			stale++
			if stale >= opts.StaleLimit {
				break
			}
			continue
		}
		if !IsRelevant(txt) {
			continue
		}
		seen[txt] = struct{}{}
		out = append(out, txt)
	}
	return out
}

func (o FilterOptions) withDefaults() FilterOptions {
	if o.MinLength <= 0 {
		o.MinLength = DefaultMinLength
	}
	if o.MaxReviews <= 0 {
		o.MaxReviews = DefaultMaxReviews
	}
	if o.MaxMonthsOld <= 0 {
		o.MaxMonthsOld = DefaultMaxMonthsOld
	}
	if o.StaleLimit <= 0 {
		o.StaleLimit = DefaultStaleLimit
	}
	return o
}

// IsRelevant reports whether a review mentions property business and none
// of the off-topic vehicle terms.
func IsRelevant(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range offTopicKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range relevantKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// AgeMonths parses the first "hace N días|semanas|meses|años" stamp in text
// and returns the age in months. Text without a stamp is treated as new.
func AgeMonths(text string) float64 {
	lower := strings.ToLower(text)
	for _, u := range ageUnits {
		m := u.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n := 1.0
		if m[1] != "un" && m[1] != "una" {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			n = float64(v)
		}
		return u.months(n)
	}
	return 0
}

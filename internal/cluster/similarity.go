// Package cluster groups spelling variants of the same agent name.
package cluster

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// indel weighs a substitution as a deletion plus an insertion, which turns
// the Levenshtein distance into the InDel distance.
var indel = levenshtein.NewParams().SubCost(2)

// TokenSortRatio scores two names on a 0-100 scale after lower-casing them
// and sorting their whitespace tokens, so word order does not matter.
func TokenSortRatio(a, b string) float64 {
	sa, sb := sortTokens(a), sortTokens(b)
	total := len([]rune(sa)) + len([]rune(sb))
	if total == 0 {
		return 100
	}
	dist := levenshtein.Distance(sa, sb, indel)
	return 100 * (1 - float64(dist)/float64(total))
}

func sortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

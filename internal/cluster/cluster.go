package cluster

import (
	"sort"
	"unicode/utf8"

	"github.com/sells-group/agent-miner/internal/model"
)

// DefaultThreshold is the minimum TokenSortRatio for two names to share a
// group.
const DefaultThreshold = 85.0

// Cluster partitions the keys of counts into groups of similar names.
//
// Names are visited by descending count, then lexically. Each name not yet
// placed seeds a group with every unplaced name scoring at least threshold
// against it. The canonical name is the longest member; equal lengths keep
// the earlier one in visiting order. Groups come back ordered by total count,
// descending. A threshold <= 0 selects DefaultThreshold.
func Cluster(counts map[string]int, threshold float64) []model.AgentGroup {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := counts[names[i]], counts[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})

	used := make([]bool, len(names))
	groups := make([]model.AgentGroup, 0, len(names))
	for i, seed := range names {
		if used[i] {
			continue
		}

		var g model.AgentGroup
		for j := i; j < len(names); j++ {
			if used[j] {
				continue
			}
			if j != i && TokenSortRatio(seed, names[j]) < threshold {
				continue
			}
			used[j] = true
			g.Variants = append(g.Variants, names[j])
			g.Count += counts[names[j]]
			if utf8.RuneCountInString(names[j]) > utf8.RuneCountInString(g.Canonical) {
				g.Canonical = names[j]
			}
		}
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

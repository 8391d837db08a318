package cluster

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCluster_MergesAccentVariants(t *testing.T) {
	groups := Cluster(map[string]int{
		"Juan Pérez": 3,
		"Juan Perez": 2,
		"Ana López":  1,
	}, 85)

	require.Len(t, groups, 2)
	assert.Equal(t, "Juan Pérez", groups[0].Canonical)
	assert.Equal(t, 5, groups[0].Count)
	assert.Equal(t, []string{"Juan Pérez", "Juan Perez"}, groups[0].Variants)

	assert.Equal(t, "Ana López", groups[1].Canonical)
	assert.Equal(t, 1, groups[1].Count)
	assert.Equal(t, []string{"Ana López"}, groups[1].Variants)
}

func TestCluster_Empty(t *testing.T) {
	groups := Cluster(nil, 85)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestCluster_CanonicalIsLongest(t *testing.T) {
	groups := Cluster(map[string]int{
		"Mari Carmen":  4,
		"Maria Carmen": 1,
	}, 85)

	require.Len(t, groups, 1)
	assert.Equal(t, "Maria Carmen", groups[0].Canonical)
	assert.Equal(t, 5, groups[0].Count)
}

func TestCluster_DefaultThreshold(t *testing.T) {
	counts := map[string]int{"Juan Pérez": 1, "Juan Perez": 1, "Pedro": 1}
	assert.Equal(t, Cluster(counts, DefaultThreshold), Cluster(counts, 0))
	assert.Equal(t, Cluster(counts, DefaultThreshold), Cluster(counts, -1))
}

func TestCluster_StrictThresholdKeepsVariantsApart(t *testing.T) {
	groups := Cluster(map[string]int{"Juan Pérez": 1, "Juan Perez": 1}, 100)
	assert.Len(t, groups, 2)
}

func TestCluster_Partition(t *testing.T) {
	counts := map[string]int{
		"Juan Pérez":  3,
		"Juan Perez":  2,
		"Ana López":   2,
		"Ana Lopez":   1,
		"Pedro":       4,
		"Pablo":       1,
		"Lucía":       2,
		"Lucia":       1,
		"María José":  1,
		"Maria Jose":  1,
		"Carmen Ruiz": 1,
	}

	groups := Cluster(counts, 85)

	var all []string
	total := 0
	for _, g := range groups {
		assert.Contains(t, g.Variants, g.Canonical)
		sum := 0
		for _, v := range g.Variants {
			sum += counts[v]
		}
		assert.Equal(t, sum, g.Count)
		total += g.Count
		all = append(all, g.Variants...)
	}

	var keys []string
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(all)
	sort.Strings(keys)
	assert.Equal(t, keys, all, "every name in exactly one group")
	assert.Equal(t, 19, total)

	for i := 1; i < len(groups); i++ {
		assert.GreaterOrEqual(t, groups[i-1].Count, groups[i].Count)
	}
}

func TestCluster_Deterministic(t *testing.T) {
	counts := map[string]int{
		"Lucía": 2, "Lucia": 2, "Pedro": 2, "Pablo": 2, "Ana": 2, "Anna": 2,
	}
	first := Cluster(counts, 85)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Cluster(counts, 85))
	}
}

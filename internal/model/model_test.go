package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status RunStatus
		want   string
	}{
		{RunStatusRunning, "running"},
		{RunStatusComplete, "complete"},
		{RunStatusFailed, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.status))
		})
	}
}

func TestAgencyReport_TotalMentions(t *testing.T) {
	t.Parallel()

	r := AgencyReport{Agents: []AgentRecord{
		{CanonicalName: "Pedro", TotalMentions: 3},
		{CanonicalName: "Ana", TotalMentions: 2},
	}}
	assert.Equal(t, 5, r.TotalMentions())
	assert.Equal(t, 0, AgencyReport{}.TotalMentions())
}

func TestAgencyReport_JSONFieldNames(t *testing.T) {
	t.Parallel()

	r := AgencyReport{
		AgencyName:        "Inmobiliaria X",
		AgencyRef:         "ref-1",
		TotalReviews:      3,
		ReviewsWithAgents: 2,
		Agents: []AgentRecord{{
			CanonicalName:      "Pedro",
			TotalMentions:      2,
			VariantNames:       []string{"Pedro"},
			SampleTestimonials: []string{"Gracias a Pedro"},
		}},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"agency_name", "agency_ref", "total_reviews", "reviews_with_agents", "agents"} {
		assert.Contains(t, raw, key)
	}
	agent := raw["agents"].([]any)[0].(map[string]any)
	for _, key := range []string{"canonical_name", "total_mentions", "variant_names", "sample_testimonials"} {
		assert.Contains(t, agent, key)
	}
}

func TestAgencyReviews_EmbedsAgency(t *testing.T) {
	t.Parallel()

	var in AgencyReviews
	require.NoError(t, json.Unmarshal([]byte(`{"agency_name":"X","agency_ref":"r","reviews":["a","b"]}`), &in))
	assert.Equal(t, "X", in.Name)
	assert.Equal(t, "r", in.Ref)
	assert.Equal(t, []string{"a", "b"}, in.Reviews)
}

package model

import "time"

// Agency identifies a real-estate agency whose reviews are mined.
type Agency struct {
	Name string `json:"agency_name"`
	Ref  string `json:"agency_ref"` // Source reference, e.g. the Google Maps place URL.
}

// AgencyReviews is one agency's raw review dump as produced by the scraper.
type AgencyReviews struct {
	Agency
	Reviews []string `json:"reviews"`
}

// AgentRecord is one canonical agent within an agency report.
type AgentRecord struct {
	CanonicalName      string   `json:"canonical_name"`
	TotalMentions      int      `json:"total_mentions"`
	VariantNames       []string `json:"variant_names"`
	SampleTestimonials []string `json:"sample_testimonials"`
}

// AgencyReport aggregates every credited agent for one agency.
type AgencyReport struct {
	AgencyName        string        `json:"agency_name"`
	AgencyRef         string        `json:"agency_ref"`
	TotalReviews      int           `json:"total_reviews"`
	ReviewsWithAgents int           `json:"reviews_with_agents"`
	Agents            []AgentRecord `json:"agents"`
}

// TotalMentions sums the mention counts of every agent in the report.
func (r AgencyReport) TotalMentions() int {
	total := 0
	for _, a := range r.Agents {
		total += a.TotalMentions
	}
	return total
}

// StoredReport is an AgencyReport persisted by a run.
type StoredReport struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Report    AgencyReport `json:"report"`
	CreatedAt time.Time    `json:"created_at"`
}

// RankedAgent is an agent entry in the cross-agency ranking.
type RankedAgent struct {
	Name       string `json:"name"`
	Mentions   int    `json:"mentions"`
	AgencyName string `json:"agency_name"`
}

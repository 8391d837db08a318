package model

// ClassifiedReview is a review that grounded at least one agent name.
type ClassifiedReview struct {
	Text   string   `json:"text"`
	Agents []string `json:"agents_mentioned"`
}

// AgentGroup is one cluster of name spellings believed to denote the same
// person. Every name of an agency's name counts belongs to exactly one group.
type AgentGroup struct {
	Canonical string   `json:"canonical"`
	Variants  []string `json:"variants"`
	Count     int      `json:"count"`
}

package entity

// Intent is the structured interpretation of a natural-language instruction,
// produced by the planner (LLM-backed with a heuristic fallback).
type Intent struct {
	Action      string   `json:"action"`
	Query       string   `json:"target"`
	Site        string   `json:"website,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
	Filters     *Filters `json:"filters,omitempty"`
	DataFields  []string `json:"data_fields,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

package entity

import "time"

// ExtractedItem is one structured record pulled out of a result container,
// keyed by field kind (title, price, link, description, rating, ...).
type ExtractedItem map[string]string

// StepResult records the outcome of a single executed step. It is created
// once by the plan runner and never mutated afterward.
type StepResult struct {
	StepIndex  int      `json:"step_index"`
	StepType   StepType `json:"step_type"`
	Success    bool     `json:"success"`
	Result     any      `json:"result,omitempty"`
	Error      string   `json:"error,omitempty"`
	Screenshot []byte   `json:"screenshot,omitempty"`
}

// PlanOutcome aggregates one plan run: every step result in order, the
// flattened items from successful extract steps, and overall timing.
type PlanOutcome struct {
	TaskID  string          `json:"task_id"`
	Steps   []StepResult    `json:"steps"`
	Items   []ExtractedItem `json:"items"`
	Elapsed time.Duration   `json:"elapsed"`
}

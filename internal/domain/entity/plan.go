package entity

import "time"

type StepType string

const (
	StepNavigate StepType = "navigate"
	StepSearch   StepType = "search"
	StepClick    StepType = "click"
	StepExtract  StepType = "extract"
	StepWait     StepType = "wait"
	StepScroll   StepType = "scroll"
)

// Known reports whether the step type is one of the six kinds the executor
// understands. Unknown kinds are skipped with a warning, not an error.
func (s StepType) Known() bool {
	switch s {
	case StepNavigate, StepSearch, StepClick, StepExtract, StepWait, StepScroll:
		return true
	}
	return false
}

// PlanStep is one action in an execution plan. Target semantics depend on
// StepType: a URL for navigate, a locator for search/click/extract.
type PlanStep struct {
	StepType   StepType    `json:"step_type"`
	Target     string      `json:"target"`
	Action     string      `json:"action,omitempty"`
	Value      string      `json:"value,omitempty"`
	DataFields []string    `json:"data_fields,omitempty"`
	Options    StepOptions `json:"options,omitempty"`
}

// StepOptions is the free-form configuration map attached to a step. Plans
// arrive as JSON from the plan generator, so numeric values may be float64
// or int; accessors normalize both.
type StepOptions map[string]any

func (o StepOptions) Timeout(def time.Duration) time.Duration {
	ms, ok := o.numeric("timeout")
	if !ok || ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func (o StepOptions) Int(key string, def int) int {
	n, ok := o.numeric(key)
	if !ok {
		return def
	}
	return int(n)
}

func (o StepOptions) Bool(key string) bool {
	if o == nil {
		return false
	}
	v, ok := o[key].(bool)
	return ok && v
}

func (o StepOptions) String(key, def string) string {
	if o == nil {
		return def
	}
	if s, ok := o[key].(string); ok && s != "" {
		return s
	}
	return def
}

func (o StepOptions) numeric(key string) (float64, bool) {
	if o == nil {
		return 0, false
	}
	switch v := o[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

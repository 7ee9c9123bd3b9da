package entity

// PriceRange bounds the parsed numeric price. Either side may be nil.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type Filters struct {
	Price    *PriceRange `json:"price,omitempty"`
	Keywords []string    `json:"keywords,omitempty"`
}

// ExpectedFormat shapes the normalizer output. Supplied per call, never
// persisted.
type ExpectedFormat struct {
	Filters *Filters `json:"filters,omitempty"`
	SortBy  string   `json:"sort_by,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

const DefaultResultLimit = 50

// EffectiveLimit returns the configured limit or the default of 50.
func (f ExpectedFormat) EffectiveLimit() int {
	if f.Limit > 0 {
		return f.Limit
	}
	return DefaultResultLimit
}

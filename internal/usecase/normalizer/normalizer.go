package normalizer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"web-navigator/internal/domain/entity"
)

// minKeptFields is the clean-step threshold: a record keeps its place only
// with at least two non-empty fields. Deliberately separate from the
// executor's configurable threshold; cleaning is the last gate.
const minKeptFields = 2

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Process cleans, filters, sorts and truncates raw extracted records into
// the requested output shape. Pure data transform, safe to call repeatedly.
func Process(raw []entity.ExtractedItem, format entity.ExpectedFormat) []entity.ExtractedItem {
	cleaned := Clean(raw)
	filtered := applyFilters(cleaned, format.Filters)
	return finalize(filtered, format)
}

// Clean trims values, drops empty fields, and drops records left with fewer
// than two fields. Idempotent: Clean(Clean(x)) == Clean(x).
func Clean(raw []entity.ExtractedItem) []entity.ExtractedItem {
	cleaned := make([]entity.ExtractedItem, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			continue
		}
		clean := entity.ExtractedItem{}
		for key, value := range item {
			v := strings.TrimSpace(value)
			if v == "" {
				continue
			}
			clean[key] = v
		}
		if len(clean) >= minKeptFields {
			cleaned = append(cleaned, clean)
		}
	}
	return cleaned
}

func applyFilters(items []entity.ExtractedItem, filters *entity.Filters) []entity.ExtractedItem {
	if filters == nil {
		return items
	}
	kept := make([]entity.ExtractedItem, 0, len(items))
	for _, item := range items {
		if !passesPrice(item, filters.Price) {
			continue
		}
		if !matchesKeywords(item, filters.Keywords) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// passesPrice excludes a record only when its price parses and falls outside
// the bounds. An unparseable price never excludes: the record may still be
// what the user wants, it just has no machine-readable price.
func passesPrice(item entity.ExtractedItem, bounds *entity.PriceRange) bool {
	if bounds == nil {
		return true
	}
	price, ok := ParsePrice(item["price"])
	if !ok {
		return true
	}
	if bounds.Min != nil && price < *bounds.Min {
		return false
	}
	if bounds.Max != nil && price > *bounds.Max {
		return false
	}
	return true
}

func matchesKeywords(item entity.ExtractedItem, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	var sb strings.Builder
	for _, v := range item {
		sb.WriteString(strings.ToLower(v))
		sb.WriteByte(' ')
	}
	haystack := sb.String()
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func finalize(items []entity.ExtractedItem, format entity.ExpectedFormat) []entity.ExtractedItem {
	if format.SortBy == "price" {
		sort.SliceStable(items, func(i, j int) bool {
			return priceOrZero(items[i]) < priceOrZero(items[j])
		})
	}
	limit := format.EffectiveLimit()
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func priceOrZero(item entity.ExtractedItem) float64 {
	if p, ok := ParsePrice(item["price"]); ok {
		return p
	}
	return 0
}

// ParsePrice pulls the leading numeric value out of a price string: grouping
// commas are removed, then the first integer-or-decimal token wins, so
// "$1,299.99" parses as 1299.99. No token means unparseable.
func ParsePrice(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	cleaned := strings.ReplaceAll(text, ",", "")
	match := numberPattern.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

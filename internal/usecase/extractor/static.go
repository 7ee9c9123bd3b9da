package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"web-navigator/internal/domain/entity"
	"web-navigator/internal/domain/profile"
	"web-navigator/internal/infrastructure/browser/htmlutil"
)

// StaticRequest extracts from HTML the caller already has, without a browser
// session. Same locator lists and acceptance predicates as the live pipeline.
type StaticRequest struct {
	HTML      string
	BaseURL   string
	Target    string
	Fields    []string
	Limit     int
	MinFields int
}

// FromHTML runs the field pipeline over static HTML. Containers are matched
// with the request target first, then the profile's containers, then the
// generic fallbacks; the first locator yielding a match wins.
func FromHTML(req StaticRequest, prof profile.Profile) ([]entity.ExtractedItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlutil.Clean(req.HTML, nil)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	minFields := req.MinFields
	if minFields <= 0 {
		minFields = prof.MinFields
	}
	if minFields <= 0 {
		minFields = 2
	}
	fields := req.Fields
	if len(fields) == 0 {
		fields = prof.DefaultFields
	}

	candidates := make([]string, 0, 1+len(prof.Containers)+len(profile.GenericContainers))
	if req.Target != "" {
		candidates = append(candidates, req.Target)
	}
	candidates = append(candidates, prof.Containers...)
	candidates = append(candidates, profile.GenericContainers...)

	var containers *goquery.Selection
	for _, loc := range candidates {
		sel := doc.Find(loc)
		if sel.Length() > 0 {
			containers = sel
			break
		}
	}
	if containers == nil {
		return []entity.ExtractedItem{}, nil
	}

	items := []entity.ExtractedItem{}
	containers.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(items) >= limit {
			return false
		}
		item := staticItem(s, prof, fields, req.BaseURL)
		if len(item) >= minFields {
			items = append(items, item)
		}
		return true
	})
	return items, nil
}

func staticItem(container *goquery.Selection, prof profile.Profile, fields []string, baseURL string) entity.ExtractedItem {
	item := entity.ExtractedItem{}
	for _, field := range fields {
		var value string
		var ok bool
		switch field {
		case profile.FieldTitle:
			value, ok = staticFirst(container, prof.FieldLocators(field), func(s string) (string, bool) {
				if t := strings.TrimSpace(s); t != "" {
					return Truncate(t, maxTitleLen), true
				}
				return "", false
			})
			if !ok {
				value, ok = TitleFromText(container.Text())
			}
		case profile.FieldPrice:
			value, ok = staticFirst(container, prof.FieldLocators(field), func(s string) (string, bool) {
				t := strings.TrimSpace(s)
				return t, AcceptPrice(t)
			})
		case profile.FieldLink:
			for _, loc := range prof.FieldLocators(field) {
				href, exists := container.Find(loc).First().Attr("href")
				if exists && href != "" {
					value, ok = AbsoluteURL(href, baseURL), true
					break
				}
			}
		case profile.FieldDescription:
			value, ok = staticFirst(container, prof.FieldLocators(field), func(s string) (string, bool) {
				t := strings.TrimSpace(s)
				if AcceptDescription(t) {
					return Truncate(t, maxDescriptionLen), true
				}
				return "", false
			})
		case profile.FieldRating:
			value, ok = staticFirst(container, prof.FieldLocators(field), func(s string) (string, bool) {
				t := strings.TrimSpace(s)
				return t, AcceptRating(t)
			})
		default:
			continue
		}
		if ok {
			item[field] = value
		}
	}
	return item
}

func staticFirst(container *goquery.Selection, locators []string, accept func(string) (string, bool)) (string, bool) {
	for _, loc := range locators {
		var value string
		var found bool
		container.Find(loc).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if v, ok := accept(s.Text()); ok {
				value, found = v, true
				return false
			}
			return true
		})
		if found {
			return value, true
		}
	}
	return "", false
}

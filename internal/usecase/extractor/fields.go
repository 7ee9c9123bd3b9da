package extractor

import (
	"net/url"
	"strings"

	"web-navigator/internal/application/port/output"
	"web-navigator/internal/domain/entity"
	"web-navigator/internal/domain/profile"
	"web-navigator/internal/usecase/resolver"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 500
	minTitleLen       = 5
	minDescriptionLen = 10
)

var currencySymbols = []string{"$", "€", "£", "₹"}

// Extractor pulls structured fields out of a result container. One strategy
// per field kind; each tries the profile's locator list in priority order and
// accepts the first plausible match. A failed field is simply omitted from
// the item, never an error.
type Extractor struct {
	resolver *resolver.Resolver
	profile  profile.Profile
	logger   output.LoggerPort
}

func New(res *resolver.Resolver, prof profile.Profile, logger output.LoggerPort) *Extractor {
	return &Extractor{resolver: res, profile: prof, logger: logger}
}

// Item runs every requested field strategy against one container. pageURL is
// used to absolutize extracted links.
func (x *Extractor) Item(container output.ElementPort, pageURL string, fields []string) entity.ExtractedItem {
	item := entity.ExtractedItem{}
	for _, field := range fields {
		var value string
		var ok bool
		switch field {
		case profile.FieldTitle:
			value, ok = x.title(container)
		case profile.FieldPrice:
			value, ok = x.price(container)
		case profile.FieldLink:
			value, ok = x.link(container, pageURL)
		case profile.FieldDescription:
			value, ok = x.description(container)
		case profile.FieldRating:
			value, ok = x.rating(container)
		default:
			x.logger.Debug("unknown data field requested", "field", field)
			continue
		}
		if ok {
			item[field] = value
		}
	}
	return item
}

func (x *Extractor) title(container output.ElementPort) (string, bool) {
	for _, loc := range x.profile.FieldLocators(profile.FieldTitle) {
		el, ok := x.resolver.ResolveIn(container, []string{loc})
		if !ok {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			return Truncate(t, maxTitleLen), true
		}
	}
	// Fall back to the container's own text when no heading matched.
	text, err := container.Text()
	if err != nil {
		return "", false
	}
	return TitleFromText(text)
}

func (x *Extractor) price(container output.ElementPort) (string, bool) {
	for _, loc := range x.profile.FieldLocators(profile.FieldPrice) {
		el, ok := x.resolver.ResolveIn(container, []string{loc})
		if !ok {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); AcceptPrice(t) {
			return t, true
		}
	}
	return "", false
}

func (x *Extractor) link(container output.ElementPort, pageURL string) (string, bool) {
	for _, loc := range x.profile.FieldLocators(profile.FieldLink) {
		el, ok := x.resolver.ResolveIn(container, []string{loc})
		if !ok {
			continue
		}
		href, err := el.Attribute("href")
		if err != nil || href == "" {
			continue
		}
		return AbsoluteURL(href, pageURL), true
	}
	return "", false
}

func (x *Extractor) description(container output.ElementPort) (string, bool) {
	for _, loc := range x.profile.FieldLocators(profile.FieldDescription) {
		el, ok := x.resolver.ResolveIn(container, []string{loc})
		if !ok {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); AcceptDescription(t) {
			return Truncate(t, maxDescriptionLen), true
		}
	}
	return "", false
}

func (x *Extractor) rating(container output.ElementPort) (string, bool) {
	for _, loc := range x.profile.FieldLocators(profile.FieldRating) {
		el, ok := x.resolver.ResolveIn(container, []string{loc})
		if !ok {
			continue
		}
		text, err := el.Text()
		if err == nil {
			if t := strings.TrimSpace(text); AcceptRating(t) {
				return t, true
			}
		}
		// Some sites keep the rating in an aria-label only.
		if aria, err := el.Attribute("aria-label"); err == nil {
			if t := strings.TrimSpace(aria); AcceptRating(t) {
				return t, true
			}
		}
	}
	return "", false
}

// Acceptance predicates, shared with the static HTML pipeline.

// AcceptPrice keeps only text carrying a currency symbol.
func AcceptPrice(s string) bool {
	for _, sym := range currencySymbols {
		if strings.Contains(s, sym) {
			return true
		}
	}
	return false
}

func AcceptDescription(s string) bool {
	return len(s) > minDescriptionLen
}

func AcceptRating(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// TitleFromText derives a title from raw container text: anything longer
// than five characters, capped at 200.
func TitleFromText(text string) (string, bool) {
	t := strings.TrimSpace(text)
	if len(t) <= minTitleLen {
		return "", false
	}
	return Truncate(t, maxTitleLen), true
}

// Truncate caps a string at max runes.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// AbsoluteURL normalizes an extracted href against the current page URL:
// host-relative paths get the page's scheme and host, path-relative ones
// resolve against the page URL path. The page URL's query never leaks into
// the result.
func AbsoluteURL(href, pageURL string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

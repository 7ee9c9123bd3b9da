package profile

import "strings"

// Field kinds with dedicated extraction strategies.
const (
	FieldTitle       = "title"
	FieldPrice       = "price"
	FieldLink        = "link"
	FieldDescription = "description"
	FieldRating      = "rating"
)

// Profile carries the locator data for one site: where the search input
// lives, which containers hold results, and the per-field locator lists
// tried in priority order (most semantic first). Adding a site is a data
// change, not a code change.
type Profile struct {
	Name          string              `yaml:"name"`
	Hosts         []string            `yaml:"hosts"`
	HomeURL       string              `yaml:"home_url"`
	SearchInputs  []string            `yaml:"search_inputs"`
	Containers    []string            `yaml:"containers"`
	DismissPopups []string            `yaml:"dismiss_popups"`
	Fields        map[string][]string `yaml:"fields"`
	DefaultFields []string            `yaml:"default_fields"`
	MinFields     int                 `yaml:"min_fields"`
}

// FieldLocators returns the profile's locator list for a field kind, or the
// universal defaults when the profile has no override.
func (p Profile) FieldLocators(kind string) []string {
	if locs, ok := p.Fields[kind]; ok && len(locs) > 0 {
		return locs
	}
	return defaultFieldLocators[kind]
}

// Registry holds the known site profiles. Lookup is by hostname substring;
// unmatched sites get the universal fallback profile.
type Registry struct {
	profiles []Profile
	fallback Profile
}

func NewRegistry() *Registry {
	return &Registry{
		profiles: builtinProfiles(),
		fallback: universalProfile(),
	}
}

// ForSite picks the profile whose host list matches the given site string
// (a hostname or URL fragment).
func (r *Registry) ForSite(site string) Profile {
	s := strings.ToLower(strings.TrimSpace(site))
	if s == "" {
		return r.fallback
	}
	for _, p := range r.profiles {
		for _, h := range p.Hosts {
			if strings.Contains(s, h) {
				return p
			}
		}
	}
	return r.fallback
}

// Universal returns the fallback profile used for unknown sites.
func (r *Registry) Universal() Profile {
	return r.fallback
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles)+1)
	for _, p := range r.profiles {
		names = append(names, p.Name)
	}
	return append(names, r.fallback.Name)
}

// Register adds or replaces a profile by name. The universal profile may be
// replaced by registering a profile named "universal".
func (r *Registry) Register(p Profile) {
	if p.MinFields <= 0 {
		p.MinFields = 2
	}
	if p.Name == r.fallback.Name {
		r.fallback = p
		return
	}
	for i, existing := range r.profiles {
		if existing.Name == p.Name {
			r.profiles[i] = p
			return
		}
	}
	r.profiles = append(r.profiles, p)
}

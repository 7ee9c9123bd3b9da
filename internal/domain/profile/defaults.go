package profile

// Universal per-field locator lists, tried most-semantic first. Site
// profiles override these per field where a site's markup needs it.
var defaultFieldLocators = map[string][]string{
	FieldTitle:       {"h1", "h2", "h3", ".title", `[data-testid*="title"]`, "a", ".product-title"},
	FieldPrice:       {".price", ".cost", `[data-testid*="price"]`, ".amount", ".currency", ".price-current"},
	FieldLink:        {"a"},
	FieldDescription: {".description", ".summary", "p", ".content", ".excerpt"},
	FieldRating:      {".rating", ".stars", `[data-testid*="rating"]`, ".review-score"},
}

// Generic search-input candidates appended after a step's own target and the
// profile's candidates.
var GenericSearchInputs = []string{
	`input[name="q"]`,
	`input[name="search"]`,
	`input[type="search"]`,
	"#search",
	".search-input",
	`[role="search"] input`,
}

// Generic result-container candidates used when the extract target and the
// profile's containers match nothing.
var GenericContainers = []string{
	"article", ".result", ".product", ".item",
	"h3", "h2", ".title", "[data-testid]",
}

func universalProfile() Profile {
	return Profile{
		Name:          "universal",
		HomeURL:       "",
		SearchInputs:  GenericSearchInputs,
		Containers:    []string{"article", ".result", ".item", ".post", ".product", ".card", `[role="article"]`},
		DefaultFields: []string{FieldTitle, FieldDescription, FieldLink},
		// The universal path keeps single-field records; site profiles
		// demand two.
		MinFields: 1,
	}
}

func builtinProfiles() []Profile {
	return []Profile{
		{
			Name:    "amazon",
			Hosts:   []string{"amazon"},
			HomeURL: "https://www.amazon.com",
			SearchInputs: []string{
				"#twotabsearchtextbox",
				`input[name="field-keywords"]`,
				`input[placeholder*="Search"]`,
				`input[type="search"]`,
			},
			Containers: []string{`[data-component-type="s-search-result"]`, ".s-result-item", "[data-asin]"},
			DismissPopups: []string{
				`[data-action-type="DISMISS"]`,
				"#sp-cc-accept",
				".a-button-close",
			},
			Fields: map[string][]string{
				FieldTitle:  {"h2 a span", "h2 span", ".a-size-medium span"},
				FieldPrice:  {".a-price .a-offscreen", ".a-price-whole", ".a-price"},
				FieldRating: {".a-icon-alt", `[aria-label*="stars"]`},
				FieldLink:   {"h2 a", `a[href*="/dp/"]`, "a"},
			},
			DefaultFields: []string{FieldTitle, FieldPrice, FieldRating, FieldLink},
			MinFields:     2,
		},
		{
			Name:    "github",
			Hosts:   []string{"github"},
			HomeURL: "https://github.com",
			SearchInputs: []string{
				`input[name="q"]`,
				".header-search-input",
				`[placeholder*="Search GitHub"]`,
			},
			Containers: []string{".repo-list-item", `[data-testid="results-list"] > div`},
			Fields: map[string][]string{
				FieldTitle:       {"h3 a", ".f4 a", `[data-testid="listitem-title"] a`},
				FieldDescription: {".repo-list-description p", ".color-fg-muted", `[data-testid="listitem-description"]`},
				FieldLink:        {"h3 a", "a"},
			},
			DefaultFields: []string{FieldTitle, FieldDescription, FieldLink},
			MinFields:     2,
		},
		{
			Name:    "youtube",
			Hosts:   []string{"youtube"},
			HomeURL: "https://www.youtube.com",
			SearchInputs: []string{
				"input#search",
				`input[name="search_query"]`,
				"#search-input #search",
				`input[placeholder*="Search"]`,
			},
			Containers: []string{"ytd-video-renderer", "#contents ytd-rich-item-renderer"},
			DismissPopups: []string{
				`button[aria-label="Accept all"]`,
			},
			Fields: map[string][]string{
				FieldTitle: {"#video-title", "h3 a", "#video-title-link"},
				FieldLink:  {"#video-title", "a#thumbnail", "a"},
			},
			DefaultFields: []string{FieldTitle, FieldLink},
			MinFields:     2,
		},
		{
			Name:    "linkedin",
			Hosts:   []string{"linkedin"},
			HomeURL: "https://www.linkedin.com/jobs/search/",
			Containers: []string{
				".jobs-search__results-list li", ".job-search-card",
			},
			DismissPopups: []string{
				`[data-tracking-control-name="public_jobs_contextual-sign-up-modal_modal_dismiss"]`,
				".modal__dismiss",
			},
			Fields: map[string][]string{
				FieldTitle:       {".base-search-card__title", "h3 a", ".job-search-card__title"},
				FieldDescription: {".base-search-card__subtitle", ".job-search-card__location"},
				FieldLink:        {".base-card__full-link", "a"},
			},
			DefaultFields: []string{FieldTitle, FieldDescription, FieldLink},
			MinFields:     2,
		},
		{
			Name:    "indeed",
			Hosts:   []string{"indeed"},
			HomeURL: "https://indeed.com",
			SearchInputs: []string{
				"#text-input-what",
				`input[name="q"]`,
				`input[aria-label*="job"]`,
			},
			Containers: []string{".job_seen_beacon", ".result", `[data-testid="job-title"]`},
			Fields: map[string][]string{
				FieldTitle:       {`[data-testid="job-title"] a`, "h2 a", ".jobTitle a"},
				FieldDescription: {".companyName", `[data-testid="company-name"]`, ".companyLocation"},
				FieldPrice:       {".metadata .salary-snippet", `[data-testid="job-salary"]`},
				FieldLink:        {`[data-testid="job-title"] a`, "h2 a", "a"},
			},
			DefaultFields: []string{FieldTitle, FieldDescription, FieldLink},
			MinFields:     2,
		},
		{
			Name:    "stackoverflow",
			Hosts:   []string{"stackoverflow"},
			HomeURL: "https://stackoverflow.com",
			SearchInputs: []string{
				`input[name="q"]`,
				".s-input__search",
				`[placeholder*="Search"]`,
			},
			Containers: []string{".s-post-summary", ".question-summary"},
			Fields: map[string][]string{
				FieldTitle:  {".s-post-summary--content-title a", ".question-hyperlink"},
				FieldRating: {".s-post-summary--stats-item-number", ".votes .vote-count-post"},
				FieldLink:   {".s-post-summary--content-title a", ".question-hyperlink", "a"},
			},
			DefaultFields: []string{FieldTitle, FieldRating, FieldLink},
			MinFields:     2,
		},
	}
}

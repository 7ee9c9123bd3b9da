package planner

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"web-navigator/internal/application/port/input"
	"web-navigator/internal/application/port/output"
	"web-navigator/internal/domain/entity"
	"web-navigator/internal/domain/profile"
)

var _ input.Planner = (*Planner)(nil)

const intentSystemPrompt = `You are an expert at parsing web navigation instructions. Convert the instruction into JSON:
{
  "action": "search|scrape|navigate|compare",
  "target": "what to search for",
  "website": "suggested website, e.g. amazon.com (or null)",
  "content_type": "products|jobs|repositories|videos|questions|articles|general",
  "filters": {"price": {"min": 0, "max": 0}, "keywords": []},
  "data_fields": ["title", "price", "link"],
  "limit": 10
}
Respond with the JSON object only.`

// Planner turns a natural-language instruction into an intent and then into
// an executable plan. The LLM is optional: when absent or failing, a
// deterministic heuristic parser takes over.
type Planner struct {
	llm      output.LLMPort
	profiles *profile.Registry
	logger   output.LoggerPort
}

func New(llm output.LLMPort, profiles *profile.Registry, logger output.LoggerPort) *Planner {
	return &Planner{llm: llm, profiles: profiles, logger: logger}
}

// ParseIntent never fails: malformed or missing LLM output degrades to the
// heuristic parser.
func (p *Planner) ParseIntent(ctx context.Context, instruction string) entity.Intent {
	if p.llm != nil {
		resp, err := p.llm.Complete(ctx, intentSystemPrompt, "Parse this instruction: "+instruction)
		if err != nil {
			p.logger.Warn("intent llm call failed, using fallback", "error", err)
		} else if intent, ok := decodeIntent(resp); ok {
			p.fillIntentDefaults(&intent, instruction)
			return intent
		} else {
			p.logger.Warn("intent llm response unparseable, using fallback")
		}
	}
	return p.heuristicIntent(instruction)
}

// BuildPlan assembles navigate → search → extract from the intent and the
// matching site profile.
func (p *Planner) BuildPlan(intent entity.Intent) []entity.PlanStep {
	prof := p.profiles.ForSite(intent.Site)

	homeURL := prof.HomeURL
	if homeURL == "" {
		site := intent.Site
		if site == "" {
			site = "google.com"
		}
		if !strings.HasPrefix(site, "http") {
			site = "https://" + site
		}
		homeURL = site
	}

	plan := []entity.PlanStep{
		{
			StepType: entity.StepNavigate,
			Target:   homeURL,
			Action:   "open_page",
			Options:  entity.StepOptions{"timeout": 10000},
		},
	}

	if intent.Query != "" {
		target := ""
		if len(prof.SearchInputs) > 0 {
			target = prof.SearchInputs[0]
		}
		plan = append(plan, entity.PlanStep{
			StepType: entity.StepSearch,
			Target:   target,
			Action:   "type_and_submit",
			Value:    intent.Query,
			Options:  entity.StepOptions{"wait_for_load": true},
		})
	}

	fields := intent.DataFields
	if len(fields) == 0 {
		fields = prof.DefaultFields
	}
	limit := intent.Limit
	if limit <= 0 {
		limit = 10
	}
	target := "body"
	if len(prof.Containers) > 0 {
		target = prof.Containers[0]
	}
	plan = append(plan, entity.PlanStep{
		StepType:   entity.StepExtract,
		Target:     target,
		Action:     "extract_content",
		DataFields: fields,
		Options:    entity.StepOptions{"limit": limit},
	})

	return plan
}

// decodeIntent pulls the first {...} span out of the model output; models
// tend to wrap JSON in prose.
func decodeIntent(resp string) (entity.Intent, bool) {
	start := strings.Index(resp, "{")
	end := strings.LastIndex(resp, "}")
	if start == -1 || end <= start {
		return entity.Intent{}, false
	}
	var intent entity.Intent
	if err := json.Unmarshal([]byte(resp[start:end+1]), &intent); err != nil {
		return entity.Intent{}, false
	}
	return intent, true
}

func (p *Planner) fillIntentDefaults(intent *entity.Intent, instruction string) {
	if intent.Action == "" {
		intent.Action = "search"
	}
	if intent.Query == "" {
		intent.Query = instruction
	}
	if intent.Limit <= 0 {
		intent.Limit = 10
	}
	if intent.ContentType == "" {
		intent.ContentType = "general"
	}
}

var sitePatterns = []struct {
	host     string
	patterns []string
}{
	{"amazon.com", []string{"amazon", "buy", "shop", "product"}},
	{"github.com", []string{"github", "repository", "repo"}},
	{"linkedin.com", []string{"linkedin"}},
	{"indeed.com", []string{"indeed", "job search", "employment"}},
	{"stackoverflow.com", []string{"stackoverflow", "stack overflow"}},
	{"youtube.com", []string{"youtube", "video", "tutorial"}},
}

var contentPatterns = []struct {
	kind     string
	patterns []string
}{
	{"products", []string{"product", "buy", "shop", "price", "laptop", "phone", "headphones"}},
	{"jobs", []string{"job", "career", "hiring", "position", "salary"}},
	{"repositories", []string{"repository", "repo", "library", "framework"}},
	{"videos", []string{"video", "tutorial", "watch"}},
	{"questions", []string{"question", "error", "bug"}},
}

var queryNoise = regexp.MustCompile(`(?i)\b(search for|find|look for|on|in|amazon|github|linkedin|indeed|stackoverflow|youtube|google)\b`)

// heuristicIntent is the no-LLM fallback: keyword tables for site and
// content type, the first standalone number as the limit, and the
// instruction minus site/verb noise as the query.
func (p *Planner) heuristicIntent(instruction string) entity.Intent {
	lower := strings.ToLower(instruction)

	site := ""
	for _, sp := range sitePatterns {
		for _, pat := range sp.patterns {
			if strings.Contains(lower, pat) {
				site = sp.host
				break
			}
		}
		if site != "" {
			break
		}
	}

	contentType := "general"
	for _, cp := range contentPatterns {
		for _, pat := range cp.patterns {
			if strings.Contains(lower, pat) {
				contentType = cp.kind
				break
			}
		}
		if contentType != "general" {
			break
		}
	}

	limit := 10
	for _, word := range strings.Fields(instruction) {
		if n, err := strconv.Atoi(word); err == nil && n > 0 {
			limit = n
			break
		}
	}

	query := strings.TrimSpace(queryNoise.ReplaceAllString(instruction, " "))
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		query = instruction
	}

	prof := p.profiles.ForSite(site)
	return entity.Intent{
		Action:      "search",
		Query:       query,
		Site:        site,
		ContentType: contentType,
		DataFields:  prof.DefaultFields,
		Limit:       limit,
	}
}

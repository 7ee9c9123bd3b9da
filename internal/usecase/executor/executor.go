package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"web-navigator/internal/application/port/output"
	"web-navigator/internal/domain/entity"
	"web-navigator/internal/domain/profile"
	"web-navigator/internal/usecase/extractor"
	"web-navigator/internal/usecase/resolver"
)

var (
	ErrSearchInputNotFound = errors.New("search input not found")
	ErrElementNotFound     = errors.New("element not found")
)

const (
	defaultNavigateTimeout = 30 * time.Second
	defaultClickTimeout    = 10 * time.Second
	defaultWaitTimeout     = 3 * time.Second
	defaultSettleDelay     = 2 * time.Second
	defaultExtractLimit    = 10
	defaultScrollAmount    = 1000
	popupDismissTimeout    = 1 * time.Second
)

// Payloads returned per step kind.
type (
	NavigatePayload struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	}
	SearchPayload struct {
		Query   string `json:"query"`
		Success bool   `json:"success"`
	}
	ClickPayload struct {
		Clicked string `json:"clicked"`
	}
	WaitPayload struct {
		WaitedMs int `json:"waited"`
	}
	ScrollPayload struct {
		Direction string `json:"scrolled"`
		Amount    int    `json:"amount"`
	}
)

// Executor runs one plan step against a page. Each invocation is stateless
// given (page, step); all site knowledge comes from the active profile.
type Executor struct {
	resolver *resolver.Resolver
	fields   *extractor.Extractor
	profile  profile.Profile
	logger   output.LoggerPort

	// SettleDelay is the fixed wait before extraction so dynamically loaded
	// content can render. Tests shrink it.
	SettleDelay time.Duration
	// MinFields is the keep threshold for extracted items. The original
	// heuristic demands two populated fields; the universal profile lowers
	// it to one.
	MinFields int
}

func New(res *resolver.Resolver, prof profile.Profile, logger output.LoggerPort) *Executor {
	minFields := prof.MinFields
	if minFields <= 0 {
		minFields = 2
	}
	return &Executor{
		resolver:    res,
		fields:      extractor.New(res, prof, logger),
		profile:     prof,
		logger:      logger,
		SettleDelay: defaultSettleDelay,
		MinFields:   minFields,
	}
}

// Execute dispatches on the step kind. It returns an error only for setup
// failures (element not found, navigation timeout); the plan runner converts
// those into failed step results. Unknown kinds log a warning and return
// nothing.
func (e *Executor) Execute(ctx context.Context, page output.PagePort, step entity.PlanStep) (any, error) {
	switch step.StepType {
	case entity.StepNavigate:
		return e.navigate(ctx, page, step)
	case entity.StepSearch:
		return e.search(ctx, page, step)
	case entity.StepClick:
		return e.click(ctx, page, step)
	case entity.StepExtract:
		return e.extract(ctx, page, step)
	case entity.StepWait:
		return e.wait(ctx, step)
	case entity.StepScroll:
		return e.scroll(page, step)
	default:
		e.logger.Warn("unknown step type, skipping", "step_type", string(step.StepType))
		return nil, nil
	}
}

func (e *Executor) navigate(ctx context.Context, page output.PagePort, step entity.PlanStep) (any, error) {
	timeout := step.Options.Timeout(defaultNavigateTimeout)
	if err := page.Goto(ctx, step.Target, timeout); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", step.Target, err)
	}
	if err := page.WaitIdle(timeout); err != nil {
		e.logger.Debug("page did not reach idle", "url", step.Target, "error", err)
	}
	e.dismissPopups(ctx, page)
	return NavigatePayload{URL: page.URL(), Title: page.Title()}, nil
}

func (e *Executor) search(ctx context.Context, page output.PagePort, step entity.PlanStep) (any, error) {
	candidates := make([]string, 0, 1+len(e.profile.SearchInputs)+len(profile.GenericSearchInputs))
	if step.Target != "" {
		candidates = append(candidates, step.Target)
	}
	candidates = append(candidates, e.profile.SearchInputs...)
	candidates = append(candidates, profile.GenericSearchInputs...)

	input, ok := e.resolver.Resolve(ctx, page, candidates, resolver.DefaultTimeout)
	if !ok {
		return nil, ErrSearchInputNotFound
	}
	if err := input.Fill(step.Value); err != nil {
		return nil, fmt.Errorf("fill search input: %w", err)
	}
	if err := input.PressEnter(); err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}
	if step.Options.Bool("wait_for_load") {
		if err := page.WaitIdle(step.Options.Timeout(defaultNavigateTimeout)); err != nil {
			e.logger.Debug("page did not reach idle after search", "error", err)
		}
	}
	return SearchPayload{Query: step.Value, Success: true}, nil
}

func (e *Executor) click(ctx context.Context, page output.PagePort, step entity.PlanStep) (any, error) {
	timeout := step.Options.Timeout(defaultClickTimeout)
	el, ok := e.resolver.Resolve(ctx, page, []string{step.Target}, timeout)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, step.Target)
	}
	if err := el.Click(); err != nil {
		return nil, fmt.Errorf("click %s: %w", step.Target, err)
	}
	return ClickPayload{Clicked: step.Target}, nil
}

// extract queries containers matching the target, falling back through the
// profile's and then the generic container locators. It never fails: a page
// with nothing extractable yields an empty item list.
func (e *Executor) extract(ctx context.Context, page output.PagePort, step entity.PlanStep) (any, error) {
	if !sleep(ctx, e.SettleDelay) {
		return []entity.ExtractedItem{}, nil
	}

	candidates := make([]string, 0, 1+len(e.profile.Containers)+len(profile.GenericContainers))
	if step.Target != "" {
		candidates = append(candidates, step.Target)
	}
	candidates = append(candidates, e.profile.Containers...)
	candidates = append(candidates, profile.GenericContainers...)

	var containers []output.ElementPort
	for _, loc := range candidates {
		els, err := page.Elements(loc)
		if err != nil {
			e.logger.Debug("container query failed", "locator", loc, "error", err)
			continue
		}
		if len(els) > 0 {
			containers = els
			break
		}
	}

	limit := step.Options.Int("limit", defaultExtractLimit)
	if limit <= 0 {
		limit = defaultExtractLimit
	}
	if len(containers) > limit {
		containers = containers[:limit]
	}

	fields := step.DataFields
	if len(fields) == 0 {
		e.logger.Debug("extract step without data fields")
	}

	items := []entity.ExtractedItem{}
	for _, container := range containers {
		item := e.fields.Item(container, page.URL(), fields)
		if len(item) >= e.MinFields {
			items = append(items, item)
		}
	}
	e.logger.Info("extraction finished",
		"containers", len(containers), "items", len(items))
	return items, nil
}

func (e *Executor) wait(ctx context.Context, step entity.PlanStep) (any, error) {
	timeout := step.Options.Timeout(defaultWaitTimeout)
	sleep(ctx, timeout)
	return WaitPayload{WaitedMs: int(timeout / time.Millisecond)}, nil
}

func (e *Executor) scroll(page output.PagePort, step entity.PlanStep) (any, error) {
	direction := step.Options.String("direction", "down")
	amount := step.Options.Int("amount", defaultScrollAmount)

	offset := amount
	if direction != "down" {
		offset = -amount
	}
	if err := page.Eval(fmt.Sprintf("() => window.scrollBy(0, %d)", offset)); err != nil {
		return nil, fmt.Errorf("scroll: %w", err)
	}
	return ScrollPayload{Direction: direction, Amount: amount}, nil
}

// dismissPopups best-effort clicks the profile's consent/modal selectors.
// Failures are ignored; most pages show none of them.
func (e *Executor) dismissPopups(ctx context.Context, page output.PagePort) {
	for _, loc := range e.profile.DismissPopups {
		el, ok := e.resolver.Resolve(ctx, page, []string{loc}, popupDismissTimeout)
		if !ok {
			continue
		}
		if err := el.Click(); err == nil {
			e.logger.Debug("dismissed popup", "locator", loc)
		}
	}
}

// sleep waits for d or until ctx is cancelled; reports whether the full
// delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

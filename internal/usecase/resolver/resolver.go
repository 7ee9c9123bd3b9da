package resolver

import (
	"context"
	"time"

	"web-navigator/internal/application/port/output"
)

const (
	// DefaultTimeout bounds the wait for each candidate locator.
	DefaultTimeout      = 5 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// Resolver finds the first visible element among a ranked list of locator
// candidates. Not-found is an explicit result, never an error: a candidate
// that matches nothing is silently skipped and the next one tried.
type Resolver struct {
	logger       output.LoggerPort
	pollInterval time.Duration
}

func New(logger output.LoggerPort) *Resolver {
	return &Resolver{logger: logger, pollInterval: defaultPollInterval}
}

// NewWithPollInterval is used by tests to keep polling fast.
func NewWithPollInterval(logger output.LoggerPort, poll time.Duration) *Resolver {
	return &Resolver{logger: logger, pollInterval: poll}
}

// Resolve tries each locator in order, waiting up to timeout for a visible
// match before moving on. An empty candidate list returns immediately.
func (r *Resolver) Resolve(ctx context.Context, page output.PagePort, locators []string, timeout time.Duration) (output.ElementPort, bool) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	for _, loc := range locators {
		if loc == "" {
			continue
		}
		if el, ok := r.waitFor(ctx, page, loc, timeout); ok {
			return el, true
		}
		if ctx.Err() != nil {
			return nil, false
		}
	}
	return nil, false
}

// ResolveIn narrows the search to a container, e.g. a sub-field inside a
// result card. No waiting: container contents are already rendered by the
// time extraction runs. Visibility is required; a present-but-hidden element
// counts as not found.
func (r *Resolver) ResolveIn(container output.ElementPort, locators []string) (output.ElementPort, bool) {
	for _, loc := range locators {
		if loc == "" {
			continue
		}
		el, ok := container.Find(loc)
		if !ok {
			continue
		}
		if el.Visible() {
			return el, true
		}
	}
	return nil, false
}

func (r *Resolver) waitFor(ctx context.Context, page output.PagePort, locator string, timeout time.Duration) (output.ElementPort, bool) {
	deadline := time.Now().Add(timeout)
	for {
		els, err := page.Elements(locator)
		if err != nil {
			r.logger.Debug("element query failed", "locator", locator, "error", err)
		}
		for _, el := range els {
			if el.Visible() {
				return el, true
			}
		}
		if time.Now().After(deadline) {
			return nil, false
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(r.pollInterval):
		}
	}
}

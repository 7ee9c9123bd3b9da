package output

import (
	"context"
	"time"
)

// BrowserPort is the session provider. One page is acquired per plan run and
// released by the runner on every exit path.
type BrowserPort interface {
	NewPage(ctx context.Context) (PagePort, error)
	Close()
}

// PagePort is one live browser page. Handles returned by Elements are only
// valid until the next navigation; the engine never reuses handles across
// steps.
type PagePort interface {
	Goto(ctx context.Context, url string, timeout time.Duration) error
	WaitIdle(timeout time.Duration) error
	URL() string
	Title() string
	HTML() (string, error)
	Elements(locator string) ([]ElementPort, error)
	Eval(js string) error
	Screenshot() ([]byte, error)
	Close() error
}

// ElementPort is a handle to one DOM element.
type ElementPort interface {
	Text() (string, error)
	Attribute(name string) (string, error)
	Click() error
	Fill(text string) error
	PressEnter() error
	Visible() bool
	// Find returns the first descendant matching the locator, without a
	// visibility requirement; callers that need visibility check it.
	Find(locator string) (ElementPort, bool)
}

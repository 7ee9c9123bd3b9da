package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web-navigator/internal/application/port/output"
	"web-navigator/internal/domain/entity"
	"web-navigator/internal/domain/profile"
	"web-navigator/internal/infrastructure/logger"
	"web-navigator/internal/usecase/resolver"
)

type fakeElement struct {
	text     string
	attrs    map[string]string
	visible  bool
	children map[string]*fakeElement
	clicks   int
	filled   []string
	entered  int
}

func (f *fakeElement) Text() (string, error) { return f.text, nil }

func (f *fakeElement) Attribute(name string) (string, error) {
	return f.attrs[name], nil
}

func (f *fakeElement) Click() error { f.clicks++; return nil }

func (f *fakeElement) Fill(text string) error {
	f.filled = append(f.filled, text)
	return nil
}

func (f *fakeElement) PressEnter() error { f.entered++; return nil }

func (f *fakeElement) Visible() bool { return f.visible }

func (f *fakeElement) Find(locator string) (output.ElementPort, bool) {
	child, ok := f.children[locator]
	if !ok {
		return nil, false
	}
	return child, true
}

type fakePage struct {
	url      string
	title    string
	elements map[string][]output.ElementPort
	gotoErr  error
	evals    []string
	idles    int
}

func (p *fakePage) Goto(_ context.Context, url string, _ time.Duration) error {
	if p.gotoErr != nil {
		return p.gotoErr
	}
	p.url = url
	return nil
}

func (p *fakePage) WaitIdle(time.Duration) error { p.idles++; return nil }

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Title() string { return p.title }

func (p *fakePage) HTML() (string, error) { return "", nil }

func (p *fakePage) Elements(locator string) ([]output.ElementPort, error) {
	return p.elements[locator], nil
}

func (p *fakePage) Eval(js string) error {
	p.evals = append(p.evals, js)
	return nil
}

func (p *fakePage) Screenshot() ([]byte, error) { return []byte{0xFF, 0xD8}, nil }

func (p *fakePage) Close() error { return nil }

func newTestExecutor(prof profile.Profile) *Executor {
	log := logger.NewNop()
	e := New(resolver.NewWithPollInterval(log, time.Millisecond), prof, log)
	e.SettleDelay = 0
	return e
}

func TestExecute_Navigate(t *testing.T) {
	page := &fakePage{title: "Example Domain"}
	e := newTestExecutor(profile.Profile{})

	payload, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType: entity.StepNavigate,
		Target:   "https://example.com",
	})

	require.NoError(t, err)
	nav, ok := payload.(NavigatePayload)
	require.True(t, ok)
	assert.Equal(t, "https://example.com", nav.URL)
	assert.Equal(t, "Example Domain", nav.Title)
	assert.Equal(t, 1, page.idles)
}

func TestExecute_NavigateDismissesProfilePopups(t *testing.T) {
	dismiss := &fakeElement{visible: true}
	page := &fakePage{elements: map[string][]output.ElementPort{
		"#consent-accept": {dismiss},
	}}
	e := newTestExecutor(profile.Profile{DismissPopups: []string{"#consent-accept"}})

	_, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType: entity.StepNavigate,
		Target:   "https://example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, dismiss.clicks)
}

func TestExecute_SearchFillsAndSubmits(t *testing.T) {
	input := &fakeElement{visible: true}
	page := &fakePage{elements: map[string][]output.ElementPort{
		"#searchbox": {input},
	}}
	e := newTestExecutor(profile.Profile{})

	payload, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType: entity.StepSearch,
		Target:   "#searchbox",
		Value:    "mechanical keyboard",
	})

	require.NoError(t, err)
	search, ok := payload.(SearchPayload)
	require.True(t, ok)
	assert.True(t, search.Success)
	assert.Equal(t, "mechanical keyboard", search.Query)
	assert.Equal(t, []string{"mechanical keyboard"}, input.filled)
	assert.Equal(t, 1, input.entered)
}

func TestExecute_SearchUsesProfileInputWhenStepHasNoTarget(t *testing.T) {
	input := &fakeElement{visible: true}
	page := &fakePage{elements: map[string][]output.ElementPort{
		"#site-search": {input},
	}}
	e := newTestExecutor(profile.Profile{SearchInputs: []string{"#site-search"}})

	_, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType: entity.StepSearch,
		Value:    "query",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, input.entered)
}

func TestExecute_SearchInputNotFound(t *testing.T) {
	page := &fakePage{}
	e := newTestExecutor(profile.Profile{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := e.Execute(ctx, page, entity.PlanStep{
		StepType: entity.StepSearch,
		Value:    "query",
	})

	assert.ErrorIs(t, err, ErrSearchInputNotFound)
}

func TestExecute_Click(t *testing.T) {
	button := &fakeElement{visible: true}
	page := &fakePage{elements: map[string][]output.ElementPort{
		".next-page": {button},
	}}
	e := newTestExecutor(profile.Profile{})

	payload, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType: entity.StepClick,
		Target:   ".next-page",
	})

	require.NoError(t, err)
	click, ok := payload.(ClickPayload)
	require.True(t, ok)
	assert.Equal(t, ".next-page", click.Clicked)
	assert.Equal(t, 1, button.clicks)
}

func TestExecute_ClickElementNotFound(t *testing.T) {
	page := &fakePage{}
	e := newTestExecutor(profile.Profile{})

	_, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType: entity.StepClick,
		Target:   ".gone",
		Options:  entity.StepOptions{"timeout": 20},
	})

	assert.ErrorIs(t, err, ErrElementNotFound)
}

func newResultCard(title, price string) *fakeElement {
	return &fakeElement{
		visible: true,
		children: map[string]*fakeElement{
			"h2":     {visible: true, text: title},
			".price": {visible: true, text: price},
		},
	}
}

func TestExecute_ExtractHonorsLimit(t *testing.T) {
	page := &fakePage{
		url: "https://shop.example.com",
		elements: map[string][]output.ElementPort{
			".product": {
				newResultCard("First product listing", "$10"),
				newResultCard("Second product listing", "$20"),
				newResultCard("Third product listing", "$30"),
			},
		},
	}
	e := newTestExecutor(profile.Profile{})

	payload, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType:   entity.StepExtract,
		Target:     ".product",
		DataFields: []string{profile.FieldTitle, profile.FieldPrice},
		Options:    entity.StepOptions{"limit": 2},
	})

	require.NoError(t, err)
	items, ok := payload.([]entity.ExtractedItem)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "First product listing", items[0][profile.FieldTitle])
	assert.Equal(t, "Second product listing", items[1][profile.FieldTitle])
}

func TestExecute_ExtractDropsSparseItems(t *testing.T) {
	sparse := &fakeElement{visible: true, children: map[string]*fakeElement{
		".price": {visible: true, text: "$5"},
	}}
	page := &fakePage{
		elements: map[string][]output.ElementPort{
			".product": {newResultCard("Complete product card", "$10"), sparse},
		},
	}
	e := newTestExecutor(profile.Profile{})

	payload, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType:   entity.StepExtract,
		Target:     ".product",
		DataFields: []string{profile.FieldTitle, profile.FieldPrice},
	})

	require.NoError(t, err)
	items := payload.([]entity.ExtractedItem)
	require.Len(t, items, 1, "A price-only card stays below the two-field threshold")
	assert.Equal(t, "Complete product card", items[0][profile.FieldTitle])
}

func TestExecute_ExtractNothingMatchedIsNotAnError(t *testing.T) {
	page := &fakePage{}
	e := newTestExecutor(profile.Profile{})

	payload, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType:   entity.StepExtract,
		DataFields: []string{profile.FieldTitle},
	})

	require.NoError(t, err)
	items := payload.([]entity.ExtractedItem)
	assert.Empty(t, items)
}

func TestExecute_Wait(t *testing.T) {
	page := &fakePage{}
	e := newTestExecutor(profile.Profile{})

	start := time.Now()
	payload, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType: entity.StepWait,
		Options:  entity.StepOptions{"timeout": 20},
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	wait, ok := payload.(WaitPayload)
	require.True(t, ok)
	assert.Equal(t, 20, wait.WaitedMs)
}

func TestExecute_ScrollDirections(t *testing.T) {
	tests := []struct {
		name    string
		options entity.StepOptions
		wantJS  string
	}{
		{"default", nil, "() => window.scrollBy(0, 1000)"},
		{"up", entity.StepOptions{"direction": "up"}, "() => window.scrollBy(0, -1000)"},
		{"custom amount", entity.StepOptions{"direction": "down", "amount": 250}, "() => window.scrollBy(0, 250)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &fakePage{}
			e := newTestExecutor(profile.Profile{})

			_, err := e.Execute(context.Background(), page, entity.PlanStep{
				StepType: entity.StepScroll,
				Options:  tt.options,
			})

			require.NoError(t, err)
			require.Len(t, page.evals, 1)
			assert.Equal(t, tt.wantJS, page.evals[0])
		})
	}
}

func TestExecute_UnknownStepType(t *testing.T) {
	page := &fakePage{}
	e := newTestExecutor(profile.Profile{})

	payload, err := e.Execute(context.Background(), page, entity.PlanStep{
		StepType: entity.StepType("hover"),
	})

	assert.NoError(t, err)
	assert.Nil(t, payload)
}

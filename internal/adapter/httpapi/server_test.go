package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web-navigator/internal/application/port/output"
	"web-navigator/internal/domain/profile"
	"web-navigator/internal/infrastructure/logger"
	"web-navigator/internal/usecase/planner"
)

type fakeElement struct {
	text     string
	attrs    map[string]string
	visible  bool
	children map[string]*fakeElement
}

func (f *fakeElement) Text() (string, error) { return f.text, nil }

func (f *fakeElement) Attribute(name string) (string, error) {
	return f.attrs[name], nil
}

func (f *fakeElement) Click() error { return nil }

func (f *fakeElement) Fill(string) error { return nil }

func (f *fakeElement) PressEnter() error { return nil }

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
	elements map[string][]output.ElementPort
}

func (p *fakePage) Goto(_ context.Context, url string, _ time.Duration) error {
	p.url = url
	return nil
}

func (p *fakePage) WaitIdle(time.Duration) error { return nil }

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Title() string { return "fake page" }

func (p *fakePage) HTML() (string, error) { return "", nil }

func (p *fakePage) Elements(locator string) ([]output.ElementPort, error) {
	return p.elements[locator], nil
}

func (p *fakePage) Eval(string) error { return nil }

func (p *fakePage) Screenshot() ([]byte, error) { return nil, nil }

func (p *fakePage) Close() error { return nil }

type fakeBrowser struct {
	page *fakePage
}

func (b *fakeBrowser) NewPage(context.Context) (output.PagePort, error) { return b.page, nil }

func (b *fakeBrowser) Close() {}

func newTestServer(t *testing.T, page *fakePage) *httptest.Server {
	t.Helper()
	log := logger.NewNop()
	profiles := profile.NewRegistry()
	plan := planner.New(nil, profiles, log)
	s := NewServer(plan, &fakeBrowser{page: page}, profiles, log)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func resultCard(title, description, href string) *fakeElement {
	return &fakeElement{
		visible: true,
		children: map[string]*fakeElement{
			"h2": {visible: true, text: title},
			"p":  {visible: true, text: description},
			"a":  {visible: true, attrs: map[string]string{"href": href}},
		},
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakePage{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["profiles"])
}

func TestNavigate_EndToEnd(t *testing.T) {
	searchInput := &fakeElement{visible: true}
	page := &fakePage{elements: map[string][]output.ElementPort{
		`input[name="q"]`: {searchInput},
		"article": {
			resultCard("Interesting article about Go", "A long enough description of the article body.", "/posts/1"),
			resultCard("Second article worth a read", "Another description that clears the length bar.", "/posts/2"),
		},
	}}
	ts := newTestServer(t, page)

	resp := postJSON(t, ts.URL+"/navigate", map[string]any{
		"instruction": "interesting articles about programming",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["task_id"])

	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)
	first, ok := data[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Interesting article about Go", first["title"])

	steps, ok := body["steps"].([]any)
	require.True(t, ok)
	assert.Len(t, steps, 3)
}

func TestNavigate_MissingInstruction(t *testing.T) {
	ts := newTestServer(t, &fakePage{})

	resp := postJSON(t, ts.URL+"/navigate", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestNavigate_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, &fakePage{})

	resp, err := http.Post(ts.URL+"/navigate", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcess_FiltersAndSorts(t *testing.T) {
	ts := newTestServer(t, &fakePage{})

	resp := postJSON(t, ts.URL+"/process", map[string]any{
		"items": []map[string]string{
			{"title": "expensive", "price": "$300"},
			{"title": "cheap", "price": "$20"},
			{"title": "mid", "price": "$100"},
		},
		"expected_format": map[string]any{
			"sort_by": "price",
			"filters": map[string]any{"price": map[string]any{"max": 150}},
		},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(2), body["count"])

	data := body["data"].([]any)
	first := data[0].(map[string]any)
	assert.Equal(t, "cheap", first["title"])
}

func TestExtract_StaticHTML(t *testing.T) {
	ts := newTestServer(t, &fakePage{})

	resp := postJSON(t, ts.URL+"/extract", map[string]any{
		"html":     `<article><h2>Static result title</h2><span class="price">$42</span></article>`,
		"base_url": "https://example.com",
		"fields":   []string{"title", "price"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])

	data := body["data"].([]any)
	first := data[0].(map[string]any)
	assert.Equal(t, "Static result title", first["title"])
	assert.Equal(t, "$42", first["price"])
}

func TestExtract_MissingHTML(t *testing.T) {
	ts := newTestServer(t, &fakePage{})

	resp := postJSON(t, ts.URL+"/extract", map[string]any{"base_url": "https://example.com"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

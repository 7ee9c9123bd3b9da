package rodadapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"web-navigator/internal/application/port/output"
)

var (
	ErrBrowserClosed   = errors.New("browser not connected")
	ErrInvalidURL      = errors.New("invalid url")
	ErrInvalidSelector = errors.New("invalid selector")
)

const (
	defaultTimeout     = 10 * time.Second
	screenshotMaxWidth = 1024
)

var _ output.BrowserPort = (*Browser)(nil)

type Config struct {
	Headless   bool
	SlowMotion time.Duration
	NoSandbox  bool
	Timeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Headless: true,
		Timeout:  defaultTimeout,
	}
}

// Browser wraps a rod browser process behind the session port.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
}

func NewBrowser(ctx context.Context, cfg Config) (*Browser, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	return &Browser{
		browser:  browser,
		launcher: l,
		timeout:  cfg.Timeout,
	}, nil
}

func (b *Browser) NewPage(ctx context.Context) (output.PagePort, error) {
	if b.isClosed() {
		return nil, ErrBrowserClosed
	}
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &Page{page: page, timeout: b.timeout}, nil
}

func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

func (b *Browser) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

var _ output.PagePort = (*Page)(nil)

// Page adapts one rod page to the page port.
type Page struct {
	page    *rod.Page
	timeout time.Duration
}

func (p *Page) Goto(ctx context.Context, rawURL string, timeout time.Duration) error {
	rawURL, err := normalizeNavigationURL(rawURL)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = p.timeout
	}

	page := p.page.Context(ctx).Timeout(timeout)
	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load timed out: %w", err)
	}
	return nil
}

func (p *Page) WaitIdle(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = p.timeout
	}
	return p.page.WaitIdle(timeout)
}

func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *Page) Title() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.Title
}

func (p *Page) HTML() (string, error) {
	return p.page.HTML()
}

func (p *Page) Elements(locator string) ([]output.ElementPort, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, ErrInvalidSelector
	}

	var els rod.Elements
	var err error
	if isXPathSelector(locator) {
		els, err = p.page.ElementsX(strings.TrimPrefix(locator, "xpath="))
	} else {
		els, err = p.page.Elements(locator)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", locator, err)
	}

	handles := make([]output.ElementPort, 0, len(els))
	for _, el := range els {
		handles = append(handles, &Element{el: el})
	}
	return handles, nil
}

func (p *Page) Eval(js string) error {
	_, err := p.page.Eval(js)
	if err != nil {
		return fmt.Errorf("eval failed: %w", err)
	}
	return nil
}

// Screenshot captures a JPEG, downscaled to at most 1024px wide to keep
// step-result payloads small.
func (p *Page) Screenshot() ([]byte, error) {
	raw, err := p.page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	if img.Bounds().Dx() > screenshotMaxWidth {
		img = imaging.Resize(img, screenshotMaxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *Page) Close() error {
	return p.page.Close()
}

var _ output.ElementPort = (*Element)(nil)

// Element adapts one rod element handle.
type Element struct {
	el *rod.Element
}

func (e *Element) Text() (string, error) {
	return e.el.Text()
}

func (e *Element) Attribute(name string) (string, error) {
	val, err := e.el.Attribute(name)
	if err != nil {
		return "", err
	}
	return pointerToString(val), nil
}

func (e *Element) Click() error {
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *Element) Fill(text string) error {
	if err := e.el.SelectAllText(); err == nil {
		_ = e.el.Input("")
	}
	if err := e.el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (e *Element) PressEnter() error {
	if err := e.el.Input("\r"); err != nil {
		return fmt.Errorf("press enter failed: %w", err)
	}
	return nil
}

func (e *Element) Visible() bool {
	visible, err := e.el.Visible()
	return err == nil && visible
}

func (e *Element) Find(locator string) (output.ElementPort, bool) {
	has, sub, err := e.el.Has(locator)
	if err != nil || !has {
		return nil, false
	}
	return &Element{el: sub}, true
}

// normalizeNavigationURL accepts bare hosts ("amazon.com") by prefixing
// https, and rejects anything that still is not an http(s) URL. Plans arrive
// from external callers, so targets are not guaranteed to carry a scheme.
func normalizeNavigationURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err == nil && u.Scheme == "" && rawURL != "" {
		rawURL = "https://" + rawURL
		u, err = url.Parse(rawURL)
	}
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	return rawURL, nil
}

func isXPathSelector(selector string) bool {
	return strings.HasPrefix(selector, "/") ||
		strings.HasPrefix(selector, "(") ||
		strings.HasPrefix(selector, "xpath=")
}

func pointerToString(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}

// Package memory is a browser engine that keeps pages in memory. It records
// every call so it doubles as a stub for tests, and it backs dry runs where no
// real browser is installed.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"browser-tool/internal/application/port/output"
	"browser-tool/internal/domain/entity"

	"github.com/disintegration/imaging"
)

var (
	_ output.BrowserEngine   = (*Engine)(nil)
	_ output.Driver          = (*driver)(nil)
	_ output.Browser         = (*browser)(nil)
	_ output.BrowsingContext = (*browsingContext)(nil)
	_ output.Page            = (*page)(nil)
)

type Call struct {
	Op   string
	Args []string
}

// Engine is safe for concurrent use. Failures are injected per operation name
// through Fail; operation names match the Call.Op values.
type Engine struct {
	mu    sync.Mutex
	calls []Call
	fail  map[string]error
	pages map[string]string

	lastPage *page

	ViewportWidth  int
	ViewportHeight int
	PageHeight     int
}

func NewEngine() *Engine {
	return &Engine{
		fail:           make(map[string]error),
		pages:          make(map[string]string),
		ViewportWidth:  1280,
		ViewportHeight: 720,
		PageHeight:     2000,
	}
}

// Fail makes every later call of op return err. A nil err clears it.
func (e *Engine) Fail(op string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.fail, op)
		return
	}
	e.fail[op] = err
}

// SetPage registers the HTML served for url.
func (e *Engine) SetPage(url, html string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pages[url] = html
}

func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// Count returns how many times op was called.
func (e *Engine) Count(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Last returns the most recent call of op.
func (e *Engine) Last(op string) (Call, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.calls) - 1; i >= 0; i-- {
		if e.calls[i].Op == op {
			return e.calls[i], true
		}
	}
	return Call{}, false
}

func (e *Engine) record(op string, args ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Op: op, Args: args})
	return e.fail[op]
}

func (e *Engine) html(url string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if html, ok := e.pages[url]; ok {
		return html
	}
	return fmt.Sprintf("<html><head><title>%s</title></head><body></body></html>", url)
}

func (e *Engine) Start(ctx context.Context) (output.Driver, error) {
	if err := e.record("start"); err != nil {
		return nil, err
	}
	return &driver{engine: e}, nil
}

type driver struct {
	engine *Engine
}

func (d *driver) Launch(ctx context.Context, opts output.LaunchOptions) (output.Browser, error) {
	if err := d.engine.record("launch", fmt.Sprintf("headless=%t", opts.Headless)); err != nil {
		return nil, err
	}
	return &browser{engine: d.engine}, nil
}

func (d *driver) Stop() error {
	return d.engine.record("stop")
}

type browser struct {
	engine *Engine
}

func (b *browser) NewContext(ctx context.Context, opts output.ContextOptions) (output.BrowsingContext, error) {
	if err := b.engine.record("new_context", opts.UserAgent); err != nil {
		return nil, err
	}
	return &browsingContext{engine: b.engine}, nil
}

func (b *browser) Close() error {
	return b.engine.record("close_browser")
}

type browsingContext struct {
	engine *Engine
}

func (c *browsingContext) NewPage(ctx context.Context) (output.Page, error) {
	if err := c.engine.record("new_page"); err != nil {
		return nil, err
	}
	pg := &page{engine: c.engine, history: []string{"about:blank"}}
	c.engine.mu.Lock()
	c.engine.lastPage = pg
	c.engine.mu.Unlock()
	return pg, nil
}

func (c *browsingContext) Close() error {
	return c.engine.record("close_context")
}

type page struct {
	engine  *Engine
	mu      sync.Mutex
	history []string
	pos     int
	scrollY int
	closed  bool
}

func (p *page) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("page has been closed")
	}
	return nil
}

func (p *page) current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history[p.pos]
}

func (p *page) Goto(ctx context.Context, url string, waitUntil entity.WaitUntil) error {
	if err := p.engine.record("goto", url, string(waitUntil)); err != nil {
		return err
	}
	if err := p.check(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = append(p.history[:p.pos+1], url)
	p.pos = len(p.history) - 1
	p.scrollY = 0
	return nil
}

func (p *page) Click(ctx context.Context, selector string) error {
	if err := p.engine.record("click", selector); err != nil {
		return err
	}
	return p.check(ctx)
}

func (p *page) Fill(ctx context.Context, selector, text string) error {
	if err := p.engine.record("fill", selector, text); err != nil {
		return err
	}
	return p.check(ctx)
}

func (p *page) Press(ctx context.Context, key string) error {
	if err := p.engine.record("press", key); err != nil {
		return err
	}
	return p.check(ctx)
}

func (p *page) Content(ctx context.Context) (string, error) {
	if err := p.engine.record("content"); err != nil {
		return "", err
	}
	if err := p.check(ctx); err != nil {
		return "", err
	}
	return p.engine.html(p.current()), nil
}

func (p *page) URL(ctx context.Context) (string, error) {
	if err := p.engine.record("url"); err != nil {
		return "", err
	}
	if err := p.check(ctx); err != nil {
		return "", err
	}
	return p.current(), nil
}

func (p *page) GoBack(ctx context.Context) error {
	if err := p.engine.record("back"); err != nil {
		return err
	}
	if err := p.check(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pos > 0 {
		p.pos--
	}
	return nil
}

func (p *page) GoForward(ctx context.Context) error {
	if err := p.engine.record("forward"); err != nil {
		return err
	}
	if err := p.check(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pos < len(p.history)-1 {
		p.pos++
	}
	return nil
}

func (p *page) Reload(ctx context.Context) error {
	if err := p.engine.record("reload"); err != nil {
		return err
	}
	return p.check(ctx)
}

// Evaluate understands window.scrollBy(x, y) and window.scrollTo(x, y) so the
// scroll offset can be inspected with ScrollY; other scripts are only recorded.
func (p *page) Evaluate(ctx context.Context, expression string) error {
	if err := p.engine.record("evaluate", expression); err != nil {
		return err
	}
	if err := p.check(ctx); err != nil {
		return err
	}

	var x, y int
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case strings.HasPrefix(expression, "window.scrollBy("):
		if _, err := fmt.Sscanf(expression, "window.scrollBy(%d, %d)", &x, &y); err != nil {
			return fmt.Errorf("evaluate %q: %w", expression, err)
		}
		p.scrollY += y
	case strings.HasPrefix(expression, "window.scrollTo("):
		if _, err := fmt.Sscanf(expression, "window.scrollTo(%d, %d)", &x, &y); err != nil {
			return fmt.Errorf("evaluate %q: %w", expression, err)
		}
		p.scrollY = y
	}

	maxY := p.engine.PageHeight - p.engine.ViewportHeight
	if p.scrollY > maxY {
		p.scrollY = maxY
	}
	if p.scrollY < 0 {
		p.scrollY = 0
	}
	return nil
}

// ScrollY reports the vertical scroll offset of the most recently opened page.
func (e *Engine) ScrollY() int {
	e.mu.Lock()
	pg := e.lastPage
	e.mu.Unlock()
	if pg == nil {
		return 0
	}
	pg.mu.Lock()
	defer pg.mu.Unlock()
	return pg.scrollY
}

func (p *page) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	if err := p.engine.record("screenshot", fmt.Sprintf("full_page=%t", fullPage)); err != nil {
		return nil, err
	}
	if err := p.check(ctx); err != nil {
		return nil, err
	}

	height := p.engine.ViewportHeight
	if fullPage {
		height = p.engine.PageHeight
	}
	img := imaging.New(p.engine.ViewportWidth, height, color.White)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *page) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return p.engine.record("close_page")
}

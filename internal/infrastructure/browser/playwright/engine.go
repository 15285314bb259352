// Package playwright runs browser sessions through playwright-go.
package playwright

import (
	"context"
	"fmt"
	"io"
	"time"

	"browser-tool/internal/application/port/output"
	"browser-tool/internal/domain/entity"

	"github.com/playwright-community/playwright-go"
)

var (
	_ output.BrowserEngine   = (*Engine)(nil)
	_ output.Driver          = (*Driver)(nil)
	_ output.Browser         = (*Browser)(nil)
	_ output.BrowsingContext = (*BrowsingContext)(nil)
	_ output.Page            = (*Page)(nil)
)

type Config struct {
	// Install downloads the driver and Chromium before the first start.
	Install bool
	// Timeout is the default for page operations in milliseconds. Zero keeps Playwright's 30s.
	Timeout float64
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Start(ctx context.Context) (output.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if e.cfg.Install {
		if err := playwright.Install(opts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &Driver{cfg: e.cfg, pw: pw}, nil
}

type Driver struct {
	cfg Config
	pw  *playwright.Playwright
}

func (d *Driver) Launch(ctx context.Context, opts output.LaunchOptions) (output.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	browser, err := d.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	return &Browser{cfg: d.cfg, browser: browser}, nil
}

func (d *Driver) Stop() error {
	return d.pw.Stop()
}

type Browser struct {
	cfg     Config
	browser playwright.Browser
}

func (b *Browser) NewContext(ctx context.Context, opts output.ContextOptions) (output.BrowsingContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if opts.UserAgent != "" {
		contextOpts.UserAgent = &opts.UserAgent
	}

	bctx, err := b.browser.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	return &BrowsingContext{cfg: b.cfg, context: bctx}, nil
}

func (b *Browser) Close() error {
	return b.browser.Close()
}

type BrowsingContext struct {
	cfg     Config
	context playwright.BrowserContext
}

func (c *BrowsingContext) NewPage(ctx context.Context) (output.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := c.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if c.cfg.Timeout > 0 {
		page.SetDefaultTimeout(c.cfg.Timeout)
	}
	return &Page{page: page}, nil
}

func (c *BrowsingContext) Close() error {
	return c.context.Close()
}

// Page calls Playwright synchronously. Playwright has no context support, so a
// deadline on ctx becomes the operation timeout and cancellation is checked
// before each call.
type Page struct {
	page playwright.Page
}

func timeoutFrom(ctx context.Context) *float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	ms := float64(time.Until(deadline).Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return &ms
}

func (p *Page) Goto(ctx context.Context, url string, waitUntil entity.WaitUntil) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := playwright.PageGotoOptions{Timeout: timeoutFrom(ctx)}
	if waitUntil != "" {
		state := playwright.WaitUntilState(waitUntil)
		opts.WaitUntil = &state
	}

	if _, err := p.page.Goto(url, opts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.page.Click(selector, playwright.PageClickOptions{Timeout: timeoutFrom(ctx)}); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *Page) Fill(ctx context.Context, selector, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.page.Fill(selector, text, playwright.PageFillOptions{Timeout: timeoutFrom(ctx)}); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (p *Page) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

func (p *Page) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func (p *Page) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.URL(), nil
}

func (p *Page) GoBack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.GoBack(playwright.PageGoBackOptions{Timeout: timeoutFrom(ctx)}); err != nil {
		return fmt.Errorf("navigate back: %w", err)
	}
	return nil
}

func (p *Page) GoForward(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.GoForward(playwright.PageGoForwardOptions{Timeout: timeoutFrom(ctx)}); err != nil {
		return fmt.Errorf("navigate forward: %w", err)
	}
	return nil
}

func (p *Page) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Reload(playwright.PageReloadOptions{Timeout: timeoutFrom(ctx)}); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

func (p *Page) Evaluate(ctx context.Context, expression string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Evaluate(expression); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return nil
}

func (p *Page) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: &fullPage,
		Type:     playwright.ScreenshotTypePng,
		Timeout:  timeoutFrom(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

func (p *Page) Close() error {
	return p.page.Close()
}

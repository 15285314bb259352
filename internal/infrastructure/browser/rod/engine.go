package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"browser-tool/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var (
	_ output.BrowserEngine   = (*Engine)(nil)
	_ output.Driver          = (*Driver)(nil)
	_ output.Browser         = (*Browser)(nil)
	_ output.BrowsingContext = (*BrowsingContext)(nil)
)

const (
	defaultIdleWindow  = 500 * time.Millisecond
	defaultIdleTimeout = 30 * time.Second
	defaultElementWait = 30 * time.Second
)

type Config struct {
	// Bin is the browser executable. Empty lets the launcher find or download one.
	Bin        string
	NoSandbox  bool
	DevTools   bool
	SlowMotion time.Duration
	Trace      bool
	// IdleWindow is how long the network must stay quiet for a navigation to
	// count as idle; IdleTimeout caps the wait.
	IdleWindow  time.Duration
	IdleTimeout time.Duration
	// ElementTimeout caps how long click and type wait for a selector to match.
	ElementTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		IdleWindow:     defaultIdleWindow,
		IdleTimeout:    defaultIdleTimeout,
		ElementTimeout: defaultElementWait,
	}
}

// Engine drives Chromium over CDP with go-rod.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.IdleWindow <= 0 {
		cfg.IdleWindow = defaultIdleWindow
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.ElementTimeout <= 0 {
		cfg.ElementTimeout = defaultElementWait
	}
	return &Engine{cfg: cfg}
}

// Start prepares a launcher. The browser process itself starts in Launch and
// outlives ctx; only Driver.Stop ends it.
func (e *Engine) Start(ctx context.Context) (output.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := launcher.New().
		NoSandbox(e.cfg.NoSandbox).
		Devtools(e.cfg.DevTools).
		Delete("use-mock-keychain")

	if e.cfg.Bin != "" {
		l = l.Bin(e.cfg.Bin)
	}

	return &Driver{cfg: e.cfg, launcher: l}, nil
}

type Driver struct {
	cfg      Config
	launcher *launcher.Launcher
}

func (d *Driver) Launch(ctx context.Context, opts output.LaunchOptions) (output.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url, err := d.launcher.Headless(opts.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		Trace(d.cfg.Trace).
		SlowMotion(d.cfg.SlowMotion)

	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{cfg: d.cfg, browser: browser}, nil
}

// Stop kills the browser process and removes its user data dir.
func (d *Driver) Stop() error {
	d.launcher.Kill()
	d.launcher.Cleanup()
	return nil
}

type Browser struct {
	cfg     Config
	browser *rod.Browser
}

// NewContext opens an incognito browser context.
func (b *Browser) NewContext(ctx context.Context, opts output.ContextOptions) (output.BrowsingContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create incognito context: %w", err)
	}
	return &BrowsingContext{cfg: b.cfg, browser: incognito, userAgent: opts.UserAgent}, nil
}

func (b *Browser) Close() error {
	return b.browser.Close()
}

type BrowsingContext struct {
	cfg       Config
	browser   *rod.Browser
	userAgent string
}

func (c *BrowsingContext) NewPage(ctx context.Context) (output.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := c.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if c.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: c.userAgent}); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to set user agent: %w", err), page.Close())
		}
	}

	return &Page{cfg: c.cfg, page: page}, nil
}

// Close disposes the incognito context together with its pages.
func (c *BrowsingContext) Close() error {
	return c.browser.Close()
}

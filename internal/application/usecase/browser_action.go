package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"browser-tool/internal/application/port/input"
	"browser-tool/internal/application/port/output"
	"browser-tool/internal/domain/entity"
)

var _ input.BrowserActionExecutor = (*BrowserActionAdapter)(nil)

const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

var ErrNoSession = errors.New("browser session is not started")

type Config struct {
	Headless  bool
	UserAgent string
	// ActionTimeout bounds a single Execute call. Zero leaves timing to the engine.
	ActionTimeout time.Duration
	// Cleaner, when set, rewrites page HTML for content requests with clean=true.
	Cleaner func(html string) string
}

func DefaultConfig() Config {
	return Config{
		Headless:  true,
		UserAgent: DefaultUserAgent,
	}
}

// BrowserActionAdapter owns one lazily started browser session and dispatches
// named actions onto its single page.
type BrowserActionAdapter struct {
	engine      output.BrowserEngine
	screenshots output.ScreenshotStore
	logger      output.LoggerPort
	cfg         Config
	now         func() time.Time

	mu      sync.Mutex
	driver  output.Driver
	browser output.Browser
	context output.BrowsingContext
	page    output.Page
}

func NewBrowserActionAdapter(
	engine output.BrowserEngine,
	screenshots output.ScreenshotStore,
	logger output.LoggerPort,
	cfg Config,
) (*BrowserActionAdapter, error) {
	if engine == nil {
		return nil, fmt.Errorf("browser engine is required")
	}
	if screenshots == nil {
		return nil, fmt.Errorf("screenshot store is required")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &BrowserActionAdapter{
		engine:      engine,
		screenshots: screenshots,
		logger:      logger.WithField("component", "browser"),
		cfg:         cfg,
		now:         time.Now,
	}, nil
}

// Active reports whether a browser session is currently open.
func (a *BrowserActionAdapter) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page != nil
}

func (a *BrowserActionAdapter) Execute(ctx context.Context, action string, params entity.Params) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.ActionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.ActionTimeout)
		defer cancel()
	}

	req := entity.Action(action)
	if msg := validate(req, params); msg != "" {
		a.logger.Debug("Browser action rejected", "action", action, "reason", msg)
		return msg
	}

	start := a.now()
	result, err := a.execute(ctx, req, params)
	if err != nil {
		a.logger.Error("Browser tool error",
			"action", action,
			"error", err.Error(),
			"duration_ms", a.now().Sub(start).Milliseconds(),
		)
		return "Error: " + err.Error()
	}

	a.logger.Info("Browser action completed",
		"action", action,
		"duration_ms", a.now().Sub(start).Milliseconds(),
	)
	return result
}

func (a *BrowserActionAdapter) execute(ctx context.Context, action entity.Action, params entity.Params) (string, error) {
	if err := a.ensureSession(ctx); err != nil {
		return "", err
	}
	return a.dispatch(ctx, action, params)
}

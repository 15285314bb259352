package output

import (
	"context"

	"browser-tool/internal/domain/entity"
)

// BrowserEngine starts the automation engine. Each Start yields an independent
// Driver that owns its own browser processes.
type BrowserEngine interface {
	Start(ctx context.Context) (Driver, error)
}

type LaunchOptions struct {
	Headless bool
}

type ContextOptions struct {
	UserAgent string
}

type Driver interface {
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
	Stop() error
}

type Browser interface {
	NewContext(ctx context.Context, opts ContextOptions) (BrowsingContext, error)
	Close() error
}

// BrowsingContext is an isolated set of pages sharing cookies and storage.
type BrowsingContext interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

type Page interface {
	Goto(ctx context.Context, url string, waitUntil entity.WaitUntil) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	Press(ctx context.Context, key string) error

	Content(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)

	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error
	Reload(ctx context.Context) error

	// Evaluate runs a JavaScript expression in the page and discards its value.
	Evaluate(ctx context.Context, expression string) error
	// Screenshot returns PNG bytes of the viewport, or of the whole page when fullPage is set.
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)

	Close() error
}

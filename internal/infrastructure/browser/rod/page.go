package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"browser-tool/internal/application/port/output"
	"browser-tool/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.Page = (*Page)(nil)

var ErrElementNotFound = errors.New("element not found")

type Page struct {
	cfg  Config
	page *rod.Page
}

// on binds a single operation to ctx without changing the stored page.
func (p *Page) on(ctx context.Context) *rod.Page {
	return p.page.Context(ctx)
}

func (p *Page) Goto(ctx context.Context, url string, waitUntil entity.WaitUntil) error {
	page := p.on(ctx)

	var waitIdle func()
	if waitUntil == entity.WaitUntilNetworkIdle {
		idle := page.Timeout(p.cfg.IdleTimeout)
		defer idle.CancelTimeout()
		waitIdle = idle.WaitRequestIdle(p.cfg.IdleWindow, nil, nil, nil)
	}

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}
	if waitIdle != nil {
		waitIdle()
	}
	return nil
}

// element waits at most ElementTimeout for selector. The returned element is
// bound to ctx, not to the lookup timeout.
func (p *Page) element(ctx context.Context, selector string) (*rod.Element, error) {
	lookup := p.on(ctx).Timeout(p.cfg.ElementTimeout)
	el, err := lookup.Element(selector)
	lookup.CancelTimeout()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s: %w", ErrElementNotFound, selector, err)
		}
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	return el.Context(ctx), nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	el, err := p.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Fill replaces the field's value with text; an empty text clears the field.
func (p *Page) Fill(ctx context.Context, selector, text string) error {
	el, err := p.element(ctx, selector)
	if err != nil {
		return err
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

// Press checks ctx between key events: rod's Keyboard stays bound to the
// page it was created with, so a deadline cannot interrupt a single event.
func (p *Page) Press(ctx context.Context, key string) error {
	combo, err := parseKeyCombo(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	page := p.on(ctx)
	if combo.text != "" {
		if err := page.InsertText(combo.text); err != nil {
			return fmt.Errorf("press %s: %w", key, err)
		}
		return nil
	}

	kb := page.Keyboard
	held := 0
	release := func() {
		for i := held - 1; i >= 0; i-- {
			_ = kb.Release(combo.modifiers[i])
		}
	}

	for _, mod := range combo.modifiers {
		if err := ctx.Err(); err != nil {
			release()
			return err
		}
		if err := kb.Press(mod); err != nil {
			release()
			return fmt.Errorf("press %s: %w", key, err)
		}
		held++
	}

	typeErr := ctx.Err()
	if typeErr == nil {
		typeErr = kb.Type(combo.key)
	}
	release()
	if typeErr != nil {
		return fmt.Errorf("press %s: %w", key, typeErr)
	}
	return nil
}

func (p *Page) Content(ctx context.Context) (string, error) {
	html, err := p.on(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func (p *Page) URL(ctx context.Context) (string, error) {
	info, err := p.on(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("failed to get page info: %w", err)
	}
	return info.URL, nil
}

func (p *Page) GoBack(ctx context.Context) error {
	if err := p.on(ctx).NavigateBack(); err != nil {
		return fmt.Errorf("navigate back: %w", err)
	}
	return nil
}

func (p *Page) GoForward(ctx context.Context) error {
	if err := p.on(ctx).NavigateForward(); err != nil {
		return fmt.Errorf("navigate forward: %w", err)
	}
	return nil
}

func (p *Page) Reload(ctx context.Context) error {
	page := p.on(ctx)
	if err := page.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}
	return nil
}

// Evaluate wraps expression into the function form rod expects.
func (p *Page) Evaluate(ctx context.Context, expression string) error {
	js := "() => { " + strings.TrimSuffix(strings.TrimSpace(expression), ";") + " }"
	if _, err := p.on(ctx).Eval(js); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return nil
}

func (p *Page) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	data, err := p.on(ctx).Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

func (p *Page) Close() error {
	return p.page.Close()
}

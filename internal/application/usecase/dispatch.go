package usecase

import (
	"context"
	"fmt"

	"browser-tool/internal/domain/entity"
)

// validate checks the action name and its required parameters without touching
// the browser. It returns the caller-facing message, or "" when the request is
// well formed.
func validate(action entity.Action, p entity.Params) string {
	if !action.Valid() {
		return fmt.Sprintf("Error: Unknown action '%s'", action)
	}

	switch action {
	case entity.ActionGoto:
		if p.StringOr(p.URL, "") == "" {
			return missingParam("url", action)
		}
	case entity.ActionClick:
		if p.StringOr(p.Selector, "") == "" {
			return missingParam("selector", action)
		}
	case entity.ActionType:
		if p.StringOr(p.Selector, "") == "" || p.Text == nil {
			return fmt.Sprintf("Error: 'selector' and 'text' parameters are required for '%s' action.", action)
		}
	case entity.ActionPress:
		if p.StringOr(p.Key, "") == "" {
			return missingParam("key", action)
		}
	}
	return ""
}

func missingParam(name string, action entity.Action) string {
	return fmt.Sprintf("Error: '%s' parameter is required for '%s' action.", name, action)
}

func (a *BrowserActionAdapter) dispatch(ctx context.Context, action entity.Action, p entity.Params) (string, error) {
	page := a.page
	if page == nil {
		return "", ErrNoSession
	}

	switch action {
	case entity.ActionGoto:
		url := *p.URL
		if err := page.Goto(ctx, url, entity.WaitUntilNetworkIdle); err != nil {
			return "", err
		}
		return fmt.Sprintf("Successfully navigated to %s", url), nil

	case entity.ActionClick:
		selector := *p.Selector
		if err := page.Click(ctx, selector); err != nil {
			return "", err
		}
		return fmt.Sprintf("Successfully clicked on %s", selector), nil

	case entity.ActionType:
		selector := *p.Selector
		if err := page.Fill(ctx, selector, *p.Text); err != nil {
			return "", err
		}
		return fmt.Sprintf("Successfully typed text into %s", selector), nil

	case entity.ActionPress:
		key := *p.Key
		if err := page.Press(ctx, key); err != nil {
			return "", err
		}
		return fmt.Sprintf("Successfully pressed key %s", key), nil

	case entity.ActionScreenshot:
		return a.screenshot(ctx, p.BoolOr(p.FullPage, false))

	case entity.ActionContent:
		html, err := page.Content(ctx)
		if err != nil {
			return "", err
		}
		if p.BoolOr(p.Clean, false) && a.cfg.Cleaner != nil {
			html = a.cfg.Cleaner(html)
		}
		return truncate(html, entity.ContentMaxChars), nil

	case entity.ActionURL:
		return page.URL(ctx)

	case entity.ActionBack:
		if err := page.GoBack(ctx); err != nil {
			return "", err
		}
		return "Navigated back", nil

	case entity.ActionForward:
		if err := page.GoForward(ctx); err != nil {
			return "", err
		}
		return "Navigated forward", nil

	case entity.ActionReload:
		if err := page.Reload(ctx); err != nil {
			return "", err
		}
		return "Reloaded page", nil

	case entity.ActionScroll:
		direction := p.StringOr(p.Direction, entity.DefaultScrollDirection)
		amount := p.IntOr(p.Amount, entity.DefaultScrollAmount)
		if err := page.Evaluate(ctx, scrollScript(direction, amount)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Scrolled %s by %d pixels", direction, amount), nil
	}

	return fmt.Sprintf("Error: Unknown action '%s'", action), nil
}

func (a *BrowserActionAdapter) screenshot(ctx context.Context, fullPage bool) (string, error) {
	data, err := a.page.Screenshot(ctx, fullPage)
	if err != nil {
		return "", err
	}

	path, err := a.screenshots.Save(ctx, &entity.Screenshot{
		Data:     data,
		Format:   "png",
		FullPage: fullPage,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Screenshot saved to %s", path), nil
}

// scrollScript scrolls down only for "down"; any other direction scrolls up.
func scrollScript(direction string, amount int) string {
	offset := amount
	if direction != entity.ScrollDown {
		offset = -amount
	}
	return fmt.Sprintf("window.scrollBy(0, %d)", offset)
}

// truncate keeps the first max characters and marks the cut with "...".
func truncate(s string, max int) string {
	count := 0
	for i := range s {
		if count == max {
			return s[:i] + "..."
		}
		count++
	}
	return s
}

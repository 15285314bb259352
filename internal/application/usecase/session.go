package usecase

import (
	"context"
	"errors"
	"fmt"

	"browser-tool/internal/application/port/output"
)

// ensureSession starts the engine, browser, context and page unless a page is
// already open. On failure every handle acquired so far is released and the
// adapter stays idle.
func (a *BrowserActionAdapter) ensureSession(ctx context.Context) error {
	if a.page != nil {
		return nil
	}

	driver, err := a.engine.Start(ctx)
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	browser, err := driver.Launch(ctx, output.LaunchOptions{Headless: a.cfg.Headless})
	if err != nil {
		a.release(nil, nil, nil, driver)
		return fmt.Errorf("launch browser: %w", err)
	}

	bctx, err := browser.NewContext(ctx, output.ContextOptions{UserAgent: a.cfg.UserAgent})
	if err != nil {
		a.release(nil, nil, browser, driver)
		return fmt.Errorf("create browser context: %w", err)
	}

	page, err := bctx.NewPage(ctx)
	if err != nil {
		a.release(nil, bctx, browser, driver)
		return fmt.Errorf("open page: %w", err)
	}

	a.driver = driver
	a.browser = browser
	a.context = bctx
	a.page = page

	a.logger.Info("Browser session started", "headless", a.cfg.Headless)
	return nil
}

// Close releases page, context, browser and engine in that order. Each layer is
// released even if an earlier one failed; the failures are returned joined.
func (a *BrowserActionAdapter) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.page == nil && a.driver == nil {
		return nil
	}

	err := a.release(a.page, a.context, a.browser, a.driver)

	a.page = nil
	a.context = nil
	a.browser = nil
	a.driver = nil

	if err != nil {
		a.logger.Warn("Browser session closed with errors", "error", err.Error())
		return err
	}
	a.logger.Info("Browser session closed")
	return nil
}

func (a *BrowserActionAdapter) release(
	page output.Page,
	bctx output.BrowsingContext,
	browser output.Browser,
	driver output.Driver,
) error {
	var errs []error
	if page != nil {
		if err := page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if bctx != nil {
		if err := bctx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
	}
	if browser != nil {
		if err := browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if driver != nil {
		if err := driver.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop engine: %w", err))
		}
	}
	return errors.Join(errs...)
}

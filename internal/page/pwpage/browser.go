package pwpage

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/screening-ui/internal/errs"
)

// LaunchOptions configures Launch.
type LaunchOptions struct {
	Headless      bool
	SlowMo        time.Duration
	ActionTimeout time.Duration
}

// Browser owns a Playwright driver, a Chromium instance and one page.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page

	*Accessor
}

// Launch starts Playwright and opens a single Chromium page.
func Launch(opts LaunchOptions) (*Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "start playwright", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, errs.Wrap(errs.Unavailable, "launch chromium", err)
	}
	p, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, errs.Wrap(errs.Unavailable, "open page", err)
	}
	acc := New(p, opts.ActionTimeout)
	p.SetDefaultTimeout(float64(acc.timeout.Milliseconds()))
	p.SetDefaultNavigationTimeout(float64(acc.timeout.Milliseconds()))
	return &Browser{pw: pw, browser: browser, page: p, Accessor: acc}, nil
}

// Goto opens url and waits for DOMContentLoaded.
func (b *Browser) Goto(ctx context.Context, url string) error {
	timeout, err := b.timeoutMS(ctx)
	if err != nil {
		return err
	}
	_, err = b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeout,
	})
	if err != nil {
		return wrap(fmt.Sprintf("navigate to %s", url), err)
	}
	return nil
}

// Capture returns a full-page screenshot and the current HTML. Either part
// may be empty when the page is already broken.
func (b *Browser) Capture(context.Context) ([]byte, string, error) {
	return Capture(b.page)
}

// Capture collects a screenshot and HTML from any Playwright page.
func Capture(p playwright.Page) ([]byte, string, error) {
	png, shotErr := p.Screenshot(playwright.PageScreenshotOptions{FullPage: playwright.Bool(true)})
	html, htmlErr := p.Content()
	if shotErr != nil && htmlErr != nil {
		return nil, "", errs.Wrap(errs.Unavailable, "capture page", shotErr)
	}
	return png, html, nil
}

// Close shuts the browser and the Playwright driver down.
func (b *Browser) Close() error {
	var firstErr error
	if err := b.browser.Close(); err != nil {
		firstErr = err
	}
	if err := b.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

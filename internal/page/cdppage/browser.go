package cdppage

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// LaunchOptions configures Launch.
type LaunchOptions struct {
	Headless      bool
	ActionTimeout time.Duration
}

// Browser owns a Chrome process and one tab.
type Browser struct {
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc

	*Accessor
}

// Launch starts Chrome through an exec allocator and opens a tab.
func Launch(opts LaunchOptions) (*Browser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1280, 720),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tab, cancelTab := chromedp.NewContext(allocCtx)
	// The first Run starts the browser.
	if err := chromedp.Run(tab); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return &Browser{cancelAlloc: cancelAlloc, cancelTab: cancelTab, Accessor: New(tab, opts.ActionTimeout)}, nil
}

// Goto opens url and waits for the body to be ready.
func (b *Browser) Goto(ctx context.Context, url string) error {
	return b.run(ctx, fmt.Sprintf("navigate to %s", url),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery))
}

// Capture returns a full-page screenshot and the current HTML.
func (b *Browser) Capture(ctx context.Context) ([]byte, string, error) {
	var png []byte
	var html string
	if err := b.run(ctx, "capture page",
		chromedp.FullScreenshot(&png, 90),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, "", err
	}
	return png, html, nil
}

// Close shuts the tab and the Chrome process down.
func (b *Browser) Close() error {
	b.cancelTab()
	b.cancelAlloc()
	return nil
}

// Package pwpage implements page.Accessor on top of playwright-go.
package pwpage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/logutil"
	"github.com/kuitang/screening-ui/internal/obs"
	"github.com/kuitang/screening-ui/internal/page"
)

// DefaultActionTimeout bounds every single page action.
const DefaultActionTimeout = 5 * time.Second

const computedStyleScript = `(el, prop) => window.getComputedStyle(el).getPropertyValue(prop)`

// Accessor drives one Playwright page.
type Accessor struct {
	page    playwright.Page
	timeout time.Duration
}

// New wraps p. A non-positive timeout means DefaultActionTimeout.
func New(p playwright.Page, timeout time.Duration) *Accessor {
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}
	return &Accessor{page: p, timeout: timeout}
}

// Page returns the underlying Playwright page.
func (a *Accessor) Page() playwright.Page {
	return a.page
}

// timeoutMS clamps the action timeout to the context deadline.
func (a *Accessor) timeoutMS(ctx context.Context) (*float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "page action cancelled", err)
	}
	timeout := a.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, errs.Wrap(errs.Unavailable, "page action cancelled", context.DeadlineExceeded)
	}
	return playwright.Float(float64(timeout.Milliseconds())), nil
}

func wrap(action string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return errs.Wrap(errs.Unavailable, action+" timed out", err)
	}
	return errs.Wrap(errs.Unavailable, action, err)
}

func (a *Accessor) ReadText(ctx context.Context, selector string) (string, error) {
	timeout, err := a.timeoutMS(ctx)
	if err != nil {
		return "", err
	}
	text, err := a.page.Locator(selector).First().TextContent(playwright.LocatorTextContentOptions{Timeout: timeout})
	if err != nil {
		return "", wrap(fmt.Sprintf("read text of %q", selector), err)
	}
	return text, nil
}

// Click clicks the first match of selector and waits for the DOM to settle.
func (a *Accessor) Click(ctx context.Context, selector string) error {
	timeout, err := a.timeoutMS(ctx)
	if err != nil {
		return err
	}
	if err := a.arm(); err != nil {
		return err
	}
	if err := a.page.Locator(selector).First().Click(playwright.LocatorClickOptions{Timeout: timeout}); err != nil {
		return wrap(fmt.Sprintf("click %q", selector), err)
	}
	return a.settle(timeout)
}

func (a *Accessor) Fill(ctx context.Context, selector, text string) error {
	timeout, err := a.timeoutMS(ctx)
	if err != nil {
		return err
	}
	obs.From(ctx).Debug("fill", "pkg", "pwpage", "selector", selector, "value", logutil.RedactFillValue(selector, text))
	if err := a.page.Locator(selector).First().Fill(text, playwright.LocatorFillOptions{Timeout: timeout}); err != nil {
		return wrap(fmt.Sprintf("fill %q", selector), err)
	}
	return nil
}

// QueryAll reads every match of selector in one round trip. An empty match
// set is not an error.
func (a *Accessor) QueryAll(ctx context.Context, selector string) ([]page.Cell, error) {
	if _, err := a.timeoutMS(ctx); err != nil {
		return nil, err
	}
	raw, err := a.page.Locator(selector).EvaluateAll(page.CellScript)
	if err != nil {
		return nil, wrap(fmt.Sprintf("query %q", selector), err)
	}
	return page.CellsFromRecords(selector, raw), nil
}

func (a *Accessor) ClickCell(ctx context.Context, cell page.Cell) error {
	timeout, err := a.timeoutMS(ctx)
	if err != nil {
		return err
	}
	if err := a.arm(); err != nil {
		return err
	}
	if err := a.page.Locator(cell.Selector).Nth(cell.Index).Click(playwright.LocatorClickOptions{Timeout: timeout}); err != nil {
		return wrap(fmt.Sprintf("click cell %d of %q", cell.Index, cell.Selector), err)
	}
	return a.settle(timeout)
}

func (a *Accessor) ComputedStyle(ctx context.Context, cell page.Cell, property string) (string, error) {
	timeout, err := a.timeoutMS(ctx)
	if err != nil {
		return "", err
	}
	v, err := a.page.Locator(cell.Selector).Nth(cell.Index).Evaluate(computedStyleScript, property,
		playwright.LocatorEvaluateOptions{Timeout: timeout})
	if err != nil {
		return "", wrap(fmt.Sprintf("read %s of cell %d of %q", property, cell.Index, cell.Selector), err)
	}
	s, _ := v.(string)
	return s, nil
}

func (a *Accessor) Evaluate(ctx context.Context, expression string, arg any) (any, error) {
	if _, err := a.timeoutMS(ctx); err != nil {
		return nil, err
	}
	v, err := a.page.Evaluate(expression, arg)
	if err != nil {
		return nil, wrap("evaluate", err)
	}
	return v, nil
}

func (a *Accessor) arm() error {
	if _, err := a.page.Evaluate(page.ArmScript); err != nil {
		return wrap("watch for DOM changes", err)
	}
	return nil
}

// settle waits until the click's re-render has finished. See page.SettledScript.
func (a *Accessor) settle(timeout *float64) error {
	_, err := a.page.WaitForFunction(page.SettledScript, nil, playwright.PageWaitForFunctionOptions{
		Timeout: timeout,
	})
	if err != nil {
		return wrap("wait for page to settle", err)
	}
	return nil
}

var _ page.Accessor = (*Accessor)(nil)

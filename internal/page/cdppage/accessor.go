// Package cdppage implements page.Accessor over the Chrome DevTools Protocol
// with chromedp. It needs only a local Chrome, no Playwright driver.
package cdppage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/css"
	"github.com/chromedp/chromedp"

	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/logutil"
	"github.com/kuitang/screening-ui/internal/obs"
	"github.com/kuitang/screening-ui/internal/page"
)

// DefaultActionTimeout bounds every single page action.
const DefaultActionTimeout = 5 * time.Second

// Accessor drives one chromedp tab.
type Accessor struct {
	tab     context.Context
	timeout time.Duration
}

// New wraps a chromedp tab context. A non-positive timeout means
// DefaultActionTimeout.
func New(tab context.Context, timeout time.Duration) *Accessor {
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}
	return &Accessor{tab: tab, timeout: timeout}
}

// run executes actions in the tab, bounded by the action timeout and the
// caller's deadline.
func (a *Accessor) run(ctx context.Context, what string, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.Unavailable, "page action cancelled", err)
	}
	timeout := a.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	runCtx, cancel := context.WithTimeout(a.tab, timeout)
	defer cancel()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		return errs.Wrap(errs.Unavailable, what, err)
	}
	return nil
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// call turns a function literal into an expression that invokes it.
func call(fn string) string {
	return "(" + fn + ")()"
}

func (a *Accessor) ReadText(ctx context.Context, selector string) (string, error) {
	var text string
	err := a.run(ctx, fmt.Sprintf("read text of %q", selector),
		chromedp.TextContent(selector, &text, chromedp.ByQuery))
	return text, err
}

func (a *Accessor) Click(ctx context.Context, selector string) error {
	var armed, settled bool
	return a.run(ctx, fmt.Sprintf("click %q", selector),
		chromedp.Evaluate(call(page.ArmScript), &armed),
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.PollFunction(page.SettledScript, &settled))
}

func (a *Accessor) Fill(ctx context.Context, selector, text string) error {
	obs.From(ctx).Debug("fill", "pkg", "cdppage", "selector", selector, "value", logutil.RedactFillValue(selector, text))
	return a.run(ctx, fmt.Sprintf("fill %q", selector),
		chromedp.SetValue(selector, "", chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

// QueryAll evaluates page.CellScript over querySelectorAll so an empty
// match set returns immediately instead of waiting for a node.
func (a *Accessor) QueryAll(ctx context.Context, selector string) ([]page.Cell, error) {
	expr := fmt.Sprintf("(%s)(Array.from(document.querySelectorAll(%s)))", page.CellScript, jsString(selector))
	var raw []any
	if err := a.run(ctx, fmt.Sprintf("query %q", selector), chromedp.Evaluate(expr, &raw)); err != nil {
		return nil, err
	}
	return page.CellsFromRecords(selector, raw), nil
}

func (a *Accessor) nodes(ctx context.Context, cell page.Cell) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	err := a.run(ctx, fmt.Sprintf("locate %q", cell.Selector),
		chromedp.Nodes(cell.Selector, &nodes, chromedp.ByQueryAll))
	if err != nil {
		return nil, err
	}
	if cell.Index < 0 || cell.Index >= len(nodes) {
		return nil, errs.New(errs.NotFound, fmt.Sprintf("cell %d of %q is no longer attached", cell.Index, cell.Selector))
	}
	return nodes, nil
}

func (a *Accessor) ClickCell(ctx context.Context, cell page.Cell) error {
	nodes, err := a.nodes(ctx, cell)
	if err != nil {
		return err
	}
	var armed, settled bool
	return a.run(ctx, fmt.Sprintf("click cell %d of %q", cell.Index, cell.Selector),
		chromedp.Evaluate(call(page.ArmScript), &armed),
		chromedp.MouseClickNode(nodes[cell.Index]),
		chromedp.PollFunction(page.SettledScript, &settled))
}

func (a *Accessor) ComputedStyle(ctx context.Context, cell page.Cell, property string) (string, error) {
	nodes, err := a.nodes(ctx, cell)
	if err != nil {
		return "", err
	}
	var props []*css.ComputedStyleProperty
	err = a.run(ctx, fmt.Sprintf("read style of cell %d of %q", cell.Index, cell.Selector),
		chromedp.ComputedStyle([]cdp.NodeID{nodes[cell.Index].NodeID}, &props, chromedp.ByNodeID))
	if err != nil {
		return "", err
	}
	for _, p := range props {
		if p.Name == property {
			return p.Value, nil
		}
	}
	return "", nil
}

// Evaluate runs expression as a function applied to arg.
func (a *Accessor) Evaluate(ctx context.Context, expression string, arg any) (any, error) {
	encoded, err := json.Marshal(arg)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, "encode evaluate argument", err)
	}
	var out any
	expr := fmt.Sprintf("(%s)(%s)", expression, encoded)
	if err := a.run(ctx, "evaluate", chromedp.Evaluate(expr, &out)); err != nil {
		return nil, err
	}
	return out, nil
}

var _ page.Accessor = (*Accessor)(nil)

// Package page defines the browser capability the calendar engine drives.
// Implementations live in pwpage (Playwright), cdppage (Chrome DevTools) and
// widgetsim (in-memory widgets for tests).
package page

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cell is one element matched by a grid selector, read from the live DOM.
// Cells go stale after any click: the host page regenerates its grids.
type Cell struct {
	Selector        string
	Index           int
	Label           string
	BackgroundColor string
	Name            string
	Visible         bool
}

// TrimmedLabel returns the cell text with surrounding whitespace removed.
func (c Cell) TrimmedLabel() string {
	return strings.TrimSpace(c.Label)
}

// Accessor is the page capability consumed by the navigators and the slot
// scanner. Every call is a blocking round trip; Click and ClickCell return
// once the page has settled.
type Accessor interface {
	ReadText(ctx context.Context, selector string) (string, error)
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	QueryAll(ctx context.Context, selector string) ([]Cell, error)
	ClickCell(ctx context.Context, cell Cell) error
	ComputedStyle(ctx context.Context, cell Cell, property string) (string, error)
	Evaluate(ctx context.Context, expression string, arg any) (any, error)
}

// VisibleWithLabel filters cells to the visible ones whose trimmed label is label.
func VisibleWithLabel(cells []Cell, label string) []Cell {
	var matches []Cell
	for _, c := range cells {
		if c.Visible && c.TrimmedLabel() == label {
			matches = append(matches, c)
		}
	}
	return matches
}

// CellScript is the JavaScript both browser drivers evaluate over the matched
// elements to build Cells. It receives the element array and returns plain
// objects keyed like cellRecord.
const CellScript = `(els) => els.map((el, i) => {
	const style = window.getComputedStyle(el);
	const rects = el.getClientRects();
	return {
		index: i,
		label: el.textContent || "",
		background: style.getPropertyValue("background-color"),
		name: el.getAttribute("name") || "",
		visible: rects.length > 0 && style.visibility !== "hidden" && style.display !== "none",
	};
})`

// A click has settled once the DOM has mutated and then stayed quiet for
// SettleQuiet, or has not mutated at all within SettleIdle of the click.
const (
	SettleQuiet = 50 * time.Millisecond
	SettleIdle  = 500 * time.Millisecond
)

// ArmScript installs a document-wide MutationObserver (once per document) and
// marks the moment just before a click. Drivers evaluate it, click, then wait
// for SettledScript to return true.
const ArmScript = `() => {
	if (!window.__calnavObserver) {
		window.__calnavLastMutation = 0;
		window.__calnavObserver = new MutationObserver(() => {
			window.__calnavLastMutation = performance.now();
		});
		window.__calnavObserver.observe(document.documentElement,
			{subtree: true, childList: true, characterData: true, attributes: true});
	}
	window.__calnavMark = performance.now();
	return true;
}`

// SettledScript reports whether the page has settled since ArmScript ran. A
// click that loaded a new document settles once that document has parsed.
var SettledScript = fmt.Sprintf(`() => {
	if (!window.__calnavObserver) {
		return document.readyState !== "loading";
	}
	const now = performance.now();
	const last = window.__calnavLastMutation;
	if (last > window.__calnavMark) {
		return now - last >= %d;
	}
	return now - window.__calnavMark >= %d;
}`, SettleQuiet.Milliseconds(), SettleIdle.Milliseconds())

// CellsFromRecords converts the decoded CellScript result into Cells.
func CellsFromRecords(selector string, raw any) []Cell {
	items, _ := raw.([]any)
	cells := make([]Cell, 0, len(items))
	for i, item := range items {
		rec, _ := item.(map[string]any)
		cell := Cell{Selector: selector, Index: i}
		if v, ok := rec["index"].(float64); ok {
			cell.Index = int(v)
		}
		if v, ok := rec["index"].(int); ok {
			cell.Index = v
		}
		cell.Label, _ = rec["label"].(string)
		cell.BackgroundColor, _ = rec["background"].(string)
		cell.Name, _ = rec["name"].(string)
		cell.Visible, _ = rec["visible"].(bool)
		cells = append(cells, cell)
	}
	return cells
}

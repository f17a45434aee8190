// Package widgetsim provides in-memory models of the calendar widgets the
// engine drives. Each model implements page.Accessor, regenerates its grid
// after every click, and records the actions it received.
package widgetsim

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/page"
)

// Recorder keeps the ordered action log shared by all models.
type Recorder struct {
	mu      sync.Mutex
	actions []string
	fills   map[string]string
}

func (r *Recorder) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, fmt.Sprintf(format, args...))
}

// Actions returns a copy of the action log.
func (r *Recorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.actions...)
}

// Count returns how many logged actions equal action.
func (r *Recorder) Count(action string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.actions {
		if a == action {
			n++
		}
	}
	return n
}

// Fill stores text under selector.
func (r *Recorder) Fill(ctx context.Context, selector, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	if r.fills == nil {
		r.fills = make(map[string]string)
	}
	r.fills[selector] = text
	r.mu.Unlock()
	r.record("fill %s", selector)
	return nil
}

// Filled returns the last text filled into selector.
func (r *Recorder) Filled(selector string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fills[selector]
}

// Evaluate is not modelled.
func (r *Recorder) Evaluate(context.Context, string, any) (any, error) {
	return nil, errs.New(errs.Unavailable, "evaluate is not supported by in-memory widgets")
}

// ComputedStyle reports the cell's background colour; other properties are empty.
func (r *Recorder) ComputedStyle(_ context.Context, cell page.Cell, property string) (string, error) {
	if property == "background-color" {
		return cell.BackgroundColor, nil
	}
	return "", nil
}

func unknownSelector(selector string) error {
	return errs.New(errs.NotFound, fmt.Sprintf("no element matches %q", selector))
}

func staleCell(cell page.Cell) error {
	return errs.New(errs.NotFound, fmt.Sprintf("cell %d of %q is no longer attached", cell.Index, cell.Selector))
}

// dayGrid renders the six-week, Sunday-first grid shown for year/month,
// including overflow days from the adjacent months.
func dayGrid(year int, month time.Month) []calendar.CalendarDate {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	dates := make([]calendar.CalendarDate, 42)
	for i := range dates {
		dates[i] = calendar.FromTime(start.AddDate(0, 0, i))
	}
	return dates
}

func dayCells(selector string, dates []calendar.CalendarDate) []page.Cell {
	cells := make([]page.Cell, len(dates))
	for i, d := range dates {
		cells[i] = page.Cell{
			Selector: selector,
			Index:    i,
			Label:    strconv.Itoa(d.Day),
			Visible:  true,
		}
	}
	return cells
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.Unavailable, "page action cancelled", err)
	}
	return nil
}

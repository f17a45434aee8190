package widgetsim

import (
	"context"
	"sync"
	"time"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/clock"
	"github.com/kuitang/screening-ui/internal/page"
)

// Selectors understood by FlatWidget.
const (
	FlatHeader    = "#flat .header"
	FlatPrevYear  = "#flat .prev-year"
	FlatNextYear  = "#flat .next-year"
	FlatPrevMonth = "#flat .prev-month"
	FlatNextMonth = "#flat .next-month"
	FlatToday     = "#flat .today"
	FlatDays      = "#flat td.day"
)

// FlatWidget models a picker with single-step year and month buttons.
// Year steps keep the displayed month.
type FlatWidget struct {
	Recorder

	mu       sync.Mutex
	clock    clock.Clock
	year     int
	month    time.Month
	selected calendar.CalendarDate
	header   string
}

// NewFlatWidget shows the month of start.
func NewFlatWidget(clk clock.Clock, start calendar.CalendarDate) *FlatWidget {
	return &FlatWidget{clock: clk, year: start.Year, month: start.Month}
}

// OverrideHeader replaces the rendered header text, e.g. to simulate a
// localised or broken widget. An empty string restores the default.
func (w *FlatWidget) OverrideHeader(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.header = text
}

// Displayed returns the month currently shown (day is 1).
func (w *FlatWidget) Displayed() calendar.CalendarDate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return calendar.New(w.year, w.month, 1)
}

// Selected returns the last date picked, or the zero value.
func (w *FlatWidget) Selected() calendar.CalendarDate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

func (w *FlatWidget) ReadText(ctx context.Context, selector string) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	if selector != FlatHeader {
		return "", unknownSelector(selector)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.header != "" {
		return w.header, nil
	}
	return calendar.New(w.year, w.month, 1).Header(), nil
}

func (w *FlatWidget) Click(ctx context.Context, selector string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	w.mu.Lock()
	switch selector {
	case FlatPrevYear:
		w.year--
	case FlatNextYear:
		w.year++
	case FlatPrevMonth:
		w.shiftMonth(-1)
	case FlatNextMonth:
		w.shiftMonth(1)
	case FlatToday:
		today := calendar.FromTime(w.clock.Now())
		w.year, w.month, w.selected = today.Year, today.Month, today
	default:
		w.mu.Unlock()
		return unknownSelector(selector)
	}
	w.mu.Unlock()
	w.record("click %s", selector)
	return nil
}

func (w *FlatWidget) shiftMonth(n int) {
	t := time.Date(w.year, w.month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	w.year, w.month = t.Year(), t.Month()
}

func (w *FlatWidget) QueryAll(ctx context.Context, selector string) ([]page.Cell, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if selector != FlatDays {
		return nil, unknownSelector(selector)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return dayCells(selector, dayGrid(w.year, w.month)), nil
}

func (w *FlatWidget) ClickCell(ctx context.Context, cell page.Cell) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if cell.Selector != FlatDays {
		return unknownSelector(cell.Selector)
	}
	w.mu.Lock()
	grid := dayGrid(w.year, w.month)
	if cell.Index < 0 || cell.Index >= len(grid) {
		w.mu.Unlock()
		return staleCell(cell)
	}
	w.selected = grid[cell.Index]
	w.year, w.month = w.selected.Year, w.selected.Month
	w.mu.Unlock()
	w.record("pick %s", cell.TrimmedLabel())
	return nil
}

var _ page.Accessor = (*FlatWidget)(nil)

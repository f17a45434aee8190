package widgetsim

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/clock"
	"github.com/kuitang/screening-ui/internal/page"
)

// Selectors understood by HierarchicalWidget.
const (
	HierSwitch = "#hier .switch"
	HierCells  = "#hier td.cell"
	HierDays   = "#hier td.day"
)

// View is the zoom level a HierarchicalWidget is showing.
type View int

const (
	DaysView View = iota
	MonthsView
	YearsView
	DecadesView
	CenturiesView
)

func (v View) String() string {
	return [...]string{"days", "months", "years", "decades", "centuries"}[v]
}

// HierarchicalWidget models a drill-down picker. It opens on the clock's
// current month; each switch click widens the grid one level and each grid
// cell click narrows it one level.
type HierarchicalWidget struct {
	Recorder

	mu       sync.Mutex
	view     View
	year     int
	month    time.Month
	selected calendar.CalendarDate
}

// NewHierarchicalWidget opens on the current month of clk.
func NewHierarchicalWidget(clk clock.Clock) *HierarchicalWidget {
	now := calendar.FromTime(clk.Now())
	return &HierarchicalWidget{view: DaysView, year: now.Year, month: now.Month}
}

// View returns the zoom level currently shown.
func (w *HierarchicalWidget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

// Selected returns the last date picked, or the zero value.
func (w *HierarchicalWidget) Selected() calendar.CalendarDate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// ReadText returns the switch caption, which names the range on display.
func (w *HierarchicalWidget) ReadText(ctx context.Context, selector string) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	if selector != HierSwitch {
		return "", unknownSelector(selector)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.view {
	case DaysView:
		return calendar.New(w.year, w.month, 1).Header(), nil
	case MonthsView:
		return fmt.Sprintf("%d", w.year), nil
	case YearsView:
		d := calendar.DecadeOf(w.year)
		return fmt.Sprintf("%d-%d", d, d+9), nil
	case DecadesView:
		c := calendar.CenturyOf(w.year)
		return fmt.Sprintf("%d-%d", c, c+99), nil
	default:
		m := calendar.CenturyOf(w.year) / 1000 * 1000
		return fmt.Sprintf("%d-%d", m, m+999), nil
	}
}

func (w *HierarchicalWidget) Click(ctx context.Context, selector string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if selector != HierSwitch {
		return unknownSelector(selector)
	}
	w.mu.Lock()
	if w.view < CenturiesView {
		w.view++
	}
	w.mu.Unlock()
	w.record("click %s", selector)
	return nil
}

// gridLabels returns the zoom-grid labels for the current view; the day view
// has none.
func (w *HierarchicalWidget) gridLabels() []string {
	var labels []string
	switch w.view {
	case MonthsView:
		for m := time.January; m <= time.December; m++ {
			labels = append(labels, m.String()[:3])
		}
	case YearsView:
		start := calendar.DecadeOf(w.year) - 1
		for y := start; y < start+12; y++ {
			labels = append(labels, fmt.Sprintf("%04d", y))
		}
	case DecadesView:
		start := calendar.CenturyOf(w.year) - 10
		for d := start; d < start+120; d += 10 {
			labels = append(labels, fmt.Sprintf("%04d", d))
		}
	case CenturiesView:
		start := calendar.CenturyOf(w.year)/1000*1000 - 100
		for c := start; c < start+1200; c += 100 {
			labels = append(labels, fmt.Sprintf("%04d", c))
		}
	}
	return labels
}

func (w *HierarchicalWidget) QueryAll(ctx context.Context, selector string) ([]page.Cell, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	switch selector {
	case HierDays:
		if w.view != DaysView {
			return nil, nil
		}
		return dayCells(selector, dayGrid(w.year, w.month)), nil
	case HierCells:
		labels := w.gridLabels()
		cells := make([]page.Cell, len(labels))
		for i, l := range labels {
			cells[i] = page.Cell{Selector: selector, Index: i, Label: l, Visible: true}
		}
		return cells, nil
	default:
		return nil, unknownSelector(selector)
	}
}

func (w *HierarchicalWidget) ClickCell(ctx context.Context, cell page.Cell) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	switch cell.Selector {
	case HierDays:
		if w.view != DaysView {
			return staleCell(cell)
		}
		grid := dayGrid(w.year, w.month)
		if cell.Index < 0 || cell.Index >= len(grid) {
			return staleCell(cell)
		}
		w.selected = grid[cell.Index]
		w.year, w.month = w.selected.Year, w.selected.Month
	case HierCells:
		labels := w.gridLabels()
		if cell.Index < 0 || cell.Index >= len(labels) {
			return staleCell(cell)
		}
		w.zoomInto(cell.Index, labels[cell.Index])
	default:
		return unknownSelector(cell.Selector)
	}
	w.record("pick %s", cell.TrimmedLabel())
	return nil
}

func (w *HierarchicalWidget) zoomInto(index int, label string) {
	switch w.view {
	case MonthsView:
		w.month = time.Month(index + 1)
	default:
		if y, err := strconv.Atoi(label); err == nil {
			w.year = y
		}
	}
	w.view--
}

var _ page.Accessor = (*HierarchicalWidget)(nil)

package widgetsim

import (
	"context"
	"sync"
	"time"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/page"
)

// Selectors understood by SlotGrid.
const (
	SlotHeader    = "#slots .month-title"
	SlotPrevMonth = "#slots .prev"
	SlotNextMonth = "#slots .next"
	SlotCells     = "#slots td.slot"
)

// SlotDay is one day cell of an appointment grid page.
type SlotDay struct {
	Label string
	Color string
	Name  string
}

// SlotGrid models a month-paged appointment grid. Pages are keyed by the
// month offset from the month first displayed; missing pages render empty.
type SlotGrid struct {
	Recorder

	mu      sync.Mutex
	first   calendar.CalendarDate
	offset  int
	pages   map[int][]SlotDay
	clicked *page.Cell
	header  string
}

// NewSlotGrid shows the month of first; pages[0] is that month.
func NewSlotGrid(first calendar.CalendarDate, pages map[int][]SlotDay) *SlotGrid {
	return &SlotGrid{first: calendar.New(first.Year, first.Month, 1), pages: pages}
}

// OverrideHeader replaces the rendered month title. An empty string restores
// the default.
func (g *SlotGrid) OverrideHeader(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.header = text
}

// Offset returns the displayed month's offset from the first month.
func (g *SlotGrid) Offset() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.offset
}

// Clicked returns the slot cell that was clicked, if any.
func (g *SlotGrid) Clicked() (page.Cell, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.clicked == nil {
		return page.Cell{}, false
	}
	return *g.clicked, true
}

func (g *SlotGrid) displayed() calendar.CalendarDate {
	t := time.Date(g.first.Year, g.first.Month+time.Month(g.offset), 1, 0, 0, 0, 0, time.UTC)
	return calendar.FromTime(t)
}

func (g *SlotGrid) ReadText(ctx context.Context, selector string) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	if selector != SlotHeader {
		return "", unknownSelector(selector)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.header != "" {
		return g.header, nil
	}
	return g.displayed().Header(), nil
}

func (g *SlotGrid) Click(ctx context.Context, selector string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	switch selector {
	case SlotPrevMonth:
		g.offset--
	case SlotNextMonth:
		g.offset++
	default:
		g.mu.Unlock()
		return unknownSelector(selector)
	}
	g.mu.Unlock()
	g.record("click %s", selector)
	return nil
}

func (g *SlotGrid) QueryAll(ctx context.Context, selector string) ([]page.Cell, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if selector != SlotCells {
		return nil, unknownSelector(selector)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("scan %d", g.offset)
	days := g.pages[g.offset]
	cells := make([]page.Cell, len(days))
	for i, d := range days {
		cells[i] = page.Cell{
			Selector:        selector,
			Index:           i,
			Label:           d.Label,
			BackgroundColor: d.Color,
			Name:            d.Name,
			Visible:         true,
		}
	}
	return cells, nil
}

func (g *SlotGrid) ClickCell(ctx context.Context, cell page.Cell) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if cell.Selector != SlotCells {
		return unknownSelector(cell.Selector)
	}
	g.mu.Lock()
	days := g.pages[g.offset]
	if cell.Index < 0 || cell.Index >= len(days) {
		g.mu.Unlock()
		return staleCell(cell)
	}
	clicked := cell
	g.clicked = &clicked
	g.mu.Unlock()
	g.record("pick %s", cell.TrimmedLabel())
	return nil
}

var _ page.Accessor = (*SlotGrid)(nil)

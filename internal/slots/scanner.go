// Package slots finds the earliest available appointment in a month-paged,
// colour-coded availability grid.
package slots

import (
	"context"
	"fmt"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/clock"
	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/obs"
	"github.com/kuitang/screening-ui/internal/page"
)

const (
	// DefaultMaxPages bounds a scan when the caller passes zero.
	DefaultMaxPages = 3

	// shortNameLimit separates the short-name slot table from the long-name
	// table rendered over it on the same page.
	shortNameLimit = 4

	backgroundColor = "background-color"
)

// Selectors locates the parts of an appointment grid.
type Selectors struct {
	Header    string `toml:"header"`
	PrevMonth string `toml:"prev_month"`
	NextMonth string `toml:"next_month"`
	Cells     string `toml:"cells"`
}

// Slot is the cell a scan clicked.
type Slot struct {
	// Page is 1-based: page 1 is the current month.
	Page  int
	Cell  page.Cell
	Color ColorToken
}

// Scanner pages through an appointment grid looking for a free slot.
type Scanner struct {
	acc       page.Accessor
	clock     clock.Clock
	selectors Selectors
}

// NewScanner returns a Scanner bound to one grid instance.
func NewScanner(acc page.Accessor, clk clock.Clock, selectors Selectors) *Scanner {
	return &Scanner{acc: acc, clock: clk, selectors: selectors}
}

// FindEarliestSlot aligns the grid to the current month, then scans up to
// maxPages month pages in order, clicking the first short-name cell whose
// background is one of colors. maxPages <= 0 means DefaultMaxPages.
func (s *Scanner) FindEarliestSlot(ctx context.Context, colors []ColorToken, maxPages int) (Slot, error) {
	ctx = obs.WithOperation(ctx, "slots", "find_earliest")
	log := obs.From(ctx).With("pkg", "slots")
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if err := ValidateColors(colors); err != nil {
		return Slot{}, err
	}

	if err := s.alignToCurrentMonth(ctx); err != nil {
		return Slot{}, err
	}

	accept := newColorSet(colors)
	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		if pageNum > 1 {
			if err := s.acc.Click(ctx, s.selectors.NextMonth); err != nil {
				return Slot{}, fmt.Errorf("advance to page %d: %w", pageNum, err)
			}
		}
		slot, found, err := s.scanPage(ctx, accept)
		if err != nil {
			return Slot{}, fmt.Errorf("scan page %d: %w", pageNum, err)
		}
		if found {
			slot.Page = pageNum
			log.Info("slot selected", "page", pageNum, "label", slot.Cell.TrimmedLabel(), "color", string(slot.Color))
			return slot, nil
		}
		log.Debug("no slot on page", "page", pageNum)
	}

	log.Warn("no available appointments", "pages", maxPages, "colors", len(colors))
	return Slot{}, errs.New(errs.NotFound, fmt.Sprintf("no available appointments in %d pages", maxPages))
}

// alignToCurrentMonth steps the month axis until the grid shows the clock's
// month. Slot grids never span a year boundary, so years are not stepped.
func (s *Scanner) alignToCurrentMonth(ctx context.Context) error {
	header, err := s.acc.ReadText(ctx, s.selectors.Header)
	if err != nil {
		return fmt.Errorf("read slot grid header: %w", err)
	}
	shown, err := calendar.ParseHeader(header)
	if err != nil {
		return err
	}
	now := calendar.FromTime(s.clock.Now())
	for _, step := range calendar.PlanMonths(calendar.MonthsBetween(shown, now)) {
		selector := s.selectors.NextMonth
		if step.Control == calendar.PrevMonth {
			selector = s.selectors.PrevMonth
		}
		if err := s.acc.Click(ctx, selector); err != nil {
			return fmt.Errorf("align slot grid: %w", err)
		}
	}
	return nil
}

func (s *Scanner) scanPage(ctx context.Context, accept colorSet) (Slot, bool, error) {
	cells, err := s.acc.QueryAll(ctx, s.selectors.Cells)
	if err != nil {
		return Slot{}, false, err
	}
	if len(accept) == 0 {
		return Slot{}, false, nil
	}
	for _, cell := range cells {
		if len(cell.Name) >= shortNameLimit {
			continue
		}
		color, err := s.acc.ComputedStyle(ctx, cell, backgroundColor)
		if err != nil {
			return Slot{}, false, fmt.Errorf("read colour of cell %d: %w", cell.Index, err)
		}
		token, ok := accept.match(color)
		if !ok {
			continue
		}
		if err := s.acc.ClickCell(ctx, cell); err != nil {
			return Slot{}, false, fmt.Errorf("click slot %q: %w", cell.TrimmedLabel(), err)
		}
		return Slot{Cell: cell, Color: token}, true, nil
	}
	return Slot{}, false, nil
}

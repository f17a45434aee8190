package navigator

import (
	"context"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/clock"
	"github.com/kuitang/screening-ui/internal/obs"
	"github.com/kuitang/screening-ui/internal/page"
)

// HierarchicalSelectors locates the parts of a drill-down date picker.
type HierarchicalSelectors struct {
	Switch string `toml:"switch"`
	Cells  string `toml:"cells"`
	Days   string `toml:"days"`
}

// Hierarchical drives a century/decade/year/month/day drill-down picker.
// The widget always opens on the current month, so plans are computed from
// the clock rather than from anything displayed.
type Hierarchical struct {
	acc       page.Accessor
	clock     clock.Clock
	selectors HierarchicalSelectors
}

// NewHierarchical returns a Hierarchical navigator bound to one widget instance.
func NewHierarchical(acc page.Accessor, clk clock.Clock, selectors HierarchicalSelectors) *Hierarchical {
	return &Hierarchical{acc: acc, clock: clk, selectors: selectors}
}

// Plan returns the zoom-out, zoom-in and day steps that reach target.
func (h *Hierarchical) Plan(ctx context.Context, target calendar.CalendarDate) ([]calendar.Step, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	now := calendar.FromTime(h.clock.Now())
	mismatch := calendar.ComputeGranularityMismatch(now, target)
	obs.From(ctx).Debug("granularity mismatch",
		"pkg", "navigator",
		"now", now.String(),
		"target", target.String(),
		"month", mismatch.Month,
		"year", mismatch.Year,
		"decade", mismatch.Decade,
		"century", mismatch.Century,
	)
	return calendar.PlanHierarchical(mismatch, target), nil
}

// NavigateTo moves the widget to target and selects its day.
func (h *Hierarchical) NavigateTo(ctx context.Context, target calendar.CalendarDate) error {
	ctx = obs.WithOperation(ctx, "hierarchical", "navigate")
	steps, err := h.Plan(ctx, target)
	if err != nil {
		return err
	}
	exec := &Executor{
		Accessor: h.acc,
		Controls: map[calendar.Control]string{calendar.Switch: h.selectors.Switch},
		Cells:    h.selectors.Cells,
		Days:     h.selectors.Days,
	}
	return exec.Run(ctx, steps)
}

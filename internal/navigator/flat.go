// Package navigator drives calendar widgets to a target date.
//
// Flat steers a widget that only offers single-step previous/next year and
// month buttons. Hierarchical steers a drill-down widget with one shared
// switch control that widens the grid a level per click. Both end by
// resolving the day cell with ResolveDay.
package navigator

import (
	"context"
	"fmt"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/clock"
	"github.com/kuitang/screening-ui/internal/logutil"
	"github.com/kuitang/screening-ui/internal/obs"
	"github.com/kuitang/screening-ui/internal/page"
)

// FlatSelectors locates the parts of a flat date picker.
type FlatSelectors struct {
	Header    string `toml:"header"`
	PrevYear  string `toml:"prev_year"`
	NextYear  string `toml:"next_year"`
	PrevMonth string `toml:"prev_month"`
	NextMonth string `toml:"next_month"`
	Today     string `toml:"today"`
	Days      string `toml:"days"`
}

// Flat drives a flat date picker.
type Flat struct {
	acc       page.Accessor
	clock     clock.Clock
	selectors FlatSelectors
}

// NewFlat returns a Flat navigator bound to one widget instance.
func NewFlat(acc page.Accessor, clk clock.Clock, selectors FlatSelectors) *Flat {
	return &Flat{acc: acc, clock: clk, selectors: selectors}
}

// Plan reads the displayed header and returns the steps that reach target.
// A target equal to today short-circuits to the today button.
func (f *Flat) Plan(ctx context.Context, target calendar.CalendarDate) ([]calendar.Step, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if target.Equal(calendar.FromTime(f.clock.Now())) {
		return calendar.PlanToday(), nil
	}
	header, err := f.acc.ReadText(ctx, f.selectors.Header)
	if err != nil {
		return nil, fmt.Errorf("read flat header: %w", err)
	}
	reference, err := calendar.ParseHeader(header)
	if err != nil {
		return nil, err
	}
	delta := calendar.ComputeFlatDelta(reference, target)
	obs.From(ctx).Debug("flat delta",
		"pkg", "navigator",
		"header", logutil.TruncateForLog(header, 40),
		"target", target.String(),
		"years", delta.Years,
		"months", delta.Months,
	)
	return calendar.PlanFlat(delta, target.Day), nil
}

// NavigateTo moves the widget to target and selects its day.
func (f *Flat) NavigateTo(ctx context.Context, target calendar.CalendarDate) error {
	ctx = obs.WithOperation(ctx, "flat", "navigate")
	steps, err := f.Plan(ctx, target)
	if err != nil {
		return err
	}
	return f.executor().Run(ctx, steps)
}

func (f *Flat) executor() *Executor {
	return &Executor{
		Accessor: f.acc,
		Controls: map[calendar.Control]string{
			calendar.Today:     f.selectors.Today,
			calendar.PrevYear:  f.selectors.PrevYear,
			calendar.NextYear:  f.selectors.NextYear,
			calendar.PrevMonth: f.selectors.PrevMonth,
			calendar.NextMonth: f.selectors.NextMonth,
		},
		Days: f.selectors.Days,
	}
}

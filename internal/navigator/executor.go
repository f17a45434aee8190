package navigator

import (
	"context"
	"fmt"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/obs"
	"github.com/kuitang/screening-ui/internal/page"
)

// Executor applies calendar steps to a live widget, one blocking action at a time.
type Executor struct {
	Accessor page.Accessor
	// Controls maps each widget button to its selector.
	Controls map[calendar.Control]string
	// Cells matches the zoom grid cells used by SelectCell steps.
	Cells string
	// Days matches the day grid cells used by SelectDay steps.
	Days string
}

// Run executes steps in order and stops at the first failure.
func (e *Executor) Run(ctx context.Context, steps []calendar.Step) error {
	log := obs.From(ctx).With("pkg", "navigator")
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return errs.Wrap(errs.Unavailable, "navigation cancelled", err)
		}
		log.Debug("executing step", "index", i, "step", step.String())
		if err := e.apply(ctx, step); err != nil {
			log.Warn("step failed", "index", i, "step", step.String(), "error", err)
			return fmt.Errorf("step %d (%s): %w", i, step, err)
		}
	}
	return nil
}

func (e *Executor) apply(ctx context.Context, step calendar.Step) error {
	switch step.Action {
	case calendar.ClickControl:
		selector, ok := e.Controls[step.Control]
		if !ok || selector == "" {
			return errs.New(errs.InvalidArgument, fmt.Sprintf("no selector configured for control %q", step.Control))
		}
		return e.Accessor.Click(ctx, selector)
	case calendar.SelectCell:
		return e.selectCell(ctx, step.Label)
	case calendar.SelectDay:
		_, err := SelectDay(ctx, e.Accessor, e.Days, step.Day)
		return err
	default:
		return errs.New(errs.Internal, fmt.Sprintf("unknown step action %d", step.Action))
	}
}

// selectCell clicks the first visible zoom-grid cell whose text is label.
func (e *Executor) selectCell(ctx context.Context, label string) error {
	cells, err := e.Accessor.QueryAll(ctx, e.Cells)
	if err != nil {
		return fmt.Errorf("read grid cells: %w", err)
	}
	matches := page.VisibleWithLabel(cells, label)
	if len(matches) == 0 {
		return errs.New(errs.NotFound, fmt.Sprintf("no visible grid cell labelled %q", label))
	}
	return e.Accessor.ClickCell(ctx, matches[0])
}

package calendar

import (
	"fmt"
	"strconv"
)

// Granularity is one zoom level of the hierarchical widget.
type Granularity int

const (
	LevelMonth Granularity = iota
	LevelYear
	LevelDecade
	LevelCentury
)

func (g Granularity) String() string {
	switch g {
	case LevelMonth:
		return "month"
	case LevelYear:
		return "year"
	case LevelDecade:
		return "decade"
	case LevelCentury:
		return "century"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// Label is the grid text that selects target at this level when zooming in.
func (g Granularity) Label(target CalendarDate) string {
	switch g {
	case LevelCentury:
		return fmt.Sprintf("%04d", CenturyOf(target.Year))
	case LevelDecade:
		return fmt.Sprintf("%04d", DecadeOf(target.Year))
	case LevelYear:
		return fmt.Sprintf("%04d", target.Year)
	default:
		return target.MonthAbbrev()
	}
}

// Control names a widget button.
type Control string

const (
	Today     Control = "today"
	PrevYear  Control = "prev_year"
	NextYear  Control = "next_year"
	PrevMonth Control = "prev_month"
	NextMonth Control = "next_month"
	Switch    Control = "switch"
)

// Action is the kind of a navigation step.
type Action int

const (
	// ClickControl clicks a widget button.
	ClickControl Action = iota
	// SelectCell clicks the grid cell whose text equals Label.
	SelectCell
	// SelectDay resolves and clicks the day cell for Day.
	SelectDay
)

// Step is one abstract navigation action.
type Step struct {
	Action  Action
	Control Control
	Label   string
	Day     int
}

func (s Step) String() string {
	switch s.Action {
	case ClickControl:
		return "click " + string(s.Control)
	case SelectCell:
		return "select cell " + strconv.Quote(s.Label)
	case SelectDay:
		return "select day " + strconv.Itoa(s.Day)
	default:
		return "unknown step"
	}
}

// Click returns a ClickControl step.
func Click(c Control) Step {
	return Step{Action: ClickControl, Control: c}
}

// PlanToday is the plan for a target equal to today: the shortcut selects the day too.
func PlanToday() []Step {
	return []Step{Click(Today)}
}

// PlanFlat converts a delta into single-step clicks followed by day selection.
// Years are stepped before months.
func PlanFlat(delta FlatDelta, day int) []Step {
	steps := make([]Step, 0, abs(delta.Years)+abs(delta.Months)+1)
	steps = appendRepeated(steps, delta.Years, PrevYear, NextYear)
	steps = appendRepeated(steps, delta.Months, PrevMonth, NextMonth)
	return append(steps, Step{Action: SelectDay, Day: day})
}

// PlanMonths steps the month axis only; used to align slot grids.
func PlanMonths(months int) []Step {
	return appendRepeated(make([]Step, 0, abs(months)), months, PrevMonth, NextMonth)
}

// PlanHierarchical clicks the switch once per mismatched level, selects the
// target's label for each of those levels coarsest first, then selects the day.
func PlanHierarchical(mismatch GranularityMismatch, target CalendarDate) []Step {
	levels := mismatch.ZoomLevels()
	steps := make([]Step, 0, 2*len(levels)+1)
	for range levels {
		steps = append(steps, Click(Switch))
	}
	for i := len(levels) - 1; i >= 0; i-- {
		steps = append(steps, Step{Action: SelectCell, Label: levels[i].Label(target)})
	}
	return append(steps, Step{Action: SelectDay, Day: target.Day})
}

func appendRepeated(steps []Step, n int, backward, forward Control) []Step {
	control := backward
	if n < 0 {
		control = forward
	}
	for i := 0; i < abs(n); i++ {
		steps = append(steps, Click(control))
	}
	return steps
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CountClicks tallies ClickControl steps per control.
func CountClicks(steps []Step) map[Control]int {
	counts := make(map[Control]int)
	for _, s := range steps {
		if s.Action == ClickControl {
			counts[s.Control]++
		}
	}
	return counts
}

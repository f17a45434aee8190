package calendar

// FlatDelta is the number of single-step clicks a flat widget needs.
// Positive values step backwards in time.
type FlatDelta struct {
	Years  int
	Months int
}

// ComputeFlatDelta returns reference minus target on the year and month axes.
// The day is ignored. The flat widget keeps its displayed month while
// stepping years, so the two axes are independent.
func ComputeFlatDelta(reference, target CalendarDate) FlatDelta {
	return FlatDelta{
		Years:  reference.Year - target.Year,
		Months: int(reference.Month) - int(target.Month),
	}
}

// MonthsBetween is the month-only delta used to align slot grids.
func MonthsBetween(reference, target CalendarDate) int {
	return int(reference.Month) - int(target.Month)
}

// GranularityMismatch records which zoom levels differ between two dates.
type GranularityMismatch struct {
	Month   bool
	Year    bool
	Decade  bool
	Century bool
}

// ComputeGranularityMismatch evaluates every level independently.
func ComputeGranularityMismatch(reference, target CalendarDate) GranularityMismatch {
	return GranularityMismatch{
		Century: CenturyOf(reference.Year) != CenturyOf(target.Year),
		Decade:  DecadeOf(reference.Year) != DecadeOf(target.Year),
		Year:    reference.Year != target.Year,
		Month:   reference.Month.String() != target.Month.String(),
	}
}

// Any reports whether at least one level differs.
func (m GranularityMismatch) Any() bool {
	return m.Month || m.Year || m.Decade || m.Century
}

// ZoomLevels returns the mismatched levels from finest to coarsest. Each one
// costs a switch click on the way out and a cell pick on the way back in;
// matching levels are skipped even when a coarser level differs.
func (m GranularityMismatch) ZoomLevels() []Granularity {
	var levels []Granularity
	for i, f := range [...]bool{m.Month, m.Year, m.Decade, m.Century} {
		if f {
			levels = append(levels, Granularity(i))
		}
	}
	return levels
}

// CenturyOf floors y to its century.
func CenturyOf(y int) int {
	return floorDiv(y, 100) * 100
}

// DecadeOf floors y to its decade.
func DecadeOf(y int) int {
	century := CenturyOf(y)
	return floorDiv(y-century, 10)*10 + century
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Package calendar holds the pure date arithmetic behind the calendar
// navigators: the date value type, header parsing, navigation deltas,
// granularity mismatches and the step plans derived from them.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/logutil"
)

const (
	dateLayout   = "2006-01-02"
	headerLayout = "January, 2006"
)

// CalendarDate is a wall-calendar date with no time-of-day or zone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the CalendarDate for year, month, day without validating it.
func New(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// FromTime copies the wall-clock date fields of t.
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseDate parses caller input in YYYY-MM-DD format.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return CalendarDate{}, errs.Wrap(errs.InvalidArgument, fmt.Sprintf("date %q must be in YYYY-MM-DD format", s), err)
	}
	return FromTime(t), nil
}

// ParseHeader parses a widget header of the form "April, 2020".
// The returned date is anchored on day 1 of that month.
func ParseHeader(text string) (CalendarDate, error) {
	normalized := logutil.CollapseWhitespace(text)
	t, err := time.Parse(headerLayout, normalized)
	if err != nil {
		return CalendarDate{}, errs.Wrap(errs.Parse, fmt.Sprintf("header %q is not in \"Month, Year\" format", text), err)
	}
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: 1}, nil
}

// Validate reports whether d names a real calendar day.
func (d CalendarDate) Validate() error {
	if d.Month < time.January || d.Month > time.December {
		return errs.New(errs.InvalidArgument, fmt.Sprintf("month %d out of range 1..12", int(d.Month)))
	}
	if d.Day < 1 || d.Day > DaysIn(d.Year, d.Month) {
		return errs.New(errs.InvalidArgument, fmt.Sprintf("day %d out of range for %s %d", d.Day, d.Month, d.Year))
	}
	return nil
}

// Equal reports whether d and other are the same day.
func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// SameMonth reports whether d and other fall in the same month of the same year.
func (d CalendarDate) SameMonth(other CalendarDate) bool {
	return d.Year == other.Year && d.Month == other.Month
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Header renders d the way the flat widget shows its header.
func (d CalendarDate) Header() string {
	return fmt.Sprintf("%s, %d", d.Month, d.Year)
}

// DayLabel is the non-zero-padded day numeral shown in a day cell.
func (d CalendarDate) DayLabel() string {
	return strconv.Itoa(d.Day)
}

// MonthAbbrev is the three-letter month label used by the month grid.
func (d CalendarDate) MonthAbbrev() string {
	return d.Month.String()[:3]
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

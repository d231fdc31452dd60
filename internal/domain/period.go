package domain

import (
	"strconv"
	"strings"
	"time"
)

// PeriodKind is the reporting granularity.
type PeriodKind string

const (
	PeriodWeekly  PeriodKind = "WEEKLY"
	PeriodMonthly PeriodKind = "MONTHLY"
	PeriodYearly  PeriodKind = "YEARLY"
)

// ParsePeriodKind matches a token case-insensitively. Unknown tokens fall back to MONTHLY.
func ParsePeriodKind(s string) PeriodKind {
	switch k := PeriodKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case PeriodWeekly, PeriodYearly:
		return k
	default:
		return PeriodMonthly
	}
}

// Period is a resolved reporting window. Both bounds are inclusive.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
	Label string
}

// Range returns the period bounds as a DateRange.
func (p Period) Range() DateRange {
	return DateRange{Start: p.Start, End: p.End}
}

// ResolvePeriod computes the window of the given kind that contains ref.
// Bounds are expressed in ref's location.
func ResolvePeriod(kind PeriodKind, ref time.Time, wf WeekFields) Period {
	loc := ref.Location()
	switch kind {
	case PeriodWeekly:
		start := wf.StartOfWeek(ref)
		return Period{
			Kind:  PeriodWeekly,
			Start: start,
			End:   start.AddDate(0, 0, 7).Add(-time.Second),
			Label: "Week of " + start.Format("Jan 02, 2006"),
		}
	case PeriodYearly:
		return Period{
			Kind:  PeriodYearly,
			Start: time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, loc),
			End:   time.Date(ref.Year(), time.December, 31, 23, 59, 59, 0, loc),
			Label: strconv.Itoa(ref.Year()),
		}
	default:
		return Period{
			Kind:  PeriodMonthly,
			Start: MonthStart(ref.Year(), ref.Month(), loc),
			End:   MonthEnd(ref.Year(), ref.Month(), loc),
			Label: ref.Format("January 2006"),
		}
	}
}

// MonthStart is midnight on the first day of the month.
func MonthStart(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// MonthEnd is 23:59:59 on the last day of the month.
func MonthEnd(year int, month time.Month, loc *time.Location) time.Time {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 23, 59, 59, 0, loc)
}

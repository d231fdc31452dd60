package domain

import (
	"fmt"
	"strings"
	"time"
)

// WeekFields defines how weeks are laid out in the reporting calendar:
// which weekday opens a week and how many days of a new year the first
// week must contain.
type WeekFields struct {
	FirstDay    time.Weekday
	MinimalDays int
}

// DefaultWeekFields starts weeks on Sunday and counts any partial week as week 1.
var DefaultWeekFields = WeekFields{FirstDay: time.Sunday, MinimalDays: 1}

// ParseWeekday accepts English weekday names ("monday", "SUN", ...).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := strings.ToLower(d.String())
			if s == name || s == name[:3] {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, s)
}

// DayOfWeek returns the 1-based position of t's weekday within the week.
func (wf WeekFields) DayOfWeek(t time.Time) int {
	return floorMod(int(t.Weekday())-int(wf.FirstDay), 7) + 1
}

// StartOfWeek returns midnight of the first day of the week containing t.
func (wf WeekFields) StartOfWeek(t time.Time) time.Time {
	d := t.AddDate(0, 0, -(wf.DayOfWeek(t) - 1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// WeekOfYear returns the week number of t within its calendar year. Days
// before the first full week are in week 0.
func (wf WeekFields) WeekOfYear(t time.Time) int {
	doy := t.YearDay()
	weekStart := floorMod(doy-wf.DayOfWeek(t), 7)
	offset := -weekStart
	if weekStart+1 > wf.minimalDays() {
		offset = 7 - weekStart
	}
	return (7 + offset + doy - 1) / 7
}

// WithWeekOfYear moves t by whole weeks so that it falls in the given week
// of its year, keeping the weekday and time of day.
func (wf WeekFields) WithWeekOfYear(t time.Time, week int) time.Time {
	return t.AddDate(0, 0, (week-wf.WeekOfYear(t))*7)
}

func (wf WeekFields) minimalDays() int {
	if wf.MinimalDays < 1 {
		return 1
	}
	if wf.MinimalDays > 7 {
		return 7
	}
	return wf.MinimalDays
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/iho/moneymanager/internal/domain"
)

// Accepted date-time layouts, most specific first. Values without an offset
// are read in the reporting location.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDateTime reads an ISO 8601 instant, local date-time or plain date.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q, use ISO 8601 (YYYY-MM-DDTHH:mm:ss)", domain.ErrInvalidInput, s)
}

// ParseReferenceDate reads the dashboard's date parameter: YYYY, YYYY-MM,
// YYYY-MM-DD or an ISO local date-time. Partial dates pin to their first
// instant.
func ParseReferenceDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	invalid := fmt.Errorf("%w: Invalid date format. Use: YYYY, YYYY-MM, YYYY-MM-DD, or ISO 8601", domain.ErrInvalidInput)

	var (
		t   time.Time
		err error
	)
	switch len(s) {
	case 4:
		t, err = time.ParseInLocation("2006", s, loc)
	case 7:
		t, err = time.ParseInLocation("2006-01", s, loc)
	case 10:
		t, err = time.ParseInLocation(time.DateOnly, s, loc)
	default:
		t, err = ParseDateTime(s, loc)
	}
	if err != nil {
		return time.Time{}, invalid
	}
	// Same range the chart accepts for ?year.
	if t.Year() < 1 {
		return time.Time{}, invalid
	}
	return t, nil
}

func parseOptionalDateTime(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDateTime(*s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

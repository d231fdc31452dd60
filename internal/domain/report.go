package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary totals a single reporting period.
type DashboardSummary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	Period       PeriodKind
	PeriodLabel  string
	Start        time.Time
	End          time.Time
}

// ChartSeries holds aligned per-bucket totals. All three slices share a length.
type ChartSeries struct {
	Kind    PeriodKind
	Year    int
	Labels  []string
	Income  []decimal.Decimal
	Expense []decimal.Decimal
}

// CategorySummary is one category's share of a period's total.
type CategorySummary struct {
	Category   string
	Amount     decimal.Decimal
	Percentage float64
}

// DivisionTotals are the sums for a single division.
type DivisionTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// DivisionSummary carries an entry for every division, even with no activity.
type DivisionSummary map[Division]DivisionTotals

// Bucket is a labelled chart window; both bounds are inclusive.
type Bucket struct {
	Label string
	Range DateRange
}

// Weeks per chart year.
const ChartWeeks = 52

// ChartYears is how many years a yearly chart covers, ending at the requested year.
const ChartYears = 5

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ChartBuckets lays out the windows for a chart of the given kind and year.
// Weekly windows are fixed seven-day offsets from the first week of the year
// and span start..start+7d inclusive, so the last ones may run into the next year.
func ChartBuckets(kind PeriodKind, year int, loc *time.Location, wf WeekFields) []Bucket {
	switch kind {
	case PeriodWeekly:
		jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		buckets := make([]Bucket, 0, ChartWeeks)
		for week := 1; week <= ChartWeeks; week++ {
			start := wf.WithWeekOfYear(jan1, week)
			buckets = append(buckets, Bucket{
				Label: "Week " + strconv.Itoa(week),
				Range: DateRange{Start: start, End: start.AddDate(0, 0, 7)},
			})
		}
		return buckets
	case PeriodYearly:
		buckets := make([]Bucket, 0, ChartYears)
		for y := year - ChartYears + 1; y <= year; y++ {
			buckets = append(buckets, Bucket{
				Label: strconv.Itoa(y),
				Range: DateRange{
					Start: time.Date(y, time.January, 1, 0, 0, 0, 0, loc),
					End:   time.Date(y, time.December, 31, 23, 59, 59, 0, loc),
				},
			})
		}
		return buckets
	default:
		buckets := make([]Bucket, 0, len(monthLabels))
		for i, label := range monthLabels {
			m := time.Month(i + 1)
			buckets = append(buckets, Bucket{
				Label: label,
				Range: DateRange{Start: MonthStart(year, m, loc), End: MonthEnd(year, m, loc)},
			})
		}
		return buckets
	}
}

// Span returns the smallest range covering every bucket.
func Span(buckets []Bucket) DateRange {
	var r DateRange
	for i, b := range buckets {
		if i == 0 || b.Range.Start.Before(r.Start) {
			r.Start = b.Range.Start
		}
		if i == 0 || b.Range.End.After(r.End) {
			r.End = b.Range.End
		}
	}
	return r
}

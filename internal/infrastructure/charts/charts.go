// Package charts renders dashboard reports as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/iho/moneymanager/internal/domain"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to render")

const (
	width  = 1200
	height = 600
)

// maxTicks bounds the number of labelled x-axis ticks.
const maxTicks = 13

func background() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    50,
			Left:   50,
			Right:  50,
			Bottom: 50,
		},
		FillColor: chart.ColorWhite,
	}
}

func moneyFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

// RenderChartPNG draws income and expense lines over the buckets of series.
func RenderChartPNG(series *domain.ChartSeries) ([]byte, error) {
	if series == nil || len(series.Labels) == 0 {
		return nil, ErrNoData
	}

	n := len(series.Labels)
	xValues := make([]float64, n)
	incomeValues := make([]float64, n)
	expenseValues := make([]float64, n)
	peak := 0.0
	for i := range series.Labels {
		xValues[i] = float64(i)
		incomeValues[i] = series.Income[i].InexactFloat64()
		expenseValues[i] = series.Expense[i].InexactFloat64()
		peak = max(peak, incomeValues[i], expenseValues[i])
	}

	// a flat zero line has no y-range, so give the axis one
	if peak == 0 {
		peak = 1
	}

	step := (n + maxTicks - 1) / maxTicks
	ticks := make([]chart.Tick, 0, maxTicks)
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: series.Labels[i]})
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("%s %d", series.Kind, series.Year),
		Width:      width,
		Height:     height,
		Background: background(),
		XAxis: chart.XAxis{
			Ticks: ticks,
			Style: chart.Style{
				FontSize:  10,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: moneyFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.ContinuousSeries{
				Name:    "Expense",
				XValues: xValues,
				YValues: expenseValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buffer.Bytes(), nil
}

// RenderCategoryPNG draws a pie of category shares. Categories with no
// amount are left out.
func RenderCategoryPNG(title string, summaries []domain.CategorySummary) ([]byte, error) {
	values := make([]chart.Value, 0, len(summaries))
	for _, s := range summaries {
		if !s.Amount.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", s.Category, s.Amount.StringFixed(2), s.Percentage),
			Value: s.Amount.InexactFloat64(),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:      title,
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background(),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}

	return buffer.Bytes(), nil
}

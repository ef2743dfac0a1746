package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"outlay/internal/core"
)

// TrendPNG renders daily totals as a line chart and returns the PNG
// bytes, ready to embed in a report page.
func TrendPNG(points []core.DayTotal) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: a trend chart needs at least two days", core.ErrValidation)
	}

	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Date.Time
		ys[i] = p.Total.InexactFloat64()
	}

	graph := chart.Chart{
		Title:  "Daily spending",
		Width:  900,
		Height: 300,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Spent",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 2,
					DotWidth:    3,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}

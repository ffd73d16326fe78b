// Package report renders the comprehensive analysis into deliverables:
// chart images and the strategic Word document. The engines guarantee
// plain strings and numbers; everything here is presentation.
package report

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/sheetmind/sheetmind/internal/analyst"
)

const (
	chartWidth  = 800
	chartHeight = 600
)

// ChartPNG renders a chart spec as a PNG image.
func ChartPNG(spec analyst.ChartSpec) ([]byte, error) {
	if len(spec.Labels) == 0 || len(spec.Labels) != len(spec.Data) {
		return nil, fmt.Errorf("report: malformed chart spec %q", spec.Title)
	}

	values := make([]chart.Value, 0, len(spec.Labels))
	for i, label := range spec.Labels {
		values = append(values, chart.Value{
			Label: label,
			Value: float64(spec.Data[i]),
		})
	}

	var buf bytes.Buffer
	switch spec.Type {
	case "pie":
		pie := chart.PieChart{
			Title:  spec.Title,
			Width:  chartWidth,
			Height: chartHeight,
			Values: values,
		}
		if err := pie.Render(chart.PNG, &buf); err != nil {
			return nil, fmt.Errorf("report: render pie: %w", err)
		}
	default:
		bar := chart.BarChart{
			Title:    spec.Title,
			Width:    chartWidth,
			Height:   chartHeight,
			BarWidth: 40,
			Bars:     values,
		}
		if err := bar.Render(chart.PNG, &buf); err != nil {
			return nil, fmt.Errorf("report: render bar: %w", err)
		}
	}
	return buf.Bytes(), nil
}

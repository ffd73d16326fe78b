// Package analyst turns a question and a dataset into the structured
// analysis payload: chart decisions, calculations and the tagged
// result combined with LLM prose.
package analyst

import (
	"strings"

	"github.com/sheetmind/sheetmind/internal/dataset"
)

// chartKeywords trigger chart generation when present in a question.
// Keyword matching, not NLP: false positives and negatives are
// accepted.
var chartKeywords = []string{
	"gráfica",
	"gráfico",
	"distribución",
	"muestra",
	"comparar",
}

// PieMaxCategories is the largest distribution rendered as a pie;
// anything wider becomes a bar chart.
const PieMaxCategories = 5

// ChartSpec is the minimal renderer-independent chart description.
// Labels and Data are parallel sequences.
type ChartSpec struct {
	Type   string   `json:"type"`
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	Title  string   `json:"title"`
}

// NeedsChart reports whether the question asks for a visual answer.
func NeedsChart(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range chartKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// SelectChartColumn picks the column to chart. Phase 1 prefers a
// categorical column the user named in the question; phase 2 falls
// back to the first informative categorical column, accepting that it
// may not match user intent. Returns nil when no column qualifies.
func SelectChartColumn(question string, d dataset.Dataset) *ChartSpec {
	if d.Len() == 0 {
		return nil
	}

	q := strings.ToLower(question)
	for _, col := range d.Columns {
		if !strings.Contains(q, strings.ToLower(col)) {
			continue
		}
		dist, ok := dataset.ColumnDistribution(d, col, dataset.NamedChartCardinality)
		if !ok {
			continue
		}
		kind := "bar"
		if dist.Size() <= PieMaxCategories {
			kind = "pie"
		}
		return chartFromDistribution(kind, col, dist)
	}

	return FallbackChartSpec(d)
}

// FallbackChartSpec charts the first column with a narrow categorical
// distribution, always as a bar chart. Used both as the phase-2
// fallback and for report charts where no question steers the choice.
func FallbackChartSpec(d dataset.Dataset) *ChartSpec {
	for _, col := range d.Columns {
		dist, ok := dataset.ColumnDistribution(d, col, dataset.FallbackChartCardinality)
		if !ok {
			continue
		}
		return chartFromDistribution("bar", col, dist)
	}
	return nil
}

func chartFromDistribution(kind, column string, dist *dataset.Distribution) *ChartSpec {
	return &ChartSpec{
		Type:   kind,
		Labels: dist.Labels(),
		Data:   dist.Counts(),
		Title:  "Distribución por " + column,
	}
}

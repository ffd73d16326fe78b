package analyst

import (
	"github.com/sheetmind/sheetmind/internal/dataset"
)

// Result tags (see Result.Type).
const (
	TypeMetric = "metrica"
	TypeChart  = "grafica"
)

// Result is the structured payload for one answered question: LLM
// prose plus the deterministic calculations, and chart data when the
// question warranted one.
type Result struct {
	Type         string         `json:"type"`
	AIResponse   string         `json:"aiResponse"`
	Calculations map[string]any `json:"calculations"`
	ChartData    *ChartSpec     `json:"chartData"`
}

// Calculations builds the live-question metric/distribution snapshot:
// totalRegistros, total_/promedio_ pairs for the numeric columns the
// policy admits, and distribucion_ tables for the categorical columns
// under the live cardinality ceiling. Empty datasets degrade to an
// empty mapping.
func Calculations(d dataset.Dataset, policy dataset.MetricPolicy) map[string]any {
	calc := make(map[string]any)
	if d.Len() == 0 {
		return calc
	}

	calc["totalRegistros"] = d.Len()

	for col, m := range dataset.Metrics(d) {
		if !policy.Admits(col, m) {
			continue
		}
		calc["total_"+col] = m.Sum
		calc["promedio_"+col] = m.Average
	}

	for col, dist := range dataset.AllDistributions(d, dataset.LiveCardinality) {
		calc["distribucion_"+col] = dist
	}

	return calc
}

// BuildResponse assembles the tagged Result for one question. Chart
// selection runs only when the question asks for a chart.
func BuildResponse(aiText, question string, d dataset.Dataset, policy dataset.MetricPolicy) Result {
	needsChart := NeedsChart(question)

	res := Result{
		Type:         TypeMetric,
		AIResponse:   aiText,
		Calculations: Calculations(d, policy),
	}
	if needsChart {
		res.Type = TypeChart
		res.ChartData = SelectChartColumn(question, d)
	}
	return res
}

package analyst

import "github.com/sheetmind/sheetmind/internal/dataset"

// ComprehensiveAnalysis is the full schema + metrics + distributions
// snapshot used for strategic reports. Everything in it is plain
// strings and numbers, suitable for serialization into prompts and
// documents.
type ComprehensiveAnalysis struct {
	TotalRecords  int                              `json:"totalRecords"`
	Columns       []dataset.ColumnProfile          `json:"columns"`
	Metrics       map[string]dataset.ColumnMetrics `json:"metrics"`
	Distributions map[string]*dataset.Distribution `json:"distributions"`
}

// Comprehend runs every engine over the dataset with the report
// cardinality ceiling. An empty dataset yields an empty analysis.
func Comprehend(d dataset.Dataset) ComprehensiveAnalysis {
	return ComprehensiveAnalysis{
		TotalRecords:  d.Len(),
		Columns:       dataset.Profile(d),
		Metrics:       dataset.Metrics(d),
		Distributions: dataset.AllDistributions(d, dataset.ReportCardinality),
	}
}

package dataset

import (
	"bytes"
	"encoding/json"
)

// Cardinality ceilings. Call sites differ on purpose: comprehensive
// reports tolerate wider tables than live per-question calculations,
// and chart selection is stricter still.
const (
	ReportCardinality        = 50
	LiveCardinality          = 20
	NamedChartCardinality    = 15
	FallbackChartCardinality = 10
)

// Distribution is a frequency table over one column's bucket labels,
// preserving first-seen label order so chart labels and data stay
// parallel.
type Distribution struct {
	labels []string
	counts map[string]int
}

// NewDistribution returns an empty frequency table.
func NewDistribution() *Distribution {
	return &Distribution{counts: make(map[string]int)}
}

// Add counts one occurrence of a bucket label.
func (t *Distribution) Add(label string) {
	if _, ok := t.counts[label]; !ok {
		t.labels = append(t.labels, label)
	}
	t.counts[label]++
}

// Labels returns bucket labels in first-seen order.
func (t *Distribution) Labels() []string { return t.labels }

// Counts returns bucket counts parallel to Labels.
func (t *Distribution) Counts() []int {
	out := make([]int, len(t.labels))
	for i, l := range t.labels {
		out[i] = t.counts[l]
	}
	return out
}

// Count returns the frequency of one label.
func (t *Distribution) Count(label string) int { return t.counts[label] }

// Size is the number of distinct bucket labels.
func (t *Distribution) Size() int { return len(t.labels) }

// Total is the sum over all buckets, which equals the number of rows
// counted (every row contributes exactly one count).
func (t *Distribution) Total() int {
	sum := 0
	for _, c := range t.counts {
		sum += c
	}
	return sum
}

// MarshalJSON encodes the table as a JSON object in first-seen label
// order, matching the shape chart renderers and LLM prompts expect.
func (t *Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range t.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(jsonInt(t.counts[l]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// ColumnDistribution counts occurrences of each distinct value in a
// column, substituting the "Sin clasificar" bucket for missing cells.
// It reports ok only when 1 < distinct < maxCardinality: near-constant
// and near-unique columns make useless frequency tables.
func ColumnDistribution(d Dataset, column string, maxCardinality int) (*Distribution, bool) {
	if d.Len() == 0 {
		return nil, false
	}
	t := NewDistribution()
	for _, rec := range d.Rows {
		t.Add(rec[column].Label())
	}
	if t.Size() <= 1 || t.Size() >= maxCardinality {
		return nil, false
	}
	return t, true
}

// AllDistributions applies ColumnDistribution to every column with a
// shared ceiling, keeping only the columns that qualify.
func AllDistributions(d Dataset, maxCardinality int) map[string]*Distribution {
	out := make(map[string]*Distribution)
	for _, col := range d.Columns {
		if t, ok := ColumnDistribution(d, col, maxCardinality); ok {
			out[col] = t
		}
	}
	return out
}

package dataset

import "strings"

// ColumnMetrics are the five aggregates over a column's Number values.
type ColumnMetrics struct {
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Metrics computes aggregates for every column holding at least one
// Number value. Columns that are all-missing or purely textual produce
// no entry. Average is exactly Sum / Count.
func Metrics(d Dataset) map[string]ColumnMetrics {
	out := make(map[string]ColumnMetrics)
	for _, col := range d.Columns {
		var m ColumnMetrics
		for _, rec := range d.Rows {
			v := rec[col]
			if v.Kind != Number {
				continue
			}
			if m.Count == 0 || v.Num < m.Min {
				m.Min = v.Num
			}
			if m.Count == 0 || v.Num > m.Max {
				m.Max = v.Num
			}
			m.Sum += v.Num
			m.Count++
		}
		if m.Count == 0 {
			continue
		}
		m.Average = m.Sum / float64(m.Count)
		out[col] = m
	}
	return out
}

// MetricPolicy decides which numeric columns are interesting enough to
// surface in live question calculations. The substring exclusion is a
// heuristic against identifier-like columns ("id", "numero"); it can
// suppress legitimate metrics (a column literally named
// "numero_ventas") and is therefore configuration, not a hard rule.
type MetricPolicy struct {
	ExcludeSubstrings      []string
	RequirePositiveAverage bool
}

// DefaultMetricPolicy matches the historical behavior.
func DefaultMetricPolicy() MetricPolicy {
	return MetricPolicy{
		ExcludeSubstrings:      []string{"id", "numero"},
		RequirePositiveAverage: true,
	}
}

// Admits reports whether a column's metrics should be surfaced.
func (p MetricPolicy) Admits(column string, m ColumnMetrics) bool {
	lower := strings.ToLower(column)
	for _, sub := range p.ExcludeSubstrings {
		if strings.Contains(lower, sub) {
			return false
		}
	}
	if p.RequirePositiveAverage && m.Average <= 0 {
		return false
	}
	return true
}

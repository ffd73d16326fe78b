package dataset

const maxSampleValues = 3

// ColumnProfile is derived per-column metadata. It is recomputed per
// analysis call, never stored.
type ColumnProfile struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	UniqueCount  int    `json:"uniqueCount"`
	SampleValues []any  `json:"sampleValues"`
}

// Profile infers per-column characteristics in first-record column
// order: the loose primitive type of the first record's cell, the
// distinct non-missing value count and up to 3 sample values.
// Profile of an empty dataset is an empty slice, not an error.
func Profile(d Dataset) []ColumnProfile {
	if d.Len() == 0 {
		return []ColumnProfile{}
	}

	profiles := make([]ColumnProfile, 0, len(d.Columns))
	for _, col := range d.Columns {
		seen := make(map[string]struct{})
		samples := make([]any, 0, maxSampleValues)
		for _, rec := range d.Rows {
			v := rec[col]
			if v.Kind == Missing {
				continue
			}
			if _, ok := seen[v.Raw]; ok {
				continue
			}
			seen[v.Raw] = struct{}{}
			if len(samples) < maxSampleValues {
				samples = append(samples, v.Any())
			}
		}
		profiles = append(profiles, ColumnProfile{
			Name:         col,
			Type:         d.Rows[0][col].TypeName(),
			UniqueCount:  len(seen),
			SampleValues: samples,
		})
	}
	return profiles
}

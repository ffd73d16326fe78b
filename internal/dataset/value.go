package dataset

import (
	"strconv"
	"strings"
)

// UnclassifiedLabel is the bucket label used for missing values in
// distributions and chart data.
const UnclassifiedLabel = "Sin clasificar"

type Kind int

const (
	Missing Kind = iota
	Number
	Text
	Bool
)

// Value is a tagged scalar cell. Numeric-looking strings are tagged
// Number at ingestion so downstream logic never re-parses.
type Value struct {
	Kind Kind
	Num  float64
	B    bool
	Raw  string
}

// ParseValue tags a raw cell. Empty cells are Missing; anything a
// decimal parse accepts (including numeric strings like "42") is
// Number; "true"/"false" in any case is Bool; the rest is Text. The
// original raw text is kept so distributions and samples show what
// the user uploaded.
func ParseValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{Kind: Missing}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Value{Kind: Number, Num: n, Raw: raw}
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return Value{Kind: Bool, B: true, Raw: raw}
	case "false":
		return Value{Kind: Bool, B: false, Raw: raw}
	}
	return Value{Kind: Text, Raw: raw}
}

// Label is the distribution bucket for the value.
func (v Value) Label() string {
	if v.Kind == Missing {
		return UnclassifiedLabel
	}
	return v.Raw
}

// Any converts the value for JSON payloads: float64, string, bool, or
// nil.
func (v Value) Any() any {
	switch v.Kind {
	case Number:
		return v.Num
	case Text:
		return v.Raw
	case Bool:
		return v.B
	default:
		return nil
	}
}

// TypeName mirrors the loose type label exposed in column profiles.
func (v Value) TypeName() string {
	switch v.Kind {
	case Number:
		return "number"
	case Text:
		return "string"
	case Bool:
		return "boolean"
	default:
		return "null"
	}
}

package schema

import "strings"

// Normalize maps a raw type descriptor (a runtime type name observed for a
// column's values, e.g. "int64", "datetime64[ns]") to a canonical label.
// Matching is a case-insensitive substring check, first match wins, and every
// descriptor maps to some label: anything unrecognized becomes VARCHAR. The
// mapping is lossy on purpose; it is an approximation good enough for
// structural diffing, not a full type system.
func Normalize(descriptor string) TypeLabel {
	d := strings.ToLower(descriptor)

	switch {
	case strings.Contains(d, "int"):
		return TypeInteger
	case strings.Contains(d, "float"):
		return TypeFloat
	case strings.Contains(d, "bool"):
		return TypeBoolean
	case strings.Contains(d, "datetime"), strings.Contains(d, "date"):
		return TypeTimestamp
	default:
		return TypeVarchar
	}
}

// CanonicalLabels returns the fixed set of labels Normalize can produce.
func CanonicalLabels() []TypeLabel {
	return []TypeLabel{TypeInteger, TypeFloat, TypeBoolean, TypeTimestamp, TypeVarchar}
}

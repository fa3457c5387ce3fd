// Package schema models table schemas as flat column-to-type mappings and
// provides inference, normalization, validation, and diffing over them.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/schemadrift/schemadrift/internal/errors"
)

// TypeLabel is a canonical column type label. Schemas fetched from a live
// warehouse may carry native labels outside the canonical set; those are
// preserved verbatim and compared by exact equality like any other label.
type TypeLabel string

const (
	TypeInteger   TypeLabel = "INTEGER"
	TypeFloat     TypeLabel = "FLOAT"
	TypeBoolean   TypeLabel = "BOOLEAN"
	TypeTimestamp TypeLabel = "TIMESTAMP"
	TypeVarchar   TypeLabel = "VARCHAR"
)

// Schema maps column names to type labels. Column names are case-preserving
// and unique by construction of the map.
type Schema map[string]TypeLabel

// Columns returns the column names in ascending lexicographic order.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s))
	for col := range s {
		cols = append(cols, col)
	}

	sort.Strings(cols)

	return cols
}

// Format renders the schema as sorted "- column: TYPE" lines. Prompt text is
// built from this, so the rendering must be deterministic.
func (s Schema) Format() string {
	var sb strings.Builder

	for i, col := range s.Columns() {
		if i > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("- %s: %s", col, s[col]))
	}

	return sb.String()
}

// Clone returns a copy of the schema.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for col, typ := range s {
		out[col] = typ
	}

	return out
}

// Equal reports whether two schemas have identical columns and labels.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}

	for col, typ := range s {
		if other[col] != typ {
			return false
		}
	}

	return true
}

// Parse validates and decodes a JSON schema document at the boundary. The
// document must be a flat JSON object mapping non-empty column names to
// string type labels; anything else is rejected with a validation error.
func Parse(data []byte) (Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New(errors.ErrTypeValidation, "schema document is empty")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeValidation,
			"schema document is not a JSON object")
	}

	out := make(Schema, len(raw))

	for col, val := range raw {
		if strings.TrimSpace(col) == "" {
			return nil, errors.NewValidationError("column name must not be empty", col)
		}

		var label string
		if err := json.Unmarshal(val, &label); err != nil {
			return nil, errors.NewValidationError("type label must be a string", col)
		}

		if strings.TrimSpace(label) == "" {
			return nil, errors.NewValidationError("type label must not be empty", col)
		}

		out[col] = TypeLabel(label)
	}

	return out, nil
}

// MarshalJSON renders the schema with deterministic key order.
func (s Schema) MarshalJSON() ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("{")

	for i, col := range s.Columns() {
		if i > 0 {
			sb.WriteString(",")
		}

		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(string(s[col]))
		if err != nil {
			return nil, err
		}

		sb.Write(key)
		sb.WriteString(":")
		sb.Write(val)
	}

	sb.WriteString("}")

	return []byte(sb.String()), nil
}

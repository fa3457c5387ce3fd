package schema

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/schemadrift/schemadrift/internal/errors"
)

// timestampLayouts are the formats the sniffer accepts for TIMESTAMP columns.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// InferCSV reads a CSV dataset and infers a canonical schema from the
// observed values of each column. The header row supplies column names.
func InferCSV(r io.Reader) (Schema, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeValidation, "malformed CSV upload")
	}

	if len(records) == 0 {
		return nil, errors.New(errors.ErrTypeValidation, "CSV upload is empty")
	}

	header := records[0]
	rows := records[1:]

	out := make(Schema, len(header))

	for i, col := range header {
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, errors.NewValidationError("column name must not be empty", col)
		}

		values := make([]string, 0, len(rows))

		for _, row := range rows {
			if i < len(row) {
				values = append(values, row[i])
			}
		}

		out[col] = sniffStrings(values)
	}

	return out, nil
}

// InferJSON infers a canonical schema from a JSON array of flat records.
// Column types follow the JSON value types: integral numbers map to INTEGER,
// fractional to FLOAT, booleans to BOOLEAN, and strings are sniffed for
// timestamp formats before falling back to VARCHAR.
func InferJSON(data []byte) (Schema, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeValidation,
			"upload is not a JSON array of records")
	}

	if len(records) == 0 {
		return nil, errors.New(errors.ErrTypeValidation, "JSON upload contains no records")
	}

	// Collect values per column across all records.
	values := make(map[string][]any)

	for _, record := range records {
		for col, val := range record {
			if strings.TrimSpace(col) == "" {
				return nil, errors.NewValidationError("column name must not be empty", col)
			}

			values[col] = append(values[col], val)
		}
	}

	out := make(Schema, len(values))
	for col, vals := range values {
		out[col] = sniffValues(vals)
	}

	return out, nil
}

// sniffStrings classifies a column of textual values. Empty values are
// ignored; a column where every non-empty value parses as the same kind gets
// that kind, otherwise VARCHAR.
func sniffStrings(values []string) TypeLabel {
	seen := false
	isInt, isFloat, isBool, isTime := true, true, true, true

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		seen = true

		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			isInt = false
		}

		if _, err := strconv.ParseFloat(v, 64); err != nil {
			isFloat = false
		}

		if !isBoolString(v) {
			isBool = false
		}

		if !isTimestampString(v) {
			isTime = false
		}
	}

	if !seen {
		return TypeVarchar
	}

	switch {
	case isBool:
		return TypeBoolean
	case isInt:
		return TypeInteger
	case isFloat:
		return TypeFloat
	case isTime:
		return TypeTimestamp
	default:
		return TypeVarchar
	}
}

// sniffValues classifies a column of decoded JSON values.
func sniffValues(values []any) TypeLabel {
	seen := false
	isInt, isFloat, isBool, isTime := true, true, true, true

	for _, v := range values {
		if v == nil {
			continue
		}

		seen = true

		switch val := v.(type) {
		case bool:
			isInt, isFloat, isTime = false, false, false
		case float64:
			isBool, isTime = false, false

			if val != math.Trunc(val) {
				isInt = false
			}
		case string:
			isBool, isInt, isFloat = false, false, false

			if !isTimestampString(val) {
				isTime = false
			}
		default:
			isInt, isFloat, isBool, isTime = false, false, false, false
		}
	}

	if !seen {
		return TypeVarchar
	}

	switch {
	case isBool:
		return TypeBoolean
	case isInt:
		return TypeInteger
	case isFloat:
		return TypeFloat
	case isTime:
		return TypeTimestamp
	default:
		return TypeVarchar
	}
}

func isBoolString(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	default:
		return false
	}
}

func isTimestampString(v string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}

	return false
}

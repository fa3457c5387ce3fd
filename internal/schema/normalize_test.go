package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schemadrift/schemadrift/internal/schema"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		descriptor string
		expected   schema.TypeLabel
	}{
		{"int64", schema.TypeInteger},
		{"int32", schema.TypeInteger},
		{"uint8", schema.TypeInteger},
		{"float64", schema.TypeFloat},
		{"float32", schema.TypeFloat},
		{"bool", schema.TypeBoolean},
		{"boolean", schema.TypeBoolean},
		{"datetime64[ns]", schema.TypeTimestamp},
		{"date", schema.TypeTimestamp},
		{"object", schema.TypeVarchar},
		{"category", schema.TypeVarchar},
		{"string", schema.TypeVarchar},
		{"", schema.TypeVarchar},
		{"INT64", schema.TypeInteger},
		{"DateTime", schema.TypeTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.Normalize(tt.descriptor))
		})
	}
}

func TestNormalizeTotality(t *testing.T) {
	// Every descriptor, however odd, must land on exactly one canonical label.
	descriptors := []string{
		"int64", "float32", "bool", "datetime64[ns]", "category",
		"complex128", "timedelta64[ns]", "uint64", "decimal", "☃", "NULL",
	}

	canonical := map[schema.TypeLabel]bool{}
	for _, label := range schema.CanonicalLabels() {
		canonical[label] = true
	}

	for _, d := range descriptors {
		label := schema.Normalize(d)
		assert.True(t, canonical[label], "descriptor %q mapped to %q", d, label)
	}
}

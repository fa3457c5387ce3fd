package schema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemadrift/schemadrift/internal/errors"
	"github.com/schemadrift/schemadrift/internal/schema"
)

func TestInferCSV(t *testing.T) {
	csv := strings.Join([]string{
		"id,name,score,active,joined",
		"1,alice,3.5,true,2023-01-15",
		"2,bob,4.0,false,2023-02-20",
	}, "\n")

	s, err := schema.InferCSV(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, schema.Schema{
		"id":     schema.TypeInteger,
		"name":   schema.TypeVarchar,
		"score":  schema.TypeFloat,
		"active": schema.TypeBoolean,
		"joined": schema.TypeTimestamp,
	}, s)
}

func TestInferCSVMixedColumnFallsBackToVarchar(t *testing.T) {
	csv := "value\n42\nnot-a-number\n"

	s, err := schema.InferCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, schema.TypeVarchar, s["value"])
}

func TestInferCSVHeaderOnly(t *testing.T) {
	s, err := schema.InferCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)

	// No observed values: both columns default to VARCHAR.
	assert.Equal(t, schema.Schema{"a": schema.TypeVarchar, "b": schema.TypeVarchar}, s)
}

func TestInferCSVEmpty(t *testing.T) {
	_, err := schema.InferCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestInferJSON(t *testing.T) {
	data := []byte(`[
		{"id": 1, "name": "alice", "score": 3.5, "active": true, "joined": "2023-01-15"},
		{"id": 2, "name": "bob", "score": 4.0, "active": false, "joined": "2023-02-20"}
	]`)

	s, err := schema.InferJSON(data)
	require.NoError(t, err)

	assert.Equal(t, schema.Schema{
		"id":     schema.TypeInteger,
		"name":   schema.TypeVarchar,
		"score":  schema.TypeFloat,
		"active": schema.TypeBoolean,
		"joined": schema.TypeTimestamp,
	}, s)
}

func TestInferJSONFractionalNumbers(t *testing.T) {
	s, err := schema.InferJSON([]byte(`[{"a": 1.0, "b": 1.5}]`))
	require.NoError(t, err)

	// 1.0 is integral, 1.5 is not.
	assert.Equal(t, schema.TypeInteger, s["a"])
	assert.Equal(t, schema.TypeFloat, s["b"])
}

func TestInferJSONNullsIgnored(t *testing.T) {
	s, err := schema.InferJSON([]byte(`[{"a": null}, {"a": 2}]`))
	require.NoError(t, err)
	assert.Equal(t, schema.TypeInteger, s["a"])
}

func TestInferJSONRejectsMalformed(t *testing.T) {
	for _, doc := range []string{``, `{}`, `{"a": 1}`, `[]`, `not json`} {
		_, err := schema.InferJSON([]byte(doc))
		require.Error(t, err, "doc %q", doc)
		assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
	}
}

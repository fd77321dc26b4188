package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	objSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
			"ratio": map[string]any{"type": "number"},
			"flags": map[string]any{"type": "array"},
		},
		"required": []string{"name"},
	}

	t.Run("valid arguments pass", func(t *testing.T) {
		err := Validate(map[string]any{
			"name":  "x",
			"count": float64(3), // JSON numbers decode as float64
			"ratio": 0.5,
			"flags": []any{"a"},
		}, objSchema)
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		err := Validate(map[string]any{"count": 1}, objSchema)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
	})

	t.Run("fractional value is not an integer", func(t *testing.T) {
		err := Validate(map[string]any{"name": "x", "count": 1.5}, objSchema)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "count", verr.Field)
	})

	t.Run("type mismatch", func(t *testing.T) {
		err := Validate(map[string]any{"name": 42}, objSchema)
		assert.Error(t, err)
	})

	t.Run("undeclared fields pass", func(t *testing.T) {
		err := Validate(map[string]any{"name": "x", "extra": true}, objSchema)
		assert.NoError(t, err)
	})

	t.Run("required list from JSON round-trip", func(t *testing.T) {
		s := map[string]any{
			"type":       "object",
			"properties": map[string]any{"name": map[string]any{"type": "string"}},
			"required":   []any{"name"},
		}
		assert.Error(t, Validate(map[string]any{}, s))
		assert.NoError(t, Validate(map[string]any{"name": "x"}, s))
	})
}

func TestFromStruct(t *testing.T) {
	type args struct {
		Name     string   `json:"name" description:"Display name"`
		Count    int      `json:"count,omitempty"`
		Ratio    float64  `json:"ratio"`
		Tags     []string `json:"tags"`
		Internal string   `json:"-"`
		Optional *bool    `json:"optional"`
		hidden   string
	}

	_ = args{}.hidden

	schema := FromStruct(args{})

	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "string", "description": "Display name"}, props["name"])
	assert.Equal(t, map[string]any{"type": "integer"}, props["count"])
	assert.Equal(t, map[string]any{"type": "number"}, props["ratio"])
	assert.Equal(t, map[string]any{"type": "array"}, props["tags"])
	assert.Equal(t, map[string]any{"type": "boolean"}, props["optional"])
	assert.NotContains(t, props, "Internal")
	assert.NotContains(t, props, "hidden")

	// omitempty and pointer fields are optional.
	assert.Equal(t, []string{"name", "ratio", "tags"}, schema["required"])
}

func TestFromStructAcceptsPointer(t *testing.T) {
	type args struct {
		ID string `json:"id"`
	}

	schema := FromStruct(&args{})
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "id")
}

func TestFromStructNonStruct(t *testing.T) {
	schema := FromStruct("not a struct")

	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
	assert.NotContains(t, schema, "required")
}

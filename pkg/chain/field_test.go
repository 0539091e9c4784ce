package chain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFieldFloat tests numeric coercion across the value shapes upstreams emit.
func TestFieldFloat(t *testing.T) {
	tests := []struct {
		name   string
		field  Field
		want   float64
		wantOK bool
	}{
		{
			name:   "plain number",
			field:  Num(42.5),
			want:   42.5,
			wantOK: true,
		},
		{
			name:   "numeric string",
			field:  Str("123.45"),
			want:   123.45,
			wantOK: true,
		},
		{
			name:   "thousands separators stripped",
			field:  Str("1,234.5"),
			want:   1234.5,
			wantOK: true,
		},
		{
			name:   "non-numeric string",
			field:  Str("n/a"),
			wantOK: false,
		},
		{
			name:   "absent",
			field:  Field{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.field.Float()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestFieldOf(t *testing.T) {
	assert.True(t, FieldOf(nil).IsAbsent())
	assert.True(t, FieldOf("").IsAbsent())
	assert.True(t, FieldOf("   ").IsAbsent())
	assert.False(t, FieldOf("0").IsAbsent())
	assert.False(t, FieldOf(0.0).IsAbsent())
}

// TestFieldMarshalJSON checks the wire convention: absent serialises as "".
func TestFieldMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{name: "number", field: Num(95.5), want: `95.5`},
		{name: "integer number", field: Num(4200), want: `4200`},
		{name: "string", field: Str("2025-11-28 17:30:00"), want: `"2025-11-28 17:30:00"`},
		{name: "absent", field: Field{}, want: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFieldUnmarshalJSON(t *testing.T) {
	var f Field
	require.NoError(t, json.Unmarshal([]byte(`125.25`), &f))
	v, ok := f.Float()
	require.True(t, ok)
	assert.InDelta(t, 125.25, v, 1e-9)

	require.NoError(t, json.Unmarshal([]byte(`""`), &f))
	assert.True(t, f.IsAbsent())

	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.True(t, f.IsAbsent())
}

func TestFirstHelpers(t *testing.T) {
	rec := map[string]any{
		"a": "",
		"b": "not a number",
		"c": 7.0,
	}

	// FirstOf takes the first present key even when its value is empty.
	assert.True(t, FirstOf(rec, "a", "c").IsAbsent())
	assert.False(t, FirstOf(rec, "b", "c").IsAbsent())

	// FirstNumeric skips values that do not coerce.
	v, ok := FirstNumeric(rec, "a", "b", "c").Float()
	require.True(t, ok)
	assert.InDelta(t, 7.0, v, 1e-9)

	// FirstPresent skips empties but keeps non-numeric strings.
	assert.Equal(t, "not a number", FirstPresent(rec, "a", "b", "c").String())
}

package chain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Field is a canonical row cell: either a number, a passthrough string, or
// absent. Absent fields serialise as an empty string to match the historical
// wire convention of optional numeric columns defaulting to "".
type Field struct {
	kind fieldKind
	num  float64
	str  string
}

type fieldKind uint8

const (
	fieldAbsent fieldKind = iota
	fieldNumber
	fieldString
)

// Num returns a numeric field.
func Num(v float64) Field {
	return Field{kind: fieldNumber, num: v}
}

// Str returns a string field. The empty string is the absent sentinel.
func Str(s string) Field {
	if s == "" {
		return Field{}
	}
	return Field{kind: fieldString, str: s}
}

// FieldOf converts a loosely typed upstream value into a Field. nil and the
// empty string are absent; numeric JSON scalars stay numeric; everything else
// passes through as a string.
func FieldOf(v any) Field {
	switch val := v.(type) {
	case nil:
		return Field{}
	case Field:
		return val
	case float64:
		return Num(val)
	case float32:
		return Num(float64(val))
	case int:
		return Num(float64(val))
	case int64:
		return Num(float64(val))
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return Num(f)
		}
		return Str(val.String())
	case bool:
		if val {
			return Str("true")
		}
		return Str("false")
	case string:
		return Str(strings.TrimSpace(val))
	default:
		return Field{}
	}
}

// IsAbsent reports whether the field carries no value.
func (f Field) IsAbsent() bool { return f.kind == fieldAbsent }

// Float coerces the field to a number. Numeric strings are accepted with
// thousands separators stripped; anything else reports ok=false.
func (f Field) Float() (float64, bool) {
	switch f.kind {
	case fieldNumber:
		return f.num, true
	case fieldString:
		return parseNumeric(f.str)
	default:
		return 0, false
	}
}

// String renders the field for text output: absent becomes "".
func (f Field) String() string {
	switch f.kind {
	case fieldNumber:
		return strconv.FormatFloat(f.num, 'f', -1, 64)
	case fieldString:
		return f.str
	default:
		return ""
	}
}

// MarshalJSON renders numbers as JSON numbers, strings verbatim and absent
// values as the empty string.
func (f Field) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case fieldNumber:
		return strconv.AppendFloat(nil, f.num, 'f', -1, 64), nil
	case fieldString:
		return json.Marshal(f.str)
	default:
		return []byte(`""`), nil
	}
}

// UnmarshalJSON accepts numbers, strings and null; "" and null are absent.
func (f *Field) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FieldOf(v)
	return nil
}

// ToFloat coerces an arbitrary upstream value to a number using the same
// rules as Field.Float.
func ToFloat(v any) (float64, bool) {
	return FieldOf(v).Float()
}

func parseNumeric(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// round2 rounds to two decimal places, the precision of all derived fields.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

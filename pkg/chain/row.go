package chain

import "math"

// Side holds one option type's quote columns for a strike.
type Side struct {
	OpenInterest   Field
	ChangeInOI     Field
	Volume         Field
	AbsoluteChange Field
	BidQty         Field
	BidPrice       Field
	AskPrice       Field
	AskQty         Field
	LTP            Field
	PrevClose      Field
	PctChange      Field
}

// Row is the canonical option-chain row: the call and put quotes sharing one
// strike, plus the underlying price when any upstream record carried it.
type Row struct {
	Strike     Field
	CE         Side
	PE         Side
	Underlying Field
}

// StrikeValue coerces the strike for ordering. Rows with a non-coercible
// strike sort last, so absent strikes map to +Inf.
func (r Row) StrikeValue() float64 {
	if v, ok := r.Strike.Float(); ok {
		return v
	}
	return math.Inf(1)
}

// UnderlyingAliases is the ordered list of upstream keys naming the
// underlying price. Upstream naming has drifted over time; the list is a
// package variable so deployments can extend it without a code change.
var UnderlyingAliases = []string{"UnderlyingValue", "UnderlineValue", "underlyingValue"}

// FirstOf returns the value of the first alias present in the record, absent
// when none of the keys exist. Presence wins over emptiness: a key holding ""
// still terminates the scan.
func FirstOf(record map[string]any, aliases ...string) Field {
	for _, key := range aliases {
		if v, ok := record[key]; ok {
			return FieldOf(v)
		}
	}
	return Field{}
}

// FirstNumeric returns the first alias whose value coerces to a number,
// absent when none do. Used for legacy columns whose older aliases sometimes
// carry blank or textual placeholders.
func FirstNumeric(record map[string]any, aliases ...string) Field {
	for _, key := range aliases {
		if v, ok := record[key]; ok {
			if f, ok := ToFloat(v); ok {
				return Num(f)
			}
		}
	}
	return Field{}
}

// FirstPresent is like FirstOf but skips keys whose value is empty, matching
// the underlying-price scan which ignores blank cells.
func FirstPresent(record map[string]any, aliases ...string) Field {
	for _, key := range aliases {
		if v, ok := record[key]; ok {
			f := FieldOf(v)
			if !f.IsAbsent() {
				return f
			}
		}
	}
	return Field{}
}

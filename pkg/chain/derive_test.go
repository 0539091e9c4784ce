package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numEquals(t *testing.T, want float64, f Field) {
	t.Helper()
	got, ok := f.Float()
	require.True(t, ok, "expected numeric field")
	assert.InDelta(t, want, got, 1e-9)
}

// TestDeriveChangeFields covers the previous-close and percent-change
// derivation paths.
func TestDeriveChangeFields(t *testing.T) {
	tests := []struct {
		name     string
		side     Side
		wantPrev Field
		wantPct  Field
	}{
		{
			name:     "prev close from ltp minus change",
			side:     Side{LTP: Num(105), AbsoluteChange: Num(5)},
			wantPrev: Num(100),
			wantPct:  Num(5),
		},
		{
			name:     "upstream prev close wins",
			side:     Side{LTP: Num(105), AbsoluteChange: Num(5), PrevClose: Num(200)},
			wantPrev: Num(200),
			wantPct:  Num(2.5),
		},
		{
			name:     "pct from ltp when change missing",
			side:     Side{LTP: Num(110), PrevClose: Num(100)},
			wantPrev: Num(100),
			wantPct:  Num(10),
		},
		{
			name:     "zero prev close leaves pct absent",
			side:     Side{LTP: Num(50), AbsoluteChange: Num(50)},
			wantPrev: Num(0),
			wantPct:  Field{},
		},
		{
			name:     "nothing derivable",
			side:     Side{Volume: Num(12)},
			wantPrev: Field{},
			wantPct:  Field{},
		},
		{
			name:     "result rounded to two decimals",
			side:     Side{LTP: Num(100), PrevClose: Num(3)},
			wantPrev: Num(3),
			wantPct:  Num(3233.33),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{CE: tt.side}
			DeriveChangeFields(&row)

			if tt.wantPrev.IsAbsent() {
				assert.True(t, row.CE.PrevClose.IsAbsent())
			} else {
				want, _ := tt.wantPrev.Float()
				numEquals(t, want, row.CE.PrevClose)
			}
			if tt.wantPct.IsAbsent() {
				assert.True(t, row.CE.PctChange.IsAbsent())
			} else {
				want, _ := tt.wantPct.Float()
				numEquals(t, want, row.CE.PctChange)
			}
		})
	}
}

func TestDeriveAllBothSides(t *testing.T) {
	rows := []Row{
		{
			CE: Side{LTP: Num(105), AbsoluteChange: Num(5)},
			PE: Side{LTP: Num(95), AbsoluteChange: Num(-5)},
		},
	}
	DeriveAll(rows)

	numEquals(t, 100, rows[0].CE.PrevClose)
	numEquals(t, 5, rows[0].CE.PctChange)
	numEquals(t, 100, rows[0].PE.PrevClose)
	numEquals(t, -5, rows[0].PE.PctChange)
}

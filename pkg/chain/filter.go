package chain

import (
	"math"
	"sort"
)

// roundStrikeTolerance absorbs floating point drift in the multiple-of-step
// test, e.g. strikes arriving as 9999.9999999.
const roundStrikeTolerance = 1e-6

// IsRoundStrike reports whether the strike is a multiple of step. A
// non-positive step passes everything; a non-coercible strike never passes.
func IsRoundStrike(strike Field, step float64) bool {
	v, ok := strike.Float()
	if !ok {
		return false
	}
	if step <= 0 {
		return true
	}
	quotient := v / step
	return math.Abs(quotient-math.Round(quotient)) < roundStrikeTolerance
}

// FilterRoundStrikes keeps rows whose strike is a multiple of step.
func FilterRoundStrikes(rows []Row, step float64) []Row {
	kept := make([]Row, 0, len(rows))
	for _, row := range rows {
		if IsRoundStrike(row.Strike, step) {
			kept = append(kept, row)
		}
	}
	return kept
}

// SortByStrike orders rows ascending by strike. Rows without a coercible
// strike sort last; ties keep encounter order.
func SortByStrike(rows []Row) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StrikeValue() < sorted[j].StrikeValue()
	})
	return sorted
}

// UnderlyingValue scans rows for the first coercible underlying price.
func UnderlyingValue(rows []Row) (float64, bool) {
	for _, row := range rows {
		if v, ok := row.Underlying.Float(); ok {
			return v, true
		}
	}
	return 0, false
}

// ATMWindow keeps a symmetric window of rows around the strike nearest to the
// underlying price. Rows must already be sorted by strike. A nil underlying
// or empty input disables windowing.
func ATMWindow(rows []Row, underlying *float64, window int) []Row {
	if underlying == nil || len(rows) == 0 {
		return rows
	}

	closest := 0
	best := math.Inf(1)
	for i, row := range rows {
		dist := math.Abs(row.StrikeValue() - *underlying)
		if dist < best {
			best = dist
			closest = i
		}
	}

	start := closest - window
	if start < 0 {
		start = 0
	}
	end := closest + window + 1
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// Paginate slices rows by offset and limit. A negative offset clamps to zero;
// a non-positive limit means no limit.
func Paginate(rows []Row, offset, limit int) []Row {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []Row{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

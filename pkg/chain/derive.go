package chain

// DeriveChangeFields fills PrevClose and PctChange on both sides of the row.
//
// PrevClose falls back to LTP-AbsoluteChange when upstream omitted it.
// PctChange prefers AbsoluteChange/PrevClose and falls back to
// (LTP-PrevClose)/PrevClose; a missing or zero PrevClose leaves it absent.
// Both results are rounded to two decimals.
func DeriveChangeFields(row *Row) {
	deriveSide(&row.CE)
	deriveSide(&row.PE)
}

func deriveSide(s *Side) {
	ltp, hasLTP := s.LTP.Float()
	absChg, hasAbs := s.AbsoluteChange.Float()

	prevClose, hasPrev := s.PrevClose.Float()
	if !hasPrev && hasLTP && hasAbs {
		prevClose = ltp - absChg
		hasPrev = true
	}

	var pctChange float64
	hasPct := false
	if hasPrev && prevClose != 0 {
		switch {
		case hasAbs:
			pctChange = absChg / prevClose * 100
			hasPct = true
		case hasLTP:
			pctChange = (ltp - prevClose) / prevClose * 100
			hasPct = true
		}
	}

	if hasPrev {
		s.PrevClose = Num(round2(prevClose))
	} else {
		s.PrevClose = Field{}
	}
	if hasPct {
		s.PctChange = Num(round2(pctChange))
	} else {
		s.PctChange = Field{}
	}
}

// DeriveAll applies DeriveChangeFields to every row in place and returns the
// slice for chaining.
func DeriveAll(rows []Row) []Row {
	for i := range rows {
		DeriveChangeFields(&rows[i])
	}
	return rows
}

package chain

// FullRow is the 23-column output projection with the human header names the
// wire format has always used.
type FullRow struct {
	CEOpenInterest   Field `json:"CALL_OI_Lots"`
	CEChangeInOI     Field `json:"CALL_Chng_in_OI"`
	CEVolume         Field `json:"CALL_Volume"`
	CEAbsoluteChange Field `json:"CALL_Abs_Chng"`
	CEBidQty         Field `json:"CALL_Bid_Qty"`
	CEBidPrice       Field `json:"CALL_Bid_Price"`
	CEAskPrice       Field `json:"CALL_Ask_Price"`
	CEAskQty         Field `json:"CALL_Ask_Qty"`
	CELTP            Field `json:"CALL_LTP"`
	CEPrevClose      Field `json:"CALL_Prev_Close"`
	CEPctChange      Field `json:"CALL_Pct_Chng"`
	Strike           Field `json:"Strike_Price"`
	PELTP            Field `json:"PUT_LTP"`
	PEPrevClose      Field `json:"PUT_Prev_Close"`
	PEPctChange      Field `json:"PUT_Pct_Chng"`
	PEBidQty         Field `json:"PUT_Bid_Qty"`
	PEBidPrice       Field `json:"PUT_Bid_Price"`
	PEAskPrice       Field `json:"PUT_Ask_Price"`
	PEAskQty         Field `json:"PUT_Ask_Qty"`
	PEAbsoluteChange Field `json:"PUT_Abs_Chng"`
	PEVolume         Field `json:"PUT_Volume"`
	PEChangeInOI     Field `json:"PUT_Chng_in_OI"`
	PEOpenInterest   Field `json:"PUT_OI_Lots"`
}

// LiteRow is the 11-column subset projection.
type LiteRow struct {
	Strike   Field `json:"strike"`
	CELTP    Field `json:"ce_ltp"`
	CEBid    Field `json:"ce_bid"`
	CEAsk    Field `json:"ce_ask"`
	CEOI     Field `json:"ce_oi"`
	CEVolume Field `json:"ce_volume"`
	PELTP    Field `json:"pe_ltp"`
	PEBid    Field `json:"pe_bid"`
	PEAsk    Field `json:"pe_ask"`
	PEOI     Field `json:"pe_oi"`
	PEVolume Field `json:"pe_volume"`
}

// FullHeaders is the CSV header row for full projections, in column order.
var FullHeaders = []string{
	"CALL_OI_Lots",
	"CALL_Chng_in_OI",
	"CALL_Volume",
	"CALL_Abs_Chng",
	"CALL_Bid_Qty",
	"CALL_Bid_Price",
	"CALL_Ask_Price",
	"CALL_Ask_Qty",
	"CALL_LTP",
	"CALL_Prev_Close",
	"CALL_Pct_Chng",
	"Strike_Price",
	"PUT_LTP",
	"PUT_Prev_Close",
	"PUT_Pct_Chng",
	"PUT_Bid_Qty",
	"PUT_Bid_Price",
	"PUT_Ask_Price",
	"PUT_Ask_Qty",
	"PUT_Abs_Chng",
	"PUT_Volume",
	"PUT_Chng_in_OI",
	"PUT_OI_Lots",
}

// LiteHeaders is the CSV header row for lite projections.
var LiteHeaders = []string{
	"strike",
	"ce_ltp",
	"ce_bid",
	"ce_ask",
	"ce_oi",
	"ce_volume",
	"pe_ltp",
	"pe_bid",
	"pe_ask",
	"pe_oi",
	"pe_volume",
}

// ToFull projects a canonical row into the full output shape.
func ToFull(r Row) FullRow {
	return FullRow{
		CEOpenInterest:   r.CE.OpenInterest,
		CEChangeInOI:     r.CE.ChangeInOI,
		CEVolume:         r.CE.Volume,
		CEAbsoluteChange: r.CE.AbsoluteChange,
		CEBidQty:         r.CE.BidQty,
		CEBidPrice:       r.CE.BidPrice,
		CEAskPrice:       r.CE.AskPrice,
		CEAskQty:         r.CE.AskQty,
		CELTP:            r.CE.LTP,
		CEPrevClose:      r.CE.PrevClose,
		CEPctChange:      r.CE.PctChange,
		Strike:           r.Strike,
		PELTP:            r.PE.LTP,
		PEPrevClose:      r.PE.PrevClose,
		PEPctChange:      r.PE.PctChange,
		PEBidQty:         r.PE.BidQty,
		PEBidPrice:       r.PE.BidPrice,
		PEAskPrice:       r.PE.AskPrice,
		PEAskQty:         r.PE.AskQty,
		PEAbsoluteChange: r.PE.AbsoluteChange,
		PEVolume:         r.PE.Volume,
		PEChangeInOI:     r.PE.ChangeInOI,
		PEOpenInterest:   r.PE.OpenInterest,
	}
}

// ToLite reduces a full row to the lite subset. Values are copied, never
// recomputed.
func ToLite(f FullRow) LiteRow {
	return LiteRow{
		Strike:   f.Strike,
		CELTP:    f.CELTP,
		CEBid:    f.CEBidPrice,
		CEAsk:    f.CEAskPrice,
		CEOI:     f.CEOpenInterest,
		CEVolume: f.CEVolume,
		PELTP:    f.PELTP,
		PEBid:    f.PEBidPrice,
		PEAsk:    f.PEAskPrice,
		PEOI:     f.PEOpenInterest,
		PEVolume: f.PEVolume,
	}
}

// Values renders the row as CSV cells in FullHeaders order.
func (f FullRow) Values() []string {
	return []string{
		f.CEOpenInterest.String(),
		f.CEChangeInOI.String(),
		f.CEVolume.String(),
		f.CEAbsoluteChange.String(),
		f.CEBidQty.String(),
		f.CEBidPrice.String(),
		f.CEAskPrice.String(),
		f.CEAskQty.String(),
		f.CELTP.String(),
		f.CEPrevClose.String(),
		f.CEPctChange.String(),
		f.Strike.String(),
		f.PELTP.String(),
		f.PEPrevClose.String(),
		f.PEPctChange.String(),
		f.PEBidQty.String(),
		f.PEBidPrice.String(),
		f.PEAskPrice.String(),
		f.PEAskQty.String(),
		f.PEAbsoluteChange.String(),
		f.PEVolume.String(),
		f.PEChangeInOI.String(),
		f.PEOpenInterest.String(),
	}
}

// Values renders the row as CSV cells in LiteHeaders order.
func (l LiteRow) Values() []string {
	return []string{
		l.Strike.String(),
		l.CELTP.String(),
		l.CEBid.String(),
		l.CEAsk.String(),
		l.CEOI.String(),
		l.CEVolume.String(),
		l.PELTP.String(),
		l.PEBid.String(),
		l.PEAsk.String(),
		l.PEOI.String(),
		l.PEVolume.String(),
	}
}

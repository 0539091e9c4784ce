package mcx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecords(t *testing.T) {
	records := []map[string]any{
		{
			"CE_LTP":         "  412.5 ",
			"CE_StrikePrice": 95000.0,
			"CreatedDate":    "/Date(1700000000000+0530)/",
			"Remark":         nil,
			"CE_Volume":      17.0,
		},
	}

	normalized := NormalizeRecords(records)
	require.Len(t, normalized, 1)
	rec := normalized[0]

	assert.Equal(t, "412.5", rec["CE_LTP"])
	assert.Equal(t, 95000.0, rec["CE_StrikePrice"])
	assert.Equal(t, "2023-11-15 03:43:20", rec["CreatedDate"])
	assert.Equal(t, "", rec["Remark"])
	assert.Equal(t, 17.0, rec["CE_Volume"])
}

func TestRowsFromRecords(t *testing.T) {
	records := []map[string]any{
		{
			"CE_StrikePrice":    95000.0,
			"CE_LTP":            412.0,
			"CE_BidPrice":       410.0,
			"CE_PrevClose":      "",
			"CE_PrevClosePrice": 399.5,
			"PE_LTP":            212.0,
			"UnderlineValue":    94100.0,
		},
	}

	rows := Rows(records)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "95000", row.Strike.String())
	assert.Equal(t, "412", row.CE.LTP.String())
	assert.Equal(t, "212", row.PE.LTP.String())
	assert.Equal(t, "94100", row.Underlying.String())

	// PrevClose aliases: the first that parses numerically wins, blanks are
	// skipped.
	prev, ok := row.CE.PrevClose.Float()
	require.True(t, ok)
	assert.InDelta(t, 399.5, prev, 1e-9)
}

func TestRowsFromMarketWatch(t *testing.T) {
	items := []map[string]any{
		{
			"Symbol":               "SILVERM",
			"ExpiryDate":           "28NOV2025",
			"OptionType":           "CE",
			"StrikePrice":          95000.0,
			"LTP":                  412.0,
			"BuyQuantity":          5.0,
			"BuyPrice":             410.0,
			"SellPrice":            415.0,
			"SellQuantity":         7.0,
			"OpenInterest":         120.0,
			"ChangeInOpenInterest": -4.0,
			"Volume":               300.0,
			"UnderlineValue":       94100.0,
		},
		{
			"Symbol":      "SILVERM",
			"ExpiryDate":  "28NOV2025",
			"OptionType":  "PE",
			"StrikePrice": 95000.0,
			"LTP":         212.0,
		},
		{
			"Symbol":      "SILVERM",
			"ExpiryDate":  "28NOV2025",
			"OptionType":  "CE",
			"StrikePrice": 90000.0,
			"LTP":         650.0,
		},
		// Wrong expiry, skipped.
		{
			"Symbol":      "SILVERM",
			"ExpiryDate":  "27FEB2026",
			"OptionType":  "CE",
			"StrikePrice": 95000.0,
		},
		// Futures leg, skipped.
		{
			"Symbol":      "SILVERM",
			"ExpiryDate":  "28NOV2025",
			"OptionType":  "XX",
			"StrikePrice": 95000.0,
		},
		// Other symbol, skipped.
		{
			"Symbol":      "GOLD",
			"ExpiryDate":  "28NOV2025",
			"OptionType":  "CE",
			"StrikePrice": 95000.0,
		},
	}

	rows := RowsFromMarketWatch(items, "silverm", "28NOV2025")
	require.Len(t, rows, 2)

	// Sorted ascending by strike.
	assert.Equal(t, "90000", rows[0].Strike.String())
	assert.Equal(t, "95000", rows[1].Strike.String())

	merged := rows[1]
	assert.Equal(t, "412", merged.CE.LTP.String())
	assert.Equal(t, "212", merged.PE.LTP.String())
	assert.Equal(t, "410", merged.CE.BidPrice.String())
	assert.Equal(t, "415", merged.CE.AskPrice.String())
	assert.Equal(t, "-4", merged.CE.ChangeInOI.String())
	assert.Equal(t, "94100", merged.Underlying.String())
}

func TestRowsFromMarketWatchNoExpiryFilter(t *testing.T) {
	items := []map[string]any{
		{"Symbol": "GOLD", "ExpiryDate": "05DEC2025", "OptionType": "CE", "StrikePrice": 120000.0},
		{"Symbol": "GOLD", "ExpiryDate": "05FEB2026", "OptionType": "CE", "StrikePrice": 121000.0},
	}

	rows := RowsFromMarketWatch(items, "GOLD", "")
	assert.Len(t, rows, 2)
}

package mcx

import (
	"sort"
	"strconv"
	"strings"

	"optionhub-api/pkg/chain"
)

// prevCloseAliases lists the column names the exchange has used for previous
// close over the years, newest first.
var prevCloseAliases = []string{"PrevClose", "PreviousClose", "PrevClosePrice", "PreviousClosePrice"}

// NormalizeRecords cleans raw option-chain records in place of the exchange's
// quirks: strings are trimmed and legacy /Date(...)/ values decoded, nils
// become empty strings. Non-string scalars pass through.
func NormalizeRecords(records []map[string]any) []map[string]any {
	normalized := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		clean := make(map[string]any, len(rec))
		for key, val := range rec {
			switch v := val.(type) {
			case nil:
				clean[key] = ""
			case string:
				clean[key] = DecodeDotNetDate(strings.TrimSpace(v))
			default:
				clean[key] = val
			}
		}
		normalized = append(normalized, clean)
	}
	return normalized
}

// Rows converts normalised option-chain records into canonical rows.
func Rows(records []map[string]any) []chain.Row {
	rows := make([]chain.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rowFromRecord(rec))
	}
	return rows
}

func rowFromRecord(rec map[string]any) chain.Row {
	return chain.Row{
		Strike:     chain.FieldOf(rec["CE_StrikePrice"]),
		CE:         sideFromRecord(rec, "CE_"),
		PE:         sideFromRecord(rec, "PE_"),
		Underlying: chain.FirstPresent(rec, chain.UnderlyingAliases...),
	}
}

func sideFromRecord(rec map[string]any, prefix string) chain.Side {
	col := func(name string) chain.Field { return chain.FieldOf(rec[prefix+name]) }
	aliases := make([]string, len(prevCloseAliases))
	for i, suffix := range prevCloseAliases {
		aliases[i] = prefix + suffix
	}
	return chain.Side{
		OpenInterest:   col("OpenInterest"),
		ChangeInOI:     col("ChangeInOI"),
		Volume:         col("Volume"),
		AbsoluteChange: col("AbsoluteChange"),
		BidQty:         col("BidQty"),
		BidPrice:       col("BidPrice"),
		AskPrice:       col("AskPrice"),
		AskQty:         col("AskQty"),
		LTP:            col("LTP"),
		PrevClose:      chain.FirstNumeric(rec, aliases...),
	}
}

// RowsFromMarketWatch reconstructs an option chain from the bulk instrument
// snapshot: records matching the symbol (and expiry, when given) are grouped
// by strike and each option type's quote merged into its side of the row.
// Rows come back sorted ascending by strike.
func RowsFromMarketWatch(items []map[string]any, symbol, expiry string) []chain.Row {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	type slot struct {
		strike float64
		row    chain.Row
	}
	byStrike := make(map[float64]*slot)

	for _, item := range items {
		if stringOf(item["Symbol"]) != symbol && stringOf(item["ProductCode"]) != symbol {
			continue
		}
		if expiry != "" && stringOf(item["ExpiryDate"]) != expiry {
			continue
		}
		optType := strings.ToUpper(stringOf(item["OptionType"]))
		if optType != "CE" && optType != "PE" {
			continue
		}
		strikeField := chain.FieldOf(item["StrikePrice"])
		strike, ok := strikeField.Float()
		if !ok {
			continue
		}

		entry, exists := byStrike[strike]
		if !exists {
			entry = &slot{strike: strike, row: chain.Row{Strike: strikeField}}
			byStrike[strike] = entry
		}
		if und := chain.FirstPresent(item, "UnderlineValue", "UnderlyingValue"); !und.IsAbsent() {
			entry.row.Underlying = und
		}

		side := chain.Side{
			OpenInterest:   chain.FieldOf(item["OpenInterest"]),
			ChangeInOI:     chain.FirstOf(item, "ChangeInOI", "ChangeInOpenInterest"),
			Volume:         chain.FieldOf(item["Volume"]),
			AbsoluteChange: chain.FieldOf(item["AbsoluteChange"]),
			BidQty:         chain.FieldOf(item["BuyQuantity"]),
			BidPrice:       chain.FieldOf(item["BuyPrice"]),
			AskPrice:       chain.FieldOf(item["SellPrice"]),
			AskQty:         chain.FieldOf(item["SellQuantity"]),
			LTP:            chain.FieldOf(item["LTP"]),
		}
		if optType == "CE" {
			entry.row.CE = side
		} else {
			entry.row.PE = side
		}
	}

	slots := make([]*slot, 0, len(byStrike))
	for _, entry := range byStrike {
		slots = append(slots, entry)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].strike < slots[j].strike })

	rows := make([]chain.Row, len(slots))
	for i, entry := range slots {
		rows[i] = entry.row
	}
	return rows
}

func stringOf(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

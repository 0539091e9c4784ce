package nse

import (
	"optionhub-api/pkg/chain"
)

// Aliases maps a canonical side field to the ordered list of upstream keys
// that have named it over time; the first key present wins. The quote API's
// field names have drifted across frontend rewrites, so deployments can
// override this table from configuration instead of waiting for a release.
type Aliases map[string][]string

// DefaultAliases is the alias table for the current and recent payload
// shapes.
var DefaultAliases = Aliases{
	"OpenInterest":   {"openInterest"},
	"ChangeInOI":     {"changeinOpenInterest", "changeInOpenInterest"},
	"Volume":         {"totalTradedVolume"},
	"AbsoluteChange": {"change"},
	"BidQty":         {"buyQuantity1", "bidQty", "totalBuyQuantity"},
	"BidPrice":       {"buyPrice1", "bidprice", "bidPrice"},
	"AskPrice":       {"sellPrice1", "askPrice", "askprice"},
	"AskQty":         {"sellQuantity1", "askQty", "totalSellQuantity"},
	"LTP":            {"lastPrice", "ltp"},
	"Underlying":     {"underlyingValue"},
}

// Merge overlays non-empty override lists onto a copy of the table.
func (a Aliases) Merge(overrides Aliases) Aliases {
	merged := make(Aliases, len(a))
	for field, keys := range a {
		merged[field] = keys
	}
	for field, keys := range overrides {
		if len(keys) > 0 {
			merged[field] = keys
		}
	}
	return merged
}

func (a Aliases) read(side map[string]any, field string) chain.Field {
	return chain.FirstOf(side, a[field]...)
}

// RowsFromPayload converts a raw quote payload into canonical rows. When
// expiry is non-empty only records whose normalised expiry matches are kept.
// Records without the expected shape are skipped.
func RowsFromPayload(payload map[string]any, expiry string, aliases Aliases) []chain.Row {
	data, _ := payload["data"].([]any)
	if aliases == nil {
		aliases = DefaultAliases
	}

	wantExpiry := ""
	if expiry != "" {
		wantExpiry = NormalizeExpiry(expiry)
	}

	rows := make([]chain.Row, 0, len(data))
	for _, item := range data {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if wantExpiry != "" {
			recExpiry, _ := rec["expiryDates"].(string)
			if NormalizeExpiry(recExpiry) != wantExpiry {
				continue
			}
		}
		rows = append(rows, rowFromRecord(rec, aliases))
	}
	return rows
}

func rowFromRecord(rec map[string]any, aliases Aliases) chain.Row {
	ce, _ := rec["CE"].(map[string]any)
	pe, _ := rec["PE"].(map[string]any)

	underlying := aliases.read(ce, "Underlying")
	if underlying.IsAbsent() {
		underlying = aliases.read(pe, "Underlying")
	}

	return chain.Row{
		Strike:     chain.FieldOf(rec["strikePrice"]),
		CE:         sideFromRecord(ce, aliases),
		PE:         sideFromRecord(pe, aliases),
		Underlying: underlying,
	}
}

func sideFromRecord(side map[string]any, aliases Aliases) chain.Side {
	return chain.Side{
		OpenInterest:   aliases.read(side, "OpenInterest"),
		ChangeInOI:     aliases.read(side, "ChangeInOI"),
		Volume:         aliases.read(side, "Volume"),
		AbsoluteChange: aliases.read(side, "AbsoluteChange"),
		BidQty:         aliases.read(side, "BidQty"),
		BidPrice:       aliases.read(side, "BidPrice"),
		AskPrice:       aliases.read(side, "AskPrice"),
		AskQty:         aliases.read(side, "AskQty"),
		LTP:            aliases.read(side, "LTP"),
	}
}

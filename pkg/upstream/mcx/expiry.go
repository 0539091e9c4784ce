package mcx

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// expiryRE matches the exchange's DDMONYYYY expiry encoding, e.g. 18FEB2026.
var expiryRE = regexp.MustCompile(`^(\d{2})([A-Za-z]{3})(\d{4})$`)

// extendedExpirySymbols get one extra expiry in listings; the mini contracts
// trade further out than the standard ones.
var extendedExpirySymbols = map[string]bool{"SILVERM": true, "GOLDM": true}

// ParseExpiryDate parses a DDMONYYYY expiry string.
func ParseExpiryDate(value string) (time.Time, bool) {
	match := expiryRE.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return time.Time{}, false
	}
	month := strings.ToUpper(match[2][:1]) + strings.ToLower(match[2][1:])
	normalized := match[1] + month + match[3]
	t, err := time.Parse("02Jan2006", normalized)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Expiries lists the upcoming option expiries for a symbol from the bulk
// market-watch snapshot: option instruments only, today or later, sorted,
// capped at four for the mini contracts and three otherwise.
func Expiries(items []map[string]any, symbol string, today time.Time) []string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	byDate := make(map[time.Time]string)
	for _, item := range items {
		if stringOf(item["Symbol"]) != symbol && stringOf(item["ProductCode"]) != symbol {
			continue
		}
		instrument := strings.ToUpper(stringOf(item["InstrumentName"]))
		if instrument != "" && instrument != "OPTFUT" && instrument != "OPTIDX" {
			continue
		}
		value := stringOf(item["ExpiryDate"])
		if value == "" {
			continue
		}
		parsed, ok := ParseExpiryDate(value)
		if !ok || parsed.Before(day) {
			continue
		}
		byDate[parsed] = value
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	limit := 3
	if extendedExpirySymbols[symbol] {
		limit = 4
	}
	if len(dates) > limit {
		dates = dates[:limit]
	}

	expiries := make([]string, len(dates))
	for i, date := range dates {
		expiries[i] = byDate[date]
	}
	return expiries
}

package nse

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// numericExpiryRE matches the DD-MM-YYYY form some payloads use.
var numericExpiryRE = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// expiryLayouts are the textual forms, short and long month names.
var expiryLayouts = []string{"02-Jan-2006", "02-January-2006"}

// ParseExpiry parses an expiry string in any of the exchange's historical
// encodings.
func ParseExpiry(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if numericExpiryRE.MatchString(value) {
		t, err := time.Parse("02-01-2006", value)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	titled := titleCase(value)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, titled); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatExpiry renders an expiry in the canonical DD-Mon-YYYY form.
func FormatExpiry(t time.Time) string {
	return t.Format("02-Jan-2006")
}

// NormalizeExpiry rewrites any recognised expiry encoding into the canonical
// form; unrecognised values pass through unchanged.
func NormalizeExpiry(value string) string {
	if value == "" {
		return ""
	}
	if t, ok := ParseExpiry(value); ok {
		return FormatExpiry(t)
	}
	return value
}

// Expiries extracts the distinct expiry dates from a raw quote payload,
// sorted ascending and capped at seven.
func Expiries(payload map[string]any) []string {
	data, _ := payload["data"].([]any)

	byDate := make(map[time.Time]string)
	for _, item := range data {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		value, _ := rec["expiryDates"].(string)
		if value == "" {
			continue
		}
		parsed, ok := ParseExpiry(value)
		if !ok {
			continue
		}
		byDate[parsed] = FormatExpiry(parsed)
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	if len(dates) > 7 {
		dates = dates[:7]
	}

	expiries := make([]string, len(dates))
	for i, date := range dates {
		expiries[i] = byDate[date]
	}
	return expiries
}

// titleCase uppercases the first letter of each dash-separated part so
// "14-aug-2025" and "14-AUG-2025" both parse.
func titleCase(value string) string {
	parts := strings.Split(value, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.Join(parts, "-")
}

package mcx

import (
	"regexp"
	"strconv"
	"time"

	"optionhub-api/pkg/upstream"
)

// dotNetDateRE matches the legacy /Date(<ms>[±HHMM])/ wire encoding the
// exchange still emits for timestamps.
var dotNetDateRE = regexp.MustCompile(`^/Date\(([-+]?\d+)([+-]\d{4})?\)/$`)

// DecodeDotNetDate rewrites a /Date(ms±HHMM)/ value as a local
// "YYYY-MM-DD HH:MM:SS" string in the embedded offset's zone, or in IST when
// no offset is present. Millisecond values at or below zero are the
// exchange's "no value" sentinel and decode to the empty string. Anything
// that is not a dotnet date passes through unchanged.
func DecodeDotNetDate(value string) string {
	match := dotNetDateRE.FindStringSubmatch(value)
	if match == nil {
		return value
	}

	ms, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || ms <= 0 {
		return ""
	}

	loc := upstream.IST
	if offset := match[2]; offset != "" {
		sign := 1
		if offset[0] == '-' {
			sign = -1
		}
		hours, _ := strconv.Atoi(offset[1:3])
		minutes, _ := strconv.Atoi(offset[3:5])
		loc = time.FixedZone(offset, sign*(hours*3600+minutes*60))
	}

	return time.UnixMilli(ms).In(loc).Format(upstream.TimestampLayout)
}

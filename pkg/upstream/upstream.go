// Package upstream holds the pieces shared by the scraping-style exchange
// clients: browser-like request identity, the market timezone, and the typed
// HTTP status error the callers branch on.
package upstream

import (
	"errors"
	"fmt"
	"time"
)

// UserAgent mirrors a desktop Safari identity; the exchange endpoints serve
// their internal JSON only to browser-looking clients.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15"

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 20 * time.Second

// TimestampLayout is the human-readable timestamp format used across the API.
const TimestampLayout = "2006-01-02 15:04:05"

// IST is the exchanges' local market timezone (UTC+05:30).
var IST = time.FixedZone("IST", 5*3600+30*60)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("upstream: http status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("upstream: http status %d", e.Code)
}

// IsBlocked reports whether err is an upstream 401/403, the signal that the
// primary endpoint refused the scraping client.
func IsBlocked(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == 401 || statusErr.Code == 403
	}
	return false
}

// StatusCode extracts the HTTP status from an upstream error.
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code, true
	}
	return 0, false
}

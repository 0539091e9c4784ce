// Package cache defines the key layout and TTL normalisation for the
// in-process freshness caches.
package cache

import (
	"strconv"
	"strings"
	"time"

	"optionhub-api/internal/config"
)

// Namespace is the key prefix shared by every cache family.
const Namespace = "optionhub"

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Chain       time.Duration
	MarketWatch time.Duration
	Ticker      time.Duration
	MetalsAPI   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations. A zero
// market-watch window already inherits the chain window at config load.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Chain:       durationOrDefault(cfg.Chain, 10*time.Minute),
		MarketWatch: durationOrDefault(cfg.MarketWatch, 10*time.Minute),
		Ticker:      durationOrDefault(cfg.Ticker, time.Minute),
		MetalsAPI:   durationOrDefault(cfg.MetalsAPI, 5*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// ChainKey identifies one normalised option chain. Every request knob that
// changes the cached rows participates in the key.
func ChainKey(source, symbol, expiry string, strikeStep float64, allStrikes bool) string {
	return formatKey(
		"chain", source, symbol, expiry,
		strconv.FormatFloat(strikeStep, 'f', -1, 64),
		strconv.FormatBool(allStrikes),
	)
}

// PayloadKey identifies one raw quote payload. The expiry-free fetch that
// serves expiry discovery uses the "EXPIRIES" slot.
func PayloadKey(symbol, expiry string) string {
	if strings.TrimSpace(expiry) == "" {
		expiry = "EXPIRIES"
	}
	return formatKey("payload", symbol, expiry)
}

// MarketWatchKey identifies the shared commodity market-watch snapshot.
func MarketWatchKey() string {
	return formatKey("marketwatch")
}

// TickerKey identifies one provider's ticker items.
func TickerKey(provider string) string {
	return formatKey("ticker", provider)
}

// TickerTTL resolves the freshness window for a ticker provider: an explicit
// per-provider ttl wins, then the metals-api family default, then the shared
// ticker window.
func (t TTLSet) TickerTTL(source string, override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	if source == "metals_api" {
		return t.MetalsAPI
	}
	return t.Ticker
}

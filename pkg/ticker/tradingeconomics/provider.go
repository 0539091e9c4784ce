// Package tradingeconomics implements the ticker provider backed by the
// TradingEconomics commodities feed.
package tradingeconomics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"optionhub-api/pkg/chain"
	"optionhub-api/pkg/ticker"
	"optionhub-api/pkg/upstream"
)

const (
	defaultBaseURL  = "https://api.tradingeconomics.com"
	commoditiesPath = "/markets/commodities"
)

// defaultTags identify the gold/silver rows inside the full commodities
// listing by substring match on name+symbol.
var defaultTags = []string{"gold", "silver", "xau", "xag"}

// Provider quotes metals from the TradingEconomics commodities listing,
// filtered down to the gold/silver rows.
type Provider struct {
	apiKey     string
	baseURL    string
	tags       []string
	httpClient *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Provider) {
		if hc != nil {
			p.httpClient = hc
		}
	}
}

// WithBaseURL overrides the service URL, used by tests.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		if url != "" {
			p.baseURL = url
		}
	}
}

// WithTags overrides the metal-row matching substrings.
func WithTags(tags []string) Option {
	return func(p *Provider) {
		if len(tags) > 0 {
			p.tags = tags
		}
	}
}

// New constructs a TradingEconomics provider.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		tags:       defaultTags,
		httpClient: &http.Client{Timeout: upstream.DefaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func init() {
	ticker.RegisterProvider("tradingeconomics", func(name string, cfg *ticker.ProviderConfig) (ticker.Provider, error) {
		opts := []Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if len(cfg.Tags) > 0 {
			opts = append(opts, WithTags(cfg.Tags))
		}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		return New(cfg.APIKey, opts...), nil
	})
}

// Source implements ticker.Provider.
func (p *Provider) Source() string { return "tradingeconomics" }

// Configured implements ticker.Provider.
func (p *Provider) Configured() bool { return p.apiKey != "" }

// Fetch implements ticker.Provider.
func (p *Provider) Fetch(ctx context.Context) ([]ticker.Item, error) {
	if !p.Configured() {
		return nil, ticker.ErrUnconfigured
	}

	query := url.Values{}
	query.Set("c", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+commoditiesPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("tradingeconomics: build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tradingeconomics: commodities: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tradingeconomics: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &upstream.StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var rows []any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("tradingeconomics: decode response: %w", err)
	}
	return filterMetals(rows, p.tags), nil
}

// filterMetals keeps the rows whose name or symbol mentions one of the
// configured metal tags, projected onto the common item shape and sorted by
// name.
func filterMetals(rows []any, tags []string) []ticker.Item {
	items := make([]ticker.Item, 0, 4)
	for _, raw := range rows {
		rec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(stringOf(rec["Name"]))
		symbol := strings.TrimSpace(stringOf(rec["Symbol"]))
		key := strings.ToLower(name + " " + symbol)
		if !matchesAny(key, tags) {
			continue
		}
		items = append(items, ticker.Item{
			Name:       name,
			Symbol:     symbol,
			Last:       chain.FieldOf(rec["Last"]),
			Change:     chain.FirstOf(rec, "DailyChange", "Change"),
			ChangePct:  chain.FirstOf(rec, "DailyPercentualChange", "PercentualChange"),
			Unit:       stringOf(firstRaw(rec, "unit", "Unit")),
			LastUpdate: stringOf(firstRaw(rec, "LastUpdate", "Date")),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func matchesAny(key string, tags []string) bool {
	for _, tag := range tags {
		if strings.Contains(key, tag) {
			return true
		}
	}
	return false
}

func firstRaw(rec map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := rec[key]; ok {
			return v
		}
	}
	return nil
}

func stringOf(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return chain.Num(val).String()
	default:
		return ""
	}
}

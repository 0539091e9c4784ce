// Package metalsapi implements the ticker provider backed by the Metals-API
// pricing service.
package metalsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"optionhub-api/pkg/chain"
	"optionhub-api/pkg/ticker"
	"optionhub-api/pkg/upstream"
)

const (
	defaultBaseURL = "https://metals-api.com"
	latestPath     = "/api/latest"
	timeseriesPath = "/api/timeseries"
	defaultBase    = "USD"
)

// metals lists the quoted symbols with their display names, in output order.
var metals = []struct {
	symbol string
	name   string
}{
	{"XAU", "Gold"},
	{"XAG", "Silver"},
}

// Provider quotes gold and silver from Metals-API. The API returns rates as
// metal-per-currency, so prices are the reciprocal; the daily change comes
// from a one-day timeseries lookback.
type Provider struct {
	apiKey     string
	base       string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
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

// WithClock injects a clock for the previous-day lookback.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a Metals-API provider.
func New(apiKey, base string, opts ...Option) *Provider {
	if base == "" {
		base = defaultBase
	}
	p := &Provider{
		apiKey:     apiKey,
		base:       base,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: upstream.DefaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func init() {
	ticker.RegisterProvider("metalsapi", func(name string, cfg *ticker.ProviderConfig) (ticker.Provider, error) {
		opts := []Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		return New(cfg.APIKey, cfg.Base, opts...), nil
	})
}

// Source implements ticker.Provider.
func (p *Provider) Source() string { return "metals_api" }

// Configured implements ticker.Provider.
func (p *Provider) Configured() bool { return p.apiKey != "" }

// Fetch implements ticker.Provider.
func (p *Provider) Fetch(ctx context.Context) ([]ticker.Item, error) {
	if !p.Configured() {
		return nil, ticker.ErrUnconfigured
	}

	latest, err := p.fetchLatest(ctx)
	if err != nil {
		return nil, err
	}

	yesterday := p.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	prevRates := make(map[string]float64, len(metals))
	for _, metal := range metals {
		rate, ok := p.fetchPreviousRate(ctx, metal.symbol, yesterday)
		if ok {
			prevRates[metal.symbol] = rate
		}
	}

	return buildItems(latest, prevRates, p.base), nil
}

func (p *Provider) fetchLatest(ctx context.Context) (map[string]any, error) {
	query := url.Values{}
	query.Set("access_key", p.apiKey)
	query.Set("base", p.base)
	query.Set("symbols", "XAU,XAG")

	payload, err := p.getJSON(ctx, latestPath, query)
	if err != nil {
		return nil, err
	}
	if success, ok := payload["success"].(bool); ok && !success {
		return nil, fmt.Errorf("metalsapi: %s", errorMessage(payload))
	}
	return payload, nil
}

// fetchPreviousRate looks up yesterday's closing rate for one symbol.
// Failures are absorbed; a missing previous rate just means no change figure.
func (p *Provider) fetchPreviousRate(ctx context.Context, symbol, date string) (float64, bool) {
	query := url.Values{}
	query.Set("access_key", p.apiKey)
	query.Set("base", p.base)
	query.Set("symbols", symbol)
	query.Set("start_date", date)
	query.Set("end_date", date)

	payload, err := p.getJSON(ctx, timeseriesPath, query)
	if err != nil {
		return 0, false
	}
	if success, ok := payload["success"].(bool); ok && !success {
		return 0, false
	}
	series, _ := payload["rates"].(map[string]any)
	day, _ := series[date].(map[string]any)
	return chain.ToFloat(day[symbol])
}

func (p *Provider) getJSON(ctx context.Context, path string, query url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("metalsapi: build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metalsapi: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("metalsapi: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &upstream.StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("metalsapi: decode response: %w", err)
	}
	return payload, nil
}

// buildItems converts the latest rates into ticker items. Rates are quoted
// as metal per currency unit, so the price is 1/rate; change figures need a
// previous-day rate and stay absent otherwise.
func buildItems(latest map[string]any, prevRates map[string]float64, base string) []ticker.Item {
	rates, _ := latest["rates"].(map[string]any)
	date, _ := latest["date"].(string)

	items := make([]ticker.Item, 0, len(metals))
	for _, metal := range metals {
		item := ticker.Item{
			Name:       metal.name,
			Symbol:     metal.symbol,
			Unit:       base + "/oz",
			LastUpdate: date,
		}

		last, hasLast := priceFromRate(rates[metal.symbol])
		if hasLast {
			item.Last = chain.Num(round2(last))
		}
		prev, hasPrev := priceFromRate(prevRates[metal.symbol])
		if hasLast && hasPrev && prev != 0 {
			change := last - prev
			item.Change = chain.Num(round2(change))
			item.ChangePct = chain.Num(round2(change / prev * 100))
		}

		items = append(items, item)
	}
	return items
}

func priceFromRate(v any) (float64, bool) {
	rate, ok := chain.ToFloat(v)
	if !ok || rate == 0 {
		return 0, false
	}
	return 1 / rate, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func errorMessage(payload map[string]any) string {
	errInfo, _ := payload["error"].(map[string]any)
	if info, _ := errInfo["info"].(string); info != "" {
		return info
	}
	if typ, _ := errInfo["type"].(string); typ != "" {
		return typ
	}
	return "Metals API error"
}

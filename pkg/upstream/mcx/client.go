// Package mcx fetches and normalises option-chain data from the commodity
// exchange's internal JSON endpoints.
package mcx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sort"

	"optionhub-api/pkg/upstream"
)

const (
	defaultBaseURL  = "https://www.mcxindia.com"
	optionChainPath = "/backpage.aspx/GetOptionChain"
	marketWatchPath = "/backpage.aspx/GetMarketWatch"
	warmupPath      = "/market-data/option-chain"
)

// Client talks to the exchange's backpage JSON endpoints. The endpoints sit
// behind the public website and require a browser-looking session: a cookie
// jar and a warm-up page load before the JSON call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client. A cookie jar is attached when
// the injected client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the exchange base URL, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// NewClient constructs an exchange client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: upstream.DefaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient.Jar == nil {
		if jar, err := cookiejar.New(nil); err == nil {
			client.httpClient.Jar = jar
		}
	}
	return client
}

// OptionChain fetches the per-expiry option chain and returns the raw row
// records. An empty expiry requests whatever the exchange considers current.
func (c *Client) OptionChain(ctx context.Context, symbol, expiry string) ([]map[string]any, error) {
	if err := c.warmup(ctx); err != nil {
		return nil, err
	}

	body := map[string]any{"Commodity": symbol}
	if expiry != "" {
		body["Expiry"] = expiry
	} else {
		body["Expiry"] = nil
	}

	payload, err := c.postJSON(ctx, optionChainPath, body)
	if err != nil {
		return nil, err
	}
	return ExtractRows(unwrapEnvelope(payload)), nil
}

// MarketWatch fetches the bulk all-instruments snapshot used both for expiry
// discovery and as the fallback when the option-chain endpoint is blocked.
func (c *Client) MarketWatch(ctx context.Context) ([]map[string]any, error) {
	if err := c.warmup(ctx); err != nil {
		return nil, err
	}

	payload, err := c.postJSON(ctx, marketWatchPath, map[string]any{})
	if err != nil {
		return nil, err
	}

	data := unwrapEnvelope(payload)
	if m, ok := data.(map[string]any); ok {
		if list, ok := m["Data"].([]any); ok {
			return recordsOf(list), nil
		}
		return nil, nil
	}
	if list, ok := data.([]any); ok {
		return recordsOf(list), nil
	}
	return nil, nil
}

// warmup loads the public option-chain page so the session carries the
// cookies the backpage endpoints expect. Response status is irrelevant.
func (c *Client) warmup(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+warmupPath, nil)
	if err != nil {
		return fmt.Errorf("mcx: build warmup request: %w", err)
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mcx: warmup: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (any, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("mcx: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("mcx: build request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mcx: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mcx: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &upstream.StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("mcx: decode response: %w", err)
	}
	return payload, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", upstream.UserAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	req.Header.Set("Referer", defaultBaseURL+warmupPath)
	req.Header.Set("Origin", defaultBaseURL)
}

// unwrapEnvelope strips the ASP.NET "d" wrapper; the inner value is sometimes
// a JSON object and sometimes a doubly encoded JSON string.
func unwrapEnvelope(payload any) any {
	if m, ok := payload.(map[string]any); ok {
		if inner, ok := m["d"]; ok {
			payload = inner
		}
	}
	if s, ok := payload.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			return decoded
		}
	}
	return payload
}

// rowListKeys are the envelope keys the exchange has used for the row list.
var rowListKeys = []string{"Data", "data", "Table", "Table1", "table", "optionChain", "OptionChain"}

// ExtractRows locates the row list inside an unwrapped payload. Foreign
// shapes yield an empty slice; partial data beats a hard failure here.
func ExtractRows(data any) []map[string]any {
	switch v := data.(type) {
	case []any:
		return recordsOf(v)
	case map[string]any:
		for _, key := range rowListKeys {
			if list, ok := v[key].([]any); ok {
				return recordsOf(list)
			}
		}
		// Last-resort scan for any list-valued key. Decoding into a map loses
		// the upstream key order, so scan in sorted order to keep repeated
		// calls agreeing on the same list.
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if list, ok := v[key].([]any); ok {
				return recordsOf(list)
			}
		}
	}
	return nil
}

// recordsOf keeps the map-shaped items of a decoded list, dropping anything
// else.
func recordsOf(list []any) []map[string]any {
	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records
}

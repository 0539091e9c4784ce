// Package nse fetches and normalises option-chain data from the stock
// exchange's internal quote API.
package nse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"

	"optionhub-api/pkg/upstream"
)

const (
	defaultBaseURL      = "https://www.nseindia.com"
	quoteAPIPath        = "/api/NextApi/apiClient/GetQuoteApi"
	defaultStrikeAnchor = 26500
)

// Client talks to the exchange's quote API. Like the commodity exchange, the
// endpoint wants a browser-shaped session: cookies from warm-up page loads
// and a matching referer.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	strikeAnchor int
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
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

// WithStrikeAnchor sets the strike used to anchor expiry-less queries; the
// quote API requires either an expiry or a strike parameter.
func WithStrikeAnchor(strike int) Option {
	return func(c *Client) {
		if strike > 0 {
			c.strikeAnchor = strike
		}
	}
}

// NewClient constructs a quote API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: upstream.DefaultTimeout},
		strikeAnchor: defaultStrikeAnchor,
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

// OptionChainPayload fetches the raw option-chain payload for a symbol. When
// expiry is empty the query is anchored on the default strike instead, which
// returns all expiries around that strike.
func (c *Client) OptionChainPayload(ctx context.Context, symbol, expiry string) (map[string]any, error) {
	referer := c.refererFor(symbol)
	if err := c.warmup(ctx, c.baseURL, referer); err != nil {
		return nil, err
	}

	params := "strikePrice=" + strconv.Itoa(c.strikeAnchor)
	if expiry != "" {
		params = "expiryDate=" + NormalizeExpiry(expiry)
	}

	query := url.Values{}
	query.Set("functionName", "getOptionChainData")
	query.Set("symbol", symbol)
	query.Set("params", params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+quoteAPIPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("nse: build request: %w", err)
	}
	c.setHeaders(req, referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nse: quote api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nse: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &upstream.StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("nse: decode response: %w", err)
	}
	return payload, nil
}

func (c *Client) refererFor(symbol string) string {
	if symbol == "NIFTY" {
		return c.baseURL + "/get-quote/optionchain/NIFTY/NIFTY-50"
	}
	return c.baseURL + "/option-chain"
}

func (c *Client) warmup(ctx context.Context, urls ...string) error {
	for _, target := range urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("nse: build warmup request: %w", err)
		}
		c.setHeaders(req, target)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("nse: warmup: %w", err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, referer string) {
	req.Header.Set("User-Agent", upstream.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	req.Header.Set("Referer", referer)
	req.Header.Set("Origin", c.baseURL)
}

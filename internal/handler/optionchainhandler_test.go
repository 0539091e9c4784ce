package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionhub-api/internal/apierr"
	"optionhub-api/internal/cache"
	"optionhub-api/internal/chains"
	"optionhub-api/internal/config"
	"optionhub-api/internal/middleware"
	"optionhub-api/internal/svc"
	"optionhub-api/internal/symbols"
	"optionhub-api/pkg/freshcache"
	tickerpkg "optionhub-api/pkg/ticker"
	"optionhub-api/pkg/upstream/mcx"
	"optionhub-api/pkg/upstream/nse"
)

func init() {
	apierr.SetupErrorHandler()
}

func newExchangeStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/market-data/option-chain", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/backpage.aspx/GetOptionChain", func(w http.ResponseWriter, r *http.Request) {
		rows := []any{
			map[string]any{
				"CE_StrikePrice":    95000.0,
				"CE_LTP":            412.0,
				"CE_AbsoluteChange": 12.5,
				"UnderlyingValue":   94100.0,
			},
			map[string]any{
				"CE_StrikePrice":    100000.0,
				"CE_LTP":            120.0,
				"CE_AbsoluteChange": -3.0,
				"UnderlyingValue":   94100.0,
			},
		}
		json.NewEncoder(w).Encode(map[string]any{"d": map[string]any{"Data": rows}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestContext(t *testing.T) *svc.ServiceContext {
	t.Helper()
	stub := newExchangeStub(t)

	symbolsPath := filepath.Join(t.TempDir(), "symbols.yaml")
	require.NoError(t, os.WriteFile(symbolsPath, []byte(`
symbols:
  SILVERM:
    source: mcx
    expiries: [28NOV2025]
`), 0o644))

	cfg := config.Config{
		DefaultStrikeStep: 5000,
		NSEDefaultStrike:  26500,
		TTL:               config.CacheTTL{Chain: 600, MarketWatch: 600, Ticker: 60, MetalsAPI: 300},
	}
	ttl := cache.NewTTLSet(cfg.TTL)

	return &svc.ServiceContext{
		Config:  cfg,
		Auth:    middleware.NewAuthMiddleware(""),
		Symbols: symbols.NewLoader(symbolsPath),
		Chains: chains.New(
			mcx.NewClient(mcx.WithBaseURL(stub.URL)),
			nse.NewClient(nse.WithBaseURL(stub.URL)),
			ttl,
		),
		TTL:         ttl,
		TickerCache: freshcache.New[[]tickerpkg.Item](),
	}
}

func TestOptionChainJSON(t *testing.T) {
	ctx := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/api/option-chain?symbol=silverm&expiry=28NOV2025", nil)
	rec := httptest.NewRecorder()
	OptionChainHandler(ctx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "SILVERM", payload["symbol"])
	assert.Equal(t, "28NOV2025", payload["expiry"])
	assert.Equal(t, float64(2), payload["count"])
	assert.Equal(t, float64(94100), payload["underlying"])
	assert.NotEmpty(t, payload["last_updated"])
	assert.NotEmpty(t, payload["server_ts"])

	rows, ok := payload["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, float64(95000), first["Strike_Price"])
	assert.Equal(t, float64(399.5), first["CALL_Prev_Close"])
	// Absent cells serialise as "".
	assert.Equal(t, "", first["PUT_LTP"])
}

func TestOptionChainFallsBackToConfiguredExpiry(t *testing.T) {
	ctx := newTestContext(t)

	// The stub serves no market watch endpoint, so live expiry discovery
	// fails and the configured list supplies the expiry.
	req := httptest.NewRequest(http.MethodGet, "/api/option-chain?symbol=SILVERM", nil)
	rec := httptest.NewRecorder()
	OptionChainHandler(ctx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "28NOV2025", payload["expiry"])

	// The resolved expiry also names the CSV file.
	req = httptest.NewRequest(http.MethodGet, "/api/option-chain?symbol=SILVERM&format=csv", nil)
	rec = httptest.NewRecorder()
	OptionChainHandler(ctx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inline; filename=SILVERM_28NOV2025_option_chain.csv", rec.Header().Get("Content-Disposition"))
}

func TestOptionChainResolvesFirstLiveExpiry(t *testing.T) {
	quotePayload := map[string]any{
		"data": []any{
			map[string]any{
				"expiryDates": "02-Sep-2025",
				"strikePrice": 25000.0,
				"CE":          map[string]any{"lastPrice": 120.0, "underlyingValue": 24490.0},
			},
			map[string]any{
				"expiryDates": "30-Sep-2025",
				"strikePrice": 25000.0,
				"CE":          map[string]any{"lastPrice": 180.0, "underlyingValue": 24490.0},
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/NextApi/apiClient/GetQuoteApi", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(quotePayload))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	symbolsPath := filepath.Join(t.TempDir(), "symbols.yaml")
	require.NoError(t, os.WriteFile(symbolsPath, []byte(`
symbols:
  NIFTY:
    source: nse
    expiries: [01-Jan-2026]
`), 0o644))

	cfg := config.Config{
		DefaultStrikeStep: 5000,
		NSEDefaultStrike:  26500,
		TTL:               config.CacheTTL{Chain: 600, MarketWatch: 600, Ticker: 60, MetalsAPI: 300},
	}
	ttl := cache.NewTTLSet(cfg.TTL)
	ctx := &svc.ServiceContext{
		Config:  cfg,
		Auth:    middleware.NewAuthMiddleware(""),
		Symbols: symbols.NewLoader(symbolsPath),
		Chains: chains.New(
			mcx.NewClient(mcx.WithBaseURL(server.URL)),
			nse.NewClient(nse.WithBaseURL(server.URL)),
			ttl,
		),
		TTL:         ttl,
		TickerCache: freshcache.New[[]tickerpkg.Item](),
	}

	// Without an expiry the first live one is resolved and only its rows are
	// served, not a mix of every expiry around the anchor strike.
	req := httptest.NewRequest(http.MethodGet, "/api/option-chain?symbol=NIFTY", nil)
	rec := httptest.NewRecorder()
	OptionChainHandler(ctx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "02-Sep-2025", payload["expiry"])
	assert.Equal(t, float64(1), payload["count"])

	rows, ok := payload["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(120), rows[0].(map[string]any)["CALL_LTP"])
}

func TestRefreshResolvesExpiryWhenOmitted(t *testing.T) {
	ctx := newTestContext(t)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh?symbol=SILVERM", nil)
	rec := httptest.NewRecorder()
	RefreshHandler(ctx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "28NOV2025", payload["expiry"])
	assert.Equal(t, float64(2), payload["count"])
}

func TestOptionChainUnknownSymbol(t *testing.T) {
	ctx := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/api/option-chain?symbol=NOPE", nil)
	rec := httptest.NewRecorder()
	OptionChainHandler(ctx)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Unknown symbol"}`, rec.Body.String())
}

func TestOptionChainCSV(t *testing.T) {
	ctx := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/api/option-chain?symbol=SILVERM&expiry=28NOV2025&format=csv&download=true", nil)
	rec := httptest.NewRecorder()
	OptionChainHandler(ctx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=SILVERM_28NOV2025_option_chain.csv", rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Last-Updated"))

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join([]string{"CALL_OI_Lots", "CALL_Chng_in_OI", "CALL_Volume", "CALL_Abs_Chng", "CALL_Bid_Qty", "CALL_Bid_Price", "CALL_Ask_Price", "CALL_Ask_Qty", "CALL_LTP", "CALL_Prev_Close", "CALL_Pct_Chng", "Strike_Price", "PUT_LTP", "PUT_Prev_Close", "PUT_Pct_Chng", "PUT_Bid_Qty", "PUT_Bid_Price", "PUT_Ask_Price", "PUT_Ask_Qty", "PUT_Abs_Chng", "PUT_Volume", "PUT_Chng_in_OI", "PUT_OI_Lots"}, ","), lines[0])
}

func TestOptionChainLines(t *testing.T) {
	ctx := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/api/option-chain?symbol=SILVERM&format=lines&lite=true", nil)
	rec := httptest.NewRecorder()
	OptionChainHandler(ctx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "L0001 {\"symbol\":\"SILVERM\""))
	assert.True(t, strings.HasPrefix(lines[1], "L0002 {\"strike\":95000"))
}

func TestOptionChainChatDefaults(t *testing.T) {
	ctx := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/api/option-chain-chat?symbol=SILVERM", nil)
	rec := httptest.NewRecorder()
	OptionChainChatHandler(ctx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson; charset=utf-8", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	// Meta line plus the lite rows.
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"strike"`)
}

func TestOptionChainWindowImpliesATMMode(t *testing.T) {
	ctx := newTestContext(t)

	// window=0 with no mode keeps only the strike nearest the underlying.
	req := httptest.NewRequest(http.MethodGet, "/api/option-chain?symbol=SILVERM&window=0", nil)
	rec := httptest.NewRecorder()
	OptionChainHandler(ctx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, float64(1), payload["count"])
}

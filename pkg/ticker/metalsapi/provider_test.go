package metalsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionhub-api/pkg/ticker"
)

func fixedClock() time.Time {
	return time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)
}

func newStub(t *testing.T, latest map[string]any, timeseries map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/latest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("access_key"))
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		require.NoError(t, json.NewEncoder(w).Encode(latest))
	})
	mux.HandleFunc("/api/timeseries", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-11-14", r.URL.Query().Get("start_date"))
		require.NoError(t, json.NewEncoder(w).Encode(timeseries))
	})
	return httptest.NewServer(mux)
}

func TestFetchBuildsItems(t *testing.T) {
	latest := map[string]any{
		"success": true,
		"date":    "2025-11-15",
		"rates": map[string]any{
			// Rates arrive as metal per dollar; prices are the reciprocal.
			"XAU": 0.00025, // 1/0.00025 = 4000
			"XAG": 0.02,    // 1/0.02 = 50
		},
	}
	timeseries := map[string]any{
		"success": true,
		"rates": map[string]any{
			"2025-11-14": map[string]any{
				"XAU": 0.00026, // prev 3846.15
				"XAG": 0.02,
			},
		},
	}

	server := newStub(t, latest, timeseries)
	defer server.Close()

	provider := New("test-key", "USD", WithBaseURL(server.URL), WithClock(fixedClock))
	items, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	gold := items[0]
	assert.Equal(t, "Gold", gold.Name)
	assert.Equal(t, "XAU", gold.Symbol)
	assert.Equal(t, "USD/oz", gold.Unit)
	assert.Equal(t, "2025-11-15", gold.LastUpdate)

	last, ok := gold.Last.Float()
	require.True(t, ok)
	assert.InDelta(t, 4000, last, 1e-9)

	change, ok := gold.Change.Float()
	require.True(t, ok)
	assert.InDelta(t, 153.85, change, 1e-9)

	pct, ok := gold.ChangePct.Float()
	require.True(t, ok)
	assert.InDelta(t, 4.0, pct, 1e-9)

	silver := items[1]
	last, _ = silver.Last.Float()
	assert.InDelta(t, 50, last, 1e-9)
	change, _ = silver.Change.Float()
	assert.InDelta(t, 0, change, 1e-9)
}

func TestFetchAbsorbsTimeseriesFailure(t *testing.T) {
	latest := map[string]any{
		"success": true,
		"date":    "2025-11-15",
		"rates":   map[string]any{"XAU": 0.00025, "XAG": 0.02},
	}
	timeseries := map[string]any{"success": false}

	server := newStub(t, latest, timeseries)
	defer server.Close()

	provider := New("test-key", "", WithBaseURL(server.URL), WithClock(fixedClock))
	items, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// No previous rate means no change figures, but the price stands.
	assert.False(t, items[0].Last.IsAbsent())
	assert.True(t, items[0].Change.IsAbsent())
	assert.True(t, items[0].ChangePct.IsAbsent())
}

func TestFetchLatestError(t *testing.T) {
	latest := map[string]any{
		"success": false,
		"error":   map[string]any{"info": "invalid access key"},
	}

	server := newStub(t, latest, map[string]any{"success": false})
	defer server.Close()

	provider := New("test-key", "", WithBaseURL(server.URL), WithClock(fixedClock))
	_, err := provider.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid access key")
}

func TestUnconfigured(t *testing.T) {
	provider := New("", "")
	assert.False(t, provider.Configured())

	_, err := provider.Fetch(context.Background())
	assert.True(t, errors.Is(err, ticker.ErrUnconfigured))
}

package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTable(t, `
symbols:
  silverm:
    source: MCX
    expiries: [28NOV2025, 27FEB2026]
  NIFTY:
    source: nse
  GOLD: {}
`)

	table := NewLoader(path).Load()
	require.Len(t, table, 3)

	entry, ok := table.Lookup("silverm")
	require.True(t, ok)
	assert.Equal(t, "mcx", entry.Source)
	assert.Equal(t, []string{"28NOV2025", "27FEB2026"}, entry.Expiries)

	entry, ok = table.Lookup(" nifty ")
	require.True(t, ok)
	assert.Equal(t, "nse", entry.Source)

	// Missing source defaults to mcx.
	entry, ok = table.Lookup("GOLD")
	require.True(t, ok)
	assert.Equal(t, "mcx", entry.Source)

	_, ok = table.Lookup("UNKNOWN")
	assert.False(t, ok)
}

func TestLoadPicksUpEdits(t *testing.T) {
	path := writeTable(t, "symbols:\n  GOLD: {}\n")
	loader := NewLoader(path)

	require.Len(t, loader.Load(), 1)

	require.NoError(t, os.WriteFile(path, []byte("symbols:\n  GOLD: {}\n  SILVER: {}\n"), 0o644))
	assert.Len(t, loader.Load(), 2)
}

func TestLoadDegradesToEmpty(t *testing.T) {
	assert.Empty(t, NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load())

	path := writeTable(t, "symbols: [not, a, map")
	assert.Empty(t, NewLoader(path).Load())
}

func TestListAndSources(t *testing.T) {
	path := writeTable(t, `
symbols:
  SILVER: {source: mcx}
  NIFTY: {source: nse}
  GOLD: {}
`)

	table := NewLoader(path).Load()
	assert.Equal(t, []string{"GOLD", "NIFTY", "SILVER"}, table.List())
	assert.Equal(t, map[string]string{"GOLD": "mcx", "NIFTY": "nse", "SILVER": "mcx"}, table.Sources())
}

// Package symbols loads the tradable-symbol table. The file is re-read on
// every call so edits show up without a restart.
package symbols

import (
	"os"
	"sort"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/yaml.v3"
)

// Entry describes one configured symbol.
type Entry struct {
	// Source is the exchange serving the symbol, mcx by default.
	Source string `yaml:"source"`
	// Expiries is the fallback expiry list when the live one is unavailable.
	Expiries []string `yaml:"expiries"`
}

// Table is the symbol registry, keyed by upper-cased symbol.
type Table map[string]Entry

type fileShape struct {
	Symbols map[string]Entry `yaml:"symbols"`
}

// Loader reads the symbol table fresh from disk on demand. A missing or
// malformed file degrades to an empty table so the service keeps serving.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the current table.
func (l *Loader) Load() Table {
	data, err := os.ReadFile(l.path)
	if err != nil {
		logx.Errorf("symbols: read %s: %v", l.path, err)
		return Table{}
	}

	var parsed fileShape
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		logx.Errorf("symbols: parse %s: %v", l.path, err)
		return Table{}
	}

	table := make(Table, len(parsed.Symbols))
	for name, entry := range parsed.Symbols {
		key := strings.ToUpper(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if strings.TrimSpace(entry.Source) == "" {
			entry.Source = "mcx"
		}
		entry.Source = strings.ToLower(strings.TrimSpace(entry.Source))
		table[key] = entry
	}
	return table
}

// Lookup finds a symbol case-insensitively.
func (t Table) Lookup(symbol string) (Entry, bool) {
	entry, ok := t[strings.ToUpper(strings.TrimSpace(symbol))]
	return entry, ok
}

// List returns the configured symbols sorted alphabetically.
func (t Table) List() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sources maps each symbol to its exchange, for the symbols endpoint.
func (t Table) Sources() map[string]string {
	out := make(map[string]string, len(t))
	for name, entry := range t {
		out[name] = entry.Source
	}
	return out
}

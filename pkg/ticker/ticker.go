// Package ticker exposes the precious-metals ticker feed behind a common
// provider contract, so alternative pricing APIs converge on one item shape.
package ticker

import (
	"context"
	"errors"

	"optionhub-api/pkg/chain"
)

// Item is one metal quote in the ticker feed, identical across providers.
type Item struct {
	Name       string      `json:"name"`
	Symbol     string      `json:"symbol"`
	Last       chain.Field `json:"last"`
	Change     chain.Field `json:"change"`
	ChangePct  chain.Field `json:"change_pct"`
	Unit       string      `json:"unit"`
	LastUpdate string      `json:"last_update"`
}

// Provider fetches the current ticker items from one upstream pricing API.
type Provider interface {
	// Source names the provider in API responses.
	Source() string
	// Configured reports whether the provider has the credentials it needs.
	Configured() bool
	// Fetch returns the current items.
	Fetch(ctx context.Context) ([]Item, error)
}

// ErrUnconfigured indicates a provider is missing its API key.
var ErrUnconfigured = errors.New("ticker: provider not configured")

package types

import (
	"optionhub-api/pkg/ticker"
)

// ChainRequest carries every knob of the option-chain endpoints. StrikeStep
// and Window use -1 as "not set" so zero stays a meaningful value.
type ChainRequest struct {
	Symbol     string  `form:"symbol"`
	Expiry     string  `form:"expiry,optional"`
	Format     string  `form:"format,default=json"`
	StrikeStep float64 `form:"strike_step,default=-1"`
	AllStrikes bool    `form:"all_strikes,optional"`
	Force      bool    `form:"force,optional"`
	Refresh    bool    `form:"refresh,optional"`
	Download   bool    `form:"download,optional"`
	Pretty     bool    `form:"pretty,optional"`
	Limit      int     `form:"limit,optional"`
	Offset     int     `form:"offset,optional"`
	Mode       string  `form:"mode,optional"`
	Window     int     `form:"window,default=-1"`
	Lite       bool    `form:"lite,optional"`
}

// ChainResponse is the JSON payload of the option-chain endpoints. Rows holds
// full or lite projections depending on the request. Underlying is null when
// no row carried an underlying value.
type ChainResponse struct {
	Symbol      string   `json:"symbol"`
	Expiry      string   `json:"expiry"`
	LastUpdated string   `json:"last_updated"`
	ServerTS    string   `json:"server_ts"`
	SourceTS    string   `json:"source_ts"`
	AgeMS       int64    `json:"age_ms"`
	Underlying  *float64 `json:"underlying"`
	Count       int      `json:"count"`
	Rows        any      `json:"rows"`
}

// ChainMeta is the row-free view of a ChainResponse, emitted as the first
// line of ndjson and lines output.
type ChainMeta struct {
	Symbol      string   `json:"symbol"`
	Expiry      string   `json:"expiry"`
	LastUpdated string   `json:"last_updated"`
	ServerTS    string   `json:"server_ts"`
	SourceTS    string   `json:"source_ts"`
	AgeMS       int64    `json:"age_ms"`
	Underlying  *float64 `json:"underlying"`
	Count       int      `json:"count"`
}

// Meta strips the rows from the payload.
func (r ChainResponse) Meta() ChainMeta {
	return ChainMeta{
		Symbol:      r.Symbol,
		Expiry:      r.Expiry,
		LastUpdated: r.LastUpdated,
		ServerTS:    r.ServerTS,
		SourceTS:    r.SourceTS,
		AgeMS:       r.AgeMS,
		Underlying:  r.Underlying,
		Count:       r.Count,
	}
}

type RefreshRequest struct {
	Symbol     string  `form:"symbol"`
	Expiry     string  `form:"expiry,optional"`
	StrikeStep float64 `form:"strike_step,default=-1"`
	AllStrikes bool    `form:"all_strikes,optional"`
}

type RefreshResponse struct {
	Symbol      string `json:"symbol"`
	Expiry      string `json:"expiry"`
	Count       int    `json:"count"`
	LastUpdated string `json:"last_updated"`
}

type SymbolsResponse struct {
	Symbols []string          `json:"symbols"`
	Sources map[string]string `json:"sources"`
}

type ExpiriesRequest struct {
	Symbol string `form:"symbol"`
}

type ExpiriesResponse struct {
	Symbol   string   `json:"symbol"`
	Source   string   `json:"source"`
	Expiries []string `json:"expiries"`
}

type TickerRequest struct {
	Provider string `form:"provider,optional"`
	Force    bool   `form:"force,optional"`
	Refresh  bool   `form:"refresh,optional"`
}

type TickerResponse struct {
	Source      string        `json:"source"`
	LastUpdated string        `json:"last_updated"`
	AgeMS       int64         `json:"age_ms"`
	Items       []ticker.Item `json:"items"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

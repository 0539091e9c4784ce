// Package chains runs the option-chain pipeline: fetch from the right
// exchange, normalise, derive, filter, and cache behind per-family TTLs.
package chains

import (
	"context"
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"optionhub-api/internal/apierr"
	"optionhub-api/internal/cache"
	"optionhub-api/pkg/chain"
	"optionhub-api/pkg/freshcache"
	"optionhub-api/pkg/upstream"
	"optionhub-api/pkg/upstream/mcx"
	"optionhub-api/pkg/upstream/nse"
)

// Request identifies one chain to serve.
type Request struct {
	Source     string
	Symbol     string
	Expiry     string
	StrikeStep float64
	AllStrikes bool
	Force      bool
}

// Result carries the cached rows plus their fetch time.
type Result struct {
	Rows      []chain.Row
	FetchedAt time.Time
}

// Service owns the upstream clients and the freshness caches. One instance
// serves all requests concurrently.
type Service struct {
	mcx *mcx.Client
	nse *nse.Client

	ttl cache.TTLSet

	chainCache   *freshcache.Store[[]chain.Row]
	watchCache   *freshcache.Store[[]map[string]any]
	payloadCache *freshcache.Store[map[string]any]

	nseAliases nse.Aliases
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects a clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNSEAliases overlays field-name overrides onto the default alias table.
func WithNSEAliases(overrides nse.Aliases) Option {
	return func(s *Service) {
		s.nseAliases = nse.DefaultAliases.Merge(overrides)
	}
}

// New constructs the pipeline service.
func New(mcxClient *mcx.Client, nseClient *nse.Client, ttl cache.TTLSet, opts ...Option) *Service {
	s := &Service{
		mcx:          mcxClient,
		nse:          nseClient,
		ttl:          ttl,
		chainCache:   freshcache.New[[]chain.Row](),
		watchCache:   freshcache.New[[]map[string]any](),
		payloadCache: freshcache.New[map[string]any](),
		nseAliases:   nse.DefaultAliases,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rows serves one normalised chain, from cache when fresh.
func (s *Service) Rows(ctx context.Context, req Request) (Result, error) {
	key := cache.ChainKey(req.Source, req.Symbol, req.Expiry, req.StrikeStep, req.AllStrikes)
	rows, fetchedAt, err := s.chainCache.GetOrFetch(key, s.ttl.Chain, req.Force, func() ([]chain.Row, error) {
		return s.fetchRows(ctx, req)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Rows: rows, FetchedAt: fetchedAt}, nil
}

func (s *Service) fetchRows(ctx context.Context, req Request) ([]chain.Row, error) {
	var rows []chain.Row
	switch req.Source {
	case "mcx":
		records, err := s.mcx.OptionChain(ctx, req.Symbol, req.Expiry)
		switch {
		case err == nil:
			rows = mcx.Rows(mcx.NormalizeRecords(records))
		case upstream.IsBlocked(err):
			code, _ := upstream.StatusCode(err)
			logx.WithContext(ctx).Infof("chains: option chain blocked (%d), trying market watch for %s", code, req.Symbol)
			rows, err = s.marketWatchRows(ctx, req)
			if err != nil {
				return nil, err
			}
		default:
			return nil, apierr.FromUpstream(err)
		}
	case "nse":
		payload, err := s.nsePayload(ctx, req.Symbol, req.Expiry, req.Force)
		if err != nil {
			return nil, apierr.FromUpstream(err)
		}
		rows = nse.RowsFromPayload(payload, req.Expiry, s.nseAliases)
	default:
		return nil, apierr.ErrNotImplemented
	}

	chain.DeriveAll(rows)
	if !req.AllStrikes {
		rows = chain.FilterRoundStrikes(rows, req.StrikeStep)
	}
	return chain.SortByStrike(rows), nil
}

// marketWatchRows rebuilds a chain from the bulk snapshot after the dedicated
// endpoint was refused. An empty rebuild is a hard error so callers do not
// cache a blocked response as an empty chain.
func (s *Service) marketWatchRows(ctx context.Context, req Request) ([]chain.Row, error) {
	items, _, err := s.watchCache.GetOrFetch(cache.MarketWatchKey(), s.ttl.MarketWatch, req.Force, func() ([]map[string]any, error) {
		return s.mcx.MarketWatch(ctx)
	})
	if err != nil {
		return nil, apierr.FromUpstream(err)
	}

	rows := mcx.RowsFromMarketWatch(items, req.Symbol, req.Expiry)
	if len(rows) == 0 {
		return nil, apierr.New(http.StatusBadGateway, "MCX option chain blocked (403). MarketWatch fallback returned no rows.")
	}
	return rows, nil
}

// nsePayload caches the raw quote payload separately from the normalised
// rows, so expiry discovery and per-expiry chains share one upstream call.
func (s *Service) nsePayload(ctx context.Context, symbol, expiry string, force bool) (map[string]any, error) {
	key := cache.PayloadKey(symbol, expiry)
	payload, _, err := s.payloadCache.GetOrFetch(key, s.ttl.Chain, force, func() (map[string]any, error) {
		return s.nse.OptionChainPayload(ctx, symbol, expiry)
	})
	return payload, err
}

// Expiries lists the upcoming expiries for a symbol, best effort: upstream
// failures surface as an empty list so the caller can fall back to the
// configured ones.
func (s *Service) Expiries(ctx context.Context, source, symbol string) []string {
	switch source {
	case "mcx":
		items, _, err := s.watchCache.GetOrFetch(cache.MarketWatchKey(), s.ttl.MarketWatch, false, func() ([]map[string]any, error) {
			return s.mcx.MarketWatch(ctx)
		})
		if err != nil {
			logx.WithContext(ctx).Errorf("chains: market watch for expiries: %v", err)
			return nil
		}
		return mcx.Expiries(items, symbol, s.now())
	case "nse":
		payload, err := s.nsePayload(ctx, symbol, "", false)
		if err != nil {
			logx.WithContext(ctx).Errorf("chains: quote payload for expiries: %v", err)
			return nil
		}
		return nse.Expiries(payload)
	default:
		return nil
	}
}

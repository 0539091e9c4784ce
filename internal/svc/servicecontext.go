package svc

import (
	"log"
	"time"

	"optionhub-api/internal/cache"
	"optionhub-api/internal/chains"
	"optionhub-api/internal/config"
	"optionhub-api/internal/middleware"
	"optionhub-api/internal/symbols"
	"optionhub-api/pkg/freshcache"
	tickerpkg "optionhub-api/pkg/ticker"
	_ "optionhub-api/pkg/ticker/metalsapi"
	_ "optionhub-api/pkg/ticker/tradingeconomics"
	"optionhub-api/pkg/upstream"
	"optionhub-api/pkg/upstream/mcx"
	"optionhub-api/pkg/upstream/nse"
)

type ServiceContext struct {
	Config config.Config

	Auth    *middleware.AuthMiddleware
	Symbols *symbols.Loader
	Chains  *chains.Service
	TTL     cache.TTLSet

	TickerConfig    *tickerpkg.Config
	TickerProviders map[string]tickerpkg.Provider
	TickerTTL       map[string]time.Duration
	TickerCache     *freshcache.Store[[]tickerpkg.Item]
}

func NewServiceContext(c config.Config) *ServiceContext {
	ttl := cache.NewTTLSet(c.TTL)

	mcxOpts := []mcx.Option{}
	if c.MCX.BaseURL != "" {
		mcxOpts = append(mcxOpts, mcx.WithBaseURL(c.MCX.BaseURL))
	}
	nseOpts := []nse.Option{nse.WithStrikeAnchor(c.NSEDefaultStrike)}
	if c.NSE.BaseURL != "" {
		nseOpts = append(nseOpts, nse.WithBaseURL(c.NSE.BaseURL))
	}

	svc := &ServiceContext{
		Config:      c,
		Auth:        middleware.NewAuthMiddleware(c.AuthToken),
		Symbols:     symbols.NewLoader(c.SymbolsPath()),
		Chains:      chains.New(mcx.NewClient(mcxOpts...), nse.NewClient(nseOpts...), ttl),
		TTL:         ttl,
		TickerCache: freshcache.New[[]tickerpkg.Item](),
	}

	if c.Ticker.Value != nil {
		providers, err := c.Ticker.Value.BuildProviders()
		if err != nil {
			log.Fatalf("failed to build ticker providers: %v", err)
		}
		svc.TickerConfig = c.Ticker.Value
		svc.TickerProviders = providers
		svc.TickerTTL = make(map[string]time.Duration, len(providers))
		for name, providerCfg := range c.Ticker.Value.Providers {
			if provider, ok := providers[name]; ok {
				svc.TickerTTL[name] = ttl.TickerTTL(provider.Source(), providerCfg.TTL)
			}
		}
	}

	return svc
}

// Clock anchors every timestamp the handlers emit.
func (s *ServiceContext) Clock() time.Time {
	return time.Now().In(upstream.IST)
}

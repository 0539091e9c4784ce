package logic

import (
	"context"
	"net/http"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"optionhub-api/internal/apierr"
	"optionhub-api/internal/cache"
	"optionhub-api/internal/svc"
	"optionhub-api/internal/types"
	"optionhub-api/pkg/ticker"
	"optionhub-api/pkg/upstream"
)

type TickerLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTickerLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TickerLogic {
	return &TickerLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Ticker serves the metals feed from the selected provider, cached per
// provider.
func (l *TickerLogic) Ticker(req *types.TickerRequest) (*types.TickerResponse, error) {
	name, provider, err := l.selectProvider(req.Provider)
	if err != nil {
		return nil, err
	}

	force := req.Force || req.Refresh
	items, fetchedAt, err := l.svcCtx.TickerCache.GetOrFetch(
		cache.TickerKey(name),
		l.svcCtx.TickerTTL[name],
		force,
		func() ([]ticker.Item, error) {
			return provider.Fetch(l.ctx)
		},
	)
	if err != nil {
		return nil, apierr.FromUpstream(err)
	}
	if len(items) == 0 {
		return nil, apierr.New(http.StatusBadGateway, emptyFeedDetail(provider.Source()))
	}

	now := l.svcCtx.Clock()
	return &types.TickerResponse{
		Source:      provider.Source(),
		LastUpdated: fetchedAt.In(upstream.IST).Format(upstream.TimestampLayout),
		AgeMS:       now.Sub(fetchedAt).Milliseconds(),
		Items:       items,
	}, nil
}

// selectProvider resolves the provider by request name, then configured
// default; "auto" (or nothing) prefers the first configured provider with
// metals_api winning ties.
func (l *TickerLogic) selectProvider(requested string) (string, ticker.Provider, error) {
	providers := l.svcCtx.TickerProviders
	if len(providers) == 0 {
		return "", nil, apierr.New(http.StatusServiceUnavailable, "No ticker API key configured")
	}

	name := strings.ToLower(strings.TrimSpace(requested))
	if name == "" && l.svcCtx.TickerConfig != nil {
		name = l.svcCtx.TickerConfig.Default
	}

	if name != "" && name != "auto" {
		provider, ok := providers[name]
		if !ok {
			return "", nil, apierr.New(http.StatusNotFound, "Unknown ticker provider")
		}
		if !provider.Configured() {
			return "", nil, apierr.New(http.StatusServiceUnavailable, missingKeyDetail(provider.Source()))
		}
		return name, provider, nil
	}

	if name, provider := l.pickConfigured("metals_api"); provider != nil {
		return name, provider, nil
	}
	if name, provider := l.pickConfigured("tradingeconomics"); provider != nil {
		return name, provider, nil
	}
	for name, provider := range providers {
		if provider.Configured() {
			return name, provider, nil
		}
	}
	return "", nil, apierr.New(http.StatusServiceUnavailable, "No ticker API key configured")
}

func (l *TickerLogic) pickConfigured(source string) (string, ticker.Provider) {
	for name, provider := range l.svcCtx.TickerProviders {
		if provider.Source() == source && provider.Configured() {
			return name, provider
		}
	}
	return "", nil
}

func missingKeyDetail(source string) string {
	switch source {
	case "metals_api":
		return "METALS_API_KEY not set"
	case "tradingeconomics":
		return "TE_API_KEY not set"
	default:
		return "No ticker API key configured"
	}
}

func emptyFeedDetail(source string) string {
	switch source {
	case "metals_api":
		return "Metals API returned no items"
	default:
		return "TradingEconomics returned no gold/silver rows"
	}
}

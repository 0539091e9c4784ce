package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"optionhub-api/internal/apierr"
	"optionhub-api/internal/chains"
	"optionhub-api/internal/svc"
	"optionhub-api/internal/types"
	"optionhub-api/pkg/upstream"
)

type RefreshLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewRefreshLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RefreshLogic {
	return &RefreshLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Refresh forces a re-fetch and re-store of one chain's cache entry.
func (l *RefreshLogic) Refresh(req *types.RefreshRequest) (*types.RefreshResponse, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	entry, ok := l.svcCtx.Symbols.Load().Lookup(symbol)
	if !ok {
		return nil, apierr.ErrUnknownSymbol
	}

	strikeStep := req.StrikeStep
	if strikeStep < 0 {
		strikeStep = l.svcCtx.Config.DefaultStrikeStep
	}

	expiry := strings.TrimSpace(req.Expiry)
	if expiry == "" {
		expiry = resolveExpiry(l.ctx, l.svcCtx, entry.Source, symbol, entry.Expiries)
	}

	result, err := l.svcCtx.Chains.Rows(l.ctx, chains.Request{
		Source:     entry.Source,
		Symbol:     symbol,
		Expiry:     expiry,
		StrikeStep: strikeStep,
		AllStrikes: req.AllStrikes,
		Force:      true,
	})
	if err != nil {
		return nil, err
	}

	return &types.RefreshResponse{
		Symbol:      symbol,
		Expiry:      expiry,
		Count:       len(result.Rows),
		LastUpdated: result.FetchedAt.In(upstream.IST).Format(upstream.TimestampLayout),
	}, nil
}

package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"optionhub-api/internal/apierr"
	"optionhub-api/internal/svc"
	"optionhub-api/internal/types"
)

type ExpiriesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewExpiriesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ExpiriesLogic {
	return &ExpiriesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Expiries lists upcoming expiries for a symbol, falling back to the
// configured list when the live one is empty or unreachable.
func (l *ExpiriesLogic) Expiries(req *types.ExpiriesRequest) (*types.ExpiriesResponse, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	entry, ok := l.svcCtx.Symbols.Load().Lookup(symbol)
	if !ok {
		return nil, apierr.ErrUnknownSymbol
	}

	expiries := l.svcCtx.Chains.Expiries(l.ctx, entry.Source, symbol)
	if len(expiries) == 0 {
		expiries = entry.Expiries
	}
	if expiries == nil {
		expiries = []string{}
	}

	return &types.ExpiriesResponse{
		Symbol:   symbol,
		Source:   entry.Source,
		Expiries: expiries,
	}, nil
}

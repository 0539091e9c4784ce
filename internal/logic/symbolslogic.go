package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"optionhub-api/internal/svc"
	"optionhub-api/internal/types"
)

type SymbolsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSymbolsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SymbolsLogic {
	return &SymbolsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *SymbolsLogic) Symbols() (*types.SymbolsResponse, error) {
	table := l.svcCtx.Symbols.Load()
	return &types.SymbolsResponse{
		Symbols: table.List(),
		Sources: table.Sources(),
	}, nil
}

package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"optionhub-api/internal/svc"
	"optionhub-api/internal/types"
	"optionhub-api/pkg/upstream"
)

type HealthLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHealthLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthLogic {
	return &HealthLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *HealthLogic) Health() (*types.HealthResponse, error) {
	return &types.HealthResponse{
		Status: "ok",
		Time:   l.svcCtx.Clock().Format(upstream.TimestampLayout),
	}, nil
}

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"optionhub-api/internal/svc"
)

// RegisterHandlers wires the HTTP surface. Health stays open; everything else
// sits behind the token middleware.
func RegisterHandlers(server *rest.Server, svcCtx *svc.ServiceContext) {
	server.AddRoutes([]rest.Route{
		{
			Method:  http.MethodGet,
			Path:    "/api/health",
			Handler: HealthHandler(svcCtx),
		},
	})

	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{svcCtx.Auth.Handle},
			[]rest.Route{
				{
					Method:  http.MethodGet,
					Path:    "/api/symbols",
					Handler: SymbolsHandler(svcCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/api/expiries",
					Handler: ExpiriesHandler(svcCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/api/option-chain",
					Handler: OptionChainHandler(svcCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/api/option-chain-lite",
					Handler: OptionChainLiteHandler(svcCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/api/option-chain-pretty",
					Handler: OptionChainPrettyHandler(svcCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/api/option-chain-chat",
					Handler: OptionChainChatHandler(svcCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/api/ticker",
					Handler: TickerHandler(svcCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/api/refresh",
					Handler: RefreshHandler(svcCtx),
				},
			}...,
		),
	)
}

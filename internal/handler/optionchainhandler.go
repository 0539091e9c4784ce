package handler

import (
	"net/http"
	"strings"

	"github.com/zeromicro/go-zero/rest/httpx"

	"optionhub-api/internal/logic"
	"optionhub-api/internal/render"
	"optionhub-api/internal/svc"
	"optionhub-api/internal/types"
)

// OptionChainHandler serves the canonical pipeline output in the requested
// encoding.
func OptionChainHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChainRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		serveChain(w, r, svcCtx, &req)
	}
}

// OptionChainLiteHandler is the option-chain endpoint with lite rows fixed.
func OptionChainLiteHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChainRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		req.Lite = true
		serveChain(w, r, svcCtx, &req)
	}
}

// OptionChainPrettyHandler is the option-chain endpoint with indented JSON
// fixed.
func OptionChainPrettyHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChainRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		req.Pretty = true
		req.Lite = false
		serveChain(w, r, svcCtx, &req)
	}
}

// OptionChainChatHandler fixes chat-friendly defaults: lite rows, an ATM
// window of 60, and ndjson output.
func OptionChainChatHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChainRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		if r.URL.Query().Get("format") == "" {
			req.Format = "ndjson"
		}
		if req.Window < 0 {
			req.Window = 60
		}
		req.Mode = "atm_window"
		req.Lite = true
		req.Pretty = true
		serveChain(w, r, svcCtx, &req)
	}
}

func serveChain(w http.ResponseWriter, r *http.Request, svcCtx *svc.ServiceContext, req *types.ChainRequest) {
	l := logic.NewOptionChainLogic(r.Context(), svcCtx)
	resp, err := l.OptionChain(req)
	if err != nil {
		httpx.ErrorCtx(r.Context(), w, err)
		return
	}

	var renderErr error
	switch strings.ToLower(req.Format) {
	case "csv":
		renderErr = render.WriteCSV(w, resp.Headers, resp.Records, resp.Filename, resp.Payload.LastUpdated, req.Download)
	case "ndjson":
		renderErr = render.WriteNDJSON(w, resp.Payload.Meta(), resp.RowDocs)
	case "lines":
		renderErr = render.WriteLines(w, resp.Payload.Meta(), resp.RowDocs)
	case "text", "prettytext", "plain":
		renderErr = render.WriteText(w, resp.Payload)
	default:
		renderErr = render.WriteJSON(w, resp.Payload, req.Pretty)
	}
	if renderErr != nil {
		logxError(r, renderErr)
	}
}

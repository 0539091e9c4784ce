package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"optionhub-api/internal/apierr"
	"optionhub-api/internal/chains"
	"optionhub-api/internal/svc"
	"optionhub-api/internal/types"
	"optionhub-api/pkg/chain"
	"optionhub-api/pkg/upstream"
)

// ChainResult is the pipeline output in every shape the encodings need: the
// JSON payload, the per-row documents for ndjson/lines, and the CSV cells.
type ChainResult struct {
	Payload  types.ChainResponse
	RowDocs  []any
	Headers  []string
	Records  [][]string
	Filename string
}

type OptionChainLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewOptionChainLogic(ctx context.Context, svcCtx *svc.ServiceContext) *OptionChainLogic {
	return &OptionChainLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *OptionChainLogic) OptionChain(req *types.ChainRequest) (*ChainResult, error) {
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
		Force:      req.Force || req.Refresh,
	})
	if err != nil {
		return nil, err
	}

	now := l.svcCtx.Clock()
	fetchedAt := result.FetchedAt.In(upstream.IST)
	lastUpdated := fetchedAt.Format(upstream.TimestampLayout)

	rows := result.Rows

	var underlying *float64
	if v, ok := chain.UnderlyingValue(rows); ok {
		underlying = &v
	}

	mode := req.Mode
	if mode == "" && req.Window >= 0 {
		mode = "atm_window"
	}
	if mode == "atm_window" {
		window := req.Window
		if window < 0 {
			window = 0
		}
		rows = chain.ATMWindow(rows, underlying, window)
	}
	rows = chain.Paginate(rows, req.Offset, req.Limit)

	res := &ChainResult{
		Payload: types.ChainResponse{
			Symbol:      symbol,
			Expiry:      expiry,
			LastUpdated: lastUpdated,
			ServerTS:    now.Format(upstream.TimestampLayout),
			SourceTS:    lastUpdated,
			AgeMS:       now.Sub(fetchedAt).Milliseconds(),
			Underlying:  underlying,
			Count:       len(rows),
		},
		Filename: csvFilename(symbol, expiry),
	}

	full := make([]chain.FullRow, len(rows))
	for i, row := range rows {
		full[i] = chain.ToFull(row)
	}

	if req.Lite {
		lite := make([]chain.LiteRow, len(full))
		docs := make([]any, len(full))
		records := make([][]string, len(full))
		for i, row := range full {
			lite[i] = chain.ToLite(row)
			docs[i] = lite[i]
			records[i] = lite[i].Values()
		}
		res.Payload.Rows = lite
		res.RowDocs = docs
		res.Headers = chain.LiteHeaders
		res.Records = records
		return res, nil
	}

	docs := make([]any, len(full))
	records := make([][]string, len(full))
	for i, row := range full {
		docs[i] = row
		records[i] = row.Values()
	}
	res.Payload.Rows = full
	res.RowDocs = docs
	res.Headers = chain.FullHeaders
	res.Records = records
	return res, nil
}

// resolveExpiry picks the expiry to serve when the request omitted one: the
// nearest live expiry from the source, else the first configured one.
func resolveExpiry(ctx context.Context, svcCtx *svc.ServiceContext, source, symbol string, configured []string) string {
	if live := svcCtx.Chains.Expiries(ctx, source, symbol); len(live) > 0 {
		return live[0]
	}
	if len(configured) > 0 {
		return configured[0]
	}
	return ""
}

func csvFilename(symbol, expiry string) string {
	if expiry == "" {
		expiry = "LATEST"
	}
	return fmt.Sprintf("%s_%s_option_chain.csv", symbol, expiry)
}

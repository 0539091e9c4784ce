// Command fetch is a one-shot downloader: it pulls a single commodity option
// chain and writes it to a CSV file, for cron jobs and spreadsheets.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"optionhub-api/pkg/chain"
	"optionhub-api/pkg/upstream/mcx"
)

// headers is the quote-only column set: the served projection minus the
// derived previous-close and percent-change columns.
var headers = []string{
	"CALL_OI_Lots",
	"CALL_Chng_in_OI",
	"CALL_Volume",
	"CALL_Abs_Chng",
	"CALL_Bid_Qty",
	"CALL_Bid_Price",
	"CALL_Ask_Price",
	"CALL_Ask_Qty",
	"CALL_LTP",
	"Strike_Price",
	"PUT_LTP",
	"PUT_Bid_Qty",
	"PUT_Bid_Price",
	"PUT_Ask_Price",
	"PUT_Ask_Qty",
	"PUT_Abs_Chng",
	"PUT_Volume",
	"PUT_Chng_in_OI",
	"PUT_OI_Lots",
}

func values(r chain.Row) []string {
	return []string{
		r.CE.OpenInterest.String(),
		r.CE.ChangeInOI.String(),
		r.CE.Volume.String(),
		r.CE.AbsoluteChange.String(),
		r.CE.BidQty.String(),
		r.CE.BidPrice.String(),
		r.CE.AskPrice.String(),
		r.CE.AskQty.String(),
		r.CE.LTP.String(),
		r.Strike.String(),
		r.PE.LTP.String(),
		r.PE.BidQty.String(),
		r.PE.BidPrice.String(),
		r.PE.AskPrice.String(),
		r.PE.AskQty.String(),
		r.PE.AbsoluteChange.String(),
		r.PE.Volume.String(),
		r.PE.ChangeInOI.String(),
		r.PE.OpenInterest.String(),
	}
}

func main() {
	commodity := flag.String("commodity", "SILVERM", "e.g. SILVERM")
	expiry := flag.String("expiry", "18FEB2026", "e.g. 18FEB2026")
	outdir := flag.String("outdir", ".", "output directory for CSV files")
	outfile := flag.String("outfile", "option_chain.csv", "CSV filename to write (overwritten each run)")
	strikeStep := flag.Float64("strike-step", 5000, "keep only strikes in multiples of this step")
	allStrikes := flag.Bool("all-strikes", false, "do not filter strikes (overrides -strike-step)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall fetch timeout")
	flag.Parse()

	if err := os.MkdirAll(*outdir, 0o755); err != nil {
		log.Fatalf("create outdir: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := mcx.NewClient()
	records, err := client.OptionChain(ctx, *commodity, *expiry)
	if err != nil {
		log.Fatalf("fetch option chain: %v", err)
	}

	rows := mcx.Rows(mcx.NormalizeRecords(records))
	if !*allStrikes {
		rows = chain.FilterRoundStrikes(rows, *strikeStep)
	}

	path := filepath.Join(*outdir, *outfile)
	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	defer file.Close()

	// An empty chain leaves an empty file, not a lonely header row.
	if len(rows) > 0 {
		writer := csv.NewWriter(file)
		if err := writer.Write(headers); err != nil {
			log.Fatalf("write csv: %v", err)
		}
		for _, row := range rows {
			if err := writer.Write(values(row)); err != nil {
				log.Fatalf("write csv: %v", err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			log.Fatalf("write csv: %v", err)
		}
	}
	log.Printf("Saved CSV: %s (%d rows)", path, len(rows))
}

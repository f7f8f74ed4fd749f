package summary

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"newsgen/internal/types"

	"github.com/shopspring/decimal"
)

// FileName is the summary report written next to the batch files.
const FileName = "news_summary.csv"

// Row aggregates the records of one symbol.
type Row struct {
	Symbol  string
	Records int
	// Shared counts the headlines this symbol shares with at least one other symbol.
	Shared         int
	Sentiments     map[string]int
	MeanImpact     decimal.Decimal
	MeanConfidence decimal.Decimal
}

// Report is the per-symbol breakdown of a run plus its run-wide headline counts.
type Report struct {
	Rows []Row
	// Headlines counts distinct headline ids across the run.
	Headlines int
	// Shared counts distinct headlines that touch two or more symbols.
	Shared int
}

type aggRow struct {
	records    int
	headlines  map[string]struct{}
	sentiments map[string]int
	impact     decimal.Decimal
	confidence decimal.Decimal
}

// Summarize aggregates records per symbol, sorted by symbol.
func Summarize(records []types.NewsRecord) Report {
	symbolsPerHeadline := map[string]map[string]struct{}{}
	aggs := map[string]*aggRow{}
	for _, r := range records {
		syms := symbolsPerHeadline[r.HeadlineID]
		if syms == nil {
			syms = map[string]struct{}{}
			symbolsPerHeadline[r.HeadlineID] = syms
		}
		syms[r.StockSymbol] = struct{}{}

		a := aggs[r.StockSymbol]
		if a == nil {
			a = &aggRow{headlines: map[string]struct{}{}, sentiments: map[string]int{}}
			aggs[r.StockSymbol] = a
		}
		a.records++
		a.headlines[r.HeadlineID] = struct{}{}
		a.sentiments[r.Sentiment]++
		a.impact = a.impact.Add(decimal.NewFromFloat(r.ImpactScore))
		a.confidence = a.confidence.Add(decimal.NewFromFloat(r.ConfidenceScore))
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	shared := 0
	for _, syms := range symbolsPerHeadline {
		if len(syms) > 1 {
			shared++
		}
	}

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		a := aggs[k]
		n := decimal.NewFromInt(int64(a.records))
		symShared := 0
		for id := range a.headlines {
			if len(symbolsPerHeadline[id]) > 1 {
				symShared++
			}
		}
		rows = append(rows, Row{
			Symbol:         k,
			Records:        a.records,
			Shared:         symShared,
			Sentiments:     a.sentiments,
			MeanImpact:     a.impact.DivRound(n, 3),
			MeanConfidence: a.confidence.DivRound(n, 2),
		})
	}
	return Report{Rows: rows, Headlines: len(symbolsPerHeadline), Shared: shared}
}

// SentimentTotals counts records per sentiment across all symbols.
func SentimentTotals(rows []Row) map[string]int {
	totals := map[string]int{}
	for _, r := range rows {
		for s, n := range r.Sentiments {
			totals[s] += n
		}
	}
	return totals
}

// WriteCSV writes rep to dir/news_summary.csv with one column per sentiment and a TOTAL row.
// The headlines column is only filled on the TOTAL row, the means only on symbol rows.
func WriteCSV(dir string, rep Report) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(dir, FileName)
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			path, err = "", cerr
		}
	}()

	totals := SentimentTotals(rep.Rows)
	sentiments := make([]string, 0, len(totals))
	for s := range totals {
		sentiments = append(sentiments, s)
	}
	sort.Strings(sentiments)

	w := csv.NewWriter(out)
	headers := []string{"symbol", "records", "headlines", "shared_headlines"}
	for _, s := range sentiments {
		headers = append(headers, "sentiment_"+s)
	}
	headers = append(headers, "mean_impact", "mean_confidence")
	if err := w.Write(headers); err != nil {
		return "", err
	}

	var totalRecords int
	for _, r := range rep.Rows {
		rec := []string{r.Symbol, strconv.Itoa(r.Records), "", strconv.Itoa(r.Shared)}
		for _, s := range sentiments {
			rec = append(rec, strconv.Itoa(r.Sentiments[s]))
		}
		rec = append(rec, r.MeanImpact.StringFixed(3), r.MeanConfidence.StringFixed(2))
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalRecords += r.Records
	}

	total := []string{"TOTAL", strconv.Itoa(totalRecords), strconv.Itoa(rep.Headlines), strconv.Itoa(rep.Shared)}
	for _, s := range sentiments {
		total = append(total, strconv.Itoa(totals[s]))
	}
	total = append(total, "", "")
	if err := w.Write(total); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush summary: %w", err)
	}
	return outPath, nil
}

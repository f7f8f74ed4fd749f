package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"newsgen/internal/interfaces"
	"newsgen/internal/logger"
	"newsgen/internal/runlog"
	"newsgen/internal/store"
	"newsgen/internal/summary"
)

// Params carries what a run needs besides its generator.
type Params struct {
	RunID     string
	Seed      uint64
	OutputDir string
	News      *store.NewsParams
}

// Result reports what a run wrote.
type Result struct {
	Records     int
	Files       []string
	SummaryPath string
}

// Run generates all records, writes them in batches and journals the run.
func Run(ctx context.Context, gen interfaces.Generator, w interfaces.BatchWriter, p Params) (*Result, error) {
	op := logger.StartOperation(ctx, "runner.Run",
		"run_id", p.RunID,
		"variant", string(gen.Variant()),
		"seed", p.Seed,
	)
	ctx = op.GetContext()

	records, err := gen.Generate(ctx)
	if err != nil {
		op.EndWithError(err)
		return nil, fmt.Errorf("generate: %w", err)
	}

	files, err := w.Write(ctx, records, p.OutputDir, p.News.OutputFormat, p.News.BatchSize)
	if err != nil {
		op.EndWithError(err, "files_written", len(files))
		return nil, err
	}

	res := &Result{Records: len(records), Files: files}

	rep := summary.Summarize(records)
	logger.Info(ctx, "Sentiment distribution",
		"run_id", p.RunID,
		"symbols", len(rep.Rows),
		"headlines", rep.Headlines,
		"shared_headlines", rep.Shared,
		"sentiments", formatTotals(summary.SentimentTotals(rep.Rows)),
	)
	if p.News.WriteSummary {
		path, err := summary.WriteCSV(p.OutputDir, rep)
		if err != nil {
			op.EndWithError(err)
			return nil, fmt.Errorf("write summary: %w", err)
		}
		res.SummaryPath = path
		logger.Info(ctx, "Summary written", "path", path)
	}

	// The journal is informational; a failure here does not fail the run
	if err := runlog.Append(p.OutputDir, runlog.Entry{
		RunID:   p.RunID,
		Variant: string(gen.Variant()),
		Seed:    p.Seed,
		Records: len(records),
		Format:  strings.ToLower(p.News.OutputFormat),
		Files:   files,
		Summary: res.SummaryPath,
	}); err != nil {
		logger.Warn(ctx, "Failed to append run journal", "error", err)
	}

	op.End("records", len(records), "files", len(files))
	return res, nil
}

// formatTotals renders counts as "negative=3 neutral=5 positive=9".
func formatTotals(totals map[string]int) string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, totals[k])
	}
	return strings.Join(parts, " ")
}

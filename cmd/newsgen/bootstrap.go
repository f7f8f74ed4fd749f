package main

import (
	"context"
	"fmt"
	"os"

	"newsgen/internal/generator"
	"newsgen/internal/generator/generatorobs"
	"newsgen/internal/interfaces"
	"newsgen/internal/logger"
	"newsgen/internal/output"
	"newsgen/internal/output/outputobs"
	"newsgen/internal/store"
	"newsgen/internal/symbols"
	"newsgen/internal/trace"
	"newsgen/internal/types"

	"github.com/joho/godotenv"
)

const (
	defaultConfigPath = "config/configuration.yaml"
	defaultOutputDir  = "output"
)

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Tracing is optional; a broken exporter only costs the spans
	if err := trace.Init(string(types.VariantMulti)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig loads the multi-symbol configuration from NEWSGEN_CONFIG or the default path
func loadConfig(ctx context.Context) (*store.MultiConfig, error) {
	path := store.PathFromEnv(store.EnvConfigPath, defaultConfigPath)
	cfg, err := store.LoadMultiConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	logger.Info(ctx, "Config loaded",
		"path", path,
		"num_news", cfg.NumNews,
		"symbols_range", cfg.SymbolsRange,
		"output_format", cfg.OutputFormat,
	)
	return cfg, nil
}

// initializeGenerator loads the symbol pool and returns the generator with observability
func initializeGenerator(ctx context.Context, cfg *store.MultiConfig, seed uint64) (interfaces.Generator, error) {
	r := generator.NewRand(seed)

	pool, err := symbols.LoadPool(r, cfg.HotSymbolsFile, cfg.OtherSymbolsFile, cfg.SymbolsRange)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load symbol pool", err,
			"hot", cfg.HotSymbolsFile,
			"other", cfg.OtherSymbolsFile,
		)
		return nil, err
	}

	// An explicit pool date range in the config wins over the hot table's first row
	dates := pool.Dates
	if cfg.HasPoolDates() {
		if dates, err = cfg.PoolDates(); err != nil {
			return nil, err
		}
	}

	hot, other := symbols.SplitCounts(cfg.SymbolsRange)
	logger.Info(ctx, "Symbol pool loaded",
		"symbols", len(pool.Symbols),
		"hot", hot,
		"other", other,
		"start_date", dates.Start.Format(types.DateLayout),
		"end_date", dates.End.Format(types.DateLayout),
	)

	return generatorobs.Wrap(generator.NewMultiSymbol(cfg, pool.Symbols, dates, r)), nil
}

// initializeWriter returns the batch writer with observability
func initializeWriter(runID string) interfaces.BatchWriter {
	return outputobs.Wrap(output.NewWriter(output.WithRunID(runID)))
}

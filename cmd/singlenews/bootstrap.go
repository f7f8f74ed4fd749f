package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"newsgen/internal/generator"
	"newsgen/internal/generator/generatorobs"
	"newsgen/internal/interfaces"
	"newsgen/internal/logger"
	"newsgen/internal/output"
	"newsgen/internal/output/outputobs"
	"newsgen/internal/store"
	"newsgen/internal/trace"
	"newsgen/internal/types"

	"github.com/joho/godotenv"
)

const defaultConfigPath = "config/single_symbol_config.yaml"

var defaultOutputDir = filepath.Join("output", "single_symbol")

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(string(types.VariantSingle)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig loads the single-symbol configuration from NEWSGEN_CONFIG or the default path
func loadConfig(ctx context.Context) (*store.SingleConfig, error) {
	path := store.PathFromEnv(store.EnvConfigPath, defaultConfigPath)
	cfg, err := store.LoadSingleConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	logger.Info(ctx, "Config loaded",
		"path", path,
		"symbol", cfg.SymbolDetails.Symbol,
		"date", cfg.Date,
		"no_of_days", *cfg.NoOfDays,
		"num_news", cfg.NumNews,
		"output_format", cfg.OutputFormat,
	)
	return cfg, nil
}

func initializeGenerator(cfg *store.SingleConfig, seed uint64) (interfaces.Generator, error) {
	gen, err := generator.NewSingleSymbol(cfg, generator.NewRand(seed))
	if err != nil {
		return nil, err
	}
	return generatorobs.Wrap(gen), nil
}

func initializeWriter(runID string) interfaces.BatchWriter {
	return outputobs.Wrap(output.NewWriter(output.WithRunID(runID)))
}

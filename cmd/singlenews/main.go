package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"newsgen/internal/logger"
	"newsgen/internal/runner"
	"newsgen/internal/store"
	"newsgen/internal/trace"

	"github.com/google/uuid"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = trace.Shutdown(shutdownCtx)
	}()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return 1
	}

	seed, err := store.ResolveSeed(cfg.Seed)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to resolve seed", err)
		return 1
	}
	runID := uuid.NewString()
	logger.Info(ctx, "Starting single-symbol news generation",
		"run_id", runID,
		"seed", seed,
		"symbol", cfg.SymbolDetails.Symbol,
	)

	gen, err := initializeGenerator(cfg, seed)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to create generator", err)
		return 1
	}

	res, err := runner.Run(ctx, gen, initializeWriter(runID), runner.Params{
		RunID:     runID,
		Seed:      seed,
		OutputDir: store.PathFromEnv(store.EnvOutputDir, defaultOutputDir),
		News:      &cfg.NewsParams,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "News generation run failed", err, "run_id", runID)
		return 1
	}

	logger.Info(ctx, "News generation run completed",
		"run_id", runID,
		"records", res.Records,
		"files", len(res.Files),
	)
	return 0
}

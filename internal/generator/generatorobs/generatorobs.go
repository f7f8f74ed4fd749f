package generatorobs

import (
	"context"
	"time"

	"newsgen/internal/interfaces"
	"newsgen/internal/logger"
	"newsgen/internal/trace"
	"newsgen/internal/types"
)

type observableGenerator struct {
	generator interfaces.Generator
}

var _ interfaces.Generator = (*observableGenerator)(nil)

func Wrap(gen interfaces.Generator) interfaces.Generator {
	return &observableGenerator{
		generator: gen,
	}
}

func (og *observableGenerator) Variant() types.Variant {
	return og.generator.Variant()
}

func (og *observableGenerator) Generate(ctx context.Context) ([]types.NewsRecord, error) {
	ctx, span := trace.StartSpan(ctx, "generator.Generate")
	defer span.End()

	start := time.Now()
	variant := string(og.generator.Variant())

	logger.InfoSkip(ctx, 1, "Generating news records",
		"variant", variant,
	)

	records, err := og.generator.Generate(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "News generation failed", err,
			"variant", variant,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "News generation completed",
		"variant", variant,
		"records", len(records),
		"headlines", countHeadlines(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return records, nil
}

func countHeadlines(records []types.NewsRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.HeadlineID] = struct{}{}
	}
	return len(seen)
}

package outputobs

import (
	"context"
	"time"

	"newsgen/internal/interfaces"
	"newsgen/internal/logger"
	"newsgen/internal/trace"
	"newsgen/internal/types"
)

type observableWriter struct {
	writer interfaces.BatchWriter
}

var _ interfaces.BatchWriter = (*observableWriter)(nil)

func Wrap(w interfaces.BatchWriter) interfaces.BatchWriter {
	return &observableWriter{
		writer: w,
	}
}

func (ow *observableWriter) Write(ctx context.Context, records []types.NewsRecord, dir, format string, batchSize int) ([]string, error) {
	ctx, span := trace.StartSpan(ctx, "output.Write")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Writing news batches",
		"records", len(records),
		"dir", dir,
		"format", format,
		"batch_size", batchSize,
	)

	paths, err := ow.writer.Write(ctx, records, dir, format, batchSize)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Writing news batches failed", err,
			"dir", dir,
			"format", format,
			"files_written", len(paths),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return paths, err
	}

	logger.InfoSkip(ctx, 1, "News batches written",
		"dir", dir,
		"format", format,
		"files", len(paths),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return paths, nil
}

package interfaces

import (
	"context"

	"newsgen/internal/types"
)

// BatchWriter partitions records into batches and writes one file per batch.
type BatchWriter interface {
	Write(ctx context.Context, records []types.NewsRecord, dir, format string, batchSize int) (paths []string, err error)
}

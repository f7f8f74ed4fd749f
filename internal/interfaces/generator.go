package interfaces

import (
	"context"

	"newsgen/internal/types"
)

// Generator produces the full record sequence of one run.
type Generator interface {
	Generate(ctx context.Context) ([]types.NewsRecord, error)
	Variant() types.Variant
}

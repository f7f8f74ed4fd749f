package generator

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"newsgen/internal/interfaces"
	"newsgen/internal/store"
	"newsgen/internal/types"
)

// SingleSymbol generates headlines for one instrument over a window ending on DATE.
type SingleSymbol struct {
	cfg  *store.SingleConfig
	base time.Time
	rand *rand.Rand
}

var _ interfaces.Generator = (*SingleSymbol)(nil)

// NewSingleSymbol creates a single-symbol generator. cfg must have passed validation.
func NewSingleSymbol(cfg *store.SingleConfig, r *rand.Rand) (*SingleSymbol, error) {
	base, err := cfg.BaseDate()
	if err != nil {
		return nil, err
	}
	return &SingleSymbol{cfg: cfg, base: base, rand: r}, nil
}

func (g *SingleSymbol) Variant() types.Variant { return types.VariantSingle }

// Generate produces NUM_NEWS records sorted by (date, time).
func (g *SingleSymbol) Generate(ctx context.Context) ([]types.NewsRecord, error) {
	r := g.rand
	details := g.cfg.SymbolDetails
	window := store.DefaultNoOfDays
	if g.cfg.NoOfDays != nil {
		window = max(*g.cfg.NoOfDays, 1)
	}
	records := make([]types.NewsRecord, 0, g.cfg.NumNews)

	for n := 1; n <= g.cfg.NumNews; n++ {
		h := drawHeadline(r, n, &g.cfg.NewsParams)
		date := g.base.AddDate(0, 0, -r.IntN(window)).Format(types.DateLayout)

		records = append(records, types.NewsRecord{
			Date:            date,
			Time:            randomTime(r),
			StockSymbol:     details.Symbol,
			StockExchange:   details.Exchange,
			Sector:          details.Sector,
			HeadlineID:      h.id,
			Category:        h.category,
			Source:          h.source,
			Sentiment:       h.sentiment,
			ImpactScore:     h.impact,
			ConfidenceScore: h.confidence,
		})
	}

	SortByTimestamp(records)
	return records, nil
}

// SortByTimestamp orders records by date then time, keeping generation order for ties.
func SortByTimestamp(records []types.NewsRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].Time < records[j].Time
	})
}

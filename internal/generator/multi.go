package generator

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"newsgen/internal/interfaces"
	"newsgen/internal/store"
	"newsgen/internal/types"
)

// MultiSymbol spreads headlines over a symbol pool, sharing some across several symbols.
type MultiSymbol struct {
	cfg       *store.MultiConfig
	symbols   []string
	dates     types.DateRange
	exchanges []string
	rand      *rand.Rand
}

var _ interfaces.Generator = (*MultiSymbol)(nil)

// NewMultiSymbol creates a multi-symbol generator over symbols, dated within dates.
// cfg must have passed validation.
func NewMultiSymbol(cfg *store.MultiConfig, symbols []string, dates types.DateRange, r *rand.Rand) *MultiSymbol {
	return &MultiSymbol{
		cfg:       cfg,
		symbols:   symbols,
		dates:     dates,
		exchanges: cfg.ExchangeCodes(),
		rand:      r,
	}
}

func (g *MultiSymbol) Variant() types.Variant { return types.VariantMulti }

// Generate produces NUM_NEWS headlines in generation order.
func (g *MultiSymbol) Generate(ctx context.Context) ([]types.NewsRecord, error) {
	if len(g.symbols) == 0 {
		return nil, errors.New("symbol pool is empty")
	}

	r := g.rand
	deltaDays := g.dates.Days()
	records := make([]types.NewsRecord, 0, g.cfg.NumNews)

	for n := 1; n <= g.cfg.NumNews; n++ {
		var chosen []string
		if r.Float64() < *g.cfg.SharedHeadlineProbability {
			count := intBetween(r, 2, *g.cfg.MaxSymbolsPerSharedHeadline)
			chosen = sample(r, g.symbols, count)
		} else {
			chosen = []string{choice(r, g.symbols)}
		}

		h := drawHeadline(r, n, &g.cfg.NewsParams)
		exchange := choice(r, g.exchanges)
		sector := choice(r, g.cfg.RefSectors)
		date := g.dates.Start.AddDate(0, 0, r.IntN(deltaDays+1)).Format(types.DateLayout)
		tod := randomTime(r)

		for _, sym := range chosen {
			affected := sample(r, others(g.symbols, sym), r.IntN(*g.cfg.MaxAffectedSymbols+1))

			records = append(records, types.NewsRecord{
				Date:            date,
				Time:            tod,
				StockSymbol:     sym,
				StockExchange:   exchange,
				Sector:          sector,
				HeadlineID:      h.id,
				Category:        h.category,
				Source:          h.source,
				Sentiment:       h.sentiment,
				ImpactScore:     h.impact,
				ConfidenceScore: h.confidence,
				AffectedSymbols: strings.Join(affected, ";"),
			})
		}
	}

	return records, nil
}

// others returns the pool without every occurrence of sym.
func others(pool []string, sym string) []string {
	out := make([]string, 0, len(pool))
	for _, s := range pool {
		if s != sym {
			out = append(out, s)
		}
	}
	return out
}

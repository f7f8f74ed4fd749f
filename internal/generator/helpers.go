package generator

import (
	"fmt"
	"math/rand/v2"

	"newsgen/internal/sentiment"
	"newsgen/internal/store"
	"newsgen/internal/types"

	"github.com/shopspring/decimal"
)

const (
	impactPlaces     = 3
	confidencePlaces = 2

	firstHour = 9
	lastHour  = 16
)

// headline holds the attributes every record of one headline shares.
type headline struct {
	id         string
	sentiment  string
	impact     float64
	confidence float64
	category   string
	source     string
}

// drawHeadline draws the variant-independent headline attributes, in a fixed order.
func drawHeadline(r *rand.Rand, n int, p *store.NewsParams) headline {
	return headline{
		id:         headlineID(n),
		sentiment:  sentiment.Pick(r, p.NewsSentiments),
		impact:     uniformRounded(r, *p.ImpactScoreRange, impactPlaces),
		confidence: uniformRounded(r, *p.ConfidenceScoreRange, confidencePlaces),
		category:   choice(r, p.NewsCategories),
		source:     choice(r, p.NewsSources),
	}
}

func headlineID(n int) string {
	return fmt.Sprintf("H%04d", n)
}

// uniformRounded draws uniformly from rng and rounds half away from zero to places decimals.
func uniformRounded(r *rand.Rand, rng types.Range, places int32) float64 {
	v := rng.Min() + (rng.Max()-rng.Min())*r.Float64()
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// randomTime returns HH:MM:SS with the hour inside trading hours.
func randomTime(r *rand.Rand) string {
	hour := firstHour + r.IntN(lastHour-firstHour+1)
	minute := r.IntN(60)
	second := r.IntN(60)
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second)
}

func choice(r *rand.Rand, items []string) string {
	return items[r.IntN(len(items))]
}

// sample returns k distinct elements of items, chosen without replacement.
// items is not modified; k is capped at len(items).
func sample(r *rand.Rand, items []string, k int) []string {
	if k > len(items) {
		k = len(items)
	}
	if k <= 0 {
		return nil
	}

	buf := make([]string, len(items))
	copy(buf, items)
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(buf)-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:k]
}

// intBetween returns a uniform integer in [lo, hi].
func intBetween(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// NewRand returns the run's random source. Equal seeds give equal runs.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

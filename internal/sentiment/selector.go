package sentiment

import (
	"math/rand/v2"

	"newsgen/internal/types"
)

// Pick draws one sentiment by cumulative probability. When the weights never
// exceed the draw (they sum below 1, or rounding falls short) the last entry wins.
func Pick(r *rand.Rand, weights []types.SentimentWeight) string {
	if len(weights) == 0 {
		return ""
	}

	draw := r.Float64()
	cumulative := 0.0
	for _, w := range weights {
		cumulative += w.Probability
		if draw < cumulative {
			return w.Sentiment
		}
	}
	return weights[len(weights)-1].Sentiment
}

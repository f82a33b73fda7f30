package aggregator

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/Angleito/SuiFlashBotTemplate/models"
)

// Flat simulated fee applied to every fallback quote.
const fallbackFeeRate = 0.003

// Demo placeholder rates, not authoritative pricing. Matched pairs get
// a ±1% jitter band; unrecognized pairs float ±1-5% around 1.0.
const (
	suiUsdcRate = 1.1
	btcUsdcRate = 65_000.0
	stableRate  = 1.0

	matchedJitter     = 0.01
	unmatchedJitterLo = 0.01
	unmatchedJitterHi = 0.05
)

// Estimator produces heuristic quotes when the live quote service is
// unreachable. Every quote it returns is tagged IsFallback.
type Estimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewEstimator(seed int64) *Estimator {
	return &Estimator{rng: rand.New(rand.NewSource(seed))}
}

// Quote builds a fallback estimate for swapping amount base units of
// in for out. Classification works on the caller's symbolic names, not
// resolved coin types.
func (e *Estimator) Quote(in, out string, amount uint64, slippage float64) *models.Quote {
	rate, matched := classifyPair(in, out)

	e.mu.Lock()
	band := matchedJitter
	if !matched {
		band = unmatchedJitterLo + e.rng.Float64()*(unmatchedJitterHi-unmatchedJitterLo)
	}
	rate *= 1 + (e.rng.Float64()*2-1)*band
	e.mu.Unlock()

	gross := float64(amount) * rate
	fee := gross * fallbackFeeRate
	returnAmount := gross - fee

	if slippage < 0 {
		slippage = 0
	}
	minFactor := 1 - slippage
	if minFactor < 0 {
		minFactor = 0
	}

	return &models.Quote{
		TokenIn:        in,
		TokenOut:       out,
		AmountIn:       amount,
		ReturnAmount:   uint64(returnAmount),
		AmountOutMin:   uint64(returnAmount * minFactor),
		EffectivePrice: rate,
		PriceImpact:    fallbackFeeRate,
		FeeAmount:      uint64(fee),
		Routes: []models.Route{
			{
				Pool:       "fallback",
				Dex:        "estimator",
				TokenIn:    in,
				TokenOut:   out,
				Allocation: 1.0,
			},
		},
		IsFallback: true,
	}
}

// classifyPair assigns a hard-coded rate from a small set of symbol
// substrings and reports whether the pair matched any of them.
func classifyPair(in, out string) (float64, bool) {
	a, b := strings.ToUpper(in), strings.ToUpper(out)

	switch {
	case has(a, "SUI") && has(b, "USDC"):
		return suiUsdcRate, true
	case has(a, "USDC") && has(b, "SUI"):
		return 1 / suiUsdcRate, true
	case has(a, "BTC") && has(b, "USDC"):
		return btcUsdcRate, true
	case has(a, "USDC") && has(b, "BTC"):
		return 1 / btcUsdcRate, true
	case has(a, "USD") && has(b, "USD"):
		return stableRate, true
	}
	return 1.0, false
}

func has(s, sub string) bool {
	return strings.Contains(s, sub)
}

package middleware

import (
	"runtime/debug"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// NewQuoteBreaker builds the circuit breaker that guards the live quote
// endpoint. Once it opens, quote calls fail fast and the executor falls
// back to heuristic estimation until the service recovers.
func NewQuoteBreaker(log *zap.SugaredLogger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "aggregator-quote",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Infow("Circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})
}

// Recover runs fn and turns a panic into a logged error. The scan loop
// wraps each cycle with it so one bad pair cannot kill the timer.
func Recover(log *zap.SugaredLogger, operation string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("Panic recovered",
				"operation", operation,
				"error", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

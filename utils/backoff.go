package utils

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// NewExponentialBackoff creates a new exponential backoff configuration
func NewExponentialBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 5 * time.Minute
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.1
	return b
}

// LinearBackOff waits base*1, base*2, base*3, ... between attempts.
type LinearBackOff struct {
	Base    time.Duration
	attempt int
}

func (l *LinearBackOff) NextBackOff() time.Duration {
	l.attempt++
	return l.Base * time.Duration(l.attempt)
}

func (l *LinearBackOff) Reset() {
	l.attempt = 0
}

// WithRetry runs operation up to attempts times with linearly increasing
// delay between attempts, returning the first success or the last error.
func WithRetry[T any](operation func() (T, error), attempts int, base time.Duration) (T, error) {
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.WithMaxRetries(&LinearBackOff{Base: base}, uint64(attempts-1))
	return backoff.RetryWithData(operation, b)
}

package models

import "errors"

var (
	// ErrInvalidTokenFormat means a token could not be resolved to a
	// <package>::<module>::<name> coin type. Unrecoverable for that call.
	ErrInvalidTokenFormat = errors.New("invalid token format")

	// ErrNoRouteFound is a normal negative result from the aggregator,
	// not a failure of the quote path.
	ErrNoRouteFound = errors.New("no route found")

	// ErrQuoteUnavailable means the live quote service could not be
	// reached. Callers switch to the fallback estimator instead of
	// propagating it.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrSwapExecutionFailed means the chain reported a non-success
	// status for a submitted transaction. Fatal to that swap only.
	ErrSwapExecutionFailed = errors.New("swap execution failed")

	// ErrKeypairInit means signing key material is missing or malformed.
	// Fatal at startup.
	ErrKeypairInit = errors.New("keypair initialization failed")
)

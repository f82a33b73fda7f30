// Package aggregator wraps the swap aggregator's quote, build and
// execute cycle behind a single provider interface.
package aggregator

import (
	"context"

	"github.com/Angleito/SuiFlashBotTemplate/models"
)

// SwapProvider is the capability the orchestrator trades through. The
// implementation is chosen once at construction: LiveProvider talks to
// the real aggregator and node, SimulatedProvider never leaves the
// process.
type SwapProvider interface {
	// Name returns the provider identifier for logs and metrics.
	Name() string

	// GetQuote estimates the output of swapping amount base units of
	// inputToken for outputToken. Quotes tagged IsFallback are
	// heuristic and never authoritative.
	GetQuote(ctx context.Context, inputToken, outputToken string, amount uint64, slippage float64) (*models.Quote, error)

	// ExecuteSwap runs the full quote, build, sign, submit cycle and
	// returns the transaction result.
	ExecuteSwap(ctx context.Context, params models.SwapParams) (*models.SwapResult, error)
}

package aggregator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/models"
	"github.com/Angleito/SuiFlashBotTemplate/tokens"
)

// SimulatedProvider never touches the network: every quote comes from
// the fallback estimator and every execution returns a synthetic
// digest. This is the provider the demo bot runs with by default.
type SimulatedProvider struct {
	estimator *Estimator
	log       *zap.SugaredLogger
}

func NewSimulatedProvider(estimator *Estimator, log *zap.SugaredLogger) *SimulatedProvider {
	return &SimulatedProvider{estimator: estimator, log: log}
}

func (p *SimulatedProvider) Name() string {
	return "simulated"
}

func (p *SimulatedProvider) GetQuote(ctx context.Context, inputToken, outputToken string, amount uint64, slippage float64) (*models.Quote, error) {
	if !tokens.ValidateFormat(tokens.Resolve(inputToken)) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidTokenFormat, inputToken)
	}
	if !tokens.ValidateFormat(tokens.Resolve(outputToken)) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidTokenFormat, outputToken)
	}
	return p.estimator.Quote(inputToken, outputToken, amount, slippage), nil
}

func (p *SimulatedProvider) ExecuteSwap(ctx context.Context, params models.SwapParams) (*models.SwapResult, error) {
	quote, err := p.GetQuote(ctx, params.TokenIn, params.TokenOut, params.AmountIn, params.Slippage)
	if err != nil {
		return nil, err
	}

	digest := "SIM-" + uuid.New().String()
	p.log.Infow("Simulated swap",
		"digest", digest,
		"token_in", params.TokenIn,
		"token_out", params.TokenOut,
		"amount_in", params.AmountIn,
		"amount_out", quote.ReturnAmount,
	)

	return &models.SwapResult{
		Digest:    digest,
		Status:    "success",
		AmountOut: quote.ReturnAmount,
		Simulated: true,
	}, nil
}

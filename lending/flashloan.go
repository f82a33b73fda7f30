package lending

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/aggregator"
	"github.com/Angleito/SuiFlashBotTemplate/models"
)

// Flash-loan fee charged by the lending pool, applied on repayment.
// Demo constant matching the protocol's published rate.
const flashLoanFeeRate = 0.0006

// TransactionDryRunner is implemented by providers that can simulate
// the cycle's transaction on the node before committing to it.
type TransactionDryRunner interface {
	DryRunSwap(ctx context.Context, params models.SwapParams) (*models.SwapResult, error)
}

// PreviewResult summarizes a simulated borrow -> swap -> swap back ->
// repay cycle. Profit can be negative; nothing is submitted on-chain.
// DryRunStatus is empty when the provider cannot simulate on the node.
type PreviewResult struct {
	Asset        string        `json:"asset"`
	Intermediate string        `json:"intermediate"`
	BorrowAmount uint64        `json:"borrow_amount"`
	RepayAmount  uint64        `json:"repay_amount"`
	FinalAmount  uint64        `json:"final_amount"`
	Profit       int64         `json:"profit"`
	Profitable   bool          `json:"profitable"`
	UsedFallback bool          `json:"used_fallback"`
	DryRunStatus string        `json:"dry_run_status,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
}

// FlashLoanPreviewer walks the full flash-loan cycle through quotes,
// plus a node dry run when the provider supports one. The borrow and
// repay legs are enforced by the on-chain pool; here they are
// arithmetic.
type FlashLoanPreviewer struct {
	provider aggregator.SwapProvider
	poolID   string
	log      *zap.SugaredLogger
}

func NewFlashLoanPreviewer(provider aggregator.SwapProvider, poolID string, log *zap.SugaredLogger) *FlashLoanPreviewer {
	return &FlashLoanPreviewer{provider: provider, poolID: poolID, log: log}
}

// Preview borrows amount of asset, quotes asset -> intermediate ->
// asset and checks whether the round trip covers principal plus the
// flash-loan fee. When the provider can dry-run on the node, the
// cycle's entry transaction is simulated too; a failed simulation
// vetoes profitability.
func (f *FlashLoanPreviewer) Preview(ctx context.Context, asset, intermediate string, amount uint64, slippage float64) (*PreviewResult, error) {
	start := time.Now()

	outQuote, err := f.provider.GetQuote(ctx, asset, intermediate, amount, slippage)
	if err != nil {
		return nil, err
	}

	backQuote, err := f.provider.GetQuote(ctx, intermediate, asset, outQuote.ReturnAmount, slippage)
	if err != nil {
		return nil, err
	}

	repay := amount + uint64(float64(amount)*flashLoanFeeRate)
	final := backQuote.ReturnAmount
	profit := int64(final) - int64(repay)
	profitable := profit > 0

	dryRunStatus := ""
	if runner, ok := f.provider.(TransactionDryRunner); ok && profitable {
		sim, err := runner.DryRunSwap(ctx, models.SwapParams{
			TokenIn:  asset,
			TokenOut: intermediate,
			AmountIn: amount,
			Slippage: slippage,
		})
		if err != nil {
			f.log.Warnw("Flash loan dry run failed",
				"asset", asset,
				"intermediate", intermediate,
				"error", err,
			)
			dryRunStatus = "error"
			profitable = false
		} else {
			dryRunStatus = sim.Status
			if sim.Status != "success" {
				profitable = false
			}
		}
	}

	result := &PreviewResult{
		Asset:        asset,
		Intermediate: intermediate,
		BorrowAmount: amount,
		RepayAmount:  repay,
		FinalAmount:  final,
		Profit:       profit,
		Profitable:   profitable,
		UsedFallback: outQuote.IsFallback || backQuote.IsFallback,
		DryRunStatus: dryRunStatus,
		Elapsed:      time.Since(start),
	}

	f.log.Infow("Flash loan preview",
		"pool", f.poolID,
		"asset", asset,
		"intermediate", intermediate,
		"borrow", result.BorrowAmount,
		"repay", result.RepayAmount,
		"final", result.FinalAmount,
		"profit", result.Profit,
		"fallback_quotes", result.UsedFallback,
		"dry_run_status", result.DryRunStatus,
	)

	return result, nil
}

// Execute runs the cycle for real when the preview is profitable. The
// swap legs go through the provider; the borrow/repay legs live inside
// the transaction the aggregator builds, so a simulated provider keeps
// this off-chain.
func (f *FlashLoanPreviewer) Execute(ctx context.Context, asset, intermediate string, amount uint64, slippage float64) (*models.SwapResult, error) {
	preview, err := f.Preview(ctx, asset, intermediate, amount, slippage)
	if err != nil {
		return nil, err
	}
	if !preview.Profitable {
		f.log.Infow("Flash loan cycle not profitable, skipping execution",
			"asset", asset,
			"profit", preview.Profit,
		)
		return nil, nil
	}

	return f.provider.ExecuteSwap(ctx, models.SwapParams{
		TokenIn:  asset,
		TokenOut: intermediate,
		AmountIn: amount,
		Slippage: slippage,
	})
}

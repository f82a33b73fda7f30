package lending

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/models"
)

// stubProvider returns deterministic quotes: rate per direction, no fees.
type stubProvider struct {
	rates    map[string]float64
	executed int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) GetQuote(_ context.Context, in, out string, amount uint64, slippage float64) (*models.Quote, error) {
	rate := s.rates[in+"->"+out]
	ret := uint64(float64(amount) * rate)
	return &models.Quote{
		TokenIn:      in,
		TokenOut:     out,
		AmountIn:     amount,
		ReturnAmount: ret,
		AmountOutMin: ret,
	}, nil
}

func (s *stubProvider) ExecuteSwap(_ context.Context, params models.SwapParams) (*models.SwapResult, error) {
	s.executed++
	return &models.SwapResult{Digest: "stub-digest", Status: "success", Simulated: true}, nil
}

// dryRunProvider adds node simulation on top of the quote stub.
type dryRunProvider struct {
	stubProvider
	dryRunStatus string
	dryRunErr    error
	dryRuns      int
}

func (s *dryRunProvider) DryRunSwap(_ context.Context, _ models.SwapParams) (*models.SwapResult, error) {
	s.dryRuns++
	if s.dryRunErr != nil {
		return nil, s.dryRunErr
	}
	return &models.SwapResult{Status: s.dryRunStatus}, nil
}

func TestFlashLoanPreview(t *testing.T) {
	log := zap.NewNop().Sugar()

	t.Run("ProfitableCycle", func(t *testing.T) {
		p := &stubProvider{rates: map[string]float64{
			"SUI->USDC": 1.1,
			"USDC->SUI": 1.0,
		}}
		f := NewFlashLoanPreviewer(p, "0xpool", log)

		preview, err := f.Preview(context.Background(), "SUI", "USDC", 1_000_000, 0)
		require.NoError(t, err)

		assert.Equal(t, uint64(1_000_600), preview.RepayAmount, "principal plus 0.06%% fee")
		assert.Equal(t, uint64(1_100_000), preview.FinalAmount)
		assert.True(t, preview.Profitable)
		assert.Equal(t, int64(99_400), preview.Profit)
	})

	t.Run("UnprofitableCycleSkipsExecution", func(t *testing.T) {
		p := &stubProvider{rates: map[string]float64{
			"SUI->USDC": 1.0,
			"USDC->SUI": 0.8,
		}}
		f := NewFlashLoanPreviewer(p, "0xpool", log)

		result, err := f.Execute(context.Background(), "SUI", "USDC", 1_000_000, 0)
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Zero(t, p.executed)
	})

	t.Run("ProfitableCycleExecutes", func(t *testing.T) {
		p := &stubProvider{rates: map[string]float64{
			"SUI->USDC": 1.1,
			"USDC->SUI": 1.0,
		}}
		f := NewFlashLoanPreviewer(p, "0xpool", log)

		result, err := f.Execute(context.Background(), "SUI", "USDC", 1_000_000, 0)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 1, p.executed)
	})
}

func TestFlashLoanDryRun(t *testing.T) {
	log := zap.NewNop().Sugar()
	profitableRates := map[string]float64{
		"SUI->USDC": 1.1,
		"USDC->SUI": 1.0,
	}

	t.Run("SuccessKeepsCycleProfitable", func(t *testing.T) {
		p := &dryRunProvider{
			stubProvider: stubProvider{rates: profitableRates},
			dryRunStatus: "success",
		}
		f := NewFlashLoanPreviewer(p, "0xpool", log)

		preview, err := f.Preview(context.Background(), "SUI", "USDC", 1_000_000, 0)
		require.NoError(t, err)
		assert.True(t, preview.Profitable)
		assert.Equal(t, "success", preview.DryRunStatus)
		assert.Equal(t, 1, p.dryRuns)
	})

	t.Run("ChainFailureVetoesExecution", func(t *testing.T) {
		p := &dryRunProvider{
			stubProvider: stubProvider{rates: profitableRates},
			dryRunStatus: "failure",
		}
		f := NewFlashLoanPreviewer(p, "0xpool", log)

		result, err := f.Execute(context.Background(), "SUI", "USDC", 1_000_000, 0)
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Zero(t, p.executed, "a cycle that fails simulation must not be submitted")
	})

	t.Run("TransportErrorVetoesExecution", func(t *testing.T) {
		p := &dryRunProvider{
			stubProvider: stubProvider{rates: profitableRates},
			dryRunErr:    errors.New("node unreachable"),
		}
		f := NewFlashLoanPreviewer(p, "0xpool", log)

		preview, err := f.Preview(context.Background(), "SUI", "USDC", 1_000_000, 0)
		require.NoError(t, err)
		assert.False(t, preview.Profitable)
		assert.Equal(t, "error", preview.DryRunStatus)
	})

	t.Run("UnprofitableCycleSkipsDryRun", func(t *testing.T) {
		p := &dryRunProvider{
			stubProvider: stubProvider{rates: map[string]float64{
				"SUI->USDC": 1.0,
				"USDC->SUI": 0.8,
			}},
			dryRunStatus: "success",
		}
		f := NewFlashLoanPreviewer(p, "0xpool", log)

		preview, err := f.Preview(context.Background(), "SUI", "USDC", 1_000_000, 0)
		require.NoError(t, err)
		assert.False(t, preview.Profitable)
		assert.Zero(t, p.dryRuns)
		assert.Empty(t, preview.DryRunStatus)
	})
}

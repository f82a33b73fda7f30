// Package bot runs the fixed-interval opportunity scan loop.
package bot

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/aggregator"
	"github.com/Angleito/SuiFlashBotTemplate/metrics"
	"github.com/Angleito/SuiFlashBotTemplate/middleware"
	"github.com/Angleito/SuiFlashBotTemplate/models"
	"github.com/Angleito/SuiFlashBotTemplate/store"
)

// Upper bound for the uniformly sampled demo profit, in USD.
const maxDemoProfitUSD = 25.0

// Options tunes the scan loop. Zero values fall back to the demo
// defaults: 30s interval, $5 threshold, 25%/70% synthesis
// probabilities, 1 SUI trade size.
type Options struct {
	Interval        time.Duration
	MinProfitUSD    float64
	ExecuteTrades   bool
	OpportunityRate float64
	ProfitableRate  float64
	TradeSize       uint64
	Slippage        float64
	Seed            int64
}

func (o *Options) fillDefaults() {
	if o.Interval <= 0 {
		o.Interval = 30 * time.Second
	}
	if o.MinProfitUSD == 0 {
		o.MinProfitUSD = 5.0
	}
	if o.OpportunityRate == 0 {
		o.OpportunityRate = 0.25
	}
	if o.ProfitableRate == 0 {
		o.ProfitableRate = 0.70
	}
	if o.TradeSize == 0 {
		o.TradeSize = 1_000_000_000
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// Orchestrator drives Idle -> Scanning -> Idle on a fixed-period
// ticker. The opportunity synthesis is a randomized stand-in for real
// cross-venue detection; it exists to exercise the executor path.
type Orchestrator struct {
	opts Options

	pairs    store.PairRepository
	pools    store.PoolRepository
	opps     store.OpportunityLog
	provider aggregator.SwapProvider
	log      *zap.SugaredLogger

	mu  sync.Mutex
	rng *rand.Rand

	running atomic.Bool
	// lifecycle guards cancel/done against a Stop racing a Start.
	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	scanCount atomic.Uint64
}

func NewOrchestrator(opts Options, pairs store.PairRepository, pools store.PoolRepository,
	opps store.OpportunityLog, provider aggregator.SwapProvider, log *zap.SugaredLogger) *Orchestrator {
	opts.fillDefaults()
	return &Orchestrator{
		opts:     opts,
		pairs:    pairs,
		pools:    pools,
		opps:     opps,
		provider: provider,
		log:      log,
		rng:      rand.New(rand.NewSource(opts.Seed)),
	}
}

// Start performs one immediate scan and arms the repeating timer.
// Calling Start on a running orchestrator is a warn-and-no-op.
func (o *Orchestrator) Start(ctx context.Context) {
	o.lifecycle.Lock()
	if !o.running.CompareAndSwap(false, true) {
		o.lifecycle.Unlock()
		o.log.Warnw("Orchestrator already running, ignoring Start")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})
	o.lifecycle.Unlock()

	o.log.Infow("Orchestrator started",
		"interval", o.opts.Interval,
		"min_profit_usd", o.opts.MinProfitUSD,
		"execute_trades", o.opts.ExecuteTrades,
		"provider", o.provider.Name(),
	)

	o.runScan(runCtx)

	go func() {
		defer close(o.done)
		ticker := time.NewTicker(o.opts.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				o.runScan(runCtx)
			}
		}
	}()
}

// Stop cancels the timer. Idempotent; returns after the loop exits.
func (o *Orchestrator) Stop() {
	o.lifecycle.Lock()
	if !o.running.CompareAndSwap(true, false) {
		o.lifecycle.Unlock()
		return
	}
	cancel, done := o.cancel, o.done
	o.lifecycle.Unlock()

	cancel()
	<-done
	o.log.Infow("Orchestrator stopped", "scans", o.scanCount.Load())
}

// Scans reports how many scan cycles have completed.
func (o *Orchestrator) Scans() uint64 {
	return o.scanCount.Load()
}

// Running reports whether the timer is armed.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

func (o *Orchestrator) runScan(ctx context.Context) {
	middleware.Recover(o.log, "scan", func() {
		o.scan(ctx)
	})
}

func (o *Orchestrator) scan(ctx context.Context) {
	start := time.Now()

	for _, pair := range o.pairs.All() {
		if ctx.Err() != nil {
			return
		}

		pools := o.pools.PoolsFor(pair)
		if len(pools) < 2 {
			o.log.Debugw("Not enough pools for pair, skipping",
				"pair", pair.Key(),
				"pools", len(pools))
			continue
		}

		op, ok := o.synthesize(pair, pools)
		if !ok {
			continue
		}
		o.process(ctx, op)
	}

	o.scanCount.Add(1)
	metrics.IncrementScans()
	metrics.RecordScanDuration(time.Since(start))
}

// synthesize rolls the demo dice: with the configured probability the
// pair yields a candidate opportunity, itself profitable with the
// configured probability and a uniform profit magnitude.
func (o *Orchestrator) synthesize(pair models.TokenPair, pools []models.Pool) (models.ArbitrageOpportunity, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.rng.Float64() >= o.opts.OpportunityRate {
		return models.ArbitrageOpportunity{}, false
	}

	entry, exit := pools[0], pools[1]
	if o.rng.Intn(2) == 1 {
		entry, exit = exit, entry
	}

	profitable := o.rng.Float64() < o.opts.ProfitableRate
	profit := 0.0
	if profitable {
		profit = o.rng.Float64() * maxDemoProfitUSD
	}

	return models.ArbitrageOpportunity{
		ID:              uuid.New().String(),
		TokenA:          pair.TokenA,
		TokenB:          pair.TokenB,
		EntryPoolID:     entry.PoolID,
		ExitPoolID:      exit.PoolID,
		EntryDex:        entry.Dex,
		ExitDex:         exit.Dex,
		ProfitableTrade: profitable,
		EstimatedProfit: profit,
		Timestamp:       time.Now(),
	}, true
}

// process persists the opportunity and, when it clears the profit
// threshold and execution is enabled, hands it to the swap provider.
// Execution errors are annotated onto the record; they never stop the
// scan loop.
func (o *Orchestrator) process(ctx context.Context, op models.ArbitrageOpportunity) {
	metrics.IncrementOpportunities()

	if err := o.opps.Append(op); err != nil {
		metrics.IncrementErrors()
		o.log.Errorw("Failed to persist opportunity", "id", op.ID, "error", err)
		return
	}

	o.log.Infow("Opportunity recorded",
		"id", op.ID,
		"pair", op.TokenA+"/"+op.TokenB,
		"entry", op.EntryDex,
		"exit", op.ExitDex,
		"profitable", op.ProfitableTrade,
		"estimated_profit_usd", op.EstimatedProfit,
	)

	if !op.ProfitableTrade || op.EstimatedProfit < o.opts.MinProfitUSD {
		return
	}
	if !o.opts.ExecuteTrades {
		o.log.Infow("Trade execution disabled, skipping", "id", op.ID)
		return
	}

	metrics.IncrementSwapsExecuted()
	result, err := o.provider.ExecuteSwap(ctx, models.SwapParams{
		TokenIn:  op.TokenA,
		TokenOut: op.TokenB,
		AmountIn: o.opts.TradeSize,
		Slippage: o.opts.Slippage,
	})
	if err != nil {
		metrics.IncrementErrors()
		o.log.Errorw("Swap execution failed",
			"id", op.ID,
			"error", err,
			"fatal_to_swap_only", errors.Is(err, models.ErrSwapExecutionFailed),
		)
		if annErr := o.opps.Annotate(op.ID, err); annErr != nil {
			o.log.Errorw("Failed to annotate opportunity", "id", op.ID, "error", annErr)
		}
		return
	}

	o.log.Infow("Swap executed for opportunity",
		"id", op.ID,
		"digest", result.Digest,
		"simulated", result.Simulated,
	)
}

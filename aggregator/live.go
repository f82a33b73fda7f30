package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/metrics"
	"github.com/Angleito/SuiFlashBotTemplate/models"
	"github.com/Angleito/SuiFlashBotTemplate/sui"
	"github.com/Angleito/SuiFlashBotTemplate/tokens"
)

// LiveProvider quotes against the real aggregator HTTP API and executes
// through the Sui node. Quote calls run behind a circuit breaker; any
// failure degrades to the fallback estimator instead of propagating.
type LiveProvider struct {
	baseURL   string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
	node      *sui.Client
	signer    *sui.Signer
	estimator *Estimator
	gasBudget uint64
	log       *zap.SugaredLogger
}

func NewLiveProvider(baseURL string, quoteTimeout time.Duration, breaker *gobreaker.CircuitBreaker,
	node *sui.Client, signer *sui.Signer, estimator *Estimator, gasBudget uint64, log *zap.SugaredLogger) *LiveProvider {
	return &LiveProvider{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: quoteTimeout,
		},
		breaker:   breaker,
		node:      node,
		signer:    signer,
		estimator: estimator,
		gasBudget: gasBudget,
		log:       log,
	}
}

func (p *LiveProvider) Name() string {
	return "live"
}

// routerResponse is the aggregator's find-routes payload.
type routerResponse struct {
	Data *routerData `json:"data"`
	Msg  string      `json:"msg,omitempty"`
}

type routerData struct {
	AmountIn  string        `json:"amount_in"`
	AmountOut string        `json:"amount_out"`
	FeeAmount string        `json:"fee_amount"`
	Impact    float64       `json:"price_impact"`
	Routes    []routerRoute `json:"routes"`
}

type routerRoute struct {
	Pool       string  `json:"pool"`
	Provider   string  `json:"provider"`
	From       string  `json:"from"`
	Target     string  `json:"target"`
	Allocation float64 `json:"allocation"`
}

type buildResponse struct {
	Data *struct {
		TxBytes string `json:"tx_bytes"`
	} `json:"data"`
	Msg string `json:"msg,omitempty"`
}

// GetQuote resolves both tokens, asks the aggregator for routes and
// degrades to the fallback estimator on any transport or routing
// failure.
func (p *LiveProvider) GetQuote(ctx context.Context, inputToken, outputToken string, amount uint64, slippage float64) (*models.Quote, error) {
	inType := tokens.Resolve(inputToken)
	outType := tokens.Resolve(outputToken)
	if !tokens.ValidateFormat(inType) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidTokenFormat, inputToken)
	}
	if !tokens.ValidateFormat(outType) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidTokenFormat, outputToken)
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetchQuote(ctx, inType, outType, amount)
	})
	if err != nil {
		metrics.IncrementQuoteFallbacks()
		p.log.Warnw("Live quote unavailable, using fallback estimator",
			"token_in", inputToken,
			"token_out", outputToken,
			"error", err,
		)
		return p.estimator.Quote(inputToken, outputToken, amount, slippage), nil
	}

	quote := result.(*models.Quote)
	quote.TokenIn = inType
	quote.TokenOut = outType

	if slippage < 0 {
		slippage = 0
	}
	minFactor := 1 - slippage
	if minFactor < 0 {
		minFactor = 0
	}
	quote.AmountOutMin = uint64(float64(quote.ReturnAmount) * minFactor)

	return quote, nil
}

func (p *LiveProvider) fetchQuote(ctx context.Context, inType, outType string, amount uint64) (*models.Quote, error) {
	q := url.Values{}
	q.Set("from", inType)
	q.Set("target", outType)
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("by_amount_in", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/find_routes?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: aggregator returned status %d", models.ErrQuoteUnavailable, resp.StatusCode)
	}

	var body routerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrQuoteUnavailable, err)
	}

	if body.Data == nil || len(body.Data.Routes) == 0 {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrNoRouteFound, inType, outType)
	}

	amountOut, err := strconv.ParseUint(body.Data.AmountOut, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad amount_out %q", models.ErrQuoteUnavailable, body.Data.AmountOut)
	}
	feeAmount, _ := strconv.ParseUint(body.Data.FeeAmount, 10, 64)

	routes := make([]models.Route, 0, len(body.Data.Routes))
	for _, r := range body.Data.Routes {
		routes = append(routes, models.Route{
			Pool:       r.Pool,
			Dex:        r.Provider,
			TokenIn:    r.From,
			TokenOut:   r.Target,
			Allocation: r.Allocation,
		})
	}

	return &models.Quote{
		AmountIn:       amount,
		ReturnAmount:   amountOut,
		EffectivePrice: float64(amountOut) / float64(amount),
		PriceImpact:    body.Data.Impact,
		FeeAmount:      feeAmount,
		Routes:         routes,
	}, nil
}

// DryRunSwap quotes, builds the swap transaction and simulates it on
// the node without submitting. A result with a non-success status is
// returned without error; transport failures are.
func (p *LiveProvider) DryRunSwap(ctx context.Context, params models.SwapParams) (*models.SwapResult, error) {
	quote, err := p.GetQuote(ctx, params.TokenIn, params.TokenOut, params.AmountIn, params.Slippage)
	if err != nil {
		return nil, err
	}

	gasBudget := params.GasBudget
	if gasBudget == 0 {
		gasBudget = p.gasBudget
	}

	txBytes, err := p.buildTransaction(ctx, quote, gasBudget)
	if err != nil {
		return nil, err
	}

	result, err := p.node.DryRunTransactionBlock(ctx, txBytes)
	if err != nil {
		return nil, fmt.Errorf("dry run failed: %w", err)
	}

	p.log.Debugw("Swap dry run",
		"token_in", quote.TokenIn,
		"token_out", quote.TokenOut,
		"status", result.Effects.Status.Status,
		"chain_error", result.Effects.Status.Error,
	)

	return &models.SwapResult{
		Status:    result.Effects.Status.Status,
		AmountOut: quote.ReturnAmount,
	}, nil
}

// ExecuteSwap quotes, asks the aggregator to build the transaction,
// signs it locally, submits it and waits for finality.
func (p *LiveProvider) ExecuteSwap(ctx context.Context, params models.SwapParams) (*models.SwapResult, error) {
	quote, err := p.GetQuote(ctx, params.TokenIn, params.TokenOut, params.AmountIn, params.Slippage)
	if err != nil {
		return nil, err
	}

	gasBudget := params.GasBudget
	if gasBudget == 0 {
		gasBudget = p.gasBudget
	}

	txBytes, err := p.buildTransaction(ctx, quote, gasBudget)
	if err != nil {
		return nil, err
	}

	signature, err := p.signer.SignTransaction(txBytes)
	if err != nil {
		return nil, err
	}

	result, err := p.node.ExecuteTransactionBlock(ctx, txBytes, []string{signature})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSwapExecutionFailed, err)
	}
	if !result.Succeeded() {
		return nil, fmt.Errorf("%w: chain status %q: %s",
			models.ErrSwapExecutionFailed, result.Effects.Status.Status, result.Effects.Status.Error)
	}

	p.log.Infow("Swap executed",
		"digest", result.Digest,
		"token_in", quote.TokenIn,
		"token_out", quote.TokenOut,
		"amount_in", quote.AmountIn,
		"amount_out_min", quote.AmountOutMin,
		"fallback_quote", quote.IsFallback,
	)

	return &models.SwapResult{
		Digest:    result.Digest,
		Status:    result.Effects.Status.Status,
		AmountOut: quote.ReturnAmount,
	}, nil
}

func (p *LiveProvider) buildTransaction(ctx context.Context, quote *models.Quote, gasBudget uint64) (string, error) {
	payload := map[string]interface{}{
		"from":       quote.TokenIn,
		"target":     quote.TokenOut,
		"amount_in":  strconv.FormatUint(quote.AmountIn, 10),
		"min_out":    strconv.FormatUint(quote.AmountOutMin, 10),
		"sender":     p.signer.Address(),
		"gas_budget": strconv.FormatUint(gasBudget, 10),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/build_tx", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: build request failed: %v", models.ErrSwapExecutionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: build returned status %d", models.ErrSwapExecutionFailed, resp.StatusCode)
	}

	var build buildResponse
	if err := json.NewDecoder(resp.Body).Decode(&build); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrSwapExecutionFailed, err)
	}
	if build.Data == nil || build.Data.TxBytes == "" {
		return "", fmt.Errorf("%w: build returned no transaction: %s", models.ErrSwapExecutionFailed, build.Msg)
	}

	return build.Data.TxBytes, nil
}

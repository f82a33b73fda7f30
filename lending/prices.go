// Package lending wraps the lending protocol's read-only surfaces:
// oracle price lookups and a demo flash-loan preview.
package lending

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/models"
	"github.com/Angleito/SuiFlashBotTemplate/tokens"
	"github.com/Angleito/SuiFlashBotTemplate/utils"
)

// Price is one oracle price observation.
type Price struct {
	Symbol     string    `json:"symbol"`
	CoinType   string    `json:"coin_type"`
	PriceUSD   float64   `json:"price_usd"`
	IsFallback bool      `json:"is_fallback"`
	Timestamp  time.Time `json:"timestamp"`
}

// Demo placeholder prices for when the oracle is unreachable.
var fallbackPrices = map[string]float64{
	"SUI":   1.10,
	"USDC":  1.00,
	"USDT":  1.00,
	"WBTC":  65_000.0,
	"WETH":  3_300.0,
	"CETUS": 0.15,
}

// PriceClient looks prices up against the lending protocol's oracle
// API, retrying with linear backoff and degrading to the fallback
// table when all attempts fail.
type PriceClient struct {
	baseURL   string
	marketID  string
	client    *http.Client
	attempts  int
	baseDelay time.Duration
	log       *zap.SugaredLogger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPriceClient(baseURL, marketID string, timeout time.Duration, attempts int, baseDelay time.Duration, log *zap.SugaredLogger) *PriceClient {
	return &PriceClient{
		baseURL:  baseURL,
		marketID: marketID,
		client: &http.Client{
			Timeout: timeout,
		},
		attempts:  attempts,
		baseDelay: baseDelay,
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetPrice returns the USD price for a symbol or coin type. Transport
// failures never propagate: after the retries are exhausted the caller
// gets a fallback price tagged IsFallback.
func (c *PriceClient) GetPrice(ctx context.Context, symbol string) (*Price, error) {
	coinType := tokens.Resolve(symbol)
	if !tokens.ValidateFormat(coinType) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidTokenFormat, symbol)
	}

	price, err := utils.WithRetry(func() (float64, error) {
		return c.fetchPrice(ctx, coinType)
	}, c.attempts, c.baseDelay)
	if err != nil {
		c.log.Warnw("Oracle price unavailable, using fallback table",
			"symbol", symbol,
			"attempts", c.attempts,
			"error", err,
		)
		return &Price{
			Symbol:     symbol,
			CoinType:   coinType,
			PriceUSD:   c.fallbackPrice(symbol),
			IsFallback: true,
			Timestamp:  time.Now(),
		}, nil
	}

	return &Price{
		Symbol:    symbol,
		CoinType:  coinType,
		PriceUSD:  price,
		Timestamp: time.Now(),
	}, nil
}

type oracleResponse struct {
	Data *struct {
		Price    string `json:"price"`
		Decimals int    `json:"decimals"`
	} `json:"data"`
	Msg string `json:"msg,omitempty"`
}

func (c *PriceClient) fetchPrice(ctx context.Context, coinType string) (float64, error) {
	q := url.Values{}
	q.Set("coinType", coinType)
	if c.marketID != "" {
		q.Set("market", c.marketID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/oracle/price?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: oracle returned status %d", models.ErrQuoteUnavailable, resp.StatusCode)
	}

	var body oracleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrQuoteUnavailable, err)
	}
	if body.Data == nil {
		return 0, fmt.Errorf("%w: empty oracle response: %s", models.ErrQuoteUnavailable, body.Msg)
	}

	price, err := strconv.ParseFloat(body.Data.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad price %q", models.ErrQuoteUnavailable, body.Data.Price)
	}
	return price, nil
}

func (c *PriceClient) fallbackPrice(symbol string) float64 {
	upper := strings.ToUpper(symbol)
	for known, price := range fallbackPrices {
		if strings.Contains(upper, known) {
			return price
		}
	}

	// Unknown asset: perturb 1.0 by ±1-5% so repeated demo lookups
	// do not look frozen.
	c.mu.Lock()
	defer c.mu.Unlock()
	band := 0.01 + c.rng.Float64()*0.04
	return 1.0 * (1 + (c.rng.Float64()*2-1)*band)
}

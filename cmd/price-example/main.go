// Looks up oracle prices for a set of symbols through the lending
// protocol's API, demonstrating the retry and fallback behavior.
package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Angleito/SuiFlashBotTemplate/config"
	"github.com/Angleito/SuiFlashBotTemplate/lending"
	"github.com/Angleito/SuiFlashBotTemplate/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := utils.NewLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	symbols := []string{"SUI", "USDC", "WETH"}
	if v := os.Getenv("EXAMPLE_SYMBOLS"); v != "" {
		symbols = strings.Split(v, ",")
	}

	client := lending.NewPriceClient(
		cfg.Lending.BaseURL,
		cfg.Lending.MarketID,
		cfg.Sui.RequestTimeout,
		cfg.Lending.RetryAttempts,
		time.Duration(cfg.Lending.RetryBaseMs)*time.Millisecond,
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, symbol := range symbols {
		symbol = strings.TrimSpace(symbol)
		price, err := client.GetPrice(ctx, symbol)
		if err != nil {
			logger.Errorw("Price lookup failed", "symbol", symbol, "error", err)
			continue
		}
		logger.Infow("Price",
			"symbol", price.Symbol,
			"coin_type", price.CoinType,
			"price_usd", price.PriceUSD,
			"fallback", price.IsFallback,
		)
	}
}

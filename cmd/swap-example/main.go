// Runs one quote (and optionally one swap) through the configured
// provider. No flags; configuration is entirely environment-driven.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Angleito/SuiFlashBotTemplate/aggregator"
	"github.com/Angleito/SuiFlashBotTemplate/config"
	"github.com/Angleito/SuiFlashBotTemplate/middleware"
	"github.com/Angleito/SuiFlashBotTemplate/models"
	"github.com/Angleito/SuiFlashBotTemplate/sui"
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

	tokenIn := getenvDefault("EXAMPLE_TOKEN_IN", "SUI")
	tokenOut := getenvDefault("EXAMPLE_TOKEN_OUT", "USDC")

	estimator := aggregator.NewEstimator(time.Now().UnixNano())

	var provider aggregator.SwapProvider
	if cfg.Bot.Provider == "live" {
		signer, err := sui.NewSigner(cfg.Sui.PrivateKey, cfg.Sui.Mnemonic)
		if err != nil {
			logger.Fatalw("Failed to initialize keypair", "error", err)
		}
		node := sui.NewClient(cfg.Sui.RPCURL, cfg.Sui.RequestTimeout, logger)
		provider = aggregator.NewLiveProvider(
			cfg.Aggregator.BaseURL, cfg.Aggregator.QuoteTimeout,
			middleware.NewQuoteBreaker(logger),
			node, signer, estimator, cfg.Sui.GasBudget, logger)
	} else {
		provider = aggregator.NewSimulatedProvider(estimator, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quote, err := provider.GetQuote(ctx, tokenIn, tokenOut, cfg.Bot.TradeSize, cfg.Bot.Slippage)
	if err != nil {
		logger.Fatalw("Quote failed", "error", err)
	}

	logger.Infow("Quote",
		"provider", provider.Name(),
		"token_in", quote.TokenIn,
		"token_out", quote.TokenOut,
		"amount_in", quote.AmountIn,
		"return_amount", quote.ReturnAmount,
		"amount_out_min", quote.AmountOutMin,
		"effective_price", quote.EffectivePrice,
		"fee_amount", quote.FeeAmount,
		"fallback", quote.IsFallback,
	)

	if !cfg.Bot.ExecuteTrades {
		logger.Infow("EXECUTE_TRADES disabled, quote only")
		return
	}

	result, err := provider.ExecuteSwap(ctx, models.SwapParams{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: cfg.Bot.TradeSize,
		Slippage: cfg.Bot.Slippage,
	})
	if err != nil {
		logger.Fatalw("Swap failed", "error", err)
	}

	logger.Infow("Swap complete",
		"digest", result.Digest,
		"status", result.Status,
		"amount_out", result.AmountOut,
		"simulated", result.Simulated,
	)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

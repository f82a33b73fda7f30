// Previews (and optionally executes) one flash-loan cycle:
// borrow -> swap to intermediate -> swap back -> repay plus fee.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Angleito/SuiFlashBotTemplate/aggregator"
	"github.com/Angleito/SuiFlashBotTemplate/config"
	"github.com/Angleito/SuiFlashBotTemplate/lending"
	"github.com/Angleito/SuiFlashBotTemplate/middleware"
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

	asset := getenvDefault("EXAMPLE_ASSET", "SUI")
	intermediate := getenvDefault("EXAMPLE_INTERMEDIATE", "USDC")

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

	previewer := lending.NewFlashLoanPreviewer(provider, cfg.Lending.FlashLoanPool, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	preview, err := previewer.Preview(ctx, asset, intermediate, cfg.Bot.TradeSize, cfg.Bot.Slippage)
	if err != nil {
		logger.Fatalw("Flash loan preview failed", "error", err)
	}

	logger.Infow("Preview complete",
		"asset", preview.Asset,
		"intermediate", preview.Intermediate,
		"borrow", preview.BorrowAmount,
		"repay", preview.RepayAmount,
		"final", preview.FinalAmount,
		"profit", preview.Profit,
		"profitable", preview.Profitable,
		"fallback_quotes", preview.UsedFallback,
	)

	if !cfg.Bot.ExecuteTrades {
		logger.Infow("EXECUTE_TRADES disabled, preview only")
		return
	}

	result, err := previewer.Execute(ctx, asset, intermediate, cfg.Bot.TradeSize, cfg.Bot.Slippage)
	if err != nil {
		logger.Fatalw("Flash loan execution failed", "error", err)
	}
	if result == nil {
		logger.Infow("Cycle not profitable, nothing executed")
		return
	}

	logger.Infow("Flash loan cycle executed",
		"digest", result.Digest,
		"status", result.Status,
		"simulated", result.Simulated,
	)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/aggregator"
	"github.com/Angleito/SuiFlashBotTemplate/bot"
	"github.com/Angleito/SuiFlashBotTemplate/config"
	"github.com/Angleito/SuiFlashBotTemplate/metrics"
	"github.com/Angleito/SuiFlashBotTemplate/middleware"
	"github.com/Angleito/SuiFlashBotTemplate/monitoring"
	"github.com/Angleito/SuiFlashBotTemplate/store"
	"github.com/Angleito/SuiFlashBotTemplate/sui"
	"github.com/Angleito/SuiFlashBotTemplate/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using process environment")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := utils.NewLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Repositories
	pairs := store.NewMemoryPairs(cfg.Bot.Pairs)
	pools := store.NewMemoryPools()
	pools.SeedDemoPools(pairs.All())

	var opps store.OpportunityLog = store.NewMemoryOpportunityLog()
	if cfg.ClickHouse.Enabled {
		archive, err := store.NewOpportunityArchive(
			cfg.ClickHouse.Host, cfg.ClickHouse.Port,
			cfg.ClickHouse.Database, cfg.ClickHouse.User, cfg.ClickHouse.Password)
		if err != nil {
			logger.Fatalw("Failed to initialize ClickHouse archive", "error", err)
		}
		defer archive.Close()
		monitoring.RegisterHealthCheck("clickhouse", archive.Healthy)
		opps = archive
	}

	// Swap provider, chosen once at construction
	provider := buildProvider(cfg, logger)

	orch := bot.NewOrchestrator(bot.Options{
		Interval:        cfg.Bot.ScanInterval,
		MinProfitUSD:    cfg.Bot.MinProfitUSD,
		ExecuteTrades:   cfg.Bot.ExecuteTrades,
		OpportunityRate: cfg.Bot.OpportunityRate,
		ProfitableRate:  cfg.Bot.ProfitableRate,
		TradeSize:       cfg.Bot.TradeSize,
		Slippage:        cfg.Bot.Slippage,
	}, pairs, pools, opps, provider, logger)

	monitoring.RegisterHealthCheck("orchestrator", orch.Running)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional pool reserve feed
	if cfg.Bot.PoolFeedEnabled {
		watcher := bot.NewPoolWatcher(cfg.Sui.FeedURL, pools, logger)
		go watcher.Run(ctx)
	}

	// Health and metrics server
	mux := http.NewServeMux()
	mux.HandleFunc("/", monitoring.HealthCheckHandler)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.HTTPPort),
		Handler: utils.RequestLogger(logger, mux),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("HTTP server error", "error", err)
		}
	}()

	orch.Start(ctx)

	// Run for the configured duration, or until a signal arrives.
	if cfg.App.RunDuration > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(cfg.App.RunDuration):
			logger.Infow("Run duration elapsed", "duration", cfg.App.RunDuration)
		}
	} else {
		<-ctx.Done()
	}

	orch.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("HTTP server shutdown error", "error", err)
	}

	scans, opportunities, errCount, _, uptime := metrics.GetStats()
	logger.Infow("Bot exiting",
		"scans", scans,
		"opportunities", opportunities,
		"errors", errCount,
		"uptime", uptime,
	)
}

func buildProvider(cfg *config.Config, logger *zap.SugaredLogger) aggregator.SwapProvider {
	estimator := aggregator.NewEstimator(time.Now().UnixNano())

	if cfg.Bot.Provider != "live" {
		logger.Infow("Using simulated swap provider")
		return aggregator.NewSimulatedProvider(estimator, logger)
	}

	// Missing or malformed key material is fatal: the live provider
	// cannot proceed without signing capability.
	signer, err := sui.NewSigner(cfg.Sui.PrivateKey, cfg.Sui.Mnemonic)
	if err != nil {
		logger.Fatalw("Failed to initialize keypair", "error", err)
	}

	node := sui.NewClient(cfg.Sui.RPCURL, cfg.Sui.RequestTimeout, logger)
	monitoring.RegisterHealthCheck("sui_rpc", node.Healthy)

	breaker := middleware.NewQuoteBreaker(logger)

	logger.Infow("Using live swap provider",
		"network", cfg.Sui.Network,
		"aggregator", cfg.Aggregator.BaseURL,
		"address", signer.Address(),
	)
	return aggregator.NewLiveProvider(
		cfg.Aggregator.BaseURL,
		cfg.Aggregator.QuoteTimeout,
		breaker,
		node,
		signer,
		estimator,
		cfg.Sui.GasBudget,
		logger,
	)
}

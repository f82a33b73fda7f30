package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		Environment string
		LogLevel    string
		HTTPPort    int
		RunDuration time.Duration // 0 = run until signal
	}

	Sui struct {
		Network        string
		RPCURL         string
		FeedURL        string
		Mnemonic       string
		PrivateKey     string
		GasBudget      uint64
		RequestTimeout time.Duration
	}

	Aggregator struct {
		BaseURL      string
		QuoteTimeout time.Duration
	}

	Lending struct {
		BaseURL       string
		MarketID      string
		FlashLoanPool string
		RetryAttempts int
		RetryBaseMs   int
	}

	Bot struct {
		Provider        string
		ScanInterval    time.Duration
		MinProfitUSD    float64
		ExecuteTrades   bool
		OpportunityRate float64
		ProfitableRate  float64
		Slippage        float64
		TradeSize       uint64
		PoolFeedEnabled bool
		Pairs           []string
	}

	ClickHouse struct {
		Enabled  bool
		Host     string
		Port     int
		User     string
		Password string
		Database string
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// App settings
	cfg.App.Environment = getEnvOrDefault("APP_ENV", "production")
	cfg.App.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.App.HTTPPort = getEnvAsIntOrDefault("HTTP_PORT", 8080)
	cfg.App.RunDuration = time.Duration(getEnvAsIntOrDefault("RUN_DURATION_SECS", 0)) * time.Second

	// Sui node settings
	cfg.Sui.Network = getEnvOrDefault("SUI_NETWORK", "mainnet")
	cfg.Sui.RPCURL = getEnvOrDefault("SUI_RPC_URL", "https://fullnode.mainnet.sui.io:443")
	cfg.Sui.FeedURL = getEnvOrDefault("SUI_FEED_URL", "wss://fullnode.mainnet.sui.io:443")
	cfg.Sui.Mnemonic = os.Getenv("SUI_MNEMONIC")
	cfg.Sui.PrivateKey = os.Getenv("SUI_PRIVATE_KEY")
	cfg.Sui.GasBudget = getEnvAsUintOrDefault("SUI_GAS_BUDGET", 50_000_000)
	cfg.Sui.RequestTimeout = time.Duration(getEnvAsIntOrDefault("SUI_REQUEST_TIMEOUT_SECS", 30)) * time.Second

	// Swap aggregator settings
	cfg.Aggregator.BaseURL = getEnvOrDefault("AGGREGATOR_URL", "https://api-sui.cetus.zone/router_v2")
	cfg.Aggregator.QuoteTimeout = time.Duration(getEnvAsIntOrDefault("AGGREGATOR_QUOTE_TIMEOUT_SECS", 5)) * time.Second

	// Lending protocol settings
	cfg.Lending.BaseURL = getEnvOrDefault("LENDING_URL", "https://open-api.naviprotocol.io")
	cfg.Lending.MarketID = os.Getenv("LENDING_MARKET_ID")
	cfg.Lending.FlashLoanPool = os.Getenv("FLASHLOAN_POOL_ID")
	cfg.Lending.RetryAttempts = getEnvAsIntOrDefault("LENDING_RETRY_ATTEMPTS", 3)
	cfg.Lending.RetryBaseMs = getEnvAsIntOrDefault("LENDING_RETRY_BASE_MS", 500)

	// Bot settings
	cfg.Bot.Provider = getEnvOrDefault("SWAP_PROVIDER", "simulated")
	cfg.Bot.ScanInterval = time.Duration(getEnvAsIntOrDefault("SCAN_INTERVAL_SECS", 30)) * time.Second
	cfg.Bot.MinProfitUSD = getEnvAsFloatOrDefault("MIN_PROFIT_USD", 5.0)
	cfg.Bot.ExecuteTrades = getEnvAsBoolOrDefault("EXECUTE_TRADES", false)
	cfg.Bot.OpportunityRate = getEnvAsFloatOrDefault("DEMO_OPPORTUNITY_RATE", 0.25)
	cfg.Bot.ProfitableRate = getEnvAsFloatOrDefault("DEMO_PROFITABLE_RATE", 0.70)
	cfg.Bot.Slippage = getEnvAsFloatOrDefault("SLIPPAGE", 0.005)
	cfg.Bot.TradeSize = getEnvAsUintOrDefault("TRADE_SIZE_BASE_UNITS", 1_000_000_000)
	cfg.Bot.PoolFeedEnabled = getEnvAsBoolOrDefault("POOL_FEED_ENABLED", false)
	cfg.Bot.Pairs = getEnvAsListOrDefault("TOKEN_PAIRS", []string{"SUI/USDC", "USDC/USDT", "SUI/CETUS"})

	// ClickHouse settings (optional opportunity archive)
	cfg.ClickHouse.Enabled = getEnvAsBoolOrDefault("CLICKHOUSE_ENABLED", false)
	cfg.ClickHouse.Host = getEnvOrDefault("CLICKHOUSE_HOST", "localhost")
	cfg.ClickHouse.Port = getEnvAsIntOrDefault("CLICKHOUSE_PORT", 9000)
	cfg.ClickHouse.User = getEnvOrDefault("CLICKHOUSE_USER", "default")
	cfg.ClickHouse.Password = os.Getenv("CLICKHOUSE_PASSWORD")
	cfg.ClickHouse.Database = getEnvOrDefault("CLICKHOUSE_DB", "default")

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUintOrDefault(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

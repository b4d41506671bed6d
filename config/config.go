package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tickLabeler/internal/adapters/logger" // Import the logger package for LogLevel
	"tickLabeler/internal/domain"
)

// Tick source selection for first-hit refinement.
const (
	TickSourceNone       = "none"
	TickSourceCSV        = "csv"
	TickSourceClickHouse = "clickhouse"
)

// Config holds all application configuration.
type Config struct {
	// Labeling Parameters
	TPVolMultiple     float64     // Take-profit distance in volatility units
	SLVolMultiple     float64     // Stop-loss distance in volatility units
	TimeoutBars       int         // Max bars held before a timeout exit
	TimeoutSeconds    int         // Max wall-clock seconds held before a timeout exit
	Side              domain.Side // Default side when an event has no explicit side
	VolLookback       int         // Bars averaged into the per-event volatility
	VolAlpha          float64     // EWMA decay for the variance recursion
	MinVolatility     float64     // Floor applied to per-event volatility
	UseTickRefinement bool
	Workers           int

	// Input Data
	BarsPath     string // CSV written by fetch_klines
	EventsPath   string // Optional JSON event list
	EventSpacing int    // Generate an event every N bars when EventsPath is empty

	// Tick Source
	TickSource           string // none | csv | clickhouse
	TickSlicesDir        string // Per-event CSV slices when TickSource=csv
	TickFetchTimeout     time.Duration
	ClickHouseAddr       string // host:port, comma separated for a cluster
	ClickHouseDatabase   string
	ClickHouseUsername   string
	ClickHousePassword   string
	ClickHouseTicksTable string

	// Output
	DBPath      string
	ResultsPath string // Optional CSV export of the labeled events

	// Binance API (fetch_klines only)
	APIKey    string
	SecretKey string
	IsTestnet bool
	Symbol    string
	Interval  string
	FetchDays int

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Labeling Parameters
	cfg.TPVolMultiple, err = getEnvAsFloatRequired("TP_VOL_MULTIPLE", 2.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TP_VOL_MULTIPLE: %v", err))
	} else if cfg.TPVolMultiple < 0 {
		errs = append(errs, "TP_VOL_MULTIPLE cannot be negative")
	}

	cfg.SLVolMultiple, err = getEnvAsFloatRequired("SL_VOL_MULTIPLE", 1.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid SL_VOL_MULTIPLE: %v", err))
	} else if cfg.SLVolMultiple < 0 {
		errs = append(errs, "SL_VOL_MULTIPLE cannot be negative")
	}

	cfg.TimeoutBars, err = getEnvAsIntRequired("TIMEOUT_BARS", 60)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TIMEOUT_BARS: %v", err))
	} else if cfg.TimeoutBars <= 0 {
		errs = append(errs, "TIMEOUT_BARS must be positive")
	}

	cfg.TimeoutSeconds, err = getEnvAsIntRequired("TIMEOUT_SECONDS", 3600)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TIMEOUT_SECONDS: %v", err))
	} else if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, "TIMEOUT_SECONDS must be positive")
	}

	sideStr := getEnv("SIDE", "long")
	cfg.Side, err = domain.ParseSide(sideStr)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid SIDE: %v", err))
	}

	cfg.VolLookback = getEnvAsInt("VOL_LOOKBACK", 50)
	if cfg.VolLookback <= 0 {
		errs = append(errs, "VOL_LOOKBACK must be positive")
	}

	cfg.VolAlpha = getEnvAsFloat("VOL_ALPHA", 0.94)
	if cfg.VolAlpha <= 0 || cfg.VolAlpha >= 1 {
		errs = append(errs, "VOL_ALPHA must be between 0.0 and 1.0 (exclusive)")
	}

	cfg.MinVolatility = getEnvAsFloat("MIN_VOLATILITY", 1e-6)
	if cfg.MinVolatility < 0 {
		errs = append(errs, "MIN_VOLATILITY cannot be negative")
	}

	cfg.UseTickRefinement = getEnvAsBool("USE_TICK_REFINEMENT", false)
	cfg.Workers = getEnvAsInt("WORKERS", 0) // 0 means one worker per CPU

	// Input Data
	cfg.BarsPath = getEnv("BARS_PATH", "./data/bars.csv")
	if cfg.BarsPath == "" {
		errs = append(errs, "BARS_PATH must be set")
	}
	cfg.EventsPath = getEnv("EVENTS_PATH", "")
	cfg.EventSpacing = getEnvAsInt("EVENT_SPACING", 10)
	if cfg.EventsPath == "" && cfg.EventSpacing <= 0 {
		errs = append(errs, "EVENT_SPACING must be positive when EVENTS_PATH is not set")
	}

	// Tick Source
	cfg.TickSource = strings.ToLower(getEnv("TICK_SOURCE", TickSourceNone))
	switch cfg.TickSource {
	case TickSourceNone, TickSourceCSV, TickSourceClickHouse:
	default:
		errs = append(errs, fmt.Sprintf("invalid TICK_SOURCE %q (want none, csv or clickhouse)", cfg.TickSource))
	}
	if cfg.UseTickRefinement && cfg.TickSource == TickSourceNone {
		errs = append(errs, "USE_TICK_REFINEMENT requires TICK_SOURCE to be csv or clickhouse")
	}

	cfg.TickSlicesDir = getEnv("TICK_SLICES_DIR", "./data/ticks")
	if cfg.TickSource == TickSourceCSV && cfg.TickSlicesDir == "" {
		errs = append(errs, "TICK_SLICES_DIR must be set when TICK_SOURCE=csv")
	}

	tickFetchTimeoutMs := getEnvAsInt("TICK_FETCH_TIMEOUT_MS", 5000)
	if tickFetchTimeoutMs <= 0 {
		errs = append(errs, "TICK_FETCH_TIMEOUT_MS must be positive")
	}
	cfg.TickFetchTimeout = time.Duration(tickFetchTimeoutMs) * time.Millisecond

	cfg.ClickHouseAddr = getEnv("CLICKHOUSE_ADDR", "localhost:9000")
	cfg.ClickHouseDatabase = getEnv("CLICKHOUSE_DATABASE", "market_data")
	cfg.ClickHouseUsername = getEnv("CLICKHOUSE_USERNAME", "default")
	cfg.ClickHousePassword = getEnv("CLICKHOUSE_PASSWORD", "")
	cfg.ClickHouseTicksTable = getEnv("CLICKHOUSE_TICKS_TABLE", "ticks")
	if cfg.TickSource == TickSourceClickHouse && cfg.ClickHouseAddr == "" {
		errs = append(errs, "CLICKHOUSE_ADDR must be set when TICK_SOURCE=clickhouse")
	}

	// Output
	cfg.DBPath = getEnv("DB_PATH", "./data/labeling.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}
	cfg.ResultsPath = getEnv("RESULTS_PATH", "")

	// Binance API (only fetch_klines needs keys; labeling runs offline)
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety
	cfg.Symbol = getEnv("SYMBOL", "ETHUSDT")
	cfg.Interval = getEnv("INTERVAL", "1m")
	cfg.FetchDays = getEnvAsInt("FETCH_DAYS", 30)
	if cfg.FetchDays <= 0 {
		errs = append(errs, "FETCH_DAYS must be positive")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Log warning? For non-required fields, default is often acceptable.
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

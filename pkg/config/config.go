package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TakeProfitTier pairs a price multiplier with the percentage of the
// position to sell once the multiplier is reached.
type TakeProfitTier struct {
	Multiplier  float64
	SellPercent float64
}

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// API auth for the REST facade
	APISecretKey string

	// Polymarket API
	GammaAPIURL string
	ClobAPIURL  string
	DataAPIURL  string
	PolygonRPC  string

	PolymarketPrivateKey string
	PolymarketAPIKey     string
	PolymarketSecret     string
	PolymarketPassphrase string

	// Trading
	MaxBetPerSide    float64
	MinMarketVolume  float64
	MaxEntryPrice    float64
	MinHoursToExpiry int
	MaxDaysToExpiry  int
	TakeProfitTiers  []TakeProfitTier

	// Loop cadence
	ScanInterval    time.Duration
	SweepInterval   time.Duration
	MarketScanLimit int

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// InsecureDefaultAPIKey is the placeholder secret; while it is in effect
// the REST facade does not enforce authentication.
const InsecureDefaultAPIKey = "change-me-in-production"

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort:     getEnvOrDefault("HTTP_PORT", "8000"),
		APISecretKey: getEnvOrDefault("API_SECRET_KEY", InsecureDefaultAPIKey),

		// Polymarket API defaults
		GammaAPIURL: getEnvOrDefault("POLYMARKET_GAMMA_API_URL", "https://gamma-api.polymarket.com"),
		ClobAPIURL:  getEnvOrDefault("POLYMARKET_CLOB_API_URL", "https://clob.polymarket.com"),
		DataAPIURL:  getEnvOrDefault("POLYMARKET_DATA_API_URL", "https://data-api.polymarket.com"),
		PolygonRPC:  getEnvOrDefault("POLYGON_RPC_URL", "https://polygon-rpc.com"),

		PolymarketPrivateKey: os.Getenv("POLYMARKET_PRIVATE_KEY"),
		PolymarketAPIKey:     os.Getenv("POLYMARKET_API_KEY"),
		PolymarketSecret:     os.Getenv("POLYMARKET_SECRET"),
		PolymarketPassphrase: os.Getenv("POLYMARKET_PASSPHRASE"),

		// Trading defaults
		MaxBetPerSide:    getFloat64OrDefault("MAX_BET_PER_SIDE", 0.50),
		MinMarketVolume:  getFloat64OrDefault("MIN_MARKET_VOLUME", 500),
		MaxEntryPrice:    getFloat64OrDefault("MAX_ENTRY_PRICE", 0.05),
		MinHoursToExpiry: getIntOrDefault("MIN_HOURS_TO_EXPIRY", 48),
		MaxDaysToExpiry:  getIntOrDefault("MAX_DAYS_TO_EXPIRY", 90),
		TakeProfitTiers:  loadTakeProfitTiers(),

		// Loop defaults
		ScanInterval:    getDurationOrDefault("SCAN_INTERVAL", 30*time.Second),
		SweepInterval:   getDurationOrDefault("SWEEP_INTERVAL", 30*time.Second),
		MarketScanLimit: getIntOrDefault("MARKET_SCAN_LIMIT", 50),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "betzbotz"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "betzbotz123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "betzbotz"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// loadTakeProfitTiers reads the four tier env pairs. Defaults: sell 25% at
// each of 2x, 3x, 5x and 10x.
func loadTakeProfitTiers() []TakeProfitTier {
	defaults := []TakeProfitTier{
		{Multiplier: 2, SellPercent: 25},
		{Multiplier: 3, SellPercent: 25},
		{Multiplier: 5, SellPercent: 25},
		{Multiplier: 10, SellPercent: 25},
	}

	tiers := make([]TakeProfitTier, 0, len(defaults))
	for i, def := range defaults {
		tiers = append(tiers, TakeProfitTier{
			Multiplier:  getFloat64OrDefault(fmt.Sprintf("TAKE_PROFIT_TIER_%d_MULTIPLIER", i+1), def.Multiplier),
			SellPercent: getFloat64OrDefault(fmt.Sprintf("TAKE_PROFIT_TIER_%d_PERCENT", i+1), def.SellPercent),
		})
	}

	return tiers
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.GammaAPIURL == "" {
		return fmt.Errorf("POLYMARKET_GAMMA_API_URL cannot be empty")
	}

	if c.ClobAPIURL == "" {
		return fmt.Errorf("POLYMARKET_CLOB_API_URL cannot be empty")
	}

	if c.MaxBetPerSide <= 0 {
		return fmt.Errorf("MAX_BET_PER_SIDE must be positive, got %f", c.MaxBetPerSide)
	}

	if c.MaxEntryPrice <= 0 || c.MaxEntryPrice > 1.0 {
		return fmt.Errorf("MAX_ENTRY_PRICE must be between 0 and 1.0, got %f", c.MaxEntryPrice)
	}

	if c.MinMarketVolume < 0 {
		return fmt.Errorf("MIN_MARKET_VOLUME cannot be negative, got %f", c.MinMarketVolume)
	}

	if c.MinHoursToExpiry < 0 {
		return fmt.Errorf("MIN_HOURS_TO_EXPIRY cannot be negative, got %d", c.MinHoursToExpiry)
	}

	if c.MaxDaysToExpiry <= 0 {
		return fmt.Errorf("MAX_DAYS_TO_EXPIRY must be positive, got %d", c.MaxDaysToExpiry)
	}

	if float64(c.MinHoursToExpiry) > float64(c.MaxDaysToExpiry)*24 {
		return fmt.Errorf("MIN_HOURS_TO_EXPIRY (%d) exceeds MAX_DAYS_TO_EXPIRY window (%d days)",
			c.MinHoursToExpiry, c.MaxDaysToExpiry)
	}

	if c.MarketScanLimit <= 0 {
		return fmt.Errorf("MARKET_SCAN_LIMIT must be positive, got %d", c.MarketScanLimit)
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return c.validateTiers()
}

// validateTiers checks the take-profit schedule: at least one tier,
// strictly ascending multipliers above 1x, sell percents in [1,100].
// The sweep evaluates tiers in configuration order, so ordering matters.
func (c *Config) validateTiers() error {
	if len(c.TakeProfitTiers) == 0 {
		return fmt.Errorf("at least one take-profit tier is required")
	}

	prev := 1.0
	for i, tier := range c.TakeProfitTiers {
		if tier.Multiplier <= prev {
			return fmt.Errorf("tier %d multiplier %.2f must exceed %.2f (tiers must ascend)",
				i+1, tier.Multiplier, prev)
		}
		if tier.SellPercent < 1 || tier.SellPercent > 100 {
			return fmt.Errorf("tier %d sell percent %.2f must be in [1,100]", i+1, tier.SellPercent)
		}
		prev = tier.Multiplier
	}

	return nil
}

// SafeSettings returns the settings exposed over the REST facade,
// excluding credentials.
func (c *Config) SafeSettings() map[string]interface{} {
	return map[string]interface{}{
		"max_bet_per_side":    c.MaxBetPerSide,
		"min_market_volume":   c.MinMarketVolume,
		"max_entry_price":     c.MaxEntryPrice,
		"min_hours_to_expiry": c.MinHoursToExpiry,
		"max_days_to_expiry":  c.MaxDaysToExpiry,
	}
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

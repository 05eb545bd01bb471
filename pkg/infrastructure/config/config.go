package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is the run configuration handed to the ledger and report writers
// at construction time.
type Config struct {
	Paths   PathsConfig
	Pricing PricingConfig
	Ledger  LedgerConfig
	Log     LogConfig
}

// PathsConfig locates the input exports.
type PathsConfig struct {
	OrdersDir      string
	WantedListsDir string
	PricesFile     string
}

// PricingConfig holds the per-sale constants used by the summary report.
type PricingConfig struct {
	ShippingFee        decimal.Decimal
	MaterialsCost      decimal.Decimal
	DefaultPrice       decimal.Decimal
	MarketplaceFeeRate decimal.Decimal
}

// LedgerConfig controls cost ingestion.
type LedgerConfig struct {
	AllocateFees bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// a missing .env is fine when everything comes from the environment
		_ = godotenv.Load()
	}

	shipping, err := getenvDecimal("BRICKBUILD_SHIPPING_FEE", "0")
	if err != nil {
		return nil, err
	}
	materials, err := getenvDecimal("BRICKBUILD_MATERIALS_COST", "0")
	if err != nil {
		return nil, err
	}
	price, err := getenvDecimal("BRICKBUILD_DEFAULT_PRICE", "14.99")
	if err != nil {
		return nil, err
	}
	feeRate, err := getenvDecimal("BRICKBUILD_MARKETPLACE_FEE_RATE", "0.15")
	if err != nil {
		return nil, err
	}
	allocateFees, err := strconv.ParseBool(getenvWithDefault("BRICKBUILD_ALLOCATE_FEES", "true"))
	if err != nil {
		return nil, fmt.Errorf("BRICKBUILD_ALLOCATE_FEES must be a boolean: %w", err)
	}

	cfg := &Config{
		Paths: PathsConfig{
			OrdersDir:      getenvWithDefault("BRICKBUILD_ORDERS_DIR", "orders"),
			WantedListsDir: getenvWithDefault("BRICKBUILD_WANTED_DIR", "wanted_lists"),
			PricesFile:     os.Getenv("BRICKBUILD_PRICES_FILE"),
		},
		Pricing: PricingConfig{
			ShippingFee:        shipping,
			MaterialsCost:      materials,
			DefaultPrice:       price,
			MarketplaceFeeRate: feeRate,
		},
		Ledger: LedgerConfig{
			AllocateFees: allocateFees,
		},
		Log: LogConfig{
			Level: getenvWithDefault("BRICKBUILD_LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Paths.OrdersDir == "" {
		return errors.New("BRICKBUILD_ORDERS_DIR must not be empty")
	}
	if c.Paths.WantedListsDir == "" {
		return errors.New("BRICKBUILD_WANTED_DIR must not be empty")
	}

	switch {
	case c.Pricing.ShippingFee.IsNegative():
		return errors.New("BRICKBUILD_SHIPPING_FEE cannot be negative")
	case c.Pricing.MaterialsCost.IsNegative():
		return errors.New("BRICKBUILD_MATERIALS_COST cannot be negative")
	case c.Pricing.DefaultPrice.IsNegative():
		return errors.New("BRICKBUILD_DEFAULT_PRICE cannot be negative")
	}

	if c.Pricing.MarketplaceFeeRate.IsNegative() || c.Pricing.MarketplaceFeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("BRICKBUILD_MARKETPLACE_FEE_RATE must be in [0, 1), got %s", c.Pricing.MarketplaceFeeRate)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDecimal(key, fallback string) (decimal.Decimal, error) {
	raw := getenvWithDefault(key, fallback)
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a number, got %q: %w", key, raw, err)
	}
	return value, nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/application/services/build"
	"github.com/vsinha/brickbuild/pkg/application/services/ledger"
	"github.com/vsinha/brickbuild/pkg/application/services/report"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
	appconfig "github.com/vsinha/brickbuild/pkg/infrastructure/config"
	"github.com/vsinha/brickbuild/pkg/infrastructure/events"
	"github.com/vsinha/brickbuild/pkg/infrastructure/logging"
	"github.com/vsinha/brickbuild/pkg/infrastructure/repositories/bricklink"
	"github.com/vsinha/brickbuild/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/brickbuild/pkg/interfaces/cli/output"
	"go.uber.org/zap"
)

// Config holds configuration for the build command. Empty fields fall back
// to the environment configuration.
type Config struct {
	EnvFile         string
	OrdersDir       string
	WantedDir       string
	PricesFile      string
	OutputDir       string
	Format          string
	LogLevel        string
	ShippingFee     string
	MaterialsCost   string
	DefaultPrice    string
	FeeRate         string
	NoFeeAllocation bool
	Journal         bool
	Verbose         bool
	Help            bool
	Out             io.Writer
}

// BuildCommand reconciles order exports against wanted lists and reports
// what can be built
type BuildCommand struct {
	config Config
	logger *zap.Logger
}

// NewBuildCommand creates a build command. A nil logger is built from the
// configured log level at execution.
func NewBuildCommand(config Config, logger *zap.Logger) *BuildCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &BuildCommand{
		config: config,
		logger: logger,
	}
}

// Execute runs the build command
func (c *BuildCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	cfg, err := c.resolveConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if c.config.Journal && c.config.OutputDir == "" {
		return fmt.Errorf("configuration error: -journal requires -output")
	}

	logger := c.logger
	if logger == nil {
		logger, err = logging.New(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer logger.Sync()
	}
	logger = logging.Named(logger, "build")

	if c.config.Verbose {
		c.printHeader(cfg)
	}

	orders, err := c.loadOrders(cfg, logger)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Out:       c.config.Out,
	}

	var journal *events.InMemoryEventStore
	ledgerConfig := ledger.Config{AllocateFees: cfg.Ledger.AllocateFees}
	if c.config.Journal {
		file, err := output.OpenJournal(outputConfig)
		if err != nil {
			return fmt.Errorf("error opening journal: %w", err)
		}
		defer file.Close()

		journal = events.NewInMemoryEventStore()
		writer := events.NewJournalWriter(file, events.AllEventTypes...)
		if err := journal.Subscribe(events.AllEventTypes, writer); err != nil {
			return err
		}
		defer func() {
			journal.Unsubscribe(writer)
			if c.config.Verbose {
				fmt.Fprintf(c.config.Out, "Journal saved to: %s (%d of %d events)\n",
					file.Name(), writer.Written(), journal.Len())
			}
		}()
		ledgerConfig.Journal = journal
	}

	inventory, err := ledger.BuildInventoryFromOrders(orders, ledgerConfig, logger)
	if err != nil {
		logger.Warn("orders rejected during ingestion", zap.Error(err))
	}
	logger.Info("inventory built",
		zap.Int("orders", len(orders)),
		zap.Int("keys", inventory.Len()),
		zap.Int64("items", int64(inventory.TotalQuantity())),
	)

	targets, err := bricklink.LoadWantedLists(cfg.Paths.WantedListsDir)
	if err != nil {
		if targets == nil {
			return fmt.Errorf("error loading wanted lists: %w", err)
		}
		for _, rejected := range bricklink.RejectedWantedLists(err) {
			logger.Warn("wanted list rejected", zap.String("title", rejected.Title), zap.Error(rejected.Err))
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	engine := build.NewEngine(inventory.Snapshot(), logger)
	if journal != nil {
		engine.WithJournal(journal)
	}
	results, err := engine.Run(targets)
	if err != nil {
		return fmt.Errorf("error running build pass: %w", err)
	}
	logger.Info("build pass complete", zap.Int("targets", len(results)))

	pricing, err := c.pricing(cfg)
	if err != nil {
		return err
	}

	buildReport := report.NewBuilder(pricing).Build(results, engine.Leftover(), engine.Consumption())

	if err := output.Generate(buildReport, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// loadOrders parses every export, de-duplicates orders across batches and
// swaps seller notes for catalog descriptions
func (c *BuildCommand) loadOrders(cfg *appconfig.Config, logger *zap.Logger) ([]entities.Order, error) {
	orders, err := bricklink.LoadOrders(cfg.Paths.OrdersDir)
	if err != nil {
		if orders == nil {
			return nil, fmt.Errorf("error loading orders: %w", err)
		}
		logger.Warn("order exports partially parsed", zap.Error(err))
	}
	orders = bricklink.MergeOrders(orders)

	unidentified := 0
	for _, order := range orders {
		if order.OrderID == "" {
			unidentified++
		}
	}
	if unidentified > 0 {
		logger.Warn("orders without an id are kept but cannot be de-duplicated", zap.Int("orders", unidentified))
	}

	descriptions, err := csv.NewLoader().LoadDescriptions(cfg.Paths.OrdersDir)
	if err != nil {
		logger.Warn("catalog descriptions unavailable", zap.Error(err))
		return orders, nil
	}
	return bricklink.ApplyDescriptions(orders, descriptions), nil
}

// resolveConfig loads the environment configuration and applies overrides
func (c *BuildCommand) resolveConfig() (*appconfig.Config, error) {
	cfg, err := appconfig.Load(c.config.EnvFile)
	if err != nil {
		return nil, err
	}

	if c.config.OrdersDir != "" {
		cfg.Paths.OrdersDir = c.config.OrdersDir
	}
	if c.config.WantedDir != "" {
		cfg.Paths.WantedListsDir = c.config.WantedDir
	}
	if c.config.PricesFile != "" {
		cfg.Paths.PricesFile = c.config.PricesFile
	}
	if c.config.LogLevel != "" {
		cfg.Log.Level = c.config.LogLevel
	}
	if c.config.NoFeeAllocation {
		cfg.Ledger.AllocateFees = false
	}

	overrides := []struct {
		flag   string
		value  string
		target *decimal.Decimal
	}{
		{"shipping", c.config.ShippingFee, &cfg.Pricing.ShippingFee},
		{"materials", c.config.MaterialsCost, &cfg.Pricing.MaterialsCost},
		{"price", c.config.DefaultPrice, &cfg.Pricing.DefaultPrice},
		{"fee-rate", c.config.FeeRate, &cfg.Pricing.MarketplaceFeeRate},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		value, err := decimal.NewFromString(o.value)
		if err != nil {
			return nil, fmt.Errorf("-%s must be a number, got %q", o.flag, o.value)
		}
		*o.target = value
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *BuildCommand) pricing(cfg *appconfig.Config) (report.Pricing, error) {
	pricing := report.Pricing{
		ShippingFee:        cfg.Pricing.ShippingFee,
		MaterialsCost:      cfg.Pricing.MaterialsCost,
		DefaultPrice:       cfg.Pricing.DefaultPrice,
		MarketplaceFeeRate: cfg.Pricing.MarketplaceFeeRate,
	}
	if cfg.Paths.PricesFile == "" {
		return pricing, nil
	}

	prices, err := csv.NewLoader().LoadPrices(cfg.Paths.PricesFile)
	if err != nil {
		return report.Pricing{}, fmt.Errorf("error loading prices: %w", err)
	}
	pricing.Prices = prices
	return pricing, nil
}

// printHeader prints the command header information
func (c *BuildCommand) printHeader(cfg *appconfig.Config) {
	w := c.config.Out
	fmt.Fprintf(w, "Brickbuild\n")
	fmt.Fprintf(w, "Inputs:\n")
	fmt.Fprintf(w, "  Orders: %s\n", cfg.Paths.OrdersDir)
	fmt.Fprintf(w, "  Wanted lists: %s\n", cfg.Paths.WantedListsDir)
	if cfg.Paths.PricesFile != "" {
		fmt.Fprintf(w, "  Prices: %s\n", cfg.Paths.PricesFile)
	}
	fmt.Fprintf(w, "Fee allocation: %t\n", cfg.Ledger.AllocateFees)
	fmt.Fprintf(w, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(w, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(w)
}

// showHelp displays the help message
func (c *BuildCommand) showHelp() {
	fmt.Fprintf(c.config.Out, `Brickbuild - build planning from marketplace order exports

USAGE:
    brickbuild [build] [options]
    brickbuild merge [options]

BUILD OPTIONS:
    -env <file>         Environment file (default: .env)
    -orders <dir>       Directory of order XML/CSV exports (BRICKBUILD_ORDERS_DIR)
    -wanted <dir>       Directory of wanted list XML files (BRICKBUILD_WANTED_DIR)
    -prices <file>      CSV of target_id,price (BRICKBUILD_PRICES_FILE)
    -shipping <amt>     Shipping cost per sale (BRICKBUILD_SHIPPING_FEE)
    -materials <amt>    Packaging cost per sale (BRICKBUILD_MATERIALS_COST)
    -price <amt>        Price for targets missing from the prices file
    -fee-rate <rate>    Marketplace fee rate in [0, 1)
    -no-fee-allocation  Ignore order shipping and charges in unit costs
    -journal            Write build_journal.jsonl of order and build events
                        (requires -output)
    -output <dir>       Output directory for results (required for csv)
    -format <fmt>       Output format: text, json, yaml, csv (default: text)
    -log-level <lvl>    debug, info, warn, error
    -verbose            Enable verbose output
    -help               Show this help message

INPUTS:
    orders/             One or more order XML exports; orders.xml, when
                        present, is used alone. CSV exports supply catalog
                        descriptions.
    wanted_lists/       One wanted list per build target, named by file.
                        Part lines without MINQTY mark a loose-parts build.

EXAMPLES:
    brickbuild -orders orders -wanted wanted_lists -verbose
    brickbuild -format csv -output results/ -prices prices.csv
    brickbuild merge -orders orders
`)
}

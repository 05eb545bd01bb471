package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/vsinha/brickbuild/pkg/infrastructure/logging"
	"github.com/vsinha/brickbuild/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	args := os.Args[1:]
	name := "build"
	if len(args) > 0 && (args[0] == "build" || args[0] == "merge") {
		name, args = args[0], args[1:]
	}

	var cmd command
	var err error
	switch name {
	case "merge":
		cmd, err = parseMerge(args)
	default:
		cmd, err = parseBuild(args)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func parseBuild(args []string) (command, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	var (
		envFile         = fs.String("env", "", "Environment file (default: .env)")
		ordersDir       = fs.String("orders", "", "Directory of order exports")
		wantedDir       = fs.String("wanted", "", "Directory of wanted list XML files")
		pricesFile      = fs.String("prices", "", "CSV of target_id,price")
		shippingFee     = fs.String("shipping", "", "Shipping cost per sale")
		materialsCost   = fs.String("materials", "", "Packaging cost per sale")
		defaultPrice    = fs.String("price", "", "Price for targets missing from the prices file")
		feeRate         = fs.String("fee-rate", "", "Marketplace fee rate in [0, 1)")
		noFeeAllocation = fs.Bool("no-fee-allocation", false, "Ignore order shipping and charges in unit costs")
		journal         = fs.Bool("journal", false, "Write an event journal to the output directory")
		outputDir       = fs.String("output", "", "Output directory for results (optional)")
		format          = fs.String("format", "text", "Output format: text, json, yaml, csv")
		logLevel        = fs.String("log-level", "", "Log level: debug, info, warn, error")
		verbose         = fs.Bool("verbose", false, "Enable verbose output")
		help            = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	config := commands.Config{
		EnvFile:         *envFile,
		OrdersDir:       *ordersDir,
		WantedDir:       *wantedDir,
		PricesFile:      *pricesFile,
		OutputDir:       *outputDir,
		Format:          *format,
		LogLevel:        *logLevel,
		ShippingFee:     *shippingFee,
		MaterialsCost:   *materialsCost,
		DefaultPrice:    *defaultPrice,
		FeeRate:         *feeRate,
		NoFeeAllocation: *noFeeAllocation,
		Journal:         *journal,
		Verbose:         *verbose,
		Help:            *help,
	}

	return commands.NewBuildCommand(config, nil), nil
}

func parseMerge(args []string) (command, error) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	var (
		ordersDir = fs.String("orders", "orders", "Directory containing order XML exports")
		logLevel  = fs.String("log-level", "info", "Log level: debug, info, warn, error")
		verbose   = fs.Bool("verbose", false, "Print a summary of the merge")
		help      = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	logger, err := logging.New(*logLevel)
	if err != nil {
		return nil, err
	}

	config := commands.MergeConfig{
		OrdersDir: *ordersDir,
		Verbose:   *verbose,
		Help:      *help,
	}
	return commands.NewMergeCommand(config, logger), nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vsinha/brickbuild/pkg/infrastructure/repositories/bricklink"
	"go.uber.org/zap"
)

// MergeConfig holds configuration for order merging
type MergeConfig struct {
	OrdersDir string
	Verbose   bool
	Help      bool
	Out       io.Writer
}

// MergeCommand folds every order export batch into the canonical orders.xml
type MergeCommand struct {
	config MergeConfig
	logger *zap.Logger
}

// NewMergeCommand creates a new merge command
func NewMergeCommand(config MergeConfig, logger *zap.Logger) *MergeCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MergeCommand{
		config: config,
		logger: logger.Named("merge"),
	}
}

// Execute runs the merge command
func (cmd *MergeCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if cmd.config.OrdersDir == "" {
		return fmt.Errorf("orders directory is required")
	}

	// orders.xml shadows every export, so an unreadable batch would be lost
	batches, err := bricklink.LoadRawOrderBatches(cmd.config.OrdersDir)
	if err != nil {
		return fmt.Errorf("refusing to merge, fix or remove unreadable exports: %w", err)
	}
	if len(batches) == 0 {
		if cmd.config.Verbose {
			fmt.Fprintf(cmd.config.Out, "No order exports found in %s\n", cmd.config.OrdersDir)
		}
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	merged := bricklink.MergeRawOrders(batches...)

	// a failed write leaves any existing merged file in place
	path := filepath.Join(cmd.config.OrdersDir, bricklink.MergedOrdersFile)
	tmp, err := os.CreateTemp(cmd.config.OrdersDir, ".orders-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create merged file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := bricklink.WriteRawOrders(tmp, merged); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write merged orders: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write merged orders: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	cmd.logger.Info("orders merged", zap.Int("batches", len(batches)), zap.Int("orders", len(merged)))
	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Out, "Merged %d unique orders from %d exports into %s\n", len(merged), len(batches), path)
	}

	return nil
}

func (cmd *MergeCommand) printHelp() {
	fmt.Fprintf(cmd.config.Out, `Merge order exports into a single canonical orders.xml

USAGE:
    brickbuild merge -orders <dir> [options]

OPTIONS:
    -orders <dir>   Directory containing order XML exports (default: orders)
    -verbose        Print a summary of the merge
    -help           Show this help message

Orders are unique by order id; the copy with the latest order date wins.
Each order is copied unchanged, so malformed orders are still reported by
later builds. The merged file lists orders newest first and is used alone
by later builds. Unreadable exports stop the merge.
`)
}

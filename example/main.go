package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/application/services/build"
	"github.com/vsinha/brickbuild/pkg/application/services/ledger"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
	"github.com/vsinha/brickbuild/pkg/infrastructure/logging"
)

func main() {
	logger := logging.Must(logging.New("info"))
	defer logger.Sync()

	// Two purchases: a minifig lot with shipping, then loose parts
	orders := []entities.Order{
		{
			OrderID:   "25170331",
			OrderDate: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
			Seller:    "outer-rim-bricks",
			Shipping:  decimal.RequireFromString("4.00"),
			Lines: []entities.OrderLine{
				{ItemID: "sw0188", ItemType: entities.Minifig, Quantity: 4, UnitPrice: decimal.RequireFromString("3.50")},
				{ItemID: "57899", ItemType: entities.Part, Color: entities.ColorID(11), Quantity: 10, UnitPrice: decimal.RequireFromString("0.20")},
			},
		},
		{
			OrderID:   "25170412",
			OrderDate: time.Date(2024, 8, 9, 0, 0, 0, 0, time.UTC),
			Seller:    "kessel-parts",
			Lines: []entities.OrderLine{
				{ItemID: "973pb0089c01", ItemType: entities.Part, Color: entities.ColorID(1), Quantity: 3, UnitPrice: decimal.RequireFromString("1.10")},
				{ItemID: "970c00", ItemType: entities.Part, Color: entities.ColorID(11), Quantity: 5, UnitPrice: decimal.RequireFromString("0.45")},
				{ItemID: "30408pr0001", ItemType: entities.Part, Color: entities.ColorID(1), Quantity: 5, UnitPrice: decimal.RequireFromString("0.80")},
			},
		},
	}

	inventory, err := ledger.BuildInventoryFromOrders(orders, ledger.Config{AllocateFees: true}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orders rejected: %v\n", err)
	}

	targets := []entities.BuildTarget{
		{
			TargetID: "clone-trooper-pack",
			Components: []entities.Component{
				{Key: entities.AssemblyKey("sw0188"), ItemType: entities.Minifig, QtyPerUnit: 2},
				{Key: entities.PartKey("57899", entities.ColorID(11)), ItemType: entities.Part, QtyPerUnit: 2},
			},
		},
		{
			TargetID:  "loose-trooper",
			PartsOnly: true,
			Components: []entities.Component{
				{Key: entities.PartKey("973pb0089c01", entities.ColorID(1)), ItemType: entities.Part, QtyPerUnit: 1},
				{Key: entities.PartKey("970c00", entities.ColorID(11)), ItemType: entities.Part, QtyPerUnit: 1},
				{Key: entities.PartKey("30408pr0001", entities.ColorID(1)), ItemType: entities.Part, QtyPerUnit: 1},
			},
		},
	}

	results, leftover, err := build.DetermineBuildable(inventory, targets, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build pass failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Buildable targets:")
	for _, result := range results {
		limiting := "-"
		if key, ok := result.Limiting(); ok {
			limiting = key.String()
		}
		fmt.Printf("  %-20s x%d  total %s  avg %s  limited by %s\n",
			result.TargetID,
			result.BuildableCount,
			result.TotalCost.StringFixed(2),
			result.AverageCost().StringFixed(2),
			limiting)
	}

	fmt.Println("\nLeftover inventory:")
	for _, rec := range leftover.Records() {
		if rec.Quantity == 0 {
			continue
		}
		fmt.Printf("  %-16s %-10s qty %-4d @ %s\n", rec.Key.ItemID, rec.ColorName(), rec.Quantity, rec.UnitCost.StringFixed(3))
	}

	fmt.Printf("\nStock before the run is untouched: %d minifigs on hand\n", inventory.Quantity(entities.AssemblyKey("sw0188")))
}

package testing

import (
	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
	"github.com/vsinha/brickbuild/pkg/infrastructure/repositories/memory"
)

// Record builds an inventory record for test stores
func Record(key entities.StockKey, itemType entities.ItemType, qty entities.Quantity, unitCost string) *entities.InventoryRecord {
	return &entities.InventoryRecord{
		Key:      key,
		ItemType: itemType,
		Quantity: qty,
		UnitCost: decimal.RequireFromString(unitCost),
	}
}

// Store builds an in-memory store from records, panicking on invalid input
func Store(records ...*entities.InventoryRecord) *memory.InventoryRepository {
	repo := memory.NewInventoryRepository()
	if err := repo.LoadRecords(records); err != nil {
		panic(err)
	}
	return repo
}

// Part returns a part manifest line
func Part(itemID string, color int, qty entities.Quantity) entities.Component {
	return entities.Component{
		Key:        entities.PartKey(itemID, entities.ColorID(color)),
		ItemType:   entities.Part,
		QtyPerUnit: qty,
	}
}

// Minifig returns a minifig manifest line
func Minifig(itemID string, qty entities.Quantity) entities.Component {
	return entities.Component{
		Key:        entities.AssemblyKey(itemID),
		ItemType:   entities.Minifig,
		QtyPerUnit: qty,
	}
}

// Set returns a set manifest line
func Set(itemID string, qty entities.Quantity) entities.Component {
	return entities.Component{
		Key:        entities.AssemblyKey(itemID),
		ItemType:   entities.Set,
		QtyPerUnit: qty,
	}
}

// BuildMinifigTestData builds a small trooper scenario: a minifig pack and a
// parts-only list whose manifest also names a set.
func BuildMinifigTestData() (*memory.InventoryRepository, []entities.BuildTarget) {
	store := Store(
		Record(entities.AssemblyKey("sw0188"), entities.Minifig, 6, "3.50"),
		Record(entities.PartKey("973pb0089c01", entities.ColorID(1)), entities.Part, 4, "1.20"),
		Record(entities.PartKey("970c00", entities.ColorID(11)), entities.Part, 10, "0.40"),
		Record(entities.PartKey("30408pr0001", entities.ColorID(1)), entities.Part, 5, "0.90"),
		Record(entities.PartKey("57899", entities.ColorID(11)), entities.Part, 8, "0.35"),
		Record(entities.AssemblyKey("75001-1"), entities.Set, 1, "12.00"),
	)

	targets := []entities.BuildTarget{
		{
			TargetID: "clone-trooper-pack",
			Components: []entities.Component{
				Minifig("sw0188", 2),
				Part("57899", 11, 2),
			},
		},
		{
			TargetID:  "loose-trooper",
			PartsOnly: true,
			Components: []entities.Component{
				Part("973pb0089c01", 1, 1),
				Part("970c00", 11, 1),
				Part("30408pr0001", 1, 1),
				Set("75001-1", 1),
			},
		},
	}

	return store, targets
}

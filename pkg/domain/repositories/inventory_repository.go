package repositories

import "github.com/vsinha/brickbuild/pkg/domain/entities"

// InventoryStore maps stock keys to available quantity and unit cost.
// Implementations are not safe for concurrent mutation; each build run works
// on its own Snapshot.
type InventoryStore interface {
	// Quantity returns the available quantity, or 0 when the key is absent.
	Quantity(key entities.StockKey) entities.Quantity
	Record(key entities.StockKey) (entities.InventoryRecord, bool)
	Put(record entities.InventoryRecord) error
	// Deduct removes amount without clamping and reports an
	// InvariantViolation when the remaining quantity is negative.
	Deduct(key entities.StockKey, amount entities.Quantity) error
	Snapshot() InventoryStore
	Records() []entities.InventoryRecord
	Len() int
}

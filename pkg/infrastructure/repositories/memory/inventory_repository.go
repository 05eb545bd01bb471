package memory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
	"github.com/vsinha/brickbuild/pkg/domain/repositories"
)

// InventoryRepository provides in-memory inventory storage keyed by stock key
type InventoryRepository struct {
	records map[entities.StockKey]*entities.InventoryRecord
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		records: make(map[entities.StockKey]*entities.InventoryRecord),
	}
}

// Verify interface compliance
var _ repositories.InventoryStore = (*InventoryRepository)(nil)

// LoadRecords loads inventory records into the repository
func (r *InventoryRepository) LoadRecords(records []*entities.InventoryRecord) error {
	for _, rec := range records {
		if err := r.Put(*rec); err != nil {
			return err
		}
	}
	return nil
}

// Put stores a record, replacing any record with the same key
func (r *InventoryRepository) Put(record entities.InventoryRecord) error {
	if record.Key.ItemID == "" {
		return fmt.Errorf("item id cannot be empty")
	}
	if record.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative for %s, got %d", record.Key, record.Quantity)
	}
	rec := record
	r.records[record.Key] = &rec
	return nil
}

// Quantity returns the available quantity for a key, 0 when absent
func (r *InventoryRepository) Quantity(key entities.StockKey) entities.Quantity {
	if rec, ok := r.records[key]; ok {
		return rec.Quantity
	}
	return 0
}

// Record returns a copy of the record for a key
func (r *InventoryRepository) Record(key entities.StockKey) (entities.InventoryRecord, bool) {
	rec, ok := r.records[key]
	if !ok {
		return entities.InventoryRecord{}, false
	}
	return *rec, true
}

// Deduct removes amount from the key's quantity. No clamping is applied.
func (r *InventoryRepository) Deduct(key entities.StockKey, amount entities.Quantity) error {
	rec, ok := r.records[key]
	if !ok {
		if amount == 0 {
			return nil
		}
		return &entities.InvariantViolation{Key: key, Quantity: -amount}
	}

	rec.Quantity -= amount
	if rec.Quantity < 0 {
		return &entities.InvariantViolation{Key: key, Quantity: rec.Quantity}
	}
	return nil
}

// Snapshot returns an independent deep copy
func (r *InventoryRepository) Snapshot() repositories.InventoryStore {
	return r.Clone()
}

// Clone is Snapshot with the concrete type
func (r *InventoryRepository) Clone() *InventoryRepository {
	clone := &InventoryRepository{
		records: make(map[entities.StockKey]*entities.InventoryRecord, len(r.records)),
	}
	for key, rec := range r.records {
		copied := *rec
		clone.records[key] = &copied
	}
	return clone
}

// Records returns copies of all records ordered by key
func (r *InventoryRepository) Records() []entities.InventoryRecord {
	records := make([]entities.InventoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key.Less(records[j].Key)
	})
	return records
}

// Len returns the number of distinct keys
func (r *InventoryRepository) Len() int {
	return len(r.records)
}

// TotalQuantity returns the summed quantity of all records
func (r *InventoryRepository) TotalQuantity() entities.Quantity {
	var total entities.Quantity
	for _, rec := range r.records {
		total += rec.Quantity
	}
	return total
}

// TotalCost returns the value of all remaining stock at unit cost
func (r *InventoryRepository) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, rec := range r.records {
		total = total.Add(rec.TotalCost())
	}
	return total
}

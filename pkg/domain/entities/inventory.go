package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InventoryRecord is the available stock and blended unit cost for one key
type InventoryRecord struct {
	Key         StockKey
	ItemType    ItemType
	Description string
	Quantity    Quantity
	UnitCost    decimal.Decimal
}

// NewInventoryRecord creates a validated InventoryRecord
func NewInventoryRecord(key StockKey, itemType ItemType, description string, quantity Quantity, unitCost decimal.Decimal) (*InventoryRecord, error) {
	if key.ItemID == "" {
		return nil, fmt.Errorf("item id cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("unit cost cannot be negative, got %s", unitCost)
	}

	return &InventoryRecord{
		Key:         key,
		ItemType:    itemType,
		Description: description,
		Quantity:    quantity,
		UnitCost:    unitCost,
	}, nil
}

// TotalCost is the value of the remaining quantity at unit cost
func (r InventoryRecord) TotalCost() decimal.Decimal {
	return r.UnitCost.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// ColorName returns the display name of the record's color
func (r InventoryRecord) ColorName() string {
	if name, ok := r.Key.Color.Name(); ok {
		return name
	}
	return r.Key.Color.String()
}

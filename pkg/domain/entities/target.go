package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Component is one manifest line of a build target
type Component struct {
	Key        StockKey
	ItemType   ItemType
	QtyPerUnit Quantity
}

// NewComponent creates a validated Component
func NewComponent(itemType ItemType, itemID string, color Color, qtyPerUnit Quantity) (*Component, error) {
	key, err := KeyFor(itemType, itemID, color)
	if err != nil {
		return nil, err
	}
	if qtyPerUnit < 0 {
		return nil, &DataIntegrityError{
			Record: key.String(),
			Field:  "qty_per_unit",
			Reason: fmt.Sprintf("quantity per unit cannot be negative, got %d", qtyPerUnit),
		}
	}

	return &Component{
		Key:        key,
		ItemType:   itemType,
		QtyPerUnit: qtyPerUnit,
	}, nil
}

// BuildTarget is a wanted assembly and its component manifest. When PartsOnly
// is set, only part components limit and consume stock.
type BuildTarget struct {
	TargetID   string
	Components []Component
	PartsOnly  bool
}

// BuildResult is the outcome for one target. Results are values and are not
// modified after the engine emits them.
type BuildResult struct {
	TargetID          string          `json:"target_id"`
	BuildableCount    Quantity        `json:"buildable_count"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	LimitingComponent *StockKey       `json:"-"`
}

// AverageCost returns the cost of one build, or zero when nothing was built
func (r BuildResult) AverageCost() decimal.Decimal {
	if r.BuildableCount == 0 {
		return decimal.Zero
	}
	return r.TotalCost.Div(decimal.NewFromInt(int64(r.BuildableCount)))
}

// Limiting returns the limiting key, if any
func (r BuildResult) Limiting() (StockKey, bool) {
	if r.LimitingComponent == nil {
		return StockKey{}, false
	}
	return *r.LimitingComponent, true
}

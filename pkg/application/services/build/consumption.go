package build

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
)

// ConsumptionContext holds what a build run drew from one stock key
type ConsumptionContext struct {
	Quantity entities.Quantity
	Cost     decimal.Decimal
	Targets  []string
}

// ConsumptionMap tracks consumption by stock key across a build run
type ConsumptionMap map[entities.StockKey]*ConsumptionContext

// NewConsumptionMap creates a new empty consumption map
func NewConsumptionMap() ConsumptionMap {
	return make(ConsumptionMap)
}

// Add records quantity and cost drawn from key for a target
func (cm ConsumptionMap) Add(key entities.StockKey, targetID string, quantity entities.Quantity, cost decimal.Decimal) {
	ctx, ok := cm[key]
	if !ok {
		ctx = &ConsumptionContext{}
		cm[key] = ctx
	}
	ctx.Quantity += quantity
	ctx.Cost = ctx.Cost.Add(cost)
	ctx.Targets = append(ctx.Targets, targetID)
}

// Get retrieves consumption for a key
func (cm ConsumptionMap) Get(key entities.StockKey) *ConsumptionContext {
	return cm[key]
}

// Size returns the number of consumed keys
func (cm ConsumptionMap) Size() int {
	return len(cm)
}

// Keys returns consumed keys in key order
func (cm ConsumptionMap) Keys() []entities.StockKey {
	keys := make([]entities.StockKey, 0, len(cm))
	for key := range cm {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
	return keys
}

// TotalQuantity returns the quantity consumed across all keys
func (cm ConsumptionMap) TotalQuantity() entities.Quantity {
	var total entities.Quantity
	for _, ctx := range cm {
		total += ctx.Quantity
	}
	return total
}

// TotalCost returns the cost consumed across all keys
func (cm ConsumptionMap) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, ctx := range cm {
		total = total.Add(ctx.Cost)
	}
	return total
}

// String returns a string representation of the consumption map for debugging
func (cm ConsumptionMap) String() string {
	if len(cm) == 0 {
		return "ConsumptionMap{empty}"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ConsumptionMap{%d entries:\n", len(cm))
	for _, key := range cm.Keys() {
		ctx := cm[key]
		fmt.Fprintf(&b, "  %s: qty=%d, cost=%s, targets=%v\n", key, ctx.Quantity, ctx.Cost, ctx.Targets)
	}
	b.WriteString("}")
	return b.String()
}

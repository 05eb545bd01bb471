package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a purchase with header-level fees and its line items
type Order struct {
	OrderID           string
	OrderDate         time.Time
	Seller            string
	Shipping          decimal.Decimal
	AdditionalCharges decimal.Decimal
	Lines             []OrderLine
}

// OrderLine is a single purchased lot
type OrderLine struct {
	ItemID      string
	ItemType    ItemType
	Color       Color
	Quantity    Quantity
	UnitPrice   decimal.Decimal
	Condition   string
	Description string
}

// Fees returns the order-level charges to distribute over the lines
func (o Order) Fees() decimal.Decimal {
	return o.Shipping.Add(o.AdditionalCharges)
}

// Subtotal returns the sum of line totals
func (o Order) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Total())
	}
	return total
}

// Total returns quantity times unit price
func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Key returns the stock key for the line
func (l OrderLine) Key() (StockKey, error) {
	return KeyFor(l.ItemType, l.ItemID, l.Color)
}

package report

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/application/dto"
	"github.com/vsinha/brickbuild/pkg/application/services/build"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
	"github.com/vsinha/brickbuild/pkg/domain/repositories"
)

// Pricing holds the per-sale assumptions used to price each target
type Pricing struct {
	ShippingFee        decimal.Decimal
	MaterialsCost      decimal.Decimal
	DefaultPrice       decimal.Decimal
	MarketplaceFeeRate decimal.Decimal
	Prices             map[string]decimal.Decimal
}

// PriceFor returns the listed price for a target, or the default price
func (p Pricing) PriceFor(targetID string) decimal.Decimal {
	if price, ok := p.Prices[targetID]; ok {
		return price
	}
	return p.DefaultPrice
}

// Profit is the net per unit after marketplace fee, shipping and materials
func (p Pricing) Profit(price, avgCost decimal.Decimal) decimal.Decimal {
	net := price.Mul(decimal.NewFromInt(1).Sub(p.MarketplaceFeeRate))
	return net.Sub(avgCost).Sub(p.ShippingFee).Sub(p.MaterialsCost).Round(2)
}

// Builder assembles build reports
type Builder struct {
	pricing Pricing
	now     func() time.Time
	newID   func() string
}

// NewBuilder creates a report builder for the given pricing
func NewBuilder(pricing Pricing) *Builder {
	return &Builder{
		pricing: pricing,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Build renders engine output into a report
func (b *Builder) Build(
	results []entities.BuildResult,
	leftover repositories.InventoryStore,
	consumption build.ConsumptionMap,
) *dto.BuildReport {
	report := &dto.BuildReport{
		RunID:       b.newID(),
		GeneratedAt: b.now().UTC(),
		Summary:     make([]dto.SummaryRow, 0, len(results)),
		Leftover:    make([]dto.LeftoverRow, 0),
		Consumption: make([]dto.ConsumptionRow, 0, consumption.Size()),
	}

	buildCost := decimal.Zero
	for _, result := range results {
		report.Summary = append(report.Summary, b.summaryRow(result))
		report.Totals.Buildable += int64(result.BuildableCount)
		buildCost = buildCost.Add(result.TotalCost)
	}
	report.Totals.Targets = len(results)
	report.Totals.BuildCost = money(buildCost)

	leftoverValue := decimal.Zero
	if leftover != nil {
		for _, rec := range leftover.Records() {
			if rec.Quantity <= 0 {
				continue
			}
			row := leftoverRow(rec)
			report.Leftover = append(report.Leftover, row)
			report.Totals.LeftoverItems += row.Quantity
			leftoverValue = leftoverValue.Add(rec.TotalCost())
		}
	}
	report.Totals.LeftoverLots = len(report.Leftover)
	report.Totals.LeftoverValue = money(leftoverValue)

	for _, key := range consumption.Keys() {
		ctx := consumption.Get(key)
		report.Consumption = append(report.Consumption, dto.ConsumptionRow{
			Key:      key.String(),
			Quantity: int64(ctx.Quantity),
			Cost:     money(ctx.Cost),
			Targets:  ctx.Targets,
		})
	}
	report.Totals.ConsumedItems = int64(consumption.TotalQuantity())
	report.Totals.ConsumedCost = money(consumption.TotalCost())

	return report
}

func (b *Builder) summaryRow(result entities.BuildResult) dto.SummaryRow {
	avg := result.AverageCost().Round(2)
	price := b.pricing.PriceFor(result.TargetID)
	profit := b.pricing.Profit(price, avg)

	row := dto.SummaryRow{
		TargetID:  result.TargetID,
		Buildable: int64(result.BuildableCount),
		TotalCost: money(result.TotalCost),
		AvgCost:   money(avg),
		Price:     money(price),
		Profit:    money(profit),
		Margin:    ratio(profit, price),
		Markup:    ratio(profit, avg),
	}
	if limiting, ok := result.Limiting(); ok {
		row.Limiting = limiting.String()
	}
	return row
}

func leftoverRow(rec entities.InventoryRecord) dto.LeftoverRow {
	row := dto.LeftoverRow{
		ItemID:      rec.Key.ItemID,
		ItemType:    string(rec.ItemType),
		Description: rec.Description,
		Quantity:    int64(rec.Quantity),
		TotalCost:   money(rec.TotalCost()),
		UnitCost:    money(rec.UnitCost),
	}
	if !rec.Key.IsAssembly() {
		row.Color = rec.ColorName()
	}
	if rec.ItemType.IsPart() {
		row.Description = stripColorPrefix(rec.Description, row.Color)
	}
	return row
}

// stripColorPrefix drops a leading color name, ignoring case
func stripColorPrefix(description, color string) string {
	if color == "" || len(description) < len(color) {
		return description
	}
	if strings.EqualFold(description[:len(color)], color) {
		return strings.TrimLeft(description[len(color):], " ")
	}
	return description
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func ratio(num, den decimal.Decimal) string {
	if den.IsZero() {
		return ""
	}
	return num.Div(den).StringFixed(2)
}

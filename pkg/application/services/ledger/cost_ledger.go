package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
	"github.com/vsinha/brickbuild/pkg/domain/repositories"
	"github.com/vsinha/brickbuild/pkg/infrastructure/events"
	"github.com/vsinha/brickbuild/pkg/infrastructure/repositories/memory"
	"go.uber.org/zap"
)

// Config holds configuration for cost ingestion
type Config struct {
	// AllocateFees spreads order shipping and charges over the lines. When
	// false, landed cost is the bare line total.
	AllocateFees bool

	// Journal, when set, receives an ingested or rejected event per order
	Journal events.EventStore
}

// InventoryDelta is the contribution of one order line to a stock key
type InventoryDelta struct {
	Key          entities.StockKey
	ItemType     entities.ItemType
	Quantity     entities.Quantity
	LineTotal    decimal.Decimal
	AllocatedFee decimal.Decimal
}

// LandedCost is the line total plus its share of order fees
func (d InventoryDelta) LandedCost() decimal.Decimal {
	return d.LineTotal.Add(d.AllocatedFee)
}

type accumulator struct {
	itemType    entities.ItemType
	description string
	quantity    entities.Quantity
	landedCost  decimal.Decimal
}

func (a *accumulator) unitCost() decimal.Decimal {
	if a.quantity == 0 {
		return decimal.Zero
	}
	return a.landedCost.Div(decimal.NewFromInt(int64(a.quantity)))
}

// CostLedger accumulates landed cost per stock key across order batches and
// derives a running weighted-average unit cost.
type CostLedger struct {
	config Config
	logger *zap.Logger

	totals map[entities.StockKey]*accumulator
}

// NewCostLedger creates a ledger with fee allocation enabled
func NewCostLedger(logger *zap.Logger) *CostLedger {
	return NewCostLedgerWithConfig(Config{AllocateFees: true}, logger)
}

// NewCostLedgerWithConfig creates a ledger with custom configuration
func NewCostLedgerWithConfig(config Config, logger *zap.Logger) *CostLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostLedger{
		config: config,
		logger: logger,
		totals: make(map[entities.StockKey]*accumulator),
	}
}

// Ingest validates an order and accumulates its lines. An order with any
// invalid line is rejected as a whole and leaves the ledger unchanged.
func (l *CostLedger) Ingest(order entities.Order) ([]InventoryDelta, error) {
	keys, err := l.validate(order)
	if err != nil {
		l.record(events.NewOrderRejectedEvent(events.OrderRejected{OrderID: order.OrderID, Reason: err.Error()}))
		return nil, err
	}

	fees := decimal.Zero
	if l.config.AllocateFees {
		fees = order.Fees()
	}
	allocations := AllocateFees(order.Lines, fees)

	deltas := make([]InventoryDelta, 0, len(order.Lines))
	for i, line := range order.Lines {
		deltas = append(deltas, InventoryDelta{
			Key:          keys[i],
			ItemType:     line.ItemType,
			Quantity:     line.Quantity,
			LineTotal:    line.Total(),
			AllocatedFee: allocations[i],
		})
	}

	// a discount may lower landed cost but never below zero
	for i, delta := range deltas {
		if delta.LandedCost().IsNegative() {
			err := &entities.DataIntegrityError{
				Record: fmt.Sprintf("order %s line %d", order.OrderID, i+1),
				Field:  "fees",
				Reason: fmt.Sprintf("discount of %s drives landed cost below zero", fees.Neg()),
			}
			l.record(events.NewOrderRejectedEvent(events.OrderRejected{OrderID: order.OrderID, Reason: err.Error()}))
			return nil, err
		}
	}

	for i, delta := range deltas {
		l.accumulate(delta, order.Lines[i].Description)
	}

	l.record(events.NewOrderIngestedEvent(events.OrderIngested{
		OrderID: order.OrderID,
		Lines:   len(order.Lines),
		Fees:    fees.StringFixed(2),
	}))

	l.logger.Debug("order ingested",
		zap.String("order_id", order.OrderID),
		zap.Int("lines", len(order.Lines)),
		zap.String("fees", fees.String()),
	)

	return deltas, nil
}

func (l *CostLedger) validate(order entities.Order) ([]entities.StockKey, error) {
	record := fmt.Sprintf("order %s", order.OrderID)

	// additional charges go negative for coupons and store credit
	if order.Shipping.IsNegative() {
		return nil, &entities.DataIntegrityError{
			Record: record,
			Field:  "shipping",
			Reason: fmt.Sprintf("shipping cannot be negative, got %s", order.Shipping),
		}
	}

	keys := make([]entities.StockKey, len(order.Lines))
	for i, line := range order.Lines {
		lineRecord := fmt.Sprintf("%s line %d", record, i+1)

		key, err := line.Key()
		if err != nil {
			var integrity *entities.DataIntegrityError
			if errors.As(err, &integrity) {
				integrity.Record = lineRecord
			}
			return nil, err
		}
		if line.Quantity <= 0 {
			return nil, &entities.DataIntegrityError{
				Record: lineRecord,
				Field:  "quantity",
				Reason: fmt.Sprintf("quantity must be positive, got %d", line.Quantity),
			}
		}
		if line.UnitPrice.IsNegative() {
			return nil, &entities.DataIntegrityError{
				Record: lineRecord,
				Field:  "unit_price",
				Reason: fmt.Sprintf("unit price cannot be negative, got %s", line.UnitPrice),
			}
		}
		keys[i] = key
	}

	return keys, nil
}

func (l *CostLedger) accumulate(delta InventoryDelta, description string) {
	acc, ok := l.totals[delta.Key]
	if !ok {
		acc = &accumulator{itemType: delta.ItemType}
		l.totals[delta.Key] = acc
	}
	acc.quantity += delta.Quantity
	acc.landedCost = acc.landedCost.Add(delta.LandedCost())
	if acc.description == "" {
		acc.description = description
	}
}

// UnitCost returns the current blended unit cost for a key
func (l *CostLedger) UnitCost(key entities.StockKey) (decimal.Decimal, bool) {
	acc, ok := l.totals[key]
	if !ok {
		return decimal.Zero, false
	}
	return acc.unitCost(), true
}

// Populate writes one record per accumulated key into store
func (l *CostLedger) Populate(store repositories.InventoryStore) error {
	for key, acc := range l.totals {
		record := entities.InventoryRecord{
			Key:         key,
			ItemType:    acc.itemType,
			Description: acc.description,
			Quantity:    acc.quantity,
			UnitCost:    acc.unitCost(),
		}
		if err := store.Put(record); err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
	}
	return nil
}

func (l *CostLedger) record(event events.Event) {
	if l.config.Journal == nil {
		return
	}
	if err := l.config.Journal.AppendEvent(event.StreamID(), event); err != nil {
		l.logger.Warn("failed to record event", zap.String("type", event.Type()), zap.Error(err))
	}
}

// BuildInventoryFromOrders ingests every order and returns the resulting
// store. Rejected orders are reported in the joined error; accepted orders
// are still reflected in the store.
func BuildInventoryFromOrders(orders []entities.Order, config Config, logger *zap.Logger) (*memory.InventoryRepository, error) {
	ledger := NewCostLedgerWithConfig(config, logger)

	var rejected []error
	for _, order := range orders {
		if _, err := ledger.Ingest(order); err != nil {
			ledger.logger.Warn("order rejected", zap.String("order_id", order.OrderID), zap.Error(err))
			rejected = append(rejected, err)
		}
	}

	store := memory.NewInventoryRepository()
	if err := ledger.Populate(store); err != nil {
		return nil, err
	}

	ledger.logger.Info("inventory built",
		zap.Int("orders", len(orders)),
		zap.Int("rejected", len(rejected)),
		zap.Int("keys", store.Len()),
	)

	return store, errors.Join(rejected...)
}

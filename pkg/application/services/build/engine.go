package build

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
	"github.com/vsinha/brickbuild/pkg/domain/repositories"
	"github.com/vsinha/brickbuild/pkg/domain/services"
	"github.com/vsinha/brickbuild/pkg/infrastructure/events"
	"go.uber.org/zap"
)

// Engine determines how many units of each target can be built from a store
// it owns exclusively. Targets are served greedily in list order: earlier
// targets get first claim on shared components.
type Engine struct {
	store       repositories.InventoryStore
	validator   *services.TargetValidator
	consumption ConsumptionMap
	journal     events.EventStore
	logger      *zap.Logger
}

// NewEngine takes ownership of store. The engine mutates it in place; pass a
// Snapshot when the caller still needs the original.
func NewEngine(store repositories.InventoryStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:       store,
		validator:   services.NewTargetValidator(),
		consumption: NewConsumptionMap(),
		logger:      logger,
	}
}

// WithJournal records target, consumption and shortage events into journal
// as the run progresses
func (e *Engine) WithJournal(journal events.EventStore) *Engine {
	e.journal = journal
	return e
}

// DetermineBuildable runs a build pass on a private copy of inventory and
// returns the results together with the leftover stock. inventory itself is
// never modified.
func DetermineBuildable(
	inventory repositories.InventoryStore,
	targets []entities.BuildTarget,
	logger *zap.Logger,
) ([]entities.BuildResult, repositories.InventoryStore, error) {
	engine := NewEngine(inventory.Snapshot(), logger)
	results, err := engine.Run(targets)
	if err != nil {
		return nil, nil, err
	}
	return results, engine.Leftover(), nil
}

// Run processes targets in order and consumes stock for each. Malformed
// targets are rejected before any stock is touched; a negative quantity
// after deduction aborts the run.
func (e *Engine) Run(targets []entities.BuildTarget) ([]entities.BuildResult, error) {
	validation := e.validator.ValidateTargets(targets)
	if !validation.Valid() {
		return nil, fmt.Errorf("invalid build targets: %w", errors.Join(validation.Errors...))
	}
	for targetID, keys := range validation.DuplicateComponents {
		e.logger.Debug("merging repeated components", zap.String("target", targetID), zap.Int("repeats", len(keys)))
	}

	results := make([]entities.BuildResult, 0, len(targets))
	for _, target := range targets {
		result, err := e.buildTarget(target)
		if err != nil {
			return nil, fmt.Errorf("build pass aborted at target %s: %w", target.TargetID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// Leftover returns the store in its current, consumed state
func (e *Engine) Leftover() repositories.InventoryStore {
	return e.store
}

// Consumption returns what the run drew from each key so far
func (e *Engine) Consumption() ConsumptionMap {
	return e.consumption
}

type requirement struct {
	key entities.StockKey
	qty entities.Quantity
}

// requirements filters a manifest down to the lines that limit the build.
// Repeated keys are merged at the position of their first occurrence.
func requirements(target entities.BuildTarget) []requirement {
	reqs := make([]requirement, 0, len(target.Components))
	index := make(map[entities.StockKey]int, len(target.Components))

	for _, comp := range target.Components {
		if target.PartsOnly && !comp.ItemType.IsPart() {
			continue
		}
		if comp.QtyPerUnit == 0 {
			continue
		}
		if i, ok := index[comp.Key]; ok {
			reqs[i].qty += comp.QtyPerUnit
			continue
		}
		index[comp.Key] = len(reqs)
		reqs = append(reqs, requirement{key: comp.Key, qty: comp.QtyPerUnit})
	}

	return reqs
}

func (e *Engine) buildTarget(target entities.BuildTarget) (entities.BuildResult, error) {
	reqs := requirements(target)
	if len(reqs) == 0 {
		e.logger.Debug("target has no limiting components", zap.String("target", target.TargetID))
		e.publish(events.NewTargetBuiltEvent(events.TargetBuilt{TargetID: target.TargetID, TotalCost: "0.00"}))
		return entities.BuildResult{TargetID: target.TargetID, TotalCost: decimal.Zero}, nil
	}

	// first minimum in manifest order wins ties
	count := e.store.Quantity(reqs[0].key) / reqs[0].qty
	limiting := reqs[0].key
	for _, req := range reqs[1:] {
		if candidate := e.store.Quantity(req.key) / req.qty; candidate < count {
			count = candidate
			limiting = req.key
		}
	}

	total := decimal.Zero
	if count > 0 {
		for _, req := range reqs {
			amount := req.qty * count
			record, _ := e.store.Record(req.key)
			if err := e.store.Deduct(req.key, amount); err != nil {
				return entities.BuildResult{}, err
			}
			cost := record.UnitCost.Mul(decimal.NewFromInt(int64(amount)))
			total = total.Add(cost)
			e.consumption.Add(req.key, target.TargetID, amount, cost)
			e.publish(events.NewComponentConsumedEvent(events.ComponentConsumed{
				TargetID: target.TargetID,
				Key:      req.key.String(),
				Quantity: int64(amount),
				Cost:     cost.StringFixed(2),
			}))
		}
	}

	e.logger.Debug("target evaluated",
		zap.String("target", target.TargetID),
		zap.Int64("buildable", int64(count)),
		zap.Stringer("limiting", limiting),
		zap.String("total_cost", total.String()),
	)

	e.publishResult(target.TargetID, count, total, limiting, reqs)

	return entities.BuildResult{
		TargetID:          target.TargetID,
		BuildableCount:    count,
		TotalCost:         total,
		LimitingComponent: &limiting,
	}, nil
}

func (e *Engine) publishResult(targetID string, count entities.Quantity, total decimal.Decimal, limiting entities.StockKey, reqs []requirement) {
	if e.journal == nil {
		return
	}

	e.publish(events.NewTargetBuiltEvent(events.TargetBuilt{
		TargetID:  targetID,
		Buildable: int64(count),
		TotalCost: total.StringFixed(2),
		Limiting:  limiting.String(),
	}))

	for _, req := range reqs {
		if req.key != limiting {
			continue
		}
		available := e.store.Quantity(req.key)
		e.publish(events.NewShortageIdentifiedEvent(events.ShortageIdentified{
			TargetID:  targetID,
			Key:       req.key.String(),
			Available: int64(available),
			Required:  int64(req.qty - available),
		}))
		return
	}
}

func (e *Engine) publish(event events.Event) {
	if e.journal == nil {
		return
	}
	if err := e.journal.AppendEvent(event.StreamID(), event); err != nil {
		e.logger.Warn("failed to record event", zap.String("type", event.Type()), zap.Error(err))
	}
}

package build

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
	"github.com/vsinha/brickbuild/pkg/infrastructure/events"
	"github.com/vsinha/brickbuild/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/brickbuild/pkg/infrastructure/testing"
	"go.uber.org/zap/zaptest"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDetermineBuildable_SingleAssembly(t *testing.T) {
	key := entities.AssemblyKey("1001")
	inventory := testhelpers.Store(testhelpers.Record(key, entities.Set, 5, "2.00"))
	targets := []entities.BuildTarget{
		{TargetID: "T1", Components: []entities.Component{testhelpers.Set("1001", 2)}},
	}

	results, leftover, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	result := results[0]
	if result.BuildableCount != 2 {
		t.Errorf("Expected buildable count 2, got %d", result.BuildableCount)
	}
	if !result.TotalCost.Equal(dec("8.00")) {
		t.Errorf("Expected total cost 8.00, got %s", result.TotalCost)
	}
	if limiting, ok := result.Limiting(); !ok || limiting != key {
		t.Errorf("Expected limiting component %s, got %v", key, result.LimitingComponent)
	}
	if got := leftover.Quantity(key); got != 1 {
		t.Errorf("Expected leftover quantity 1, got %d", got)
	}
	if got := inventory.Quantity(key); got != 5 {
		t.Errorf("Expected caller inventory untouched at 5, got %d", got)
	}
}

func TestDetermineBuildable_MissingComponent(t *testing.T) {
	present := entities.PartKey("3001", entities.ColorID(5))
	missing := entities.PartKey("3002", entities.ColorID(5))
	inventory := testhelpers.Store(testhelpers.Record(present, entities.Part, 10, "0.10"))
	targets := []entities.BuildTarget{
		{TargetID: "T1", Components: []entities.Component{
			testhelpers.Part("3001", 5, 1),
			testhelpers.Part("3002", 5, 1),
		}},
	}

	results, leftover, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Expected missing key not to be an error, got %v", err)
	}

	result := results[0]
	if result.BuildableCount != 0 {
		t.Errorf("Expected buildable count 0, got %d", result.BuildableCount)
	}
	if limiting, ok := result.Limiting(); !ok || limiting != missing {
		t.Errorf("Expected limiting component %s, got %v", missing, result.LimitingComponent)
	}
	if !result.TotalCost.IsZero() {
		t.Errorf("Expected zero cost, got %s", result.TotalCost)
	}
	if got := leftover.Quantity(present); got != 10 {
		t.Errorf("Expected no deduction, got quantity %d", got)
	}
	if _, ok := leftover.Record(missing); ok {
		t.Error("Expected missing key to stay absent")
	}
}

func TestDetermineBuildable_PartsOnlyIgnoresAssemblies(t *testing.T) {
	part := entities.PartKey("3626c", entities.ColorID(3))
	set := entities.AssemblyKey("6090-1")
	inventory := testhelpers.Store(
		testhelpers.Record(part, entities.Part, 10, "0.50"),
		testhelpers.Record(set, entities.Set, 0, "20.00"),
	)
	targets := []entities.BuildTarget{
		{TargetID: "loose", PartsOnly: true, Components: []entities.Component{
			testhelpers.Part("3626c", 3, 3),
			testhelpers.Set("6090-1", 1),
		}},
	}

	results, leftover, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}

	if results[0].BuildableCount != 3 {
		t.Errorf("Expected buildable count 3, got %d", results[0].BuildableCount)
	}
	if !results[0].TotalCost.Equal(dec("4.50")) {
		t.Errorf("Expected total cost 4.50, got %s", results[0].TotalCost)
	}
	if got := leftover.Quantity(part); got != 1 {
		t.Errorf("Expected part leftover 1, got %d", got)
	}
	if got := leftover.Quantity(set); got != 0 {
		t.Errorf("Expected set stock untouched at 0, got %d", got)
	}
}

func TestDetermineBuildable_SetLimitsWhenNotPartsOnly(t *testing.T) {
	inventory := testhelpers.Store(
		testhelpers.Record(entities.PartKey("3626c", entities.ColorID(3)), entities.Part, 10, "0.50"),
	)
	targets := []entities.BuildTarget{
		{TargetID: "kit", Components: []entities.Component{
			testhelpers.Part("3626c", 3, 3),
			testhelpers.Set("6090-1", 1),
		}},
	}

	results, _, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}
	if results[0].BuildableCount != 0 {
		t.Errorf("Expected the absent set to limit the build to 0, got %d", results[0].BuildableCount)
	}
}

func TestDetermineBuildable_EmptyManifest(t *testing.T) {
	inventory := testhelpers.Store(testhelpers.Record(entities.AssemblyKey("sw0001"), entities.Minifig, 3, "1.00"))
	targets := []entities.BuildTarget{
		{TargetID: "empty"},
		{TargetID: "zeros", Components: []entities.Component{testhelpers.Minifig("sw0001", 0)}},
		{TargetID: "assemblies-only", PartsOnly: true, Components: []entities.Component{testhelpers.Minifig("sw0001", 1)}},
	}

	results, leftover, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}

	for _, result := range results {
		if result.BuildableCount != 0 {
			t.Errorf("Expected %s to build 0, got %d", result.TargetID, result.BuildableCount)
		}
		if result.LimitingComponent != nil {
			t.Errorf("Expected %s to have no limiting component, got %v", result.TargetID, *result.LimitingComponent)
		}
	}
	if got := leftover.Quantity(entities.AssemblyKey("sw0001")); got != 3 {
		t.Errorf("Expected stock untouched at 3, got %d", got)
	}
}

func TestDetermineBuildable_ZeroQuantityLineNeverLimits(t *testing.T) {
	inventory := testhelpers.Store(testhelpers.Record(entities.AssemblyKey("sw0001"), entities.Minifig, 3, "1.00"))
	targets := []entities.BuildTarget{
		{TargetID: "T", Components: []entities.Component{
			testhelpers.Minifig("sw0001", 1),
			testhelpers.Part("absent", 1, 0),
		}},
	}

	results, _, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}
	if results[0].BuildableCount != 3 {
		t.Errorf("Expected buildable count 3, got %d", results[0].BuildableCount)
	}
}

func TestDetermineBuildable_ConsumesFullManifest(t *testing.T) {
	fig := entities.AssemblyKey("sw0001")
	acc := entities.PartKey("30374", entities.ColorID(36))
	inventory := testhelpers.Store(
		testhelpers.Record(fig, entities.Minifig, 3, "1.00"),
		testhelpers.Record(acc, entities.Part, 6, "0.50"),
	)
	targets := []entities.BuildTarget{
		{TargetID: "fig-with-saber", Components: []entities.Component{
			testhelpers.Minifig("sw0001", 1),
			testhelpers.Part("30374", 36, 2),
		}},
	}

	results, leftover, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}

	if results[0].BuildableCount != 3 {
		t.Errorf("Expected buildable count 3, got %d", results[0].BuildableCount)
	}
	if !results[0].TotalCost.Equal(dec("6.00")) {
		t.Errorf("Expected total cost 6.00, got %s", results[0].TotalCost)
	}
	if leftover.Quantity(fig) != 0 || leftover.Quantity(acc) != 0 {
		t.Errorf("Expected both components consumed, got fig=%d acc=%d", leftover.Quantity(fig), leftover.Quantity(acc))
	}
}

func TestDetermineBuildable_TieBreakFirstInManifest(t *testing.T) {
	inventory := testhelpers.Store(
		testhelpers.Record(entities.PartKey("a", entities.ColorID(1)), entities.Part, 4, "0.10"),
		testhelpers.Record(entities.PartKey("b", entities.ColorID(1)), entities.Part, 2, "0.10"),
	)
	targets := []entities.BuildTarget{
		{TargetID: "T", Components: []entities.Component{
			testhelpers.Part("a", 1, 2),
			testhelpers.Part("b", 1, 1),
		}},
	}

	results, _, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}

	limiting, ok := results[0].Limiting()
	if !ok || limiting != entities.PartKey("a", entities.ColorID(1)) {
		t.Errorf("Expected first tied component a/1 to be limiting, got %v", results[0].LimitingComponent)
	}
}

func TestDetermineBuildable_OrderSensitivity(t *testing.T) {
	scarce := entities.PartKey("scarce", entities.ColorID(1))
	inventory := testhelpers.Store(testhelpers.Record(scarce, entities.Part, 5, "1.00"))

	a := entities.BuildTarget{TargetID: "A", Components: []entities.Component{testhelpers.Part("scarce", 1, 2)}}
	b := entities.BuildTarget{TargetID: "B", Components: []entities.Component{testhelpers.Part("scarce", 1, 3)}}

	forward, _, err := DetermineBuildable(inventory, []entities.BuildTarget{a, b}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}
	if forward[0].BuildableCount != 2 || forward[1].BuildableCount != 0 {
		t.Errorf("Expected A=2 B=0, got A=%d B=%d", forward[0].BuildableCount, forward[1].BuildableCount)
	}

	reversed, _, err := DetermineBuildable(inventory, []entities.BuildTarget{b, a}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}
	if reversed[0].BuildableCount != 1 || reversed[1].BuildableCount != 1 {
		t.Errorf("Expected B=1 A=1, got B=%d A=%d", reversed[0].BuildableCount, reversed[1].BuildableCount)
	}
}

func TestDetermineBuildable_Idempotent(t *testing.T) {
	inventory, targets := testhelpers.BuildMinifigTestData()

	first, firstLeftover, err := DetermineBuildable(inventory.Clone(), targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, secondLeftover, err := DetermineBuildable(inventory.Clone(), targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(firstLeftover.Records(), secondLeftover.Records()) {
		t.Error("Expected identical leftover inventory")
	}
}

func TestDetermineBuildable_MinifigScenario(t *testing.T) {
	inventory, targets := testhelpers.BuildMinifigTestData()

	results, leftover, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("DetermineBuildable failed: %v", err)
	}

	pack, loose := results[0], results[1]
	if pack.BuildableCount != 3 {
		t.Errorf("Expected 3 packs, got %d", pack.BuildableCount)
	}
	if !pack.TotalCost.Equal(dec("23.10")) {
		t.Errorf("Expected pack cost 23.10, got %s", pack.TotalCost)
	}
	if loose.BuildableCount != 4 {
		t.Errorf("Expected 4 loose troopers, got %d", loose.BuildableCount)
	}
	if !loose.TotalCost.Equal(dec("10.00")) {
		t.Errorf("Expected loose cost 10.00, got %s", loose.TotalCost)
	}
	if limiting, _ := loose.Limiting(); limiting != entities.PartKey("973pb0089c01", entities.ColorID(1)) {
		t.Errorf("Expected torso to limit loose troopers, got %s", limiting)
	}
	if got := leftover.Quantity(entities.AssemblyKey("75001-1")); got != 1 {
		t.Errorf("Expected set untouched, got %d", got)
	}

	for _, rec := range leftover.Records() {
		if rec.Quantity < 0 {
			t.Errorf("Expected non-negative leftover for %s, got %d", rec.Key, rec.Quantity)
		}
	}
}

func TestDetermineBuildable_RepeatedKeysMerged(t *testing.T) {
	key := entities.PartKey("3001", entities.ColorID(5))
	inventory := testhelpers.Store(testhelpers.Record(key, entities.Part, 5, "1.00"))
	targets := []entities.BuildTarget{
		{TargetID: "T", Components: []entities.Component{
			testhelpers.Part("3001", 5, 1),
			testhelpers.Part("3001", 5, 1),
		}},
	}

	results, leftover, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Expected repeated key not to overdraw, got %v", err)
	}
	if results[0].BuildableCount != 2 {
		t.Errorf("Expected buildable count 2, got %d", results[0].BuildableCount)
	}
	if got := leftover.Quantity(key); got != 1 {
		t.Errorf("Expected leftover 1, got %d", got)
	}
}

func TestDetermineBuildable_NegativeQuantityRejected(t *testing.T) {
	key := entities.PartKey("3001", entities.ColorID(5))
	inventory := testhelpers.Store(testhelpers.Record(key, entities.Part, 5, "1.00"))
	targets := []entities.BuildTarget{
		{TargetID: "ok", Components: []entities.Component{testhelpers.Part("3001", 5, 1)}},
		{TargetID: "bad", Components: []entities.Component{testhelpers.Part("3001", 5, -1)}},
	}

	_, _, err := DetermineBuildable(inventory, targets, zaptest.NewLogger(t))
	var integrity *entities.DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("Expected DataIntegrityError, got %v", err)
	}
	if got := inventory.Quantity(key); got != 5 {
		t.Errorf("Expected inventory untouched, got %d", got)
	}
}

// overstatingStore reports more stock than it holds so deductions underflow
type overstatingStore struct {
	*memory.InventoryRepository
}

func (s *overstatingStore) Quantity(key entities.StockKey) entities.Quantity {
	return s.InventoryRepository.Quantity(key) + 1
}

func TestEngine_InvariantViolationAborts(t *testing.T) {
	key := entities.PartKey("3001", entities.ColorID(5))
	store := &overstatingStore{InventoryRepository: testhelpers.Store(testhelpers.Record(key, entities.Part, 1, "1.00"))}
	engine := NewEngine(store, zaptest.NewLogger(t))

	_, err := engine.Run([]entities.BuildTarget{
		{TargetID: "T", Components: []entities.Component{testhelpers.Part("3001", 5, 1)}},
	})

	var violation *entities.InvariantViolation
	if !errors.As(err, &violation) {
		t.Fatalf("Expected InvariantViolation, got %v", err)
	}
	if violation.Key != key {
		t.Errorf("Expected violation on %s, got %s", key, violation.Key)
	}
}

func TestEngine_OwnsStoreAndTracksConsumption(t *testing.T) {
	inventory, targets := testhelpers.BuildMinifigTestData()
	engine := NewEngine(inventory, zaptest.NewLogger(t))

	if _, err := engine.Run(targets); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := inventory.Quantity(entities.AssemblyKey("sw0188")); got != 0 {
		t.Errorf("Expected engine to consume the owned store, got %d left", got)
	}

	consumption := engine.Consumption()
	if consumption.Size() != 5 {
		t.Errorf("Expected 5 consumed keys, got %d", consumption.Size())
	}
	if !consumption.TotalCost().Equal(dec("33.10")) {
		t.Errorf("Expected consumed cost 33.10, got %s", consumption.TotalCost())
	}
}

func TestEngine_Journal(t *testing.T) {
	set := entities.AssemblyKey("1001")
	inventory := testhelpers.Store(testhelpers.Record(set, entities.Set, 5, "2.00"))
	targets := []entities.BuildTarget{
		{TargetID: "T1", Components: []entities.Component{testhelpers.Set("1001", 2)}},
		{TargetID: "empty"},
	}

	journal := events.NewInMemoryEventStore()
	engine := NewEngine(inventory.Snapshot(), zaptest.NewLogger(t)).WithJournal(journal)
	if _, err := engine.Run(targets); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	stream, _ := journal.ReadEvents(events.TargetStreamPrefix+"T1", 1)
	var types []string
	for _, event := range stream {
		types = append(types, event.Type())
	}
	want := []string{events.ComponentConsumedEvent, events.TargetBuiltEvent, events.ShortageIdentifiedEvent}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("Expected %v, got %v", want, types)
	}

	consumed := stream[0].Data().(events.ComponentConsumed)
	if consumed.Quantity != 4 || consumed.Cost != "8.00" || consumed.Key != set.String() {
		t.Errorf("Unexpected consumption: %+v", consumed)
	}
	shortage := stream[2].Data().(events.ShortageIdentified)
	if shortage.Available != 1 || shortage.Required != 1 {
		t.Errorf("Expected 1 available and 1 more required, got %+v", shortage)
	}

	empty, _ := journal.ReadEvents(events.TargetStreamPrefix+"empty", 1)
	if len(empty) != 1 || empty[0].Data().(events.TargetBuilt).Limiting != "" {
		t.Errorf("Expected a single unlimited target event, got %+v", empty)
	}
}

func TestEngine_NoJournal(t *testing.T) {
	inventory := testhelpers.Store(testhelpers.Record(entities.AssemblyKey("1001"), entities.Set, 1, "2.00"))
	targets := []entities.BuildTarget{{TargetID: "T1", Components: []entities.Component{testhelpers.Set("1001", 1)}}}

	results, err := NewEngine(inventory, nil).Run(targets)
	if err != nil || results[0].BuildableCount != 1 {
		t.Errorf("Expected one build without a journal, got %v %v", results, err)
	}
}

package build

import (
	"strings"
	"testing"

	"github.com/vsinha/brickbuild/pkg/domain/entities"
)

func TestConsumptionMap_Add(t *testing.T) {
	cm := NewConsumptionMap()
	key := entities.PartKey("3001", entities.ColorID(5))

	cm.Add(key, "T1", 4, dec("0.40"))
	cm.Add(key, "T2", 2, dec("0.20"))

	ctx := cm.Get(key)
	if ctx == nil {
		t.Fatal("Expected key to be tracked")
	}
	if ctx.Quantity != 6 {
		t.Errorf("Expected quantity 6, got %d", ctx.Quantity)
	}
	if !ctx.Cost.Equal(dec("0.60")) {
		t.Errorf("Expected cost 0.60, got %s", ctx.Cost)
	}
	if len(ctx.Targets) != 2 || ctx.Targets[0] != "T1" || ctx.Targets[1] != "T2" {
		t.Errorf("Expected targets [T1 T2], got %v", ctx.Targets)
	}
}

func TestConsumptionMap_Totals(t *testing.T) {
	cm := NewConsumptionMap()
	cm.Add(entities.AssemblyKey("sw0001"), "T1", 1, dec("3.00"))
	cm.Add(entities.PartKey("3001", entities.ColorID(5)), "T1", 10, dec("1.00"))

	if cm.Size() != 2 {
		t.Errorf("Expected size 2, got %d", cm.Size())
	}
	if cm.TotalQuantity() != 11 {
		t.Errorf("Expected total quantity 11, got %d", cm.TotalQuantity())
	}
	if !cm.TotalCost().Equal(dec("4.00")) {
		t.Errorf("Expected total cost 4.00, got %s", cm.TotalCost())
	}

	keys := cm.Keys()
	if keys[0] != entities.PartKey("3001", entities.ColorID(5)) {
		t.Errorf("Expected keys in key order, got %v", keys)
	}
}

func TestConsumptionMap_String(t *testing.T) {
	cm := NewConsumptionMap()
	if cm.String() != "ConsumptionMap{empty}" {
		t.Errorf("Unexpected empty string: %s", cm.String())
	}

	cm.Add(entities.AssemblyKey("sw0001"), "T1", 1, dec("3.00"))
	if !strings.Contains(cm.String(), "sw0001: qty=1") {
		t.Errorf("Expected entry in string, got %s", cm.String())
	}
}

package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComponent_Validation(t *testing.T) {
	comp, err := NewComponent(Part, "3626c", ColorID(3), 2)
	if err != nil {
		t.Fatalf("Expected valid component creation to succeed: %v", err)
	}
	if comp.Key != PartKey("3626c", ColorID(3)) {
		t.Errorf("Expected part key, got %v", comp.Key)
	}

	zero, err := NewComponent(Set, "6090-1", NoColor, 0)
	if err != nil {
		t.Fatalf("Expected zero quantity to be accepted: %v", err)
	}
	if zero.QtyPerUnit != 0 {
		t.Errorf("Expected quantity 0, got %d", zero.QtyPerUnit)
	}

	_, err = NewComponent(Part, "3626c", ColorID(3), -1)
	var integrity *DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("Expected DataIntegrityError for negative quantity, got %v", err)
	}
	if integrity.Field != "qty_per_unit" {
		t.Errorf("Expected field qty_per_unit, got %s", integrity.Field)
	}
}

func TestBuildResult_AverageCost(t *testing.T) {
	result := BuildResult{TargetID: "T1", BuildableCount: 4, TotalCost: decimal.NewFromInt(10)}
	if !result.AverageCost().Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Expected average cost 2.5, got %s", result.AverageCost())
	}

	empty := BuildResult{TargetID: "T2"}
	if !empty.AverageCost().IsZero() {
		t.Errorf("Expected zero average cost, got %s", empty.AverageCost())
	}
	if _, ok := empty.Limiting(); ok {
		t.Error("Expected no limiting component")
	}
}

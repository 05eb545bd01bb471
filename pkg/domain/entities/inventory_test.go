package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestInventoryRecord_Validation(t *testing.T) {
	validRecord, err := NewInventoryRecord(PartKey("3001", ColorID(5)), Part, "Brick 2 x 4", 10, decimal.RequireFromString("0.25"))
	if err != nil {
		t.Fatalf("Expected valid record creation to succeed: %v", err)
	}
	if validRecord.Quantity != 10 {
		t.Errorf("Expected quantity 10, got %d", validRecord.Quantity)
	}
	if !validRecord.TotalCost().Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Expected total cost 2.5, got %s", validRecord.TotalCost())
	}
	if validRecord.ColorName() != "Red" {
		t.Errorf("Expected color name Red, got %s", validRecord.ColorName())
	}

	// Test validation failures
	testCases := []struct {
		name        string
		key         StockKey
		quantity    Quantity
		unitCost    decimal.Decimal
		expectError string
	}{
		{"empty item id", AssemblyKey(""), 1, decimal.Zero, "item id cannot be empty"},
		{"negative quantity", AssemblyKey("sw0001"), -5, decimal.Zero, "quantity cannot be negative, got -5"},
		{"negative unit cost", AssemblyKey("sw0001"), 1, decimal.NewFromInt(-1), "unit cost cannot be negative, got -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewInventoryRecord(tc.key, Minifig, "", tc.quantity, tc.unitCost)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

package services

import (
	"errors"
	"testing"

	"github.com/vsinha/brickbuild/pkg/domain/entities"
)

func TestTargetValidator_ValidTargets(t *testing.T) {
	validator := NewTargetValidator()

	targets := []entities.BuildTarget{
		{
			TargetID: "sw0001",
			Components: []entities.Component{
				{Key: entities.AssemblyKey("sw0001"), ItemType: entities.Minifig, QtyPerUnit: 1},
				{Key: entities.PartKey("30374", entities.ColorID(36)), ItemType: entities.Part, QtyPerUnit: 1},
			},
		},
	}

	result := validator.ValidateTargets(targets)
	if !result.Valid() {
		t.Fatalf("Expected valid targets, got errors: %v", result.Errors)
	}
	if len(result.DuplicateComponents) != 0 {
		t.Errorf("Expected no duplicates, got %v", result.DuplicateComponents)
	}
}

func TestTargetValidator_NegativeQuantity(t *testing.T) {
	validator := NewTargetValidator()

	targets := []entities.BuildTarget{
		{
			TargetID: "bad",
			Components: []entities.Component{
				{Key: entities.PartKey("3001", entities.ColorID(5)), ItemType: entities.Part, QtyPerUnit: -2},
			},
		},
	}

	result := validator.ValidateTargets(targets)
	if result.Valid() {
		t.Fatal("Expected negative quantity to be rejected")
	}

	var integrity *entities.DataIntegrityError
	if !errors.As(result.Errors[0], &integrity) {
		t.Fatalf("Expected DataIntegrityError, got %v", result.Errors[0])
	}
	if integrity.Record != "bad" {
		t.Errorf("Expected record bad, got %s", integrity.Record)
	}
}

func TestTargetValidator_DuplicatesAndEmpty(t *testing.T) {
	validator := NewTargetValidator()
	key := entities.PartKey("3001", entities.ColorID(5))

	targets := []entities.BuildTarget{
		{
			TargetID: "dup",
			Components: []entities.Component{
				{Key: key, ItemType: entities.Part, QtyPerUnit: 1},
				{Key: key, ItemType: entities.Part, QtyPerUnit: 2},
			},
		},
		{TargetID: "empty"},
	}

	result := validator.ValidateTargets(targets)
	if !result.Valid() {
		t.Fatalf("Expected duplicates to be non-blocking, got %v", result.Errors)
	}
	if len(result.DuplicateComponents["dup"]) != 1 {
		t.Errorf("Expected 1 duplicate for dup, got %v", result.DuplicateComponents["dup"])
	}
	if len(result.EmptyTargets) != 1 || result.EmptyTargets[0] != "empty" {
		t.Errorf("Expected empty target reported, got %v", result.EmptyTargets)
	}
}

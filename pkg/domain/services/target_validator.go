package services

import (
	"fmt"

	"github.com/vsinha/brickbuild/pkg/domain/entities"
)

// TargetValidator checks build targets before a build pass touches stock
type TargetValidator struct{}

// NewTargetValidator creates a new target validator
func NewTargetValidator() *TargetValidator {
	return &TargetValidator{}
}

// ValidationResult contains the results of target validation
type ValidationResult struct {
	DuplicateComponents map[string][]entities.StockKey
	EmptyTargets        []string
	Errors              []error
}

// Valid reports whether no blocking errors were found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateTargets reports malformed manifests. Negative quantities and
// missing key fields are errors; repeated keys and empty manifests are
// reported but not rejected.
func (v *TargetValidator) ValidateTargets(targets []entities.BuildTarget) *ValidationResult {
	result := &ValidationResult{
		DuplicateComponents: make(map[string][]entities.StockKey),
		EmptyTargets:        make([]string, 0),
		Errors:              make([]error, 0),
	}

	for _, target := range targets {
		if target.TargetID == "" {
			result.Errors = append(result.Errors, &entities.DataIntegrityError{
				Field:  "target_id",
				Reason: "target id cannot be empty",
			})
		}
		if len(target.Components) == 0 {
			result.EmptyTargets = append(result.EmptyTargets, target.TargetID)
		}

		seen := make(map[entities.StockKey]bool, len(target.Components))
		for _, comp := range target.Components {
			if err := v.validateComponent(target.TargetID, comp); err != nil {
				result.Errors = append(result.Errors, err)
				continue
			}
			if seen[comp.Key] {
				result.DuplicateComponents[target.TargetID] = append(result.DuplicateComponents[target.TargetID], comp.Key)
			}
			seen[comp.Key] = true
		}
	}

	return result
}

func (v *TargetValidator) validateComponent(targetID string, comp entities.Component) error {
	if comp.Key.ItemID == "" {
		return &entities.DataIntegrityError{
			Record: targetID,
			Field:  "item_id",
			Reason: "component item id cannot be empty",
		}
	}
	if comp.QtyPerUnit < 0 {
		return &entities.DataIntegrityError{
			Record: targetID,
			Field:  "qty_per_unit",
			Reason: fmt.Sprintf("%s: quantity per unit cannot be negative, got %d", comp.Key, comp.QtyPerUnit),
		}
	}
	return nil
}

package entities

import "fmt"

// DataIntegrityError reports a record whose key fields are missing or
// malformed. The record is rejected; other records are unaffected.
type DataIntegrityError struct {
	Record string
	Field  string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("data integrity: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("data integrity: %s: %s: %s", e.Record, e.Field, e.Reason)
}

// InvariantViolation reports stock driven below zero. It indicates a defect
// in the build pass (or a caller that mutated a shared store) and aborts the run.
type InvariantViolation struct {
	Key      StockKey
	Quantity Quantity
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: quantity for %s went negative (%d)", e.Key, e.Quantity)
}

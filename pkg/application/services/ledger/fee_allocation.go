package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
)

// AllocateFees distributes fees over lines in proportion to each line's share
// of the item subtotal:
//
//	allocated_fee = fees * line_total / subtotal
//
// The division residual is added to the largest line so the allocations sum
// to fees exactly. A zero subtotal allocates nothing. Negative fees are
// discounts and are spread the same way.
func AllocateFees(lines []entities.OrderLine, fees decimal.Decimal) []decimal.Decimal {
	allocations := make([]decimal.Decimal, len(lines))
	if len(lines) == 0 || fees.IsZero() {
		return allocations
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total())
	}
	if subtotal.IsZero() {
		return allocations
	}

	allocated := decimal.Zero
	largest := 0
	for i, line := range lines {
		share := fees.Mul(line.Total()).Div(subtotal)
		allocations[i] = share
		allocated = allocated.Add(share)
		if line.Total().GreaterThan(lines[largest].Total()) {
			largest = i
		}
	}

	if diff := fees.Sub(allocated); !diff.IsZero() {
		allocations[largest] = allocations[largest].Add(diff)
	}

	return allocations
}

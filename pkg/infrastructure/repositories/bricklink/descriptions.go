package bricklink

import (
	"strings"

	"github.com/vsinha/brickbuild/pkg/domain/entities"
)

// ApplyDescriptions replaces seller notes on order lines with catalog
// descriptions keyed by item id. Catalog text that ends with the seller note
// has the note trimmed off. Lines with no catalog entry keep their note.
// The input orders are not modified.
func ApplyDescriptions(orders []entities.Order, catalog map[string]string) []entities.Order {
	out := make([]entities.Order, len(orders))
	for i, order := range orders {
		lines := make([]entities.OrderLine, len(order.Lines))
		for j, line := range order.Lines {
			if desc, ok := catalog[line.ItemID]; ok && desc != "" {
				line.Description = cleanDescription(desc, line.Description)
			}
			lines[j] = line
		}
		order.Lines = lines
		out[i] = order
	}
	return out
}

func cleanDescription(catalog, note string) string {
	if note == "" || !strings.HasSuffix(catalog, note) {
		return catalog
	}
	if trimmed := strings.TrimRight(strings.TrimSuffix(catalog, note), " -"); trimmed != "" {
		return trimmed
	}
	return catalog
}

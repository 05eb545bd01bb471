package entities

import "fmt"

// StockKey identifies a fungible inventory line. Parts carry their color;
// assemblies (sets, minifigs) are keyed by item id alone.
type StockKey struct {
	ItemID string
	Color  Color
}

// PartKey builds a color-significant key
func PartKey(itemID string, color Color) StockKey {
	return StockKey{ItemID: itemID, Color: color}
}

// AssemblyKey builds a key that ignores color
func AssemblyKey(itemID string) StockKey {
	return StockKey{ItemID: itemID}
}

// KeyFor builds the key shape that matches the item type. The color is
// dropped for assemblies and required for everything else.
func KeyFor(itemType ItemType, itemID string, color Color) (StockKey, error) {
	if itemID == "" {
		return StockKey{}, &DataIntegrityError{Field: "item_id", Reason: "item id cannot be empty"}
	}
	if itemType == UnknownItemType {
		return StockKey{}, &DataIntegrityError{Field: "item_type", Reason: fmt.Sprintf("item type missing for %s", itemID)}
	}
	if itemType.IsAssembly() {
		return AssemblyKey(itemID), nil
	}
	if !color.IsSet() {
		return StockKey{}, &DataIntegrityError{Field: "color", Reason: fmt.Sprintf("color missing for %s %s", itemType, itemID)}
	}
	return PartKey(itemID, color), nil
}

// IsAssembly reports whether the key was built without a color
func (k StockKey) IsAssembly() bool {
	return !k.Color.IsSet()
}

// String renders the key as item or item/color
func (k StockKey) String() string {
	if !k.Color.IsSet() {
		return k.ItemID
	}
	return k.ItemID + "/" + k.Color.String()
}

// Less orders keys by item id, then color text
func (k StockKey) Less(other StockKey) bool {
	if k.ItemID != other.ItemID {
		return k.ItemID < other.ItemID
	}
	if k.Color.kind != other.Color.kind {
		return k.Color.kind < other.Color.kind
	}
	if k.Color.id != other.Color.id {
		return k.Color.id < other.Color.id
	}
	return k.Color.label < other.Color.label
}

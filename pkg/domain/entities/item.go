package entities

import "strings"

// Quantity represents an integer quantity value for discrete stock units
type Quantity int64

// ItemType classifies a catalog item
type ItemType string

const (
	UnknownItemType ItemType = ""
	Part            ItemType = "P"
	Set             ItemType = "S"
	Minifig         ItemType = "M"
	Gear            ItemType = "G"
	Book            ItemType = "B"
	Catalog         ItemType = "C"
	Instruction     ItemType = "I"
	OriginalBox     ItemType = "O"
)

// ParseItemType maps a catalog type code to an ItemType
func ParseItemType(s string) (ItemType, bool) {
	switch t := ItemType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Part, Set, Minifig, Gear, Book, Catalog, Instruction, OriginalBox:
		return t, true
	default:
		return UnknownItemType, false
	}
}

// IsAssembly reports whether stock of this type is fungible across colors.
// Sets and minifigs are keyed by item id alone.
func (t ItemType) IsAssembly() bool {
	return t == Set || t == Minifig
}

// IsPart reports whether the item is a loose part
func (t ItemType) IsPart() bool {
	return t == Part
}

// String method for ItemType enum
func (t ItemType) String() string {
	switch t {
	case Part:
		return "Part"
	case Set:
		return "Set"
	case Minifig:
		return "Minifig"
	case Gear:
		return "Gear"
	case Book:
		return "Book"
	case Catalog:
		return "Catalog"
	case Instruction:
		return "Instruction"
	case OriginalBox:
		return "OriginalBox"
	default:
		return "Unknown"
	}
}

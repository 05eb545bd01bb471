package entities

import (
	"strconv"
	"strings"
)

type colorKind uint8

const (
	colorNone colorKind = iota
	colorNumeric
	colorLabel
)

// Color is a part color resolved once at ingestion: either a numeric catalog
// color id or a free-text label. The zero value means "no color".
type Color struct {
	kind  colorKind
	id    int
	label string
}

// NoColor is the color used for assembly keys
var NoColor = Color{}

// ColorID returns a numeric catalog color
func ColorID(id int) Color {
	return Color{kind: colorNumeric, id: id}
}

// ColorLabel returns a raw, non-numeric color label
func ColorLabel(label string) Color {
	return Color{kind: colorLabel, label: label}
}

// ParseColor resolves a raw color field. Numeric text becomes a ColorID,
// anything else a ColorLabel, and blank text NoColor.
func ParseColor(raw string) Color {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoColor
	}
	if id, err := strconv.Atoi(raw); err == nil {
		return ColorID(id)
	}
	return ColorLabel(raw)
}

// IsSet reports whether the color carries a value
func (c Color) IsSet() bool {
	return c.kind != colorNone
}

// ID returns the numeric color id, if the color is numeric
func (c Color) ID() (int, bool) {
	return c.id, c.kind == colorNumeric
}

// Name returns the display name. Unknown numeric ids have no name; labels
// are returned unchanged.
func (c Color) Name() (string, bool) {
	switch c.kind {
	case colorNumeric:
		name, ok := colorNames[c.id]
		return name, ok
	case colorLabel:
		return c.label, true
	default:
		return "", false
	}
}

func (c Color) String() string {
	switch c.kind {
	case colorNumeric:
		return strconv.Itoa(c.id)
	case colorLabel:
		return c.label
	default:
		return ""
	}
}

// ColorName looks up a display name for a raw color field
func ColorName(raw string) (string, bool) {
	return ParseColor(raw).Name()
}

// catalog color ids
var colorNames = map[int]string{
	0:   "(Not Applicable)",
	1:   "White",
	2:   "Tan",
	3:   "Yellow",
	4:   "Orange",
	5:   "Red",
	6:   "Green",
	7:   "Blue",
	8:   "Brown",
	9:   "Light Gray",
	10:  "Dark Gray",
	11:  "Black",
	12:  "Trans-Clear",
	13:  "Trans-Black",
	14:  "Trans-Dark Blue",
	15:  "Trans-Light Blue",
	16:  "Trans-Neon Green",
	17:  "Trans-Red",
	18:  "Trans-Neon Orange",
	19:  "Trans-Yellow",
	20:  "Trans-Green",
	21:  "Chrome Gold",
	22:  "Chrome Silver",
	23:  "Pink",
	24:  "Purple",
	25:  "Salmon",
	26:  "Light Salmon",
	27:  "Rust",
	28:  "Nougat",
	29:  "Earth Orange",
	31:  "Medium Orange",
	32:  "Light Orange",
	33:  "Light Yellow",
	34:  "Lime",
	35:  "Light Lime",
	36:  "Bright Green",
	37:  "Medium Green",
	38:  "Light Green",
	39:  "Dark Turquoise",
	40:  "Light Turquoise",
	41:  "Aqua",
	42:  "Medium Blue",
	43:  "Violet",
	44:  "Light Violet",
	46:  "Glow In Dark Opaque",
	47:  "Dark Pink",
	48:  "Sand Green",
	49:  "Very Light Gray",
	50:  "Trans-Dark Pink",
	51:  "Trans-Purple",
	54:  "Trans-Neon Yellow",
	55:  "Sand Blue",
	58:  "Sand Red",
	59:  "Dark Red",
	60:  "Milky White",
	61:  "Pearl Light Gold",
	62:  "Light Blue",
	63:  "Dark Blue",
	65:  "Metallic Gold",
	66:  "Pearl Light Gray",
	67:  "Metallic Silver",
	68:  "Dark Orange",
	69:  "Dark Tan",
	70:  "Metallic Green",
	71:  "Magenta",
	72:  "Maersk Blue",
	73:  "Medium Violet",
	74:  "Trans-Medium Blue",
	76:  "Medium Lime",
	77:  "Pearl Dark Gray",
	80:  "Dark Green",
	82:  "Chrome Antique Brass",
	83:  "Pearl White",
	84:  "Copper",
	85:  "Dark Bluish Gray",
	86:  "Light Bluish Gray",
	87:  "Sky Blue",
	88:  "Reddish Brown",
	89:  "Dark Purple",
	90:  "Light Nougat",
	91:  "Light Brown",
	93:  "Light Purple",
	94:  "Medium Dark Pink",
	95:  "Flat Silver",
	96:  "Very Light Orange",
	97:  "Blue-Violet",
	99:  "Very Light Bluish Gray",
	103: "Bright Light Yellow",
	104: "Bright Pink",
	105: "Bright Light Blue",
	107: "Trans-Pink",
	109: "Dark Blue-Violet",
	110: "Bright Light Orange",
	115: "Pearl Gold",
	120: "Dark Brown",
	150: "Medium Nougat",
	152: "Light Aqua",
	153: "Dark Azure",
	155: "Olive Green",
	156: "Medium Azure",
	157: "Medium Lavender",
	158: "Yellowish Green",
}

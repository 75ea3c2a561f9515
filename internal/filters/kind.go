package filters

import "strings"

// Kind identifies one filter in the closed set the bench knows about.
type Kind int

const (
	Identity Kind = iota
	Binary
	Contrast
	Sharpen
	Median
	Averaging
	BlackWhite
	BrightnessHSV
	EdgeColoring
	SaturationHSV
	HueHSV
)

type kindInfo struct {
	name            string
	enumName        string
	displayName     string
	defaultStrength int
}

var kindTable = [...]kindInfo{
	Identity:      {"Identity", "IDENTITY", "None", 0},
	Binary:        {"Binary", "BINARY", "Binary", 155},
	Contrast:      {"Contrast", "CONTRAST", "Contrast", 5},
	Sharpen:       {"Sharpen", "SHARPEN", "Sharpen", 5},
	Median:        {"Median", "MEDIAN", "Median", 5},
	Averaging:     {"Averaging", "AVERAGING", "Averaging", 5},
	BlackWhite:    {"BlackWhite", "BLACK_WHITE", "Black/White", 5},
	BrightnessHSV: {"BrightnessHSV", "BRIGHTNESS_HSV", "Brightness", 5},
	EdgeColoring:  {"EdgeColoring", "EDGE_COLORING", "Edge Coloring", 5},
	SaturationHSV: {"SaturationHSV", "SATURATION_HSV", "Saturation", 5},
	HueHSV:        {"HueHSV", "HUE_HSV", "Hue", 5},
}

// Kinds lists every known kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindTable))
	for i := range kindTable {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindTable)
}

// String returns the identifier used by Resolve and in logs.
func (k Kind) String() string {
	if !k.Valid() {
		return "Unknown"
	}
	return kindTable[k].name
}

func (k Kind) DisplayName() string {
	if !k.Valid() {
		return "Unknown"
	}
	return kindTable[k].displayName
}

// DefaultStrength is the strength the UI preselects for the kind.
func (k Kind) DefaultStrength() int {
	if !k.Valid() {
		return 0
	}
	return kindTable[k].defaultStrength
}

// ParseKind accepts the identifier ("BrightnessHSV"), the enum spelling
// ("BRIGHTNESS_HSV") or the display name ("Brightness"), ignoring case.
func ParseKind(id string) (Kind, bool) {
	id = strings.TrimSpace(id)
	for i, info := range kindTable {
		if strings.EqualFold(id, info.name) ||
			strings.EqualFold(id, info.enumName) ||
			strings.EqualFold(id, info.displayName) {
			return Kind(i), true
		}
	}
	return 0, false
}

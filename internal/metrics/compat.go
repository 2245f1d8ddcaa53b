package metrics

import "slices"

// Hardware types reported by end devices.
const (
	HardwareAssist = "Assist"
	HardwarePush   = "Push"
	HardwareTouch  = "Touch"
	HardwareMove   = "Move"
	HardwareSpot   = "Spot"
)

// compatibility maps a hardware type to the configured flavors it may be
// installed as. Read-only.
var compatibility = map[string][]string{
	HardwareAssist: {"beacon"},
	HardwarePush:   {"pull-station", "push-station"},
	HardwareTouch:  {"pendant"},
	HardwareMove:   {"motion"},
	HardwareSpot: {
		"door",
		"window",
		"universal-transmitter",
		"bed-pad",
		"chair-pad",
		"floor-pad",
		"incontinence-pad",
		"bombardier-cord",
		"smoke-detector",
	},
}

// IsMatching reports whether a device configured as flavor may report
// hardwareType. Empty or unknown inputs never match.
func IsMatching(flavor, hardwareType string) bool {
	if flavor == "" || hardwareType == "" {
		return false
	}
	flavors, ok := compatibility[hardwareType]
	if !ok {
		return false
	}
	return slices.Contains(flavors, flavor)
}

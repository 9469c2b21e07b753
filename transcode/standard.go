package transcode

import "fmt"

// ColorStandard selects the luma/chroma-to-RGB coefficient matrix. Auto
// picks a standard from the frame resolution the way broadcast convention
// ties BT.601/709/2020 to SD/HD/UHD.
type ColorStandard int

// Supported color standards.
const (
	StandardAuto ColorStandard = iota
	StandardBT601
	StandardBT709
	StandardBT2020
)

var standardNames = map[ColorStandard]string{
	StandardAuto:   "Auto",
	StandardBT601:  "BT.601",
	StandardBT709:  "BT.709",
	StandardBT2020: "BT.2020",
}

func (s ColorStandard) String() string {
	if name, ok := standardNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ColorStandard(%d)", int(s))
}

// Resolve maps Auto to a concrete standard for the given frame size:
// up to 576 lines is SD (BT.601), up to 1080 is HD (BT.709), above is
// UHD (BT.2020). Concrete standards resolve to themselves.
func (s ColorStandard) Resolve(width, height int) ColorStandard {
	if s != StandardAuto {
		return s
	}
	switch {
	case height <= 576:
		return StandardBT601
	case height <= 1080:
		return StandardBT709
	default:
		return StandardBT2020
	}
}

// coefficients holds the fixed-point (8 fractional bits) multipliers for
// one (standard, range) combination, plus the luma offset subtracted from
// each Y sample before scaling.
type coefficients struct {
	multY   int32
	multUB  int32
	multUG  int32
	multVG  int32
	multVR  int32
	yOffset int32
}

// coefficientTable is keyed by concrete standard and range. Limited
// ("studio") range maps Y 16-235 and UV 16-240; full range uses the whole
// 0-255 interval and needs no luma offset.
var coefficientTable = map[ColorStandard][2]coefficients{
	StandardBT601: {
		{multY: 298, multUB: 587, multUG: 114, multVG: 237, multVR: 466, yOffset: 16}, // limited
		{multY: 255, multUB: 516, multUG: 100, multVG: 208, multVR: 409, yOffset: 0},  // full
	},
	StandardBT709: {
		{multY: 298, multUB: 541, multUG: 55, multVG: 137, multVR: 459, yOffset: 16},
		{multY: 298, multUB: 475, multUG: 48, multVG: 120, multVR: 403, yOffset: 0},
	},
	StandardBT2020: {
		{multY: 298, multUB: 549, multUG: 48, multVG: 166, multVR: 429, yOffset: 16},
		{multY: 298, multUB: 482, multUG: 42, multVG: 146, multVR: 377, yOffset: 0},
	},
}

func lookupCoefficients(standard ColorStandard, fullRange bool) coefficients {
	idx := 0
	if fullRange {
		idx = 1
	}
	return coefficientTable[standard][idx]
}

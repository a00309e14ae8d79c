package layout

import (
	"math"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. The canvas is measured in pixels at 96 dpi,
// font sizes are conventionally given in points.

// Unit represents the original unit of a length value as written in a script.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers
	UnitPX               // pixels
	UnitPT               // points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
)

// DPI is the resolution used to map physical units onto pixels.
const DPI = 96.0

// Conversion constants between pt, mm and px.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PtToPx = DPI / 72.0
	PxToPt = 1.0 / PtToPx
	MmToPx = DPI / 25.4
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// String formats the length as written in a script, e.g. "12pt".
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ToPX converts the length to pixels. Unit-less values are already pixels.
func (l Length) ToPX() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PtToPx
	case UnitMM:
		return l.Value * MmToPx
	case UnitCM:
		return l.Value * 10 * MmToPx
	case UnitIN:
		return l.Value * DPI
	default:
		return l.Value
	}
}

// ToPT converts the length to points. Unit-less values are already points,
// which is what font sizes are written in.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitPX:
		return l.Value * PxToPt
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ParseLength parses a script length string preserving its unit.
// ok is false when the numeric part cannot be parsed or is not finite.
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

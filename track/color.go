package track

import (
	"image/color"

	"github.com/muesli/gamut"
)

// baseColor is the hue seed the per-track palette walks from.
var baseColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}

// goldenAngle spaces successive hues maximally apart on the color wheel,
// so that IDs allocated close together in time still get visually distinct
// colors rather than a slow hue drift.
const goldenAngle = 137.5

// colorForID derives a stable display color purely from a track's id, per
// spec.md §4.5's "deterministic function of ID". Unlike the retrieved
// vision service's sequential hue walk (which depends on allocation
// order via mutable package state), this hashes the id directly into a
// hue offset so the same id always maps to the same color regardless of
// what else has been allocated.
func colorForID(id ID) color.RGBA {
	offset := float64(uint64(id)%360) * goldenAngle
	shifted := gamut.HueOffset(baseColor, int(offset))
	r, g, b, a := shifted.RGBA()
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
}

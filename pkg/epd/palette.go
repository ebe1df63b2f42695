package epd

import (
	"image/color"
	"math"
)

// Entry is one palette slot: the device code and the RGB value it displays.
type Entry struct {
	Index   uint8
	R, G, B uint8
}

// Palette lists the six panel colors in tie-breaking order.
// Code 4 is reserved by the controller and must never be emitted.
var Palette = [6]Entry{
	{Index: 0, R: 0, G: 0, B: 0},       // black
	{Index: 1, R: 255, G: 255, B: 255}, // white
	{Index: 2, R: 255, G: 255, B: 0},   // yellow
	{Index: 3, R: 255, G: 0, B: 0},     // red
	{Index: 5, R: 0, G: 0, B: 255},     // blue
	{Index: 6, R: 0, G: 255, B: 0},     // green
}

// NearestIndex returns the device code of the palette entry closest to
// (r, g, b) by squared Euclidean distance in RGB space.
// Ties go to the entry listed first in Palette.
func NearestIndex(r, g, b float64) uint8 {
	best := Palette[0].Index
	bestDist := math.Inf(1)
	for _, e := range Palette {
		dr := r - float64(e.R)
		dg := g - float64(e.G)
		db := b - float64(e.B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = e.Index
		}
	}
	return best
}

// ExactOrNearest returns the device code for an RGB triple, taking the fast
// path when the triple is exactly a palette color.
func ExactOrNearest(r, g, b uint8) uint8 {
	for _, e := range Palette {
		if e.R == r && e.G == g && e.B == b {
			return e.Index
		}
	}
	return NearestIndex(float64(r), float64(g), float64(b))
}

// IndexColor returns the RGB value displayed for a device code.
// Unknown codes, including the reserved code 4, display as white.
func IndexColor(idx uint8) color.RGBA {
	for _, e := range Palette {
		if e.Index == idx {
			return color.RGBA{R: e.R, G: e.G, B: e.B, A: 0xFF}
		}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 0xFF}
}

// Color is a single panel color, identified by its device code.
// Only the lower 4 bits are significant.
type Color uint8

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return IndexColor(uint8(c) & 0x0F).RGBA()
}

func toColor(c color.Color) color.Color {
	if pc, ok := c.(Color); ok {
		return pc
	}
	r, g, b, _ := c.RGBA()
	return Color(ExactOrNearest(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
}

// Model converts any color to the nearest panel Color.
var Model = color.ModelFunc(toColor)

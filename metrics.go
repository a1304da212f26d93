package glyphcache

import "golang.org/x/image/math/fixed"

// Metrics holds the layout metrics of one rendered glyph, in whole
// pixels. Engines report metrics in 26.6 fixed point (1/64 pixel); the
// adapter truncates each field by integer division by 64.
//
// Metrics values are immutable once produced and are cached alongside the
// glyph payload.
type Metrics struct {
	// Width is the width of the glyph bitmap.
	Width int

	// Height is the height of the glyph bitmap.
	Height int

	// BearingX is the horizontal distance from the pen position to the
	// left edge of the bitmap.
	BearingX int

	// BearingY is the vertical distance from the baseline to the top
	// edge of the bitmap.
	BearingY int

	// Advance is how far the pen moves after drawing this glyph.
	Advance int
}

// SlotMetrics holds the raw glyph slot metrics as reported by the
// engine, in 26.6 fixed point.
type SlotMetrics struct {
	Width    fixed.Int26_6
	Height   fixed.Int26_6
	BearingX fixed.Int26_6
	BearingY fixed.Int26_6
	Advance  fixed.Int26_6
}

// pixels converts m to whole-pixel metrics, truncating toward zero.
func (m SlotMetrics) pixels() Metrics {
	return Metrics{
		Width:    int(m.Width) / 64,
		Height:   int(m.Height) / 64,
		BearingX: int(m.BearingX) / 64,
		BearingY: int(m.BearingY) / 64,
		Advance:  int(m.Advance) / 64,
	}
}

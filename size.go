package glyphcache

import "strconv"

// sizeMode discriminates the three PixelSize variants.
type sizeMode uint8

const (
	sizeWidthHeight sizeMode = iota
	sizeHeight
	sizeWidth
)

// PixelSize specifies the pixel dimensions a glyph is rendered at.
// It has three variants:
//
//   - [Pixels]: both dimensions fixed
//   - [PixelHeight]: height fixed, width chosen by the engine
//   - [PixelWidth]: width fixed, height chosen by the engine
//
// PixelSize is comparable; two values are equal iff they have the same
// variant and the same dimensions. The zero value is Pixels(0, 0), which
// no engine accepts.
type PixelSize struct {
	mode   sizeMode
	width  int
	height int
}

// Pixels returns a PixelSize fixing both dimensions.
func Pixels(width, height int) PixelSize {
	return PixelSize{mode: sizeWidthHeight, width: width, height: height}
}

// PixelHeight returns a PixelSize fixing only the height. The width is
// computed by the engine.
func PixelHeight(height int) PixelSize {
	return PixelSize{mode: sizeHeight, height: height}
}

// PixelWidth returns a PixelSize fixing only the width. The height is
// computed by the engine.
func PixelWidth(width int) PixelSize {
	return PixelSize{mode: sizeWidth, width: width}
}

// Width returns the fixed width, or 0 for the height-only variant.
func (s PixelSize) Width() int { return s.width }

// Height returns the fixed height, or 0 for the width-only variant.
func (s PixelSize) Height() int { return s.height }

// String returns a readable form such as "32x48", "x48" or "32x".
func (s PixelSize) String() string {
	switch s.mode {
	case sizeHeight:
		return "x" + strconv.Itoa(s.height)
	case sizeWidth:
		return strconv.Itoa(s.width) + "x"
	default:
		return strconv.Itoa(s.width) + "x" + strconv.Itoa(s.height)
	}
}

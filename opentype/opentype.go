// Package opentype provides the default rasterization backend for
// glyphcache, built on golang.org/x/image: font parsing and glyph
// loading via font/sfnt, scan conversion via vector.
//
// A [Face] implements [glyphcache.Face] with the engine semantics the
// cache expects: one glyph slot per face, whose bitmap buffer is reused
// across renders and therefore only valid until the next LoadChar.
//
// Face is not safe for concurrent use.
package opentype

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/glyphcache"
)

// Face is a loaded font face rendering through x/image. Create one with
// [New] or [NewFromFile].
type Face struct {
	font *sfnt.Font
	buf  sfnt.Buffer

	// ppem is the configured pixel size, 0 until SetPixelSize.
	ppem fixed.Int26_6

	// ras and pix are reused across renders; pix backs the slot bitmap.
	ras vector.Rasterizer
	pix []byte

	slot glyphcache.Slot
}

// New parses font data (TTF or OTF) and returns a face for it.
func New(data []byte) (*Face, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("glyphcache/opentype: empty font data")
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyphcache/opentype: parse font: %w", err)
	}
	face := &Face{font: f}
	glyphcache.Logger().Info("opentype: face loaded", "glyphs", f.NumGlyphs())
	return face, nil
}

// NewFromFile loads a font file and returns a face for it.
func NewFromFile(path string) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("glyphcache/opentype: read font file: %w", err)
	}
	return New(data)
}

// SetPixelSize implements [glyphcache.Face]. x/image renders from a
// single square ppem rather than independent x/y pixel sizes, so the
// fixed axis becomes the ppem: height when given, otherwise width. The
// zero axis is "auto" by virtue of the em square being square.
func (f *Face) SetPixelSize(width, height int) glyphcache.Status {
	if width < 0 || height < 0 {
		return glyphcache.StatusInvalidPixelSize
	}
	ppem := height
	if ppem == 0 {
		ppem = width
	}
	if ppem <= 0 {
		return glyphcache.StatusInvalidPixelSize
	}
	f.ppem = fixed.I(ppem)
	return glyphcache.StatusOK
}

// LoadChar implements [glyphcache.Face]. It renders the glyph for r at
// the configured pixel size into the face's slot, overwriting the
// previous slot bitmap.
func (f *Face) LoadChar(r rune) glyphcache.Status {
	if f.ppem == 0 {
		return glyphcache.StatusInvalidPixelSize
	}
	gid, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil || gid == 0 {
		return glyphcache.StatusInvalidCharacter
	}
	segments, err := f.font.LoadGlyph(&f.buf, gid, f.ppem, nil)
	if err != nil {
		return glyphcache.StatusRenderFailed
	}
	advance, err := f.font.GlyphAdvance(&f.buf, gid, f.ppem, font.HintingNone)
	if err != nil {
		return glyphcache.StatusRenderFailed
	}
	f.render(segments, advance)
	return glyphcache.StatusOK
}

// Slot implements [glyphcache.Face].
func (f *Face) Slot() glyphcache.Slot { return f.slot }

// render scan-converts the glyph outline into the reused slot buffer
// and fills in the slot metrics.
func (f *Face) render(segments sfnt.Segments, advance fixed.Int26_6) {
	bounds := segments.Bounds()
	if len(segments) == 0 || bounds.Empty() {
		// Whitespace and other empty glyphs still advance the pen.
		f.slot = glyphcache.Slot{
			Metrics: glyphcache.SlotMetrics{Advance: advance},
		}
		return
	}

	// Integer pixel bounds. Segment coordinates are 26.6 with the Y
	// axis growing downwards and the origin on the baseline.
	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	w := maxX - minX
	h := maxY - minY

	// The vector rasterizer wants coordinates in the positive
	// quadrant, so every point is shifted by (-minX, -minY).
	offX := float32(minX)
	offY := float32(minY)
	f.ras.Reset(w, h)
	f.ras.DrawOp = draw.Src
	for _, seg := range segments {
		p0 := f26ToFloat(seg.Args[0], offX, offY)
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			f.ras.MoveTo(p0[0], p0[1])
		case sfnt.SegmentOpLineTo:
			f.ras.LineTo(p0[0], p0[1])
		case sfnt.SegmentOpQuadTo:
			p1 := f26ToFloat(seg.Args[1], offX, offY)
			f.ras.QuadTo(p0[0], p0[1], p1[0], p1[1])
		case sfnt.SegmentOpCubeTo:
			p1 := f26ToFloat(seg.Args[1], offX, offY)
			p2 := f26ToFloat(seg.Args[2], offX, offY)
			f.ras.CubeTo(p0[0], p0[1], p1[0], p1[1], p2[0], p2[1])
		}
	}

	n := w * h
	if cap(f.pix) < n {
		f.pix = make([]byte, n)
	}
	mask := &image.Alpha{
		Pix:    f.pix[:n],
		Stride: w,
		Rect:   image.Rect(0, 0, w, h),
	}
	// draw.Src overwrites every pixel of the rect, so the reused
	// buffer needs no clearing.
	f.ras.Draw(mask, mask.Rect, image.Opaque, image.Point{})

	f.slot = glyphcache.Slot{
		Bitmap: mask.Pix,
		Metrics: glyphcache.SlotMetrics{
			Width:    fixed.I(w),
			Height:   fixed.I(h),
			BearingX: fixed.I(minX),
			BearingY: fixed.I(-minY),
			Advance:  advance,
		},
	}
}

// f26ToFloat converts a 26.6 point to rasterizer coordinates, shifted
// into the positive quadrant.
func f26ToFloat(p fixed.Point26_6, offX, offY float32) [2]float32 {
	return [2]float32{
		float32(p.X)/64 - offX,
		float32(p.Y)/64 - offY,
	}
}

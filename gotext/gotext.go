// Package gotext provides an alternative rasterization backend for
// glyphcache built on github.com/go-text/typesetting for font parsing
// and golang.org/x/image/vector for scan conversion.
//
// It is a drop-in replacement for the default glyphcache/opentype
// backend, useful when the rest of an application already parses its
// fonts with go-text. Only outline glyphs are supported; bitmap and SVG
// color glyphs report a render failure.
//
// Face is not safe for concurrent use.
package gotext

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/glyphcache"
)

// Face is a loaded font face rendering through go-text/typesetting.
// Create one with [New] or [NewFromFile].
type Face struct {
	face *font.Face

	// ppem is the configured pixel size, 0 until SetPixelSize.
	ppem int

	// ras and pix are reused across renders; pix backs the slot bitmap.
	ras vector.Rasterizer
	pix []byte

	slot glyphcache.Slot
}

// New parses font data (TTF or OTF) and returns a face for it.
func New(data []byte) (*Face, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("glyphcache/gotext: empty font data")
	}
	parsed, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("glyphcache/gotext: parse font: %w", err)
	}
	face := &Face{face: parsed}
	glyphcache.Logger().Info("gotext: face loaded", "upem", parsed.Upem())
	return face, nil
}

// NewFromFile loads a font file and returns a face for it.
func NewFromFile(path string) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("glyphcache/gotext: read font file: %w", err)
	}
	return New(data)
}

// SetPixelSize implements [glyphcache.Face]. Like the opentype backend,
// rendering happens from a single square ppem: the fixed axis becomes
// the ppem (height when given, otherwise width) and the zero axis is
// computed from the em square.
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
	f.ppem = ppem
	return glyphcache.StatusOK
}

// LoadChar implements [glyphcache.Face]. It renders the glyph for r at
// the configured pixel size into the face's slot, overwriting the
// previous slot bitmap.
func (f *Face) LoadChar(r rune) glyphcache.Status {
	if f.ppem == 0 {
		return glyphcache.StatusInvalidPixelSize
	}
	gid, ok := f.face.NominalGlyph(r)
	if !ok {
		return glyphcache.StatusInvalidCharacter
	}
	data := f.face.GlyphData(gid)
	outline, ok := data.(font.GlyphOutline)
	if !ok {
		// Bitmap and SVG color glyphs are not supported.
		return glyphcache.StatusRenderFailed
	}

	scale := float32(f.ppem) / float32(f.face.Upem())
	advance := fixed.Int26_6(math.Round(float64(f.face.HorizontalAdvance(gid)*scale) * 64))
	f.render(outline.Segments, scale, advance)
	return glyphcache.StatusOK
}

// Slot implements [glyphcache.Face].
func (f *Face) Slot() glyphcache.Slot { return f.slot }

// render scan-converts the outline into the reused slot buffer and
// fills in the slot metrics. Outline coordinates are in font units with
// the Y axis growing upwards; they are scaled to pixels and flipped to
// the rasterizer's Y-down convention.
func (f *Face) render(segments []font.Segment, scale float32, advance fixed.Int26_6) {
	if len(segments) == 0 {
		// Whitespace and other empty glyphs still advance the pen.
		f.slot = glyphcache.Slot{
			Metrics: glyphcache.SlotMetrics{Advance: advance},
		}
		return
	}

	// Pixel-space bounds over every point, control points included.
	// Slightly loose for curved glyphs, matching what the engine's
	// slot reports: the bitmap always contains the full outline.
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, seg := range segments {
		for _, p := range seg.Args[:argsUsed(seg.Op)] {
			x := p.X * scale
			y := -p.Y * scale
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	left := int(math.Floor(float64(minX)))
	top := int(math.Floor(float64(minY)))
	right := int(math.Ceil(float64(maxX)))
	bottom := int(math.Ceil(float64(maxY)))
	w := right - left
	h := bottom - top
	if w <= 0 || h <= 0 {
		f.slot = glyphcache.Slot{
			Metrics: glyphcache.SlotMetrics{Advance: advance},
		}
		return
	}

	offX := float32(left)
	offY := float32(top)
	f.ras.Reset(w, h)
	f.ras.DrawOp = draw.Src
	for _, seg := range segments {
		p0x, p0y := seg.Args[0].X*scale-offX, -seg.Args[0].Y*scale-offY
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			f.ras.MoveTo(p0x, p0y)
		case ot.SegmentOpLineTo:
			f.ras.LineTo(p0x, p0y)
		case ot.SegmentOpQuadTo:
			p1x, p1y := seg.Args[1].X*scale-offX, -seg.Args[1].Y*scale-offY
			f.ras.QuadTo(p0x, p0y, p1x, p1y)
		case ot.SegmentOpCubeTo:
			p1x, p1y := seg.Args[1].X*scale-offX, -seg.Args[1].Y*scale-offY
			p2x, p2y := seg.Args[2].X*scale-offX, -seg.Args[2].Y*scale-offY
			f.ras.CubeTo(p0x, p0y, p1x, p1y, p2x, p2y)
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
			BearingX: fixed.I(left),
			BearingY: fixed.I(-top),
			Advance:  advance,
		},
	}
}

// argsUsed returns how many of a segment's Args its op consumes.
func argsUsed(op ot.SegmentOp) int {
	switch op {
	case ot.SegmentOpQuadTo:
		return 2
	case ot.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}

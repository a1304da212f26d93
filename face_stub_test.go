package glyphcache

import "golang.org/x/image/math/fixed"

// stubGlyph is a canned render result for stubFace.
type stubGlyph struct {
	bitmap  []byte
	metrics SlotMetrics
}

// stubFace is a call-counting Face returning canned glyphs, used to
// observe engine traffic without a real rasterizer. Like a real engine
// it reuses one slot buffer across renders, so tests can also verify
// the processor copy obligation.
type stubFace struct {
	glyphs     map[rune]stubGlyph
	fail       map[rune]Status
	sizeStatus Status

	loads     int      // LoadChar call count
	sizeCalls [][2]int // recorded SetPixelSize arguments

	buf  []byte
	slot Slot
}

func newStubFace() *stubFace {
	return &stubFace{
		glyphs: make(map[rune]stubGlyph),
		fail:   make(map[rune]Status),
	}
}

// addGlyph registers a canned glyph with whole-pixel metrics.
func (f *stubFace) addGlyph(r rune, bitmap []byte, width, height, bearingX, bearingY, advance int) {
	f.glyphs[r] = stubGlyph{
		bitmap: bitmap,
		metrics: SlotMetrics{
			Width:    fixed.I(width),
			Height:   fixed.I(height),
			BearingX: fixed.I(bearingX),
			BearingY: fixed.I(bearingY),
			Advance:  fixed.I(advance),
		},
	}
}

func (f *stubFace) SetPixelSize(width, height int) Status {
	f.sizeCalls = append(f.sizeCalls, [2]int{width, height})
	return f.sizeStatus
}

func (f *stubFace) LoadChar(r rune) Status {
	f.loads++
	if status, ok := f.fail[r]; ok {
		return status
	}
	g, ok := f.glyphs[r]
	if !ok {
		return StatusInvalidCharacter
	}
	// Overwrite the reused slot buffer, as a real engine would.
	f.buf = append(f.buf[:0], g.bitmap...)
	f.slot = Slot{Bitmap: f.buf, Metrics: g.metrics}
	return StatusOK
}

func (f *stubFace) Slot() Slot { return f.slot }

// newABFace returns a stub face with the two glyphs most tests use.
func newABFace() *stubFace {
	f := newStubFace()
	f.addGlyph('a', []byte{0xA0, 0xA1, 0xA2}, 10, 12, 1, 2, 11)
	f.addGlyph('b', []byte{0xB0, 0xB1}, 8, 14, 0, 3, 9)
	return f
}

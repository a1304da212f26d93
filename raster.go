package glyphcache

// Face is the boundary to the external rasterization engine. A Face
// represents one loaded font resource configured for rendering.
//
// The interface is deliberately low level and status-code based, in the
// manner of native rasterization engines: every call reports success or
// failure through a [Status], and the adapter functions in this package
// translate non-zero codes into a *[RasterizationError].
//
// Faces are borrowed by caches, never owned: a [Cache] or [Store] must
// not outlive its face, and invoking any cache operation after the
// face's backing resources have been released is a caller error that the
// cache does not detect.
//
// Face implementations are not required to be safe for concurrent use,
// and the ones in this module are not.
type Face interface {
	// SetPixelSize configures the target pixel size for subsequent
	// renders. A zero on either axis means that axis is computed by
	// the engine from the other one.
	SetPixelSize(width, height int) Status

	// LoadChar renders the glyph for r at the configured pixel size
	// into the face's glyph slot, with anti-aliasing enabled.
	LoadChar(r rune) Status

	// Slot returns the face's current glyph slot: the raw bitmap
	// produced by the last successful LoadChar and its 26.6 metrics.
	// The bitmap is only valid until the next LoadChar on this face.
	Slot() Slot
}

// Slot is the result of rendering one glyph: the raw bitmap and the
// engine-reported fixed-point metrics.
//
// Bitmap is a tightly packed 8-bit alpha image of Metrics.Width x
// Metrics.Height pixels (after /64 truncation). Engines reuse one
// backing buffer per face, so the slice contents are overwritten by the
// next render; anything that must survive has to be copied out by the
// cache's [Processor].
type Slot struct {
	Bitmap  []byte
	Metrics SlotMetrics
}

// ConfigurePixelSize applies size to the face, dispatching the variant
// to the engine's native (width, height) call: both axes for [Pixels],
// (0, height) for [PixelHeight] and (width, 0) for [PixelWidth].
func ConfigurePixelSize(face Face, size PixelSize) error {
	var status Status
	switch size.mode {
	case sizeHeight:
		status = face.SetPixelSize(0, size.height)
	case sizeWidth:
		status = face.SetPixelSize(size.width, 0)
	default:
		status = face.SetPixelSize(size.width, size.height)
	}
	if status != StatusOK {
		return statusErr(status)
	}
	return nil
}

// LoadChar renders the glyph for r at the face's configured size.
func LoadChar(face Face, r rune) error {
	if status := face.LoadChar(r); status != StatusOK {
		return statusErr(status)
	}
	return nil
}

// ReadSlot reads back the face's current glyph slot, returning the raw
// bitmap and the metrics truncated to whole pixels. The bitmap is only
// valid until the next render on the same face.
func ReadSlot(face Face) ([]byte, Metrics) {
	slot := face.Slot()
	return slot.Bitmap, slot.Metrics.pixels()
}

// Render configures the query's pixel size, renders its character and
// reads back the result. Any failure aborts the sequence and is
// propagated as a *[RasterizationError].
func Render(face Face, query Query) ([]byte, Metrics, error) {
	if err := ConfigurePixelSize(face, query.Size); err != nil {
		return nil, Metrics{}, err
	}
	if err := LoadChar(face, query.Rune); err != nil {
		return nil, Metrics{}, err
	}
	bitmap, metrics := ReadSlot(face)
	return bitmap, metrics, nil
}

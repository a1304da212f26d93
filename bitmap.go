package glyphcache

import "bytes"

// CopyBitmap is a [Processor] producing owned byte-slice payloads. It
// copies the raw slot bitmap, discharging the copy obligation processors
// have toward the engine's reused buffer, and is the right default when
// the payload should simply be the glyph's alpha bitmap.
//
// The copy is tightly packed with a stride of metrics.Width bytes. For
// empty glyphs such as spaces it returns nil.
func CopyBitmap(bitmap []byte, _ Metrics) []byte {
	if len(bitmap) == 0 {
		return nil
	}
	return bytes.Clone(bitmap)
}

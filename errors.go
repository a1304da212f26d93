package glyphcache

import (
	"errors"
	"strconv"
)

// Status is a status code reported by a rasterization engine.
// Zero means success; any non-zero value is a failure.
type Status int

// Status codes reported by the backends in this module. Custom [Face]
// implementations may report their own non-zero codes; the adapter treats
// every non-zero code the same way.
const (
	// StatusOK indicates success.
	StatusOK Status = 0

	// StatusInvalidPixelSize indicates a pixel size the engine cannot
	// configure (for example both axes zero, or a negative dimension).
	StatusInvalidPixelSize Status = 1

	// StatusInvalidCharacter indicates the face has no glyph for the
	// requested character.
	StatusInvalidCharacter Status = 2

	// StatusRenderFailed indicates the engine failed to decode or
	// scan-convert the glyph.
	StatusRenderFailed Status = 3
)

// String returns a short description of the status code.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidPixelSize:
		return "invalid pixel size"
	case StatusInvalidCharacter:
		return "invalid character"
	case StatusRenderFailed:
		return "render failed"
	default:
		return "status " + strconv.Itoa(int(s))
	}
}

// RasterizationError is returned when the rasterization engine reports a
// non-zero status during pixel size configuration or character rendering.
//
// A failed render never leaves a partial entry behind: the cache returned
// alongside a RasterizationError holds exactly the entries that were
// successfully rendered.
type RasterizationError struct {
	// Code is the engine status code, never StatusOK.
	Code Status
}

func (e *RasterizationError) Error() string {
	return "glyphcache: rasterization failed: " + e.Code.String()
}

// statusErr wraps a non-zero engine status into a *RasterizationError.
func statusErr(code Status) error {
	return &RasterizationError{Code: code}
}

// IsRasterizationError reports whether err is (or wraps) a
// *RasterizationError, returning its status code when it is.
func IsRasterizationError(err error) (Status, bool) {
	var rerr *RasterizationError
	if errors.As(err, &rerr) {
		return rerr.Code, true
	}
	return StatusOK, false
}

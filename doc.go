// Package glyphcache provides a read-through cache over a font
// rasterization engine: given a face, a pixel size and a character, it
// returns the rasterized glyph and its layout metrics, rendering each
// distinct (size, character) pair only once.
//
// The rasterization engine itself is an external collaborator reached
// through the [Face] interface. Two production backends ship with this
// module:
//
//   - glyphcache/opentype: golang.org/x/image/font/sfnt parsing with
//     x/image/vector scan conversion (default choice)
//   - glyphcache/gotext: github.com/go-text/typesetting parsing with the
//     same scan conversion
//
// # Cache and Store
//
// [Cache] has value semantics: [Cache.Lookup], [Cache.LookupString] and
// [Extend] never mutate the receiver. Each returns a new cache value and
// the caller is responsible for threading it forward:
//
//	cache := glyphcache.New(face, glyphcache.CopyBitmap)
//	glyph, cache, err := cache.Lookup(glyphcache.PixelHeight(48), 'a')
//
// [Store] wraps a cache in a single mutable cell for callers that prefer
// an imperative API:
//
//	store := glyphcache.NewStore(glyphcache.New(face, glyphcache.CopyBitmap))
//	glyph, err := store.Get(glyphcache.PixelHeight(48), 'a')
//
// A Store performs an unsynchronized read-modify-write on every call and
// must only be used from one goroutine at a time.
//
// # Payload processing
//
// A cache is parameterized over the payload type produced by its
// [Processor]. The raw bitmap handed to a processor is only valid until
// the next render on the same face (the engine reuses one backing buffer
// per face), so a processor must copy any bytes it keeps. [CopyBitmap]
// does exactly that for byte-slice payloads. [Extend] appends a transform
// stage to an existing cache's pipeline and eagerly re-derives every
// cached entry, so payloads always reflect the current pipeline.
//
// By default glyphcache produces no log output. Call [SetLogger] to
// enable debug logging of render misses.
package glyphcache

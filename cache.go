package glyphcache

import (
	"maps"
	"unicode/utf8"
)

// Query identifies one cached glyph: a pixel size and a character.
// Query is comparable and is used as the cache key; two queries are
// equal iff both components are equal.
type Query struct {
	Size PixelSize
	Rune rune
}

// Processor turns a raw glyph bitmap and its metrics into the payload a
// cache stores. It runs once per cache miss.
//
// The bitmap slice aliases the face's glyph slot and is overwritten by
// the next render on the same face, so a Processor must copy any bytes
// it keeps. This is a hard precondition on every Processor passed to
// [New] or composed via [Extend]; the cache cannot enforce it at
// runtime. [CopyBitmap] is a ready-made Processor for byte payloads.
type Processor[P any] func(bitmap []byte, metrics Metrics) P

// Rendered pairs a processed glyph payload with its layout metrics.
type Rendered[P any] struct {
	Payload P
	Metrics Metrics
}

// entry is one cached glyph.
type entry[P any] struct {
	payload P
	metrics Metrics
}

// Cache is a read-through glyph cache with value semantics, mapping
// (pixel size, character) queries to processed payloads and metrics.
//
// Lookup operations never mutate the receiver: a hit returns the cache
// unchanged and a miss returns a new cache value with one extra entry,
// leaving the original usable and unmodified. Entries are never evicted;
// character sets are small and finite in practice, so the cache grows
// monotonically for its entire lifetime. There is no locking; wrap a
// cache in a [Store] (one goroutine at a time) or synchronize
// externally.
//
// The zero value is not usable; create caches with [New].
type Cache[P any] struct {
	face    Face
	process Processor[P]
	entries map[Query]entry[P]
}

// New creates an empty cache bound to the given face and payload
// processor. The face is borrowed: the cache never releases it and must
// not be used after the face's backing resources are gone.
//
// Panics if face or process is nil; both are required.
func New[P any](face Face, process Processor[P]) Cache[P] {
	if face == nil {
		panic("glyphcache: nil Face")
	}
	if process == nil {
		panic("glyphcache: nil Processor")
	}
	return Cache[P]{
		face:    face,
		process: process,
		entries: make(map[Query]entry[P]),
	}
}

// Len returns the number of cached entries.
func (c Cache[P]) Len() int { return len(c.entries) }

// Face returns the face this cache renders with.
func (c Cache[P]) Face() Face { return c.face }

// Lookup returns the glyph for the given pixel size and character,
// rendering and caching it on first use.
//
// On a hit the stored payload and metrics are returned together with
// the receiver, and no engine call is made. On a miss the glyph is
// rendered, processed and inserted, and the returned cache holds the
// new entry; the receiver itself is left unchanged. If rendering fails
// the error is a *[RasterizationError], no entry is inserted, and the
// receiver is returned as-is.
func (c Cache[P]) Lookup(size PixelSize, r rune) (Rendered[P], Cache[P], error) {
	key := Query{Size: size, Rune: r}
	if e, ok := c.entries[key]; ok {
		return Rendered[P]{Payload: e.payload, Metrics: e.metrics}, c, nil
	}

	bitmap, metrics, err := Render(c.face, key)
	if err != nil {
		return Rendered[P]{}, c, err
	}
	payload := c.process(bitmap, metrics)

	next := maps.Clone(c.entries)
	if next == nil {
		next = make(map[Query]entry[P], 1)
	}
	next[key] = entry[P]{payload: payload, metrics: metrics}

	Logger().Debug("glyphcache: rendered glyph",
		"rune", string(r), "size", size.String(), "entries", len(next))

	out := Cache[P]{face: c.face, process: c.process, entries: next}
	return Rendered[P]{Payload: payload, Metrics: metrics}, out, nil
}

// LookupString looks up every character of text in order, threading the
// updated cache from one lookup into the next so that a character
// repeated within text is rendered at most once. The result has exactly
// one element per rune of text, duplicates included, in input order.
//
// On failure the result slice is discarded and the error is returned
// together with the cache as updated so far: characters rendered before
// the failing one remain cached for future lookups.
func (c Cache[P]) LookupString(size PixelSize, text string) ([]Rendered[P], Cache[P], error) {
	out := make([]Rendered[P], 0, utf8.RuneCountInString(text))
	cur := c
	for _, r := range text {
		res, next, err := cur.Lookup(size, r)
		if err != nil {
			return nil, next, err
		}
		out = append(out, res)
		cur = next
	}
	return out, cur, nil
}

// Extend returns a new cache whose processing pipeline is the cache's
// existing pipeline followed by step. Every already-cached entry is
// re-derived exactly once by applying step to its stored payload and
// metrics, so the invariant "payloads reflect the current pipeline"
// holds without versioning; the key set and all metrics are preserved.
//
// Extend is a package function rather than a method because the payload
// type changes from P to Q. Like the lookups, it leaves the original
// cache unchanged.
//
// If step retains byte slices reachable from the old payload it may
// alias freely: old payloads were produced by a Processor and own their
// memory, unlike raw slot bitmaps.
func Extend[P, Q any](c Cache[P], step func(payload P, metrics Metrics) Q) Cache[Q] {
	if step == nil {
		panic("glyphcache: nil pipeline step")
	}
	entries := make(map[Query]entry[Q], len(c.entries))
	for key, e := range c.entries {
		entries[key] = entry[Q]{
			payload: step(e.payload, e.metrics),
			metrics: e.metrics,
		}
	}
	process := func(bitmap []byte, metrics Metrics) Q {
		return step(c.process(bitmap, metrics), metrics)
	}

	Logger().Debug("glyphcache: pipeline extended", "entries", len(entries))

	return Cache[Q]{face: c.face, process: process, entries: entries}
}

package glyphcache

import "golang.org/x/text/unicode/norm"

// StoreOption configures a [Store].
type StoreOption func(*storeConfig)

// storeConfig holds configuration for Store.
type storeConfig struct {
	nfc bool
}

// defaultStoreConfig returns the default store configuration.
func defaultStoreConfig() storeConfig {
	return storeConfig{}
}

// WithNFCNormalization makes [Store.GetString] normalize its input to
// Unicode NFC before looking characters up, so composed and decomposed
// spellings of the same text share cache entries. With this option the
// result has one element per rune of the normalized text, which may
// differ in length from the input.
func WithNFCNormalization() StoreOption {
	return func(c *storeConfig) {
		c.nfc = true
	}
}

// Store wraps a [Cache] in a single mutable cell, giving callers an
// imperative get API without manually threading the cache value
// returned by every lookup. Each operation reads the held cache,
// performs the lookup and writes the updated cache back.
//
// That read-modify-write is deliberately unsynchronized: a Store is
// usable from one goroutine at a time, and two goroutines racing on the
// same store may overwrite each other's inserted entries. Callers that
// need concurrent access must serialize it externally. Adding a lock
// here would change the documented contract, so none is added.
//
// Like the cache it holds, a Store borrows its face and must not be
// used once the face's backing resources are released.
type Store[P any] struct {
	cache  Cache[P]
	config storeConfig
}

// NewStore wraps the given cache in a mutable store.
func NewStore[P any](cache Cache[P], opts ...StoreOption) *Store[P] {
	config := defaultStoreConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Store[P]{cache: cache, config: config}
}

// Get returns the glyph for the given pixel size and character,
// rendering and caching it on first use. Subsequent calls with the same
// arguments hit the store's cache and make no engine call.
func (s *Store[P]) Get(size PixelSize, r rune) (Rendered[P], error) {
	res, next, err := s.cache.Lookup(size, r)
	s.cache = next
	return res, err
}

// GetString returns the glyphs for every character of text in order,
// one element per rune, duplicates included. Characters already cached
// are not re-rendered, including repeats within text itself.
//
// On failure the result is discarded and the error returned, but
// characters rendered before the failing one stay cached in the store.
func (s *Store[P]) GetString(size PixelSize, text string) ([]Rendered[P], error) {
	if s.config.nfc {
		text = norm.NFC.String(text)
	}
	out, next, err := s.cache.LookupString(size, text)
	s.cache = next
	return out, err
}

// Cache returns the cache currently held by the store. The returned
// value has the usual cache value semantics and is unaffected by later
// store operations.
func (s *Store[P]) Cache() Cache[P] { return s.cache }

// ExtendStore returns a new store whose cache pipeline is s's pipeline
// followed by step, with every cached entry re-derived (see [Extend]).
// The new store keeps s's options; s itself is left usable and
// unchanged.
//
// ExtendStore is a package function rather than a method because the
// payload type changes from P to Q.
func ExtendStore[P, Q any](s *Store[P], step func(payload P, metrics Metrics) Q) *Store[Q] {
	return &Store[Q]{cache: Extend(s.cache, step), config: s.config}
}

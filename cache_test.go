package glyphcache

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)
	if cache.Len() != 0 {
		t.Errorf("new cache should be empty, got len=%d", cache.Len())
	}
	if cache.Face() != face {
		t.Error("Face() did not return the bound face")
	}
}

func TestNew_NilArguments(t *testing.T) {
	face := newABFace()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("New with nil face should panic")
			}
		}()
		New[[]byte](nil, CopyBitmap)
	}()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("New with nil processor should panic")
			}
		}()
		New[[]byte](face, nil)
	}()
}

func TestLookup_MissInsertsExactlyOne(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)

	got, cache2, err := cache.Lookup(PixelHeight(48), 'a')
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if face.loads != 1 {
		t.Errorf("LoadChar calls = %d, want 1", face.loads)
	}
	if cache2.Len() != cache.Len()+1 {
		t.Errorf("len after miss = %d, want %d", cache2.Len(), cache.Len()+1)
	}

	want := Rendered[[]byte]{
		Payload: []byte{0xA0, 0xA1, 0xA2},
		Metrics: Metrics{Width: 10, Height: 12, BearingX: 1, BearingY: 2, Advance: 11},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lookup() result mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup_HitReturnsCachedUnchanged(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)

	first, cache, err := cache.Lookup(PixelHeight(48), 'a')
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	second, cache2, err := cache.Lookup(PixelHeight(48), 'a')
	if err != nil {
		t.Fatalf("Lookup() hit error = %v", err)
	}
	if face.loads != 1 {
		t.Errorf("hit made an engine call: LoadChar calls = %d, want 1", face.loads)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("hit result differs from cached value (-first +second):\n%s", diff)
	}
	// The returned cache is structurally equal to the receiver.
	if !reflect.DeepEqual(cache.entries, cache2.entries) {
		t.Error("hit should return a structurally equal cache")
	}
}

func TestLookup_ValueSemantics(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)

	_, _, err := cache.Lookup(PixelHeight(48), 'a')
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	// The original cache is unmodified; looking 'a' up on it again must
	// go back to the engine.
	if cache.Len() != 0 {
		t.Fatalf("original cache mutated: len = %d, want 0", cache.Len())
	}
	_, _, err = cache.Lookup(PixelHeight(48), 'a')
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if face.loads != 2 {
		t.Errorf("LoadChar calls = %d, want 2", face.loads)
	}
}

func TestLookup_DistinctSizesAreDistinctEntries(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)

	_, cache, _ = cacheMustLookup(t, cache, PixelHeight(48), 'a')
	_, cache, _ = cacheMustLookup(t, cache, PixelHeight(32), 'a')
	_, cache, _ = cacheMustLookup(t, cache, Pixels(0, 48), 'a')

	if cache.Len() != 3 {
		t.Errorf("len = %d, want 3 (one per distinct size variant)", cache.Len())
	}
	if face.loads != 3 {
		t.Errorf("LoadChar calls = %d, want 3", face.loads)
	}
}

func TestLookup_MissFailureLeavesCacheUnchanged(t *testing.T) {
	face := newABFace()
	face.fail['x'] = StatusRenderFailed
	cache := New(face, CopyBitmap)

	_, cache2, err := cache.Lookup(PixelHeight(48), 'x')
	var rerr *RasterizationError
	if !errors.As(err, &rerr) {
		t.Fatalf("Lookup() error = %v, want *RasterizationError", err)
	}
	if rerr.Code != StatusRenderFailed {
		t.Errorf("Code = %v, want StatusRenderFailed", rerr.Code)
	}
	if cache2.Len() != 0 {
		t.Errorf("failed miss inserted an entry: len = %d, want 0", cache2.Len())
	}

	// A retry re-attempts rasterization, proving no partial insert.
	_, _, err = cache2.Lookup(PixelHeight(48), 'x')
	if err == nil {
		t.Fatal("retry should fail again")
	}
	if face.loads != 2 {
		t.Errorf("LoadChar calls = %d, want 2", face.loads)
	}
}

func TestLookupString_OrderAndLength(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)

	got, cache, err := cache.LookupString(PixelHeight(48), "aba")
	if err != nil {
		t.Fatalf("LookupString() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(result) = %d, want 3", len(got))
	}
	a := Rendered[[]byte]{
		Payload: []byte{0xA0, 0xA1, 0xA2},
		Metrics: Metrics{Width: 10, Height: 12, BearingX: 1, BearingY: 2, Advance: 11},
	}
	b := Rendered[[]byte]{
		Payload: []byte{0xB0, 0xB1},
		Metrics: Metrics{Width: 8, Height: 14, BearingX: 0, BearingY: 3, Advance: 9},
	}
	if diff := cmp.Diff([]Rendered[[]byte]{a, b, a}, got); diff != "" {
		t.Errorf("LookupString() mismatch (-want +got):\n%s", diff)
	}
	if cache.Len() != 2 {
		t.Errorf("len = %d, want 2", cache.Len())
	}
}

func TestLookupString_ReusesIntraStringRepeats(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)

	got, _, err := cache.LookupString(PixelHeight(48), "aa")
	if err != nil {
		t.Fatalf("LookupString() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(result) = %d, want 2", len(got))
	}
	if face.loads != 1 {
		t.Errorf("LoadChar calls = %d, want 1 (second 'a' must hit)", face.loads)
	}
}

func TestLookupString_Empty(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)

	got, cache, err := cache.LookupString(PixelHeight(48), "")
	if err != nil {
		t.Fatalf("LookupString() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(result) = %d, want 0", len(got))
	}
	if face.loads != 0 {
		t.Errorf("LoadChar calls = %d, want 0", face.loads)
	}
	if cache.Len() != 0 {
		t.Errorf("len = %d, want 0", cache.Len())
	}
}

func TestLookupString_FailureKeepsEarlierEntries(t *testing.T) {
	face := newABFace()
	face.fail['x'] = StatusInvalidCharacter
	cache := New(face, CopyBitmap)

	got, cache2, err := cache.LookupString(PixelHeight(48), "abxa")
	if err == nil {
		t.Fatal("LookupString() should fail on 'x'")
	}
	if got != nil {
		t.Errorf("failed call should discard the result, got %d entries", len(got))
	}
	// Entries rendered before the failure remain cached.
	if cache2.Len() != 2 {
		t.Errorf("len = %d, want 2 ('a' and 'b')", cache2.Len())
	}
	loads := face.loads
	_, _, err = cache2.Lookup(PixelHeight(48), 'a')
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if face.loads != loads {
		t.Error("'a' should be a hit after the failed string lookup")
	}
}

func TestProcessorMustCopy(t *testing.T) {
	// CopyBitmap payloads stay intact even though the stub face reuses
	// its slot buffer, like a real engine.
	face := newABFace()
	cache := New(face, CopyBitmap)

	a, cache, err := cache.Lookup(PixelHeight(48), 'a')
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	_, _, err = cache.Lookup(PixelHeight(48), 'b')
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if diff := cmp.Diff([]byte{0xA0, 0xA1, 0xA2}, a.Payload); diff != "" {
		t.Errorf("payload aliased the reused slot buffer (-want +got):\n%s", diff)
	}
}

func TestExtend_RederivesPayloads(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)

	_, cache, _ = cacheMustLookup(t, cache, PixelHeight(48), 'a')
	_, cache, _ = cacheMustLookup(t, cache, PixelHeight(48), 'b')

	steps := 0
	extended := Extend(cache, func(payload []byte, metrics Metrics) int {
		steps++
		return len(payload) + metrics.Advance
	})

	// Every existing entry is visited exactly once, the key set is
	// preserved and metrics are unchanged.
	if steps != 2 {
		t.Errorf("step invocations = %d, want 2", steps)
	}
	if extended.Len() != 2 {
		t.Errorf("len = %d, want 2", extended.Len())
	}

	loads := face.loads
	a, extended, err := extended.Lookup(PixelHeight(48), 'a')
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if face.loads != loads {
		t.Error("extended cache lost the 'a' entry")
	}
	if a.Payload != 3+11 {
		t.Errorf("re-derived payload = %d, want %d", a.Payload, 3+11)
	}
	if (a.Metrics != Metrics{Width: 10, Height: 12, BearingX: 1, BearingY: 2, Advance: 11}) {
		t.Errorf("metrics changed by Extend: %+v", a.Metrics)
	}

	// The original cache keeps its old payload type and values.
	old, _, _ := cacheMustLookup(t, cache, PixelHeight(48), 'a')
	if diff := cmp.Diff([]byte{0xA0, 0xA1, 0xA2}, old.Payload); diff != "" {
		t.Errorf("original cache modified by Extend (-want +got):\n%s", diff)
	}
}

func TestExtend_ComposesPipelineForNewMisses(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)

	extended := Extend(cache, func(payload []byte, _ Metrics) int {
		return len(payload)
	})

	// A miss on the extended cache runs the whole pipeline: CopyBitmap,
	// then the extra step.
	b, _, err := extended.Lookup(PixelHeight(48), 'b')
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if b.Payload != 2 {
		t.Errorf("payload = %d, want 2 (len of 'b' bitmap)", b.Payload)
	}
}

func TestExtend_NilStep(t *testing.T) {
	face := newABFace()
	cache := New(face, CopyBitmap)
	defer func() {
		if recover() == nil {
			t.Error("Extend with nil step should panic")
		}
	}()
	Extend[[]byte, int](cache, nil)
}

// cacheMustLookup is a test helper failing the test on lookup error.
func cacheMustLookup[P any](t *testing.T, c Cache[P], size PixelSize, r rune) (Rendered[P], Cache[P], error) {
	t.Helper()
	res, next, err := c.Lookup(size, r)
	if err != nil {
		t.Fatalf("Lookup(%s, %q) error = %v", size, string(r), err)
	}
	return res, next, err
}

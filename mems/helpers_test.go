package mems

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

var errInjected = errors.New("injected mapper failure")

// fakeMapper hands out zeroed heap slices and records every call.
// Heap memory does not move, so its addresses are stable physical addresses
// for as long as the allocator holds the slice.
type fakeMapper struct {
	maps    []int // requested lengths, in call order
	unmaps  []int // released lengths, in call order
	failMap int   // fail the Nth Map call (1-based); 0 never fails

	failUnmap int // fail the Nth Unmap call (1-based); 0 never fails
}

func (f *fakeMapper) Map(n int) ([]byte, error) {
	f.maps = append(f.maps, n)
	if f.failMap != 0 && len(f.maps) == f.failMap {
		return nil, errInjected
	}
	return make([]byte, n), nil
}

func (f *fakeMapper) Unmap(b []byte) error {
	f.unmaps = append(f.unmaps, len(b))
	if f.failUnmap != 0 && len(f.unmaps) == f.failUnmap {
		return errInjected
	}
	return nil
}

// arenaMaps is the number of Map calls New makes for the metadata arenas.
const arenaMaps = 2

// regionMaps returns the Map calls made after New. Tests that use it stay
// within the first arena page, so every call is a region mapping.
func (f *fakeMapper) regionMaps() []int {
	return f.maps[arenaMaps:]
}

// newTestAllocator creates an allocator over a fakeMapper with structural
// checks after every mutation.
func newTestAllocator(t testing.TB, opts ...func(*Options)) (*Allocator, *fakeMapper) {
	t.Helper()
	fm := &fakeMapper{}
	o := Options{Mapper: fm, CheckInvariants: true}
	for _, fn := range opts {
		fn(&o)
	}
	a, err := New(o)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, fm
}

func withPageSize(n uint64) func(*Options) {
	return func(o *Options) { o.PageSize = n }
}

func mustAlloc(t testing.TB, a *Allocator, size uint64) Handle {
	t.Helper()
	h, err := a.Alloc(size)
	require.NoError(t, err, "Alloc(%d)", size)
	return h
}

// layout renders every region's segments as "A[start:end](size)" or
// "H[start:end](size)" strings, one slice per region.
func layout(t testing.TB, a *Allocator) [][]string {
	t.Helper()
	rep, err := a.Report()
	require.NoError(t, err)
	out := make([][]string, 0, len(rep.Regions))
	for _, r := range rep.Regions {
		var segs []string
		for _, s := range r.Segments {
			tag := "A"
			if s.Kind == Hole {
				tag = "H"
			}
			segs = append(segs, fmt.Sprintf("%s[%d:%d](%d)", tag, s.Start, s.End, s.Size))
		}
		out = append(out, segs)
	}
	return out
}

// assertInvariants runs the full structural check.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check())
}

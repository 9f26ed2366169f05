package mems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mems/internal/osmem"
)

func TestResolve_RoundTrip(t *testing.T) {
	a, _ := newTestAllocator(t)
	h := mustAlloc(t, a, 1000)

	p, err := a.Resolve(h)
	require.NoError(t, err)
	require.NotZero(t, p)

	buf, err := a.Bytes(h)
	require.NoError(t, err)
	require.Len(t, buf, 1000)
	assert.Equal(t, uintptr(p), osmem.Addr(buf), "Bytes starts at the resolved address")

	for i := range buf {
		buf[i] = byte(i)
	}
	// Write through an interior handle, read back through the base.
	inner, err := a.Bytes(h + 1)
	require.NoError(t, err)
	require.Len(t, inner, 999)
	inner[0] = 200
	assert.Equal(t, byte(200), buf[1])
	assert.Equal(t, byte(2), inner[1])

	require.NoError(t, a.Free(h))
	_, err = a.Resolve(h)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = a.Bytes(h)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_InteriorAndBoundaries(t *testing.T) {
	a, _ := newTestAllocator(t)
	h := mustAlloc(t, a, 1000)
	p, err := a.Resolve(h)
	require.NoError(t, err)

	q, err := a.Resolve(h + 999)
	require.NoError(t, err, "upper bound is inclusive")
	assert.Equal(t, p+999, q)

	next := mustAlloc(t, a, 10)
	q, err = a.Resolve(next)
	require.NoError(t, err)
	assert.Equal(t, p+1000, q, "neighbouring allocations share the region mapping")

	for _, v := range []Handle{0, 999, 2010, 5095, 5096, 1 << 40} {
		_, err := a.Resolve(v)
		require.ErrorIs(t, err, ErrNotFound, "handle %d", v)
	}
}

func TestResolve_AcrossRegions(t *testing.T) {
	a, _ := newTestAllocator(t)
	x := mustAlloc(t, a, 4096)
	y := mustAlloc(t, a, 4096)

	px, err := a.Resolve(x)
	require.NoError(t, err)
	py, err := a.Resolve(y)
	require.NoError(t, err)
	assert.NotEqual(t, px, py)

	bx, err := a.Bytes(x)
	require.NoError(t, err)
	by, err := a.Bytes(y)
	require.NoError(t, err)
	bx[4095] = 1
	by[0] = 2
	assert.Equal(t, byte(1), bx[4095])
	assert.Equal(t, byte(2), by[0])
}

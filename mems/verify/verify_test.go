package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mems/mems"
)

// heapMapper backs the allocator with ordinary heap slices.
type heapMapper struct{}

func (heapMapper) Map(n int) ([]byte, error) { return make([]byte, n), nil }
func (heapMapper) Unmap([]byte) error        { return nil }

func snapshot(t *testing.T, sizes []uint64, free []int) mems.Report {
	t.Helper()
	a, err := mems.New(mems.Options{Mapper: heapMapper{}})
	require.NoError(t, err)
	defer a.Close()

	handles := make([]mems.Handle, len(sizes))
	for i, sz := range sizes {
		handles[i], err = a.Alloc(sz)
		require.NoError(t, err)
	}
	for _, i := range free {
		require.NoError(t, a.Free(handles[i]))
	}
	rep, err := a.Report()
	require.NoError(t, err)
	return rep
}

func TestAllInvariants_Valid(t *testing.T) {
	tests := []struct {
		name  string
		sizes []uint64
		free  []int
	}{
		{"empty", nil, nil},
		{"single", []uint64{1000}, nil},
		{"multi region", []uint64{4000, 9000, 1, 4096}, []int{1}},
		{"all freed", []uint64{10, 20, 30}, []int{1, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, AllInvariants(snapshot(t, tt.sizes, tt.free)))
		})
	}
}

func TestAllInvariants_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*mems.Report)
		errType string
	}{
		{
			name:    "gap between regions",
			mutate:  func(r *mems.Report) { r.Regions[1].Start++ },
			errType: "Regions",
		},
		{
			name:    "segment overlap",
			mutate:  func(r *mems.Report) { r.Regions[0].Segments[1].Start-- },
			errType: "Tiling",
		},
		{
			name: "adjacent holes",
			mutate: func(r *mems.Report) {
				r.Regions[0].Segments[0].Kind = mems.Hole
			},
			errType: "Coalescing",
		},
		{
			name:    "wrong unused total",
			mutate:  func(r *mems.Report) { r.UnusedBytes++ },
			errType: "Totals",
		},
		{
			name:    "wrong region count",
			mutate:  func(r *mems.Report) { r.RegionCount = 7 },
			errType: "Totals",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := snapshot(t, []uint64{100, 5000}, nil)
			tt.mutate(&rep)

			err := AllInvariants(rep)
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.errType, verr.Type)
			assert.NotEmpty(t, verr.Error())
		})
	}
}

func TestValidationError_Format(t *testing.T) {
	withHandle := &ValidationError{Type: "Tiling", Message: "broken", Handle: 1000}
	assert.Equal(t, "Tiling at 1000: broken", withHandle.Error())

	noHandle := &ValidationError{Type: "Totals", Message: "off by one", Handle: -1}
	assert.Equal(t, "Totals: off by one", noHandle.Error())
}

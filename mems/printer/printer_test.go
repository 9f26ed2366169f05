package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mems/mems"
)

type heapMapper struct{}

func (heapMapper) Map(n int) ([]byte, error) { return make([]byte, n), nil }
func (heapMapper) Unmap([]byte) error        { return nil }

// newSnapshot leaves one region laid out as hole, allocated, allocated, hole.
func newSnapshot(t *testing.T) (mems.Report, mems.Stats) {
	t.Helper()
	a, err := mems.New(mems.Options{Mapper: heapMapper{}})
	require.NoError(t, err)
	defer a.Close()

	h1, err := a.Alloc(500)
	require.NoError(t, err)
	_, err = a.Alloc(500)
	require.NoError(t, err)
	_, err = a.Alloc(1000)
	require.NoError(t, err)
	require.NoError(t, a.Free(h1))

	rep, err := a.Report()
	require.NoError(t, err)
	return rep, a.Stats()
}

func TestPrinter_Report_Text(t *testing.T) {
	rep, _ := newSnapshot(t)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).PrintReport(rep))

	want := "--- MeMS System Stats ---\n" +
		"MAIN[1000:5095]-> H[1000:1499](500) <-> P[1500:1999](500) <-> " +
		"P[2000:2999](1000) <-> H[3000:5095](2096) <-> NULL\n" +
		"Pages used: 1\n" +
		"Space unused: 2596 bytes\n" +
		"Main chain length: 1\n" +
		"Sub-chain length array: [4]\n" +
		"-------------------------\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinter_Report_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	rep := mems.Report{Empty: true, PageSize: 4096, VirtualBase: 1000}
	require.NoError(t, New(&buf, DefaultOptions()).PrintReport(rep))
	assert.Equal(t, "MeMS Status: No pages allocated.\n", buf.String())
}

func TestPrinter_Report_TextPhysicalAndArena(t *testing.T) {
	rep, _ := newSnapshot(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowPhysical = true
	opts.ShowArena = true
	require.NoError(t, New(&buf, opts).PrintReport(rep))

	out := buf.String()
	assert.Contains(t, out, "MAIN[1000:5095]@0x")
	assert.Contains(t, out, "H[1000:1499](500)@0x")
	assert.Contains(t, out, "Arena: 1 region pages")
}

func TestPrinter_Report_JSON(t *testing.T) {
	rep, _ := newSnapshot(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).PrintReport(rep))

	var got jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, uint64(1), got.PagesUsed)
	assert.Equal(t, uint64(2596), got.UnusedBytes)
	assert.Equal(t, uint64(1500), got.AllocatedBytes)
	assert.Equal(t, 1, got.ChainLength)
	require.Len(t, got.Regions, 1)

	segs := got.Regions[0].Segments
	require.Len(t, segs, 4)
	assert.Equal(t, "hole", segs[0].Kind)
	assert.Equal(t, "allocated", segs[1].Kind)
	assert.Empty(t, segs[0].Phys)
	assert.Nil(t, got.Arena)
}

func TestPrinter_Report_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	opts.Indent = ""
	require.NoError(t, New(&buf, opts).PrintReport(mems.Report{Empty: true, PageSize: 4096, VirtualBase: 1000}))

	assert.Equal(t,
		`{"page_size":4096,"virtual_base":1000,"pages_used":0,"unused_bytes":0,"allocated_bytes":0,"main_chain_length":0,"sub_chain_lengths":[],"regions":[]}`+"\n",
		buf.String())
}

func TestPrinter_Stats(t *testing.T) {
	_, st := newSnapshot(t)

	var text bytes.Buffer
	require.NoError(t, New(&text, DefaultOptions()).PrintStats(st))
	assert.Contains(t, text.String(), "Allocs: 3 (fast 2, grow 1)")
	assert.Contains(t, text.String(), "Frees: 1 (misses 0)")

	var js bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&js, opts).PrintStats(st))

	var got map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	assert.InDelta(t, 3, got["alloc_calls"], 0)
	assert.InDelta(t, 1, got["grow_calls"], 0)
}

func TestPrinter_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Format: "reg"})
	require.Error(t, p.PrintReport(mems.Report{}))
	require.Error(t, p.PrintStats(mems.Stats{}))
}

package format

import (
	"errors"
	"testing"
)

func TestPagesFor(t *testing.T) {
	tests := []struct {
		n, page, want uint64
	}{
		{0, 4096, 0},
		{1, 4096, 1},
		{4096, 4096, 1},
		{4097, 4096, 2},
		{1000, 1024, 1},
		{3000, 1000, 3},
	}
	for _, tt := range tests {
		if got := PagesFor(tt.n, tt.page); got != tt.want {
			t.Fatalf("PagesFor(%d, %d) = %d, want %d", tt.n, tt.page, got, tt.want)
		}
	}
	if got := AlignPage(4097, 4096); got != 8192 {
		t.Fatalf("AlignPage(4097) = %d, want 8192", got)
	}
}

func TestRegionRecordFieldsDoNotOverlap(t *testing.T) {
	buf := make([]byte, RecordSize)
	in := Region{
		Pages:   3,
		MapID:   7,
		Phys:    0xdeadbeef000,
		VStart:  1000,
		VEnd:    1000 + 3*4096 - 1,
		Prev:    NullIndex,
		Next:    2,
		SegHead: 9,
	}
	if err := in.Encode(buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := DecodeRegion(buf)
	if err != nil {
		t.Fatalf("DecodeRegion: %v", err)
	}
	if out != in {
		t.Fatalf("region mismatch: got %+v want %+v", out, in)
	}
	if out.Size() != 3*4096 {
		t.Fatalf("Size = %d", out.Size())
	}
}

func TestSentinelRegionIsEmpty(t *testing.T) {
	r := Region{VStart: DefaultVirtualBase, VEnd: DefaultVirtualBase - 1}
	if r.Size() != 0 {
		t.Fatalf("sentinel size = %d, want 0", r.Size())
	}
	if r.Contains(DefaultVirtualBase) || r.Contains(DefaultVirtualBase-1) {
		t.Fatalf("sentinel must not contain any handle")
	}
}

func TestSegmentRecordRejectsUnknownKind(t *testing.T) {
	buf := make([]byte, RecordSize)
	PutU32(buf, SegmentKindOffset, 42)
	if _, err := DecodeSegment(buf); !errors.Is(err, ErrBadKind) {
		t.Fatalf("expected ErrBadKind, got %v", err)
	}
}

func TestTruncatedRecords(t *testing.T) {
	short := make([]byte, RecordSize-1)
	if _, err := DecodeRegion(short); !errors.Is(err, ErrTruncated) {
		t.Fatalf("DecodeRegion: expected ErrTruncated, got %v", err)
	}
	if err := (Segment{}).Encode(short); !errors.Is(err, ErrTruncated) {
		t.Fatalf("Segment.Encode: expected ErrTruncated, got %v", err)
	}
}

func TestSegmentContainsIsInclusive(t *testing.T) {
	s := Segment{Kind: SegmentAllocated, Size: 10, VStart: 100, VEnd: 109}
	for _, v := range []uint64{100, 105, 109} {
		if !s.Contains(v) {
			t.Fatalf("expected %d inside [100,109]", v)
		}
	}
	if s.Contains(99) || s.Contains(110) {
		t.Fatalf("range must be inclusive on both ends and nothing more")
	}
}

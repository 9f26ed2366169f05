package format

import "fmt"

// Region is the decoded form of a region record.
type Region struct {
	Pages   uint32
	MapID   uint32
	Phys    uint64
	VStart  uint64
	VEnd    uint64
	Prev    uint32
	Next    uint32
	SegHead uint32
}

// DecodeRegion decodes the region record at the start of b.
func DecodeRegion(b []byte) (Region, error) {
	if len(b) < RecordSize {
		return Region{}, fmt.Errorf("region: %w", ErrTruncated)
	}
	return Region{
		Pages:   ReadU32(b, RegionPagesOffset),
		MapID:   ReadU32(b, RegionMapIDOffset),
		Phys:    ReadU64(b, RegionPhysOffset),
		VStart:  ReadU64(b, RegionVStartOffset),
		VEnd:    ReadU64(b, RegionVEndOffset),
		Prev:    ReadU32(b, RegionPrevOffset),
		Next:    ReadU32(b, RegionNextOffset),
		SegHead: ReadU32(b, RegionSegHeadOffset),
	}, nil
}

// Encode writes every field of r into the record at the start of b.
func (r Region) Encode(b []byte) error {
	if len(b) < RecordSize {
		return fmt.Errorf("region: %w", ErrTruncated)
	}
	PutU32(b, RegionPagesOffset, r.Pages)
	PutU32(b, RegionMapIDOffset, r.MapID)
	PutU64(b, RegionPhysOffset, r.Phys)
	PutU64(b, RegionVStartOffset, r.VStart)
	PutU64(b, RegionVEndOffset, r.VEnd)
	PutU32(b, RegionPrevOffset, r.Prev)
	PutU32(b, RegionNextOffset, r.Next)
	PutU32(b, RegionSegHeadOffset, r.SegHead)
	return nil
}

// Size returns the number of bytes covered by the region's virtual range.
// The sentinel's degenerate range (VEnd = VStart-1) has size zero.
func (r Region) Size() uint64 {
	return r.VEnd + 1 - r.VStart
}

// Contains reports whether v lies inside the inclusive virtual range.
func (r Region) Contains(v uint64) bool {
	return r.Pages > 0 && v >= r.VStart && v <= r.VEnd
}

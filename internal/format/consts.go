// Package format defines the fixed binary layout of the descriptor records
// the allocator keeps in its metadata arena. Records are stored in OS pages
// rather than on the Go heap, so every field is an integer: links between
// records are arena indices, never pointers.
package format

const (
	// DefaultPageSize is the page size used for region growth and for the
	// metadata arena when no override is configured.
	DefaultPageSize = 4096

	// DefaultVirtualBase is the first handle of the synthetic address space.
	// It is non-zero so the zero handle never names a live allocation.
	DefaultVirtualBase = 1000

	// RecordSize is the size of every descriptor record, region or segment.
	// Page sizes must be a multiple of it.
	RecordSize = 64

	// NullIndex terminates record links.
	NullIndex uint32 = 0xFFFFFFFF
)

// Region record layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Page count (0 for the sentinel)
//	0x04    4     Mapping id (index into the allocator's live mappings)
//	0x08    8     Physical base address
//	0x10    8     Virtual start (inclusive)
//	0x18    8     Virtual end (inclusive)
//	0x20    4     Previous region index
//	0x24    4     Next region index
//	0x28    4     Segment list head index
//	0x2C    20    Reserved
const (
	RegionPagesOffset   = 0x00
	RegionMapIDOffset   = 0x04
	RegionPhysOffset    = 0x08
	RegionVStartOffset  = 0x10
	RegionVEndOffset    = 0x18
	RegionPrevOffset    = 0x20
	RegionNextOffset    = 0x24
	RegionSegHeadOffset = 0x28
)

// Segment record layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Kind (SegmentHole or SegmentAllocated)
//	0x04    4     Reserved
//	0x08    8     Size in bytes
//	0x10    8     Physical address
//	0x18    8     Virtual start (inclusive)
//	0x20    8     Virtual end (inclusive)
//	0x28    4     Previous segment index
//	0x2C    4     Next segment index
//	0x30    16    Reserved
const (
	SegmentKindOffset   = 0x00
	SegmentSizeOffset   = 0x08
	SegmentPhysOffset   = 0x10
	SegmentVStartOffset = 0x18
	SegmentVEndOffset   = 0x20
	SegmentPrevOffset   = 0x28
	SegmentNextOffset   = 0x2C
)

// Segment kinds.
const (
	SegmentHole      uint32 = 0
	SegmentAllocated uint32 = 1
)

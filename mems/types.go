package mems

import "github.com/joshuapare/mems/internal/format"

// Handle is a virtual address in the allocator's synthetic address space.
type Handle uint64

// NilHandle never names an allocation. Freeing it is a no-op.
const NilHandle Handle = 0

// PhysAddr is the address of mapped memory backing a handle.
type PhysAddr uintptr

// Kind tells whether a segment is free or handed out.
type Kind uint8

const (
	Hole      Kind = Kind(format.SegmentHole)
	Allocated Kind = Kind(format.SegmentAllocated)
)

func (k Kind) String() string {
	switch k {
	case Hole:
		return "hole"
	case Allocated:
		return "allocated"
	default:
		return "unknown"
	}
}

// PageMapper is the OS capability the allocator grows through.
// osmem.System is the production implementation.
type PageMapper interface {
	// Map returns n page-aligned, zeroed, read/write bytes.
	Map(n int) ([]byte, error)
	// Unmap releases a slice previously returned by Map.
	Unmap(b []byte) error
}

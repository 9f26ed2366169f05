// Package mems implements a first-fit memory allocator over raw OS page
// mappings with its own synthetic address space.
//
// # Overview
//
// Callers never see real pointers. Alloc returns a Handle, an integer in a
// virtual address space that starts at Options.VirtualBase. Resolve turns a
// handle into the physical address of mapped memory, and Bytes returns the
// mapped bytes themselves.
//
// Memory is organised in two levels:
//
//   - Regions: one per OS mapping, a whole number of pages. Regions form a
//     circular doubly-linked chain anchored at a sentinel that owns no pages.
//     Their virtual ranges are contiguous: each starts one past the end of
//     the previous one.
//   - Segments: an address-ordered list per region, each either a Hole or
//     Allocated, tiling the region's range with no gaps or overlaps.
//
// # Allocation
//
// Alloc walks regions in chain order and segments in list order and takes
// the first hole large enough (first-fit). A larger hole is split; the
// remainder stays a hole directly after the allocated part. When nothing
// fits, ceil(size/PageSize) pages are mapped as a new region at the tail of
// the chain, with a trailing hole for any page-rounding remainder.
//
// # Freeing
//
// Free only accepts the exact start of a live allocation. The segment turns
// into a hole and merges with a following hole and then a preceding hole in
// the same region, so a region never holds two adjacent holes. Regions are
// never unmapped before Close, even when they become entirely free.
//
// # Descriptors
//
// Region and segment descriptors are fixed-size records in the allocator's
// own metadata arena (package meta), linked by integer indices. Descriptors
// absorbed by coalescing are not reclaimed.
//
// # Usage Example
//
//	a, err := mems.New(mems.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	h, err := a.Alloc(1000)
//	if err != nil {
//	    return err
//	}
//	buf, err := a.Bytes(h)
//	if err != nil {
//	    return err
//	}
//	buf[0] = 42
//
//	err = a.Free(h)
//
// # Thread Safety
//
// Allocator instances are not thread-safe and take no locks. Callers must
// serialize access externally.
package mems

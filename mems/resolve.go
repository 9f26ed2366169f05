package mems

import (
	"fmt"

	"github.com/joshuapare/mems/internal/format"
	"github.com/joshuapare/mems/mems/meta"
)

// Resolve translates h to the physical address backing it. h may point
// anywhere inside a live allocation, not only at its start. Handles inside
// holes or outside every region return ErrNotFound.
func (a *Allocator) Resolve(h Handle) (PhysAddr, error) {
	if err := a.usable(); err != nil {
		return 0, err
	}
	_, s, err := a.lookup(uint64(h))
	if err != nil {
		return 0, err
	}
	return PhysAddr(s.Phys + (uint64(h) - s.VStart)), nil
}

// Bytes returns the mapped memory from h to the end of the allocation that
// contains it. The slice aliases allocator memory and is valid until the
// allocation is freed or the allocator is closed. Its first byte lives at
// Resolve(h).
func (a *Allocator) Bytes(h Handle) ([]byte, error) {
	if err := a.usable(); err != nil {
		return nil, err
	}
	r, s, err := a.lookup(uint64(h))
	if err != nil {
		return nil, err
	}
	if int(r.MapID) >= len(a.mappings) {
		return nil, fmt.Errorf("%w: region [%d:%d] has no mapping %d", ErrInvariant, r.VStart, r.VEnd, r.MapID)
	}
	data := a.mappings[r.MapID].data
	off := uint64(h) - r.VStart
	end := s.VEnd - r.VStart + 1
	return data[off:end:end], nil
}

// lookup finds the allocated segment whose inclusive range contains v.
func (a *Allocator) lookup(v uint64) (format.Region, format.Segment, error) {
	var (
		region format.Region
		seg    format.Segment
		found  bool
	)
	err := a.walkRegions(func(_ meta.Index, r format.Region) (bool, error) {
		if !r.Contains(v) {
			return false, nil
		}
		return true, a.walkSegments(r, func(_ meta.Index, s format.Segment) (bool, error) {
			if !s.Contains(v) {
				return false, nil
			}
			if !s.IsHole() {
				region, seg, found = r, s, true
			}
			return true, nil
		})
	})
	if err != nil {
		return region, seg, err
	}
	if !found {
		return region, seg, fmt.Errorf("resolve %d: %w", v, ErrNotFound)
	}
	return region, seg, nil
}

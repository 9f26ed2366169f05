package mems

import (
	"fmt"

	"github.com/joshuapare/mems/internal/format"
	"github.com/joshuapare/mems/mems/meta"
)

// Free releases the allocation that starts exactly at h and merges the
// resulting hole with its neighbours in the same region.
//
// Freeing NilHandle is a no-op. A handle that is not the start of a live
// allocation (unknown, already freed, or pointing mid-segment) returns
// ErrNotFound and changes nothing.
func (a *Allocator) Free(h Handle) error {
	if err := a.usable(); err != nil {
		return err
	}
	if h == NilHandle {
		return nil
	}
	a.stats.FreeCalls++

	idx, s, found, err := a.findAllocationStart(uint64(h))
	if err != nil {
		return err
	}
	if !found {
		a.stats.FreeMisses++
		a.log.Warn("free of unknown handle", "handle", uint64(h))
		return fmt.Errorf("free %d: %w", uint64(h), ErrNotFound)
	}

	s.Kind = format.SegmentHole
	if err := a.putSegment(idx, s); err != nil {
		return err
	}
	if err := a.coalesce(idx, s); err != nil {
		return err
	}
	return a.mutated("free")
}

// findAllocationStart finds the allocated segment whose range starts at v.
func (a *Allocator) findAllocationStart(v uint64) (meta.Index, format.Segment, bool, error) {
	var (
		idx   meta.Index
		seg   format.Segment
		found bool
	)
	err := a.walkRegions(func(_ meta.Index, r format.Region) (bool, error) {
		if !r.Contains(v) {
			return false, nil
		}
		// Ranges are disjoint, so no later region can hold v either.
		return true, a.walkSegments(r, func(i meta.Index, s format.Segment) (bool, error) {
			if s.VStart == v {
				if !s.IsHole() {
					idx, seg, found = i, s, true
				}
				return true, nil
			}
			return s.VStart > v, nil
		})
	})
	return idx, seg, found, err
}

// coalesce merges the hole at idx with a following hole, then lets a
// preceding hole absorb the result.
func (a *Allocator) coalesce(idx meta.Index, s format.Segment) error {
	if s.Next != format.NullIndex {
		next, err := a.segment(s.Next)
		if err != nil {
			return err
		}
		if next.IsHole() {
			if s, err = a.absorb(idx, s, next); err != nil {
				return err
			}
			a.stats.CoalesceForward++
			a.log.Debug("coalesced forward", "start", s.VStart, "size", s.Size)
		}
	}

	if s.Prev != format.NullIndex {
		prev, err := a.segment(s.Prev)
		if err != nil {
			return err
		}
		if prev.IsHole() {
			if prev, err = a.absorb(s.Prev, prev, s); err != nil {
				return err
			}
			a.stats.CoalesceBackward++
			a.log.Debug("coalesced backward", "start", prev.VStart, "size", prev.Size)
		}
	}
	return nil
}

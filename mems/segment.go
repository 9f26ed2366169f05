package mems

import (
	"fmt"

	"github.com/joshuapare/mems/internal/format"
	"github.com/joshuapare/mems/mems/meta"
)

// walkSegments visits the segments of r in address order.
func (a *Allocator) walkSegments(r format.Region, fn func(idx meta.Index, s format.Segment) (stop bool, err error)) error {
	limit := a.store.Segments.Len()
	cur := r.SegHead
	for steps := uint32(0); cur != format.NullIndex; steps++ {
		if steps >= limit {
			return fmt.Errorf("%w: segment list of region [%d:%d] does not terminate",
				ErrInvariant, r.VStart, r.VEnd)
		}
		s, err := a.segment(cur)
		if err != nil {
			return err
		}
		stop, err := fn(cur, s)
		if err != nil || stop {
			return err
		}
		cur = s.Next
	}
	return nil
}

// relinkPrev points the Prev link of the segment at idx (if any) to prev.
func (a *Allocator) relinkPrev(idx, prev meta.Index) error {
	if idx == format.NullIndex {
		return nil
	}
	s, err := a.segment(idx)
	if err != nil {
		return err
	}
	s.Prev = prev
	return a.putSegment(idx, s)
}

// absorb extends keep over the range of gone, which must directly follow it,
// and unlinks gone from the list. gone's record becomes a dead slot.
func (a *Allocator) absorb(keepIdx meta.Index, keep, gone format.Segment) (format.Segment, error) {
	if gone.VStart != keep.VEnd+1 {
		return keep, fmt.Errorf("%w: merging non-adjacent segments [%d:%d] and [%d:%d]",
			ErrInvariant, keep.VStart, keep.VEnd, gone.VStart, gone.VEnd)
	}
	keep.Size += gone.Size
	keep.VEnd = gone.VEnd
	keep.Next = gone.Next
	if err := a.putSegment(keepIdx, keep); err != nil {
		return keep, err
	}
	return keep, a.relinkPrev(gone.Next, keepIdx)
}

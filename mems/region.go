package mems

import (
	"fmt"

	"github.com/joshuapare/mems/internal/format"
	"github.com/joshuapare/mems/mems/meta"
)

// walkRegions visits every region after the sentinel in chain order until fn
// asks to stop or returns an error. A chain that does not come back to the
// sentinel within the number of issued region records is reported as an
// invariant violation.
func (a *Allocator) walkRegions(fn func(idx meta.Index, r format.Region) (stop bool, err error)) error {
	sentinel, err := a.region(a.head)
	if err != nil {
		return err
	}
	limit := a.store.Regions.Len()
	cur := sentinel.Next
	for steps := uint32(0); cur != a.head; steps++ {
		if steps >= limit {
			return fmt.Errorf("%w: region chain does not return to the sentinel", ErrInvariant)
		}
		r, err := a.region(cur)
		if err != nil {
			return err
		}
		stop, err := fn(cur, r)
		if err != nil || stop {
			return err
		}
		cur = r.Next
	}
	return nil
}

// appendRegion links a new region record at the tail of the chain, directly
// before the sentinel, and returns the range it was assigned.
func (a *Allocator) appendRegion(idx meta.Index, r format.Region) (format.Region, error) {
	sentinel, err := a.region(a.head)
	if err != nil {
		return r, err
	}
	tailIdx := sentinel.Prev
	tail, err := a.region(tailIdx)
	if err != nil {
		return r, err
	}

	size := uint64(r.Pages) * a.opts.PageSize
	r.VStart = tail.VEnd + 1
	r.VEnd = tail.VEnd + size
	r.Prev = tailIdx
	r.Next = a.head
	if err := a.putRegion(idx, r); err != nil {
		return r, err
	}

	tail.Next = idx
	if err := a.putRegion(tailIdx, tail); err != nil {
		return r, err
	}
	// The tail may be the sentinel itself; re-read before touching Prev.
	sentinel, err = a.region(a.head)
	if err != nil {
		return r, err
	}
	sentinel.Prev = idx
	return r, a.putRegion(a.head, sentinel)
}

// tailEnd returns the last virtual address assigned to any region.
func (a *Allocator) tailEnd() (uint64, error) {
	sentinel, err := a.region(a.head)
	if err != nil {
		return 0, err
	}
	tail, err := a.region(sentinel.Prev)
	if err != nil {
		return 0, err
	}
	return tail.VEnd, nil
}

package mems

import (
	"fmt"

	"github.com/joshuapare/mems/internal/format"
	"github.com/joshuapare/mems/mems/meta"
)

// Check walks every record and verifies the structural invariants:
//
//   - region ranges are contiguous from VirtualBase and sized to their pages
//   - chain back-links match the walk, and the sentinel's Prev is the tail
//   - every region has segments that tile its range exactly
//   - segment sizes are positive and physical addresses track virtual ones
//   - no two adjacent segments are both holes
//
// Violations are reported as ErrInvariant.
func (a *Allocator) Check() error {
	if err := a.usable(); err != nil {
		return err
	}

	sentinel, err := a.region(a.head)
	if err != nil {
		return err
	}
	if sentinel.Pages != 0 || sentinel.VStart != uint64(a.opts.VirtualBase) || sentinel.Size() != 0 {
		return fmt.Errorf("%w: sentinel carries pages or a non-empty range", ErrInvariant)
	}

	prevIdx := a.head
	nextStart := uint64(a.opts.VirtualBase)
	err = a.walkRegions(func(idx meta.Index, r format.Region) (bool, error) {
		if r.Prev != prevIdx {
			return true, fmt.Errorf("%w: region [%d:%d] back-link %d, want %d",
				ErrInvariant, r.VStart, r.VEnd, r.Prev, prevIdx)
		}
		if r.Pages == 0 {
			return true, fmt.Errorf("%w: region [%d:%d] has no pages", ErrInvariant, r.VStart, r.VEnd)
		}
		if r.VStart != nextStart {
			return true, fmt.Errorf("%w: region starts at %d, want %d", ErrInvariant, r.VStart, nextStart)
		}
		if r.Size() != uint64(r.Pages)*a.opts.PageSize {
			return true, fmt.Errorf("%w: region [%d:%d] spans %d bytes for %d pages",
				ErrInvariant, r.VStart, r.VEnd, r.Size(), r.Pages)
		}
		if err := a.checkSegments(r); err != nil {
			return true, err
		}
		prevIdx = idx
		nextStart = r.VEnd + 1
		return false, nil
	})
	if err != nil {
		return err
	}
	if sentinel.Prev != prevIdx {
		return fmt.Errorf("%w: sentinel tail link %d, want %d", ErrInvariant, sentinel.Prev, prevIdx)
	}
	return nil
}

func (a *Allocator) checkSegments(r format.Region) error {
	if r.SegHead == format.NullIndex {
		return fmt.Errorf("%w: region [%d:%d] has no segments", ErrInvariant, r.VStart, r.VEnd)
	}
	prevIdx := format.NullIndex
	prevHole := false
	next := r.VStart
	err := a.walkSegments(r, func(idx meta.Index, s format.Segment) (bool, error) {
		switch {
		case s.Prev != prevIdx:
			return true, fmt.Errorf("%w: segment [%d:%d] back-link %d, want %d",
				ErrInvariant, s.VStart, s.VEnd, s.Prev, prevIdx)
		case s.Size == 0:
			return true, fmt.Errorf("%w: empty segment at %d", ErrInvariant, s.VStart)
		case s.VStart != next:
			return true, fmt.Errorf("%w: segment starts at %d, want %d (gap or overlap)",
				ErrInvariant, s.VStart, next)
		case s.VEnd != s.VStart+s.Size-1:
			return true, fmt.Errorf("%w: segment [%d:%d] does not span its %d bytes",
				ErrInvariant, s.VStart, s.VEnd, s.Size)
		case s.Phys != r.Phys+(s.VStart-r.VStart):
			return true, fmt.Errorf("%w: segment at %d has physical address 0x%x, want 0x%x",
				ErrInvariant, s.VStart, s.Phys, r.Phys+(s.VStart-r.VStart))
		case s.VEnd > r.VEnd:
			return true, fmt.Errorf("%w: segment [%d:%d] overruns region end %d",
				ErrInvariant, s.VStart, s.VEnd, r.VEnd)
		case prevHole && s.IsHole():
			return true, fmt.Errorf("%w: adjacent holes at %d", ErrInvariant, s.VStart)
		}
		prevIdx = idx
		prevHole = s.IsHole()
		next = s.VEnd + 1
		return false, nil
	})
	if err != nil {
		return err
	}
	if next != r.VEnd+1 {
		return fmt.Errorf("%w: segments of region [%d:%d] end at %d", ErrInvariant, r.VStart, r.VEnd, next-1)
	}
	return nil
}

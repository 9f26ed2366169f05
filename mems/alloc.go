package mems

import (
	"fmt"
	"math"

	"github.com/joshuapare/mems/internal/format"
	"github.com/joshuapare/mems/internal/osmem"
	"github.com/joshuapare/mems/mems/meta"
)

// Alloc hands out exactly size bytes and returns the handle of the first
// byte. The first hole that is large enough, in chain and list order, is
// used; if none is, a new region is mapped at the tail of the chain.
//
// A zero size returns ErrInvalidSize without touching any state. A mapping
// failure is fatal: the allocator returns ErrResourceExhausted from then on.
func (a *Allocator) Alloc(size uint64) (Handle, error) {
	if err := a.usable(); err != nil {
		return NilHandle, err
	}
	if size == 0 {
		return NilHandle, ErrInvalidSize
	}
	if size > a.maxAllocSize() {
		return NilHandle, fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidSize, size, a.maxAllocSize())
	}
	a.stats.AllocCalls++

	h, found, err := a.firstFit(size)
	if err != nil {
		return NilHandle, err
	}
	if found {
		a.stats.AllocFastPath++
	} else {
		if h, err = a.grow(size); err != nil {
			return NilHandle, err
		}
		a.stats.AllocSlowPath++
	}

	if err := a.mutated("alloc"); err != nil {
		return NilHandle, err
	}
	return h, nil
}

// maxAllocSize is the largest request a single region can satisfy.
func (a *Allocator) maxAllocSize() uint64 {
	return min(uint64(maxRegionPages)*a.opts.PageSize, uint64(math.MaxInt)/a.opts.PageSize*a.opts.PageSize)
}

// firstFit takes the first hole of at least size bytes.
func (a *Allocator) firstFit(size uint64) (Handle, bool, error) {
	var (
		h     Handle
		found bool
	)
	err := a.walkRegions(func(_ meta.Index, r format.Region) (bool, error) {
		err := a.walkSegments(r, func(idx meta.Index, s format.Segment) (bool, error) {
			if !s.IsHole() || s.Size < size {
				return false, nil
			}
			if err := a.take(idx, s, size); err != nil {
				return true, err
			}
			h, found = Handle(s.VStart), true
			return true, nil
		})
		return found, err
	})
	return h, found, err
}

// take turns the hole at idx into an allocation of exactly size bytes,
// splitting off the remainder as a new hole right after it.
func (a *Allocator) take(idx meta.Index, s format.Segment, size uint64) error {
	if s.Size > size {
		resIdx, err := a.store.NewSegment()
		if err != nil {
			return a.fail(fmt.Errorf("%w: segment descriptor: %w", ErrResourceExhausted, err))
		}
		residual := format.Segment{
			Kind:   format.SegmentHole,
			Size:   s.Size - size,
			Phys:   s.Phys + size,
			VStart: s.VStart + size,
			VEnd:   s.VEnd,
			Prev:   idx,
			Next:   s.Next,
		}
		if err := a.putSegment(resIdx, residual); err != nil {
			return err
		}
		if err := a.relinkPrev(s.Next, resIdx); err != nil {
			return err
		}
		s.Next = resIdx
		s.Size = size
		s.VEnd = s.VStart + size - 1

		a.stats.SplitCount++
		a.log.Debug("split hole",
			"handle", s.VStart,
			"size", size,
			"residual", residual.Size)
	}
	s.Kind = format.SegmentAllocated
	return a.putSegment(idx, s)
}

// grow maps ceil(size/PageSize) pages as a new tail region holding an
// allocation of size bytes and, when the pages are not filled exactly, a
// trailing hole.
func (a *Allocator) grow(size uint64) (Handle, error) {
	pageSize := a.opts.PageSize
	pages := format.PagesFor(size, pageSize)
	n := pages * pageSize

	end, err := a.tailEnd()
	if err != nil {
		return NilHandle, err
	}
	if end > math.MaxUint64-n {
		return NilHandle, fmt.Errorf("%w: virtual address space exhausted", ErrResourceExhausted)
	}

	mem, err := a.opts.Mapper.Map(int(n))
	if err != nil {
		return NilHandle, a.fail(fmt.Errorf("%w: map %d pages: %w", ErrResourceExhausted, pages, err))
	}
	if uint64(len(mem)) < n {
		_ = a.opts.Mapper.Unmap(mem)
		return NilHandle, a.fail(fmt.Errorf("%w: map %d pages: got %d of %d bytes",
			ErrResourceExhausted, pages, len(mem), n))
	}

	regionIdx, err := a.store.NewRegion()
	if err != nil {
		_ = a.opts.Mapper.Unmap(mem)
		return NilHandle, a.fail(fmt.Errorf("%w: region descriptor: %w", ErrResourceExhausted, err))
	}
	allocIdx, err := a.store.NewSegment()
	if err != nil {
		_ = a.opts.Mapper.Unmap(mem)
		return NilHandle, a.fail(fmt.Errorf("%w: segment descriptor: %w", ErrResourceExhausted, err))
	}
	holeIdx := format.NullIndex
	if size < n {
		if holeIdx, err = a.store.NewSegment(); err != nil {
			_ = a.opts.Mapper.Unmap(mem)
			return NilHandle, a.fail(fmt.Errorf("%w: segment descriptor: %w", ErrResourceExhausted, err))
		}
	}

	mapID := uint32(len(a.mappings))
	a.mappings = append(a.mappings, mapping{mem: mem, data: mem[:n:n]})
	phys := uint64(osmem.Addr(mem))

	r, err := a.appendRegion(regionIdx, format.Region{
		Pages:   uint32(pages),
		MapID:   mapID,
		Phys:    phys,
		SegHead: allocIdx,
	})
	if err != nil {
		return NilHandle, err
	}

	seg := format.Segment{
		Kind:   format.SegmentAllocated,
		Size:   size,
		Phys:   phys,
		VStart: r.VStart,
		VEnd:   r.VStart + size - 1,
		Prev:   format.NullIndex,
		Next:   holeIdx,
	}
	if err := a.putSegment(allocIdx, seg); err != nil {
		return NilHandle, err
	}
	if holeIdx != format.NullIndex {
		hole := format.Segment{
			Kind:   format.SegmentHole,
			Size:   n - size,
			Phys:   phys + size,
			VStart: r.VStart + size,
			VEnd:   r.VEnd,
			Prev:   allocIdx,
			Next:   format.NullIndex,
		}
		if err := a.putSegment(holeIdx, hole); err != nil {
			return NilHandle, err
		}
	}

	a.stats.GrowCalls++
	a.stats.GrowPages += pages
	a.log.Debug("mapped region",
		"pages", pages,
		"start", r.VStart,
		"end", r.VEnd,
		"trailing_hole", n-size)
	return Handle(r.VStart), nil
}

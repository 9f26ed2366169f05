package mems

import (
	"github.com/joshuapare/mems/internal/format"
	"github.com/joshuapare/mems/mems/meta"
)

// Report is a read-only snapshot of the whole region chain.
type Report struct {
	PageSize    uint64
	VirtualBase Handle

	// Empty is true when the chain holds only the sentinel.
	Empty bool

	// Regions in chain order.
	Regions []RegionReport

	PagesUsed      uint64 // pages mapped for regions
	UnusedBytes    uint64 // bytes in holes
	AllocatedBytes uint64 // bytes in allocated segments
	RegionCount    int    // main chain length, sentinel excluded
	SegmentCounts  []int  // per region, in chain order

	Arena ArenaReport
}

// RegionReport describes one mapped region.
type RegionReport struct {
	Pages    uint32
	Phys     PhysAddr
	Start    Handle // inclusive
	End      Handle // inclusive
	Segments []SegmentReport
}

// SegmentReport describes one segment of a region.
type SegmentReport struct {
	Kind  Kind
	Start Handle // inclusive
	End   Handle // inclusive
	Size  uint64
	Phys  PhysAddr
}

// ArenaReport describes the metadata arena footprint, dead slots included.
type ArenaReport struct {
	RegionPages  int
	RegionSlots  uint32
	SegmentPages int
	SegmentSlots uint32
}

// Report walks the chain without modifying it.
func (a *Allocator) Report() (Report, error) {
	if err := a.usable(); err != nil {
		return Report{}, err
	}

	rep := Report{
		PageSize:    a.opts.PageSize,
		VirtualBase: a.opts.VirtualBase,
	}
	rs, ss := a.store.Regions.Stats(), a.store.Segments.Stats()
	rep.Arena = ArenaReport{
		RegionPages:  rs.Pages,
		RegionSlots:  rs.Slots,
		SegmentPages: ss.Pages,
		SegmentSlots: ss.Slots,
	}

	err := a.walkRegions(func(_ meta.Index, r format.Region) (bool, error) {
		rr := RegionReport{
			Pages: r.Pages,
			Phys:  PhysAddr(r.Phys),
			Start: Handle(r.VStart),
			End:   Handle(r.VEnd),
		}
		err := a.walkSegments(r, func(_ meta.Index, s format.Segment) (bool, error) {
			kind := Kind(s.Kind)
			rr.Segments = append(rr.Segments, SegmentReport{
				Kind:  kind,
				Start: Handle(s.VStart),
				End:   Handle(s.VEnd),
				Size:  s.Size,
				Phys:  PhysAddr(s.Phys),
			})
			if kind == Hole {
				rep.UnusedBytes += s.Size
			} else {
				rep.AllocatedBytes += s.Size
			}
			return false, nil
		})
		if err != nil {
			return true, err
		}
		rep.Regions = append(rep.Regions, rr)
		rep.PagesUsed += uint64(r.Pages)
		rep.SegmentCounts = append(rep.SegmentCounts, len(rr.Segments))
		return false, nil
	})
	if err != nil {
		return Report{}, err
	}
	rep.RegionCount = len(rep.Regions)
	rep.Empty = rep.RegionCount == 0
	return rep, nil
}

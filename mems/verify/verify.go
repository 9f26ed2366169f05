package verify

import (
	"fmt"

	"github.com/joshuapare/mems/mems"
)

// ValidationError describes the first invariant a snapshot breaks.
type ValidationError struct {
	Type    string
	Message string
	Handle  int64 // virtual address involved, or -1
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Handle >= 0 {
		return fmt.Sprintf("%s at %d: %s", e.Type, e.Handle, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all snapshot invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(rep mems.Report) error {
	if err := Regions(rep); err != nil {
		return err
	}
	if err := Tiling(rep); err != nil {
		return err
	}
	if err := NoAdjacentHoles(rep); err != nil {
		return err
	}
	if err := Totals(rep); err != nil {
		return err
	}
	return nil
}

// Regions checks that region ranges are contiguous from the virtual base and
// that each spans exactly its pages.
func Regions(rep mems.Report) error {
	next := rep.VirtualBase
	for i, r := range rep.Regions {
		if r.Pages == 0 {
			return &ValidationError{
				Type:    "Regions",
				Message: fmt.Sprintf("region %d has no pages", i),
				Handle:  int64(r.Start),
			}
		}
		if r.Start != next {
			return &ValidationError{
				Type:    "Regions",
				Message: fmt.Sprintf("region %d starts at %d, expected %d", i, r.Start, next),
				Handle:  int64(r.Start),
				Details: map[string]interface{}{"region": i, "expected": uint64(next)},
			}
		}
		span := uint64(r.End-r.Start) + 1
		if span != uint64(r.Pages)*rep.PageSize {
			return &ValidationError{
				Type:    "Regions",
				Message: fmt.Sprintf("region %d spans %d bytes for %d pages of %d", i, span, r.Pages, rep.PageSize),
				Handle:  int64(r.Start),
			}
		}
		next = r.End + 1
	}
	return nil
}

// Tiling checks that the segments of every region cover its range exactly,
// in address order, with positive sizes.
func Tiling(rep mems.Report) error {
	for i, r := range rep.Regions {
		if len(r.Segments) == 0 {
			return &ValidationError{
				Type:    "Tiling",
				Message: fmt.Sprintf("region %d has no segments", i),
				Handle:  int64(r.Start),
			}
		}
		next := r.Start
		for j, s := range r.Segments {
			if s.Size == 0 {
				return &ValidationError{
					Type:    "Tiling",
					Message: fmt.Sprintf("region %d segment %d is empty", i, j),
					Handle:  int64(s.Start),
				}
			}
			if s.Start != next {
				return &ValidationError{
					Type:    "Tiling",
					Message: fmt.Sprintf("region %d segment %d starts at %d, expected %d", i, j, s.Start, next),
					Handle:  int64(s.Start),
					Details: map[string]interface{}{"region": i, "segment": j},
				}
			}
			if uint64(s.End-s.Start)+1 != s.Size {
				return &ValidationError{
					Type:    "Tiling",
					Message: fmt.Sprintf("region %d segment %d [%d:%d] does not span %d bytes", i, j, s.Start, s.End, s.Size),
					Handle:  int64(s.Start),
				}
			}
			next = s.End + 1
		}
		if next != r.End+1 {
			return &ValidationError{
				Type:    "Tiling",
				Message: fmt.Sprintf("region %d segments end at %d, region ends at %d", i, next-1, r.End),
				Handle:  int64(r.Start),
			}
		}
	}
	return nil
}

// NoAdjacentHoles checks the coalescing invariant.
func NoAdjacentHoles(rep mems.Report) error {
	for i, r := range rep.Regions {
		for j := 1; j < len(r.Segments); j++ {
			if r.Segments[j-1].Kind == mems.Hole && r.Segments[j].Kind == mems.Hole {
				return &ValidationError{
					Type:    "Coalescing",
					Message: fmt.Sprintf("region %d has adjacent holes at segments %d and %d", i, j-1, j),
					Handle:  int64(r.Segments[j].Start),
				}
			}
		}
	}
	return nil
}

// Totals checks the aggregate counters against the per-segment data.
func Totals(rep mems.Report) error {
	var pages, unused, allocated uint64
	for i, r := range rep.Regions {
		pages += uint64(r.Pages)
		for _, s := range r.Segments {
			if s.Kind == mems.Hole {
				unused += s.Size
			} else {
				allocated += s.Size
			}
		}
		if i >= len(rep.SegmentCounts) || rep.SegmentCounts[i] != len(r.Segments) {
			return &ValidationError{
				Type:    "Totals",
				Message: fmt.Sprintf("segment count mismatch for region %d", i),
				Handle:  int64(r.Start),
			}
		}
	}
	switch {
	case rep.RegionCount != len(rep.Regions):
		return totalsError("region count", uint64(rep.RegionCount), uint64(len(rep.Regions)))
	case rep.Empty != (len(rep.Regions) == 0):
		return &ValidationError{Type: "Totals", Message: "empty flag disagrees with region list", Handle: -1}
	case rep.PagesUsed != pages:
		return totalsError("pages used", rep.PagesUsed, pages)
	case rep.UnusedBytes != unused:
		return totalsError("unused bytes", rep.UnusedBytes, unused)
	case rep.AllocatedBytes != allocated:
		return totalsError("allocated bytes", rep.AllocatedBytes, allocated)
	}
	return nil
}

func totalsError(what string, got, want uint64) error {
	return &ValidationError{
		Type:    "Totals",
		Message: fmt.Sprintf("%s is %d, segments add up to %d", what, got, want),
		Handle:  -1,
		Details: map[string]interface{}{"got": got, "want": want},
	}
}

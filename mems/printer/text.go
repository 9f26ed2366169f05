package printer

import (
	"fmt"
	"strings"

	"github.com/joshuapare/mems/mems"
)

const statsRule = "-------------------------"

// printReportText writes one line per region in chain order followed by the
// page and hole totals.
func (p *Printer) printReportText(rep mems.Report) error {
	var b strings.Builder

	if rep.Empty {
		b.WriteString("MeMS Status: No pages allocated.\n")
	} else {
		b.WriteString("--- MeMS System Stats ---\n")
		for _, r := range rep.Regions {
			fmt.Fprintf(&b, "MAIN[%d:%d]", r.Start, r.End)
			if p.opts.ShowPhysical {
				fmt.Fprintf(&b, "@%#x", r.Phys)
			}
			b.WriteString("-> ")
			for _, s := range r.Segments {
				fmt.Fprintf(&b, "%s[%d:%d](%d)", segmentTag(s.Kind), s.Start, s.End, s.Size)
				if p.opts.ShowPhysical {
					fmt.Fprintf(&b, "@%#x", s.Phys)
				}
				b.WriteString(" <-> ")
			}
			b.WriteString("NULL\n")
		}
		fmt.Fprintf(&b, "Pages used: %d\n", rep.PagesUsed)
		fmt.Fprintf(&b, "Space unused: %d bytes\n", rep.UnusedBytes)
		fmt.Fprintf(&b, "Main chain length: %d\n", rep.RegionCount)
		fmt.Fprintf(&b, "Sub-chain length array: %v\n", rep.SegmentCounts)
	}

	if p.opts.ShowArena {
		fmt.Fprintf(&b, "Arena: %d region pages (%d slots), %d segment pages (%d slots)\n",
			rep.Arena.RegionPages, rep.Arena.RegionSlots,
			rep.Arena.SegmentPages, rep.Arena.SegmentSlots)
	}
	if !rep.Empty {
		b.WriteString(statsRule + "\n")
	}

	_, err := fmt.Fprint(p.writer, b.String())
	return err
}

// segmentTag is P for allocated (process) segments and H for holes.
func segmentTag(k mems.Kind) string {
	if k == mems.Hole {
		return "H"
	}
	return "P"
}

func (p *Printer) printStatsText(st mems.Stats) error {
	_, err := fmt.Fprintf(p.writer,
		"Allocs: %d (fast %d, grow %d)\n"+
			"Frees: %d (misses %d)\n"+
			"Splits: %d\n"+
			"Coalesced: %d forward, %d backward\n"+
			"Grown: %d regions, %d pages\n",
		st.AllocCalls, st.AllocFastPath, st.AllocSlowPath,
		st.FreeCalls, st.FreeMisses,
		st.SplitCount,
		st.CoalesceForward, st.CoalesceBackward,
		st.GrowCalls, st.GrowPages)
	return err
}

package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/mems/mems"
)

// jsonReport represents a snapshot in JSON format.
type jsonReport struct {
	PageSize       uint64       `json:"page_size"`
	VirtualBase    uint64       `json:"virtual_base"`
	PagesUsed      uint64       `json:"pages_used"`
	UnusedBytes    uint64       `json:"unused_bytes"`
	AllocatedBytes uint64       `json:"allocated_bytes"`
	ChainLength    int          `json:"main_chain_length"`
	SegmentCounts  []int        `json:"sub_chain_lengths"`
	Regions        []jsonRegion `json:"regions"`
	Arena          *jsonArena   `json:"arena,omitempty"`
}

// jsonRegion represents one region in JSON format.
type jsonRegion struct {
	Start    uint64        `json:"start"`
	End      uint64        `json:"end"`
	Pages    uint32        `json:"pages"`
	Phys     string        `json:"phys,omitempty"`
	Segments []jsonSegment `json:"segments"`
}

// jsonSegment represents one segment in JSON format.
type jsonSegment struct {
	Kind  string `json:"kind"`
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
	Size  uint64 `json:"size"`
	Phys  string `json:"phys,omitempty"`
}

type jsonArena struct {
	RegionPages  int    `json:"region_pages"`
	RegionSlots  uint32 `json:"region_slots"`
	SegmentPages int    `json:"segment_pages"`
	SegmentSlots uint32 `json:"segment_slots"`
}

func (p *Printer) printReportJSON(rep mems.Report) error {
	out := jsonReport{
		PageSize:       rep.PageSize,
		VirtualBase:    uint64(rep.VirtualBase),
		PagesUsed:      rep.PagesUsed,
		UnusedBytes:    rep.UnusedBytes,
		AllocatedBytes: rep.AllocatedBytes,
		ChainLength:    rep.RegionCount,
		SegmentCounts:  rep.SegmentCounts,
		Regions:        make([]jsonRegion, 0, len(rep.Regions)),
	}
	if out.SegmentCounts == nil {
		out.SegmentCounts = []int{}
	}

	for _, r := range rep.Regions {
		jr := jsonRegion{
			Start:    uint64(r.Start),
			End:      uint64(r.End),
			Pages:    r.Pages,
			Segments: make([]jsonSegment, 0, len(r.Segments)),
		}
		if p.opts.ShowPhysical {
			jr.Phys = fmt.Sprintf("%#x", r.Phys)
		}
		for _, s := range r.Segments {
			js := jsonSegment{
				Kind:  s.Kind.String(),
				Start: uint64(s.Start),
				End:   uint64(s.End),
				Size:  s.Size,
			}
			if p.opts.ShowPhysical {
				js.Phys = fmt.Sprintf("%#x", s.Phys)
			}
			jr.Segments = append(jr.Segments, js)
		}
		out.Regions = append(out.Regions, jr)
	}

	if p.opts.ShowArena {
		out.Arena = &jsonArena{
			RegionPages:  rep.Arena.RegionPages,
			RegionSlots:  rep.Arena.RegionSlots,
			SegmentPages: rep.Arena.SegmentPages,
			SegmentSlots: rep.Arena.SegmentSlots,
		}
	}

	return p.writeJSON(out)
}

// jsonStats represents operation counters in JSON format.
type jsonStats struct {
	AllocCalls       int    `json:"alloc_calls"`
	AllocFastPath    int    `json:"alloc_fast_path"`
	AllocSlowPath    int    `json:"alloc_slow_path"`
	FreeCalls        int    `json:"free_calls"`
	FreeMisses       int    `json:"free_misses"`
	SplitCount       int    `json:"splits"`
	CoalesceForward  int    `json:"coalesce_forward"`
	CoalesceBackward int    `json:"coalesce_backward"`
	GrowCalls        int    `json:"grow_calls"`
	GrowPages        uint64 `json:"grow_pages"`
}

func (p *Printer) printStatsJSON(st mems.Stats) error {
	return p.writeJSON(jsonStats(st))
}

func (p *Printer) writeJSON(v any) error {
	var (
		data []byte
		err  error
	)
	if p.opts.Indent != "" {
		data, err = json.MarshalIndent(v, "", p.opts.Indent)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// Package verify validates allocator snapshots.
//
// # Overview
//
// The checks work on a mems.Report, so they need no access to allocator
// internals and can run against any snapshot, including one produced by a
// long-running program. They are used by tests and by `memsctl --check`.
//
// Validation categories:
//   - Regions: contiguous virtual ranges from the base, sized to their pages
//   - Tiling: every region's segments cover its range with no gap or overlap
//   - Coalescing: no two adjacent holes inside a region
//   - Totals: page, hole and allocated byte counts agree with the segments
//
// # Quick Start
//
//	rep, _ := a.Report()
//	if err := verify.AllInvariants(rep); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
package verify

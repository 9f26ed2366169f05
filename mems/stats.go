package mems

// Stats holds operation counters for testing and instrumentation.
type Stats struct {
	AllocCalls       int    // Total Alloc() calls that passed validation
	AllocFastPath    int    // Allocations served from an existing hole
	AllocSlowPath    int    // Allocations that mapped a new region
	FreeCalls        int    // Total Free() calls with a non-nil handle
	FreeMisses       int    // Free() calls that matched no live allocation
	SplitCount       int    // Holes split into allocated + residual
	CoalesceForward  int    // Merges with the following hole
	CoalesceBackward int    // Merges into the preceding hole
	GrowCalls        int    // Regions mapped
	GrowPages        uint64 // Pages mapped for regions
}

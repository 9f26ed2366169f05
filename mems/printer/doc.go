// Package printer renders allocator snapshots and counters as text or JSON.
//
// The text format lists each region in chain order with its segments:
//
//	--- MeMS System Stats ---
//	MAIN[1000:5095]-> P[1000:1499](500) <-> H[1500:5095](3596) <-> NULL
//	Pages used: 1
//	Space unused: 3596 bytes
//	Main chain length: 1
//	Sub-chain length array: [2]
//	-------------------------
//
// P marks allocated segments and H marks holes. Ranges are inclusive.
package printer

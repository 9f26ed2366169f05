// Package meta provides the allocator's own descriptor storage.
//
// # Overview
//
// The allocator cannot call itself to store its bookkeeping, so region and
// segment descriptors live in a separate pool of OS pages. Each descriptor
// kind has its own Arena: a list of pages plus a bump cursor. When the next
// record would cross the end of the current page, the arena maps one fresh
// page and resets the cursor to its start.
//
// # Indices
//
// Records are addressed by stable integer indices rather than pointers:
//
//	index = page*slotsPerPage + slot
//
// Indices stay valid for the lifetime of the arena. format.NullIndex is never
// handed out.
//
// # Reclamation
//
// Slots are never returned to an arena. Descriptors that the allocator
// absorbs during coalescing become dead slots, and the arena's pages are not
// released when the allocator is torn down.
//
// # Thread Safety
//
// Arenas are not thread-safe. They are owned by a single allocator context.
package meta

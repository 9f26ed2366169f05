package mems

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/joshuapare/mems/internal/format"
	"github.com/joshuapare/mems/mems/meta"
)

// Compile-time toggle for structural checks after every mutation, on top of
// Options.CheckInvariants.
const debugChecks = false

const (
	// maxPageSize bounds PageSize so a page always fits in an int.
	maxPageSize = 1 << 30

	// maxRegionPages bounds a single region; page counts are stored as uint32.
	maxRegionPages = math.MaxUint32
)

type state uint8

const (
	stateUninit state = iota
	stateOpen
	stateFailed
	stateClosed
)

// Allocator is one allocator context: the region chain, both descriptor
// arenas, and the OS mappings backing every region.
type Allocator struct {
	opts Options
	log  *slog.Logger

	store *meta.Store

	// head is the sentinel region. Its Prev is the chain tail.
	head meta.Index

	// mappings holds the exact slices returned by the mapper, indexed by
	// the region record's MapID.
	mappings []mapping

	state state
	fatal error

	stats Stats
}

type mapping struct {
	mem  []byte // as returned by PageMapper.Map, used for Unmap
	data []byte // mem[:pages*PageSize]
}

// New creates an allocator with an empty chain: the sentinel region and the
// two metadata arenas, each holding one page.
func New(opts Options) (*Allocator, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	store, err := meta.NewStore(opts.Mapper, int(opts.PageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: metadata arena: %w", ErrResourceExhausted, err)
	}

	a := &Allocator{
		opts:  opts,
		log:   opts.Logger,
		store: store,
	}

	head, err := store.NewRegion()
	if err != nil {
		return nil, fmt.Errorf("%w: sentinel: %w", ErrResourceExhausted, err)
	}
	a.head = head
	sentinel := format.Region{
		Pages:   0,
		MapID:   format.NullIndex,
		VStart:  uint64(opts.VirtualBase),
		VEnd:    uint64(opts.VirtualBase) - 1,
		Prev:    head,
		Next:    head,
		SegHead: format.NullIndex,
	}
	if err := a.putRegion(head, sentinel); err != nil {
		return nil, err
	}

	a.state = stateOpen
	a.log.Debug("allocator initialized",
		"page_size", opts.PageSize,
		"virtual_base", uint64(opts.VirtualBase))
	return a, nil
}

// Close unmaps every region and resets the chain to the sentinel. Unmap
// failures are joined into the returned error and do not stop the
// remaining regions from being released. The metadata arena keeps its
// pages. Closing twice is a no-op.
func (a *Allocator) Close() error {
	if a == nil || a.state == stateUninit {
		return ErrNotInitialized
	}
	if a.state == stateClosed {
		return nil
	}

	var errs []error
	for id, m := range a.mappings {
		if m.mem == nil {
			continue
		}
		if err := a.opts.Mapper.Unmap(m.mem); err != nil {
			a.log.Warn("unmap failed", "map_id", id, "bytes", len(m.data), "error", err)
			errs = append(errs, fmt.Errorf("%w: unmap region %d: %w", ErrResourceExhausted, id, err))
		}
		a.mappings[id] = mapping{}
	}
	a.mappings = nil

	if sentinel, err := a.region(a.head); err == nil {
		sentinel.Next, sentinel.Prev = a.head, a.head
		errs = append(errs, a.putRegion(a.head, sentinel))
	} else {
		errs = append(errs, err)
	}

	a.state = stateClosed
	a.log.Debug("allocator closed; metadata arena pages retained",
		"arena_pages", a.store.Pages())
	return errors.Join(errs...)
}

// Stats returns operation counters.
func (a *Allocator) Stats() Stats {
	if a == nil {
		return Stats{}
	}
	return a.stats
}

// PageSize returns the configured growth granularity.
func (a *Allocator) PageSize() uint64 { return a.opts.PageSize }

// VirtualBase returns the first handle of the address space.
func (a *Allocator) VirtualBase() Handle { return a.opts.VirtualBase }

// usable rejects calls outside the New..Close lifetime and after a fatal error.
func (a *Allocator) usable() error {
	if a == nil {
		return ErrNotInitialized
	}
	switch a.state {
	case stateOpen:
		return nil
	case stateFailed:
		return a.fatal
	case stateClosed:
		return ErrClosed
	default:
		return ErrNotInitialized
	}
}

// fail records a fatal error. Every later operation returns it.
func (a *Allocator) fail(err error) error {
	a.state = stateFailed
	a.fatal = err
	a.log.Error("allocator failed", "error", err)
	return err
}

// mutated runs the structural check when enabled.
func (a *Allocator) mutated(op string) error {
	if !debugChecks && !a.opts.CheckInvariants {
		return nil
	}
	if err := a.Check(); err != nil {
		return a.fail(fmt.Errorf("after %s: %w", op, err))
	}
	return nil
}

// ============================================================================
// Record access
// ============================================================================

func (a *Allocator) region(idx meta.Index) (format.Region, error) {
	rec, err := a.store.Regions.Record(idx)
	if err != nil {
		return format.Region{}, fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	return format.DecodeRegion(rec)
}

func (a *Allocator) putRegion(idx meta.Index, r format.Region) error {
	rec, err := a.store.Regions.Record(idx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	return r.Encode(rec)
}

func (a *Allocator) segment(idx meta.Index) (format.Segment, error) {
	rec, err := a.store.Segments.Record(idx)
	if err != nil {
		return format.Segment{}, fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	s, err := format.DecodeSegment(rec)
	if err != nil {
		return format.Segment{}, fmt.Errorf("%w: segment %d: %w", ErrInvariant, idx, err)
	}
	return s, nil
}

func (a *Allocator) putSegment(idx meta.Index, s format.Segment) error {
	rec, err := a.store.Segments.Record(idx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	return s.Encode(rec)
}

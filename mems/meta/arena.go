package meta

import (
	"fmt"

	"github.com/joshuapare/mems/internal/format"
)

// Index identifies one record slot inside an Arena.
type Index = uint32

// Kind distinguishes the two descriptor arenas.
type Kind uint8

const (
	KindRegion  Kind = 1
	KindSegment Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindRegion:
		return "region"
	case KindSegment:
		return "segment"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// PageSource supplies fresh zeroed pages.
type PageSource interface {
	Map(n int) ([]byte, error)
}

// Arena is a bump allocator of fixed-size records over OS pages.
type Arena struct {
	kind     Kind
	src      PageSource
	pageSize int
	perPage  uint32

	pages [][]byte

	// cursor is the byte offset in the last page where the next record goes.
	cursor int

	// count is the number of slots handed out so far.
	count uint32
}

// Stats describes an arena's footprint.
type Stats struct {
	Kind  Kind
	Pages int    // OS pages held
	Slots uint32 // records handed out (live and dead)
}

// NewArena creates an arena and maps its first page.
func NewArena(kind Kind, src PageSource, pageSize int) (*Arena, error) {
	if pageSize <= 0 || pageSize%format.RecordSize != 0 {
		return nil, fmt.Errorf("%s arena: page size %d: %w", kind, pageSize, ErrPageSize)
	}
	a := &Arena{
		kind:     kind,
		src:      src,
		pageSize: pageSize,
		perPage:  uint32(pageSize / format.RecordSize),
	}
	if err := a.refill(); err != nil {
		return nil, err
	}
	return a, nil
}

// Alloc hands out the next record slot. The slot's previous contents are
// unspecified; the caller must write every field before reading it back.
func (a *Arena) Alloc() (Index, error) {
	if a.cursor+format.RecordSize > a.pageSize {
		if err := a.refill(); err != nil {
			return format.NullIndex, err
		}
	}
	if a.count == format.NullIndex {
		return format.NullIndex, fmt.Errorf("%s arena: %w", a.kind, ErrFull)
	}
	idx := uint32(len(a.pages)-1)*a.perPage + uint32(a.cursor/format.RecordSize)
	a.cursor += format.RecordSize
	a.count++
	return idx, nil
}

// Record returns the bytes of the record at idx. The returned slice aliases
// the arena page and is capped to exactly one record.
func (a *Arena) Record(idx Index) ([]byte, error) {
	if idx >= a.count {
		return nil, fmt.Errorf("%s arena: index %d of %d: %w", a.kind, idx, a.count, ErrBadIndex)
	}
	page := a.pages[idx/a.perPage]
	off := int(idx%a.perPage) * format.RecordSize
	return page[off : off+format.RecordSize : off+format.RecordSize], nil
}

// Len returns the number of slots handed out.
func (a *Arena) Len() uint32 { return a.count }

// Stats reports the arena footprint.
func (a *Arena) Stats() Stats {
	return Stats{Kind: a.kind, Pages: len(a.pages), Slots: a.count}
}

func (a *Arena) refill() error {
	page, err := a.src.Map(a.pageSize)
	if err != nil {
		return fmt.Errorf("%s arena: %w: %w", a.kind, ErrRefill, err)
	}
	if len(page) < a.pageSize {
		return fmt.Errorf("%s arena: short page (%d < %d): %w", a.kind, len(page), a.pageSize, ErrRefill)
	}
	a.pages = append(a.pages, page[:a.pageSize:a.pageSize])
	a.cursor = 0
	return nil
}

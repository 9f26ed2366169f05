package meta

// Store groups the region and segment arenas of one allocator.
type Store struct {
	Regions  *Arena
	Segments *Arena
}

// NewStore creates both descriptor arenas, each with one mapped page.
func NewStore(src PageSource, pageSize int) (*Store, error) {
	regions, err := NewArena(KindRegion, src, pageSize)
	if err != nil {
		return nil, err
	}
	segments, err := NewArena(KindSegment, src, pageSize)
	if err != nil {
		return nil, err
	}
	return &Store{Regions: regions, Segments: segments}, nil
}

// NewRegion hands out storage for one region descriptor.
func (s *Store) NewRegion() (Index, error) { return s.Regions.Alloc() }

// NewSegment hands out storage for one segment descriptor.
func (s *Store) NewSegment() (Index, error) { return s.Segments.Alloc() }

// Pages returns the total number of OS pages held by both arenas.
func (s *Store) Pages() int {
	return len(s.Regions.pages) + len(s.Segments.pages)
}

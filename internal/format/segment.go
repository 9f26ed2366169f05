package format

import "fmt"

// Segment is the decoded form of a segment record.
type Segment struct {
	Kind   uint32
	Size   uint64
	Phys   uint64
	VStart uint64
	VEnd   uint64
	Prev   uint32
	Next   uint32
}

// DecodeSegment decodes the segment record at the start of b.
func DecodeSegment(b []byte) (Segment, error) {
	if len(b) < RecordSize {
		return Segment{}, fmt.Errorf("segment: %w", ErrTruncated)
	}
	s := Segment{
		Kind:   ReadU32(b, SegmentKindOffset),
		Size:   ReadU64(b, SegmentSizeOffset),
		Phys:   ReadU64(b, SegmentPhysOffset),
		VStart: ReadU64(b, SegmentVStartOffset),
		VEnd:   ReadU64(b, SegmentVEndOffset),
		Prev:   ReadU32(b, SegmentPrevOffset),
		Next:   ReadU32(b, SegmentNextOffset),
	}
	if s.Kind != SegmentHole && s.Kind != SegmentAllocated {
		return Segment{}, fmt.Errorf("segment: kind %d: %w", s.Kind, ErrBadKind)
	}
	return s, nil
}

// Encode writes every field of s into the record at the start of b.
func (s Segment) Encode(b []byte) error {
	if len(b) < RecordSize {
		return fmt.Errorf("segment: %w", ErrTruncated)
	}
	PutU32(b, SegmentKindOffset, s.Kind)
	PutU64(b, SegmentSizeOffset, s.Size)
	PutU64(b, SegmentPhysOffset, s.Phys)
	PutU64(b, SegmentVStartOffset, s.VStart)
	PutU64(b, SegmentVEndOffset, s.VEnd)
	PutU32(b, SegmentPrevOffset, s.Prev)
	PutU32(b, SegmentNextOffset, s.Next)
	return nil
}

// IsHole reports whether the segment is free.
func (s Segment) IsHole() bool { return s.Kind == SegmentHole }

// Contains reports whether v lies inside the inclusive virtual range.
func (s Segment) Contains(v uint64) bool {
	return v >= s.VStart && v <= s.VEnd
}

package divgroup

// Segment is a Division whose bit width is fixed by an addressing family
// (8 bits for IPv4, 16 for IPv6). It is the leaf node Sections are built
// from (spec §4.1 C2).
type Segment struct {
	Division
	family *FamilyParams
}

// Family returns the FamilyParams this segment's width was fixed by.
func (s *Segment) Family() *FamilyParams { return s.family }

// newSegment wraps a Division as a Segment for the given family. Not
// exported: it applies no prefix masking or interning of its own. Creator
// methods (spec §4.5) call it after masking and interning; derived segments
// (reversal, masking, section lowest/highest, append/replace fill, section
// iteration with a per-segment prefix) are built with it directly.
func newSegment(family *FamilyParams, d *Division) *Segment {
	return &Segment{Division: *d, family: family}
}

// Equal reports value equality (ignoring prefix), matching the Division
// contract but exposed under the Segment name the spec calls for in §4.2.
func (s *Segment) Equal(other *Segment) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.family == other.family && s.Division.IsSameValues(&other.Division)
}

// ReversedSegment returns a new Segment with its bits reversed across the
// full segment width.
func (s *Segment) ReversedSegment() *Segment {
	return newSegment(s.family, s.Division.Reversed())
}

// ReversedPerByteSegment returns a new Segment with each byte's bits
// reversed independently.
func (s *Segment) ReversedPerByteSegment() *Segment {
	return newSegment(s.family, s.Division.ReversedPerByte())
}

// Masked returns a new Segment with lower/upper masked against the given
// network mask (spec §4.1 matchesWithMask is the read-only counterpart;
// Masked is the construction-time analog used when applying a segment
// prefix).
func (s *Segment) Masked(mask DivInt) *Segment {
	d := NewRangeDivision(s.bitCount, s.lowerValue&mask, s.upperValue&mask, s.divisionPrefix)
	return newSegment(s.family, d)
}

package divgroup

import "github.com/djohnsongit/divgroup/addrerr"

// sectionCache holds the lowest/highest single-valued derivations of a
// Section (spec §5 "sectionCache (lowest/highest derived sections)").
// Access takes a lock only while the slot is still unset; once published,
// reads are lock-free.
type sectionCache struct {
	lowest  lockedCache[*Section]
	highest lockedCache[*Section]
}

// Section is a DivisionGrouping whose divisions are all Segments of the same
// bit width: the family-agnostic address body (spec §3, §4.3, C4).
type Section struct {
	DivisionGrouping
	segs   []*Segment
	family *FamilyParams
	cache  *sectionCache
}

// NewSection builds a Section from an already-validated segment slice and
// overall prefix. Segments must all share the same family.
func NewSection(family *FamilyParams, segs []*Segment, prefix PrefixLen) *Section {
	divs := make([]*Division, len(segs))
	for i, s := range segs {
		divs[i] = &s.Division
	}
	return &Section{DivisionGrouping: *NewGrouping(divs, prefix), segs: segs, family: family, cache: &sectionCache{}}
}

// Lowest returns the single-valued Section consisting of this section's
// lower value at every segment, computing and caching it on first call
// (spec §5 sectionCache).
func (s *Section) Lowest() *Section {
	return s.cache.lowest.get(func() *Section {
		return s.singleValued(true)
	})
}

// Highest returns the single-valued Section consisting of this section's
// upper value at every segment, computing and caching it on first call
// (spec §5 sectionCache).
func (s *Section) Highest() *Section {
	return s.cache.highest.get(func() *Section {
		return s.singleValued(false)
	})
}

// singleValued builds a new Section holding just the lower (or upper) value
// of each segment, preserving each segment's own prefix.
func (s *Section) singleValued(low bool) *Section {
	segs := make([]*Segment, len(s.segs))
	for i, seg := range s.segs {
		value := seg.upperValue
		if low {
			value = seg.lowerValue
		}
		d := NewRangeDivision(seg.bitCount, value, value, seg.divisionPrefix)
		segs[i] = newSegment(seg.family, d)
	}
	return NewSection(s.family, segs, s.prefix)
}

// Family returns the addressing family this section's segments belong to.
func (s *Section) Family() *FamilyParams { return s.family }

// GetSegmentCount returns the number of segments.
func (s *Section) GetSegmentCount() int { return len(s.segs) }

// GetSegment returns the segment at index i, or addrerr.IndexOutOfBounds if
// i is out of range (spec §4.3).
func (s *Section) GetSegment(i int) (*Segment, error) {
	if i < 0 || i >= len(s.segs) {
		return nil, addrerr.New(addrerr.IndexOutOfBounds, "divgroup.indexOutOfBounds.division", "")
	}
	return s.segs[i], nil
}

// GetSegments bulk-copies segments [from, to) into dst starting at
// dstOffset, returning the number of segments copied (spec §4.3).
func (s *Section) GetSegments(from, to int, dst []*Segment, dstOffset int) int {
	return copy(dst[dstOffset:], s.segs[from:to])
}

// Subsection returns a new Section over [from, to). Returns the receiver
// unchanged if the range spans the whole section; an empty section if
// from == to; an error if from > to (spec §4.3).
func (s *Section) Subsection(from, to int) (*Section, error) {
	if from > to {
		return nil, addrerr.New(addrerr.IndexOutOfBounds, "divgroup.indexOutOfBounds.subsection", "")
	}
	if from == 0 && to == len(s.segs) {
		return s, nil
	}
	sub := make([]*Segment, to-from)
	copy(sub, s.segs[from:to])
	return NewSection(s.family, sub, subPrefix(s.prefix, s.family.BitsPerSegment, from, to-from)), nil
}

// subPrefix derives the overall prefix for a subsection spanning
// [from, from+count) segments of the given width: nil if the original has no
// prefix or the subsection lies entirely within its network portion, and 0
// if the subsection lies entirely past the original prefix.
func subPrefix(prefix PrefixLen, bitsPerSegment, from, count int) PrefixLen {
	if prefix == nil {
		return nil
	}
	p := prefix.bitLen()
	offset := from * bitsPerSegment
	adjusted := p - offset
	if adjusted <= 0 {
		return cachePrefixLen(0)
	}
	totalBits := count * bitsPerSegment
	if adjusted > totalBits {
		return nil
	}
	return cachePrefixLen(adjusted)
}

// Append concatenates this section with other (spec §4.3). If extendPrefix
// and this section is prefixed, the appended positions are forced to an
// all-zero segment extending the network prefix into unset host bits;
// otherwise they carry other's values. The result's prefix is this
// section's prefix if present, else other's prefix shifted by this
// section's bit count.
func (s *Section) Append(other *Section, extendPrefix bool) *Section {
	if other.GetSegmentCount() == 0 {
		return s
	}
	combined := make([]*Segment, 0, len(s.segs)+len(other.segs))
	combined = append(combined, s.segs...)
	if extendPrefix && s.IsPrefixed() {
		for range other.segs {
			combined = append(combined, newSegment(s.family, NewDivision(s.family.BitsPerSegment, 0)))
		}
	} else {
		combined = append(combined, other.segs...)
	}

	var prefix PrefixLen
	if s.prefix != nil {
		prefix = s.prefix
	} else if other.prefix != nil {
		prefix = cachePrefixLen(other.prefix.bitLen() + s.TotalBitCount())
	}
	return NewSection(s.family, combined, prefix)
}

// Replace returns a copy of this section with other's segments written
// starting at index (spec §4.3). Returns addrerr.AddressSizeMismatch if
// index+other.size exceeds this section's size. When other is prefixed and
// shorter than the remaining tail of this section, and extendPrefix is set,
// the tail beyond the replacement is zeroed.
func (s *Section) Replace(other *Section, index int, extendPrefix bool) (*Section, error) {
	if index+other.GetSegmentCount() > len(s.segs) {
		return nil, addrerr.New(addrerr.AddressSizeMismatch, "divgroup.sizeMismatch.replace", "")
	}
	result := make([]*Segment, len(s.segs))
	copy(result, s.segs)
	copy(result[index:], other.segs)

	tailStart := index + other.GetSegmentCount()
	if extendPrefix && other.IsPrefixed() && tailStart < len(result) {
		for i := tailStart; i < len(result); i++ {
			result[i] = newSegment(s.family, NewDivision(s.family.BitsPerSegment, 0))
		}
	}
	return NewSection(s.family, result, s.prefix), nil
}

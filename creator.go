package divgroup

import (
	"sync/atomic"

	"github.com/djohnsongit/divgroup/addrerr"
)

var (
	emptySegmentArray = make([]*Segment, 0)
	emptySectionArray = make([]*Section, 0)
)

// Creator is the factory capability that produces Segments, Sections, and
// Addresses for one addressing family, interning commonly-used values
// (spec §4.5, §4.9, C5).
//
// This is the "generic factory → tagged variants" shape Design Notes §9
// recommends: one concrete type per family carrying its own interning
// tables, rather than a subclass hierarchy.
type Creator struct {
	family *FamilyParams

	// segmentCache[value] interns prefix-less single-value segments.
	segmentCache []atomic.Pointer[Segment]
	// segmentPrefixCache[prefix-1][valueIndex] interns single-value segments
	// with a prefix in [1, bitsPerSegment], valueIndex = value >> (bitsPerSegment-prefix).
	segmentPrefixCache [][]atomic.Pointer[Segment]
	// allPrefixedCache[prefix] interns the all-range segment for the given prefix.
	allPrefixedCache []atomic.Pointer[Segment]
}

// NewCreator allocates (but does not populate) the interning tables for a
// family. Tables grow once, at construction, and never shrink (spec §4.9).
func NewCreator(family *FamilyParams) *Creator {
	bps := family.BitsPerSegment
	c := &Creator{
		family:             family,
		segmentCache:       make([]atomic.Pointer[Segment], int(family.MaxSegmentValue())+1),
		segmentPrefixCache: make([][]atomic.Pointer[Segment], bps),
		// indexed directly by prefix (0..bps inclusive), so one extra slot.
		allPrefixedCache: make([]atomic.Pointer[Segment], bps+1),
	}
	for p := 1; p <= bps; p++ {
		c.segmentPrefixCache[p-1] = make([]atomic.Pointer[Segment], 1<<uint(p))
	}
	return c
}

// EmptySegmentArray returns the shared empty Segment slice.
func (c *Creator) EmptySegmentArray() []*Segment { return emptySegmentArray }

// EmptySectionArray returns the shared empty Section slice.
func (c *Creator) EmptySectionArray() []*Section { return emptySectionArray }

// CreateSegmentArray returns a fresh slice of length, or the shared empty
// array when length is 0 (spec §4.5).
func (c *Creator) CreateSegmentArray(length int) []*Segment {
	if length == 0 {
		return emptySegmentArray
	}
	return make([]*Segment, length)
}

// CreateAddressSectionArray returns a fresh slice of length, or the shared
// empty array when length is 0.
func (c *Creator) CreateAddressSectionArray(length int) []*Section {
	if length == 0 {
		return emptySectionArray
	}
	return make([]*Section, length)
}

// CreateSegment constructs a single-valued, prefix-less segment, interning
// it by value (spec §4.4 construction path 1, §4.9).
func (c *Creator) CreateSegment(value DivInt) *Segment {
	slot := &c.segmentCache[value]
	if seg := slot.Load(); seg != nil {
		return seg
	}
	seg := newSegment(c.family, NewDivision(c.family.BitsPerSegment, value))
	slot.Store(seg)
	return slot.Load()
}

// CreateSegmentPrefixed constructs a single-valued segment masked to prefix
// p, interning it by (p, maskedValue) (spec §4.4 construction path 2).
func (c *Creator) CreateSegmentPrefixed(value DivInt, prefix BitCount) *Segment {
	bps := c.family.BitsPerSegment
	mask := networkMask(bps, prefix)
	masked := value & mask
	if prefix <= 0 {
		return c.allRangeForPrefix(0)
	}
	valueIndex := masked >> uint(bps-prefix)
	slot := &c.segmentPrefixCache[prefix-1][valueIndex]
	if seg := slot.Load(); seg != nil {
		return seg
	}
	seg := newSegment(c.family, NewPrefixedDivision(bps, masked, prefix))
	slot.Store(seg)
	return slot.Load()
}

// allRangeForPrefix returns the interned all-range segment [0, maxValue]
// tagged with the given prefix (spec §4.9 allPrefixedCache).
func (c *Creator) allRangeForPrefix(prefix BitCount) *Segment {
	bps := c.family.BitsPerSegment
	idx := prefix
	if idx < 0 {
		idx = 0
	}
	slot := &c.allPrefixedCache[idx]
	if seg := slot.Load(); seg != nil {
		return seg
	}
	d := NewRangeDivision(bps, 0, maxValue(bps), cachePrefixLen(prefix))
	seg := newSegment(c.family, d)
	slot.Store(seg)
	return slot.Load()
}

// CreateSegmentRange constructs a segment over [lower, upper] with an
// optional prefix, following the dispatch rules of spec §4.4 construction
// path 3: a zero prefix yields the interned all-range segment; a prefix
// that collapses the range to one value delegates to the single-value path;
// a prefix whose sub-block the range exactly fills yields the interned
// all-range-for-prefix segment; otherwise a fresh segment is built.
func (c *Creator) CreateSegmentRange(lower, upper DivInt, prefix PrefixLen) *Segment {
	bps := c.family.BitsPerSegment
	if prefix != nil {
		p := prefix.bitLen()
		if p == 0 {
			return c.allRangeForPrefix(0)
		}
		mask := networkMask(bps, p)
		if (lower & mask) == (upper & mask) {
			return c.CreateSegmentPrefixed(lower, p)
		}
		if lower == 0 && upper == maxValue(bps) {
			return c.allRangeForPrefix(p)
		}
	}
	return newSegment(c.family, NewRangeDivision(bps, lower, upper, prefix))
}

// CreateSectionInternal assembles a Section from an already-built segment
// array, deriving the overall prefix from the segments' own prefixes
// (spec §4.5, §4.6 segmentPrefixLength duality).
func (c *Creator) CreateSectionInternal(segs []*Segment) *Section {
	var prefix PrefixLen
	bitsSoFar := 0
	for _, s := range segs {
		if s.divisionPrefix != nil {
			prefix = cachePrefixLen(bitsSoFar + s.divisionPrefix.bitLen())
			break
		}
		bitsSoFar += s.bitCount
	}
	return NewSection(c.family, segs, prefix)
}

// CreateSectionFromBytes builds a Section from raw bytes and an optional
// overall prefix, deriving each segment's per-segment prefix from the
// overall prefix via PrefixCalculus (spec §4.6 toSegments variants).
func (c *Creator) CreateSectionFromBytes(data []byte, prefix PrefixLen) *Section {
	bps := c.family.BitsPerSegment
	bytesPerSeg := bps / 8
	if bytesPerSeg == 0 {
		bytesPerSeg = 1
	}
	segCount := len(data) / bytesPerSeg
	segs := make([]*Segment, segCount)
	sawZeroPrefix := false
	for i := 0; i < segCount; i++ {
		var value DivInt
		for j := 0; j < bytesPerSeg; j++ {
			value = (value << 8) | DivInt(data[i*bytesPerSeg+j])
		}
		segPrefix := segmentPrefixLengthAt(bps, prefix, i)
		switch {
		case sawZeroPrefix:
			segs[i] = c.allRangeForPrefix(0)
		case segPrefix == nil:
			segs[i] = c.CreateSegment(value)
		default:
			if segPrefix.bitLen() == 0 {
				sawZeroPrefix = true
				segs[i] = c.allRangeForPrefix(0)
			} else {
				segs[i] = c.CreateSegmentPrefixed(value, segPrefix.bitLen())
			}
		}
	}
	return NewSection(c.family, segs, prefix)
}

// Address is a minimal wrapper over a Section, exposing just enough surface
// for an out-of-scope family facade (IPv4Address, IPv6Address, ...) to build
// on: the concrete facade itself — string parsing, loopback constants, and
// so on — is not part of this engine (spec §1, §6).
type Address struct {
	section *Section
	zone    *string
}

// GetSection returns the address's underlying section.
func (a *Address) GetSection() *Section { return a.section }

// Zone returns the address's zone, or "" if none.
func (a *Address) Zone() string {
	if a.zone == nil {
		return ""
	}
	return *a.zone
}

// CreateAddress wraps section as an Address with no zone (spec §4.5, §6).
func (c *Creator) CreateAddress(section *Section) *Address {
	return &Address{section: section}
}

// CreateAddressInternal wraps section as an Address with the given zone.
// Returns addrerr.InvalidArgument if a non-empty zone is supplied for a
// family with no zone concept (spec §4.5 invariant, §7).
func (c *Creator) CreateAddressInternal(section *Section, zone string) (*Address, error) {
	if zone != "" && !c.family.HasZone {
		return nil, addrerr.New(addrerr.InvalidArgument, "divgroup.invalidArgument.zone", c.family.Name)
	}
	if zone == "" {
		return &Address{section: section}, nil
	}
	z := zone
	return &Address{section: section, zone: &z}, nil
}

// CreateAddressFromSegments builds the section and wraps it as an Address in
// one call.
func (c *Creator) CreateAddressFromSegments(segs []*Segment) *Address {
	return c.CreateAddress(c.CreateSectionInternal(segs))
}

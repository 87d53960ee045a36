package divgroup

// rangeValueIterator walks a single division's [lower, upper] range in
// order. Not restartable from the outside; resetToFirst is an internal
// primitive used only by the ripple-carry advance below.
type rangeValueIterator struct {
	lower, upper DivInt
	current      DivInt
}

func newRangeValueIterator(d *Division) *rangeValueIterator {
	return &rangeValueIterator{lower: d.lowerValue, upper: d.upperValue, current: d.lowerValue}
}

func (it *rangeValueIterator) value() DivInt    { return it.current }
func (it *rangeValueIterator) hasNext() bool    { return it.current < it.upper }
func (it *rangeValueIterator) advance()         { it.current++ }
func (it *rangeValueIterator) resetToFirst()    { it.current = it.lower }

// RangeIterator is a lazy cartesian-product enumerator over a grouping's
// per-division ranges (spec §4.8, C7). It is finite, not restartable, and
// single-threaded; there is no remove.
//
// A non-multiple grouping is a single-value iterator: it yields once and
// terminates. Otherwise it is the cartesian form: each call to Next performs
// a ripple-carry advance starting at the rightmost division, refreshing
// every iterator to its right once it turns over.
type RangeIterator struct {
	iters   []*rangeValueIterator
	single  bool
	started bool
	done    bool
}

// NewRangeIterator builds a RangeIterator over g's divisions, in their
// current order (most-significant division varies slowest).
func NewRangeIterator(g *DivisionGrouping) *RangeIterator {
	iters := make([]*rangeValueIterator, len(g.divs))
	for i, d := range g.divs {
		iters[i] = newRangeValueIterator(d)
	}
	return &RangeIterator{iters: iters, single: !g.IsMultiple()}
}

// HasNext reports whether Next would yield another value.
func (r *RangeIterator) HasNext() bool {
	if r.done {
		return false
	}
	if !r.started {
		return true
	}
	if r.single {
		return false
	}
	for _, it := range r.iters {
		if it.hasNext() {
			return true
		}
	}
	return false
}

// Next returns the next per-division value snapshot, or ok=false when the
// iterator is exhausted.
func (r *RangeIterator) Next() ([]DivInt, bool) {
	if r.done {
		return nil, false
	}
	if !r.started {
		r.started = true
		return r.snapshot(), true
	}
	if r.single {
		r.done = true
		return nil, false
	}
	for i := len(r.iters) - 1; i >= 0; i-- {
		if r.iters[i].hasNext() {
			r.iters[i].advance()
			for j := i + 1; j < len(r.iters); j++ {
				r.iters[j].resetToFirst()
			}
			return r.snapshot(), true
		}
	}
	r.done = true
	return nil, false
}

func (r *RangeIterator) snapshot() []DivInt {
	out := make([]DivInt, len(r.iters))
	for i, it := range r.iters {
		out[i] = it.value()
	}
	return out
}

// SectionIterator wraps a RangeIterator to produce concrete Sections via a
// Creator, translating the grouping-level prefix into per-segment prefixes
// as each value is minted (spec §4.8 "a second layer wraps the segment-array
// iterator to produce Section or Address values via the Creator").
type SectionIterator struct {
	rangeIt *RangeIterator
	family  *FamilyParams
	creator *Creator
	prefix  PrefixLen
}

// NewSectionIterator builds a SectionIterator over section's segment values.
func NewSectionIterator(section *Section, creator *Creator) *SectionIterator {
	return &SectionIterator{
		rangeIt: NewRangeIterator(&section.DivisionGrouping),
		family:  section.family,
		creator: creator,
		prefix:  section.prefix,
	}
}

// HasNext reports whether Next would yield another Section.
func (si *SectionIterator) HasNext() bool { return si.rangeIt.HasNext() }

// Next returns the next concrete Section, or ok=false when exhausted.
func (si *SectionIterator) Next() (*Section, bool) {
	values, ok := si.rangeIt.Next()
	if !ok {
		return nil, false
	}
	segs := make([]*Segment, len(values))
	for i, v := range values {
		segPrefix := segmentPrefixLengthAt(si.family.BitsPerSegment, si.prefix, i)
		if segPrefix != nil {
			segs[i] = newSegment(si.family, NewRangeDivision(si.family.BitsPerSegment, v, v, segPrefix))
		} else {
			segs[i] = si.creator.CreateSegment(v)
		}
	}
	return NewSection(si.family, segs, si.prefix), true
}

// AddressIterator wraps a SectionIterator, reattaching the source address's
// zone (if any) to every produced Address.
type AddressIterator struct {
	sectionIt *SectionIterator
	zone      string
}

// NewAddressIterator builds an AddressIterator over addr's segment values.
func NewAddressIterator(addr *Address, creator *Creator) *AddressIterator {
	return &AddressIterator{
		sectionIt: NewSectionIterator(addr.section, creator),
		zone:      addr.Zone(),
	}
}

// HasNext reports whether Next would yield another Address.
func (ai *AddressIterator) HasNext() bool { return ai.sectionIt.HasNext() }

// Next returns the next concrete Address, or ok=false when exhausted.
func (ai *AddressIterator) Next() (*Address, bool) {
	sec, ok := ai.sectionIt.Next()
	if !ok {
		return nil, false
	}
	if ai.zone == "" {
		return ai.sectionIt.creator.CreateAddress(sec), true
	}
	addr, err := ai.sectionIt.creator.CreateAddressInternal(sec, ai.zone)
	if err != nil {
		// The zone was already validated when the source Address was built;
		// this family/zone combination cannot fail here.
		return nil, false
	}
	return addr, true
}

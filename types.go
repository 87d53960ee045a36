// Package divgroup implements the address-division grouping engine: the
// generic substrate of immutable, segmented, prefix-aware numeric groupings
// that IPv4, IPv6 (and other fixed-width addressing schemes) are built from.
//
// The package has no wire format, no textual parser, and no CLI. It exposes
// the primitives a family-specific address facade would use: Division,
// Segment, DivisionGrouping, Section, Creator, Regrouper, and RangeIterator.
package divgroup

// BitCount is a bit count of a division, segment, grouping, or section.
// Signed so that arithmetic involving prefix deltas stays simple; callers
// must not pass negative values or values exceeding an item's total bits.
type BitCount = int

// PrefixBitCount is the number of bits in a non-nil PrefixLen.
type PrefixBitCount uint8

// PrefixLen indicates a prefix length. A nil value means "no prefix".
type PrefixLen = *PrefixBitCount

// bitLen returns the prefix length as a BitCount, or 0 for a nil receiver.
func (p *PrefixBitCount) bitLen() BitCount {
	if p == nil {
		return 0
	}
	return BitCount(*p)
}

// cachePrefixLen allocates a PrefixLen for the given bit count. Small values
// (0..128) are served from a shared table so common prefix lengths do not
// each allocate.
func cachePrefixLen(bc BitCount) PrefixLen {
	if bc >= 0 && bc < len(prefixLenCache) {
		return &prefixLenCache[bc]
	}
	p := PrefixBitCount(bc)
	return &p
}

var prefixLenCache = func() [129]PrefixBitCount {
	var arr [129]PrefixBitCount
	for i := range arr {
		arr[i] = PrefixBitCount(i)
	}
	return arr
}()

// DivInt is the integer type used to hold a division's lower/upper value.
// Divisions are limited to 63 bits (spec: bitCount ∈ [1, 63]) so values,
// masks, and shifts by bitCount all stay within uint64 without overflow.
type DivInt = uint64

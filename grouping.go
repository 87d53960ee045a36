package divgroup

import (
	"math/big"
	"sync/atomic"
)

// groupingCache holds the lazy, benign-race derivations of a
// DivisionGrouping (spec §3 "Invariants" item 4, §5 "Caches").
type groupingCache struct {
	count        cachedValue[big.Int]
	lowerBytes   cachedValue[[]byte]
	upperBytes   cachedValue[[]byte]
	multiple     cachedValue[bool]
	minPrefix    cachedValue[BitCount]
	equivPrefix  cachedValue[equivPrefixResult]
	hash         atomic.Uint64 // 0 means "unset"; see DESIGN.md open question (a)
}

type equivPrefixResult struct {
	prefix BitCount
	ok     bool
}

// DivisionGrouping is an immutable ordered sequence of Divisions with an
// overall prefix length and lazy caches (spec §3, §4.2, C3).
type DivisionGrouping struct {
	divs   []*Division
	prefix PrefixLen
	cache  *groupingCache
}

// NewGrouping constructs a DivisionGrouping from an already-validated
// division slice and overall prefix. Callers (typically a Creator) are
// responsible for establishing the per-division prefix consistency invariant
// (spec §3 invariant 2) before calling this.
func NewGrouping(divs []*Division, prefix PrefixLen) *DivisionGrouping {
	return &DivisionGrouping{divs: divs, prefix: prefix, cache: &groupingCache{}}
}

// DivisionCount returns the number of divisions.
func (g *DivisionGrouping) DivisionCount() int { return len(g.divs) }

// GetDivision returns the division at index i, panicking if out of range
// (the Section/Section-aware callers use a bounds-checked variant that
// returns addrerr.IndexOutOfBounds instead; see section.go).
func (g *DivisionGrouping) GetDivision(i int) *Division { return g.divs[i] }

// TotalBitCount returns Σ div.BitCount() (spec §3 invariant 1).
func (g *DivisionGrouping) TotalBitCount() BitCount {
	total := 0
	for _, d := range g.divs {
		total += d.bitCount
	}
	return total
}

// GroupingPrefix returns the overall prefix length, or nil.
func (g *DivisionGrouping) GroupingPrefix() PrefixLen { return g.prefix }

// IsPrefixed reports whether the grouping carries an overall prefix length.
func (g *DivisionGrouping) IsPrefixed() bool { return g.prefix != nil }

// IsMultiple reports whether more than one concrete value is represented,
// scanning divisions from last to first since range-bearing divisions
// cluster at the tail (spec §4.2).
func (g *DivisionGrouping) IsMultiple() bool {
	return g.cache.multiple.get(func() bool {
		for i := len(g.divs) - 1; i >= 0; i-- {
			if g.divs[i].IsMultiple() {
				return true
			}
		}
		return false
	})
}

// GetBytes returns ceil(totalBitCount/8) bytes in network byte order: the
// lower value if low is true, else the upper value. The result is cached and
// a defensive copy is returned so callers cannot mutate the cache
// (spec §4.2 "Bit materialization").
func (g *DivisionGrouping) GetBytes(low bool) []byte {
	var cached []byte
	if low {
		cached = g.cache.lowerBytes.get(func() []byte { return g.calcBytes(true) })
	} else {
		cached = g.cache.upperBytes.get(func() []byte { return g.calcBytes(false) })
	}
	out := make([]byte, len(cached))
	copy(out, cached)
	return out
}

// calcBytes packs divisions from last to first into a byte array, carrying
// over unaligned tail bits into the next (earlier) byte (spec §4.2).
func (g *DivisionGrouping) calcBytes(low bool) []byte {
	totalBits := g.TotalBitCount()
	byteLen := (totalBits + 7) / 8
	out := make([]byte, byteLen)

	bitPos := totalBits // bit position (from the start) just past the division being packed
	for i := len(g.divs) - 1; i >= 0; i-- {
		d := g.divs[i]
		var value DivInt
		if low {
			value = d.lowerValue
		} else {
			value = d.upperValue
		}
		bitPos -= d.bitCount
		packBits(out, bitPos, d.bitCount, value)
	}
	return out
}

// packBits writes the low bitCount bits of value into out, such that bit 0
// of value lands at bit index (startBit+bitCount-1) counted from the most
// significant bit of out (network/big-endian order).
func packBits(out []byte, startBit, bitCount BitCount, value DivInt) {
	endBit := startBit + bitCount // exclusive
	for b := 0; b < bitCount; b++ {
		bitIndex := endBit - 1 - b // absolute bit position, MSB-first, of value's bit b
		if value&(1<<uint(b)) != 0 {
			byteIdx := bitIndex / 8
			shift := uint(7 - (bitIndex % 8))
			out[byteIdx] |= 1 << shift
		}
	}
}

// GetCount returns Π divisionValueCount(i) as an arbitrary-precision integer
// (spec §4.2 "Count"). Cached.
func (g *DivisionGrouping) GetCount() *big.Int {
	v := g.cache.count.get(func() big.Int {
		if !g.IsMultiple() {
			return *bigOne()
		}
		res := bigOne()
		for _, d := range g.divs {
			if d.IsMultiple() {
				res.Mul(res, new(big.Int).SetUint64(d.DivisionValueCount()))
			}
		}
		return *res
	})
	return new(big.Int).Set(&v)
}

// GetMinPrefix traverses divisions from last to first accumulating a total,
// per spec §4.2: a division whose own MinPrefix needs its full width stops
// the scan outright (every bit up to and including this division matters);
// otherwise this division's bits are provisionally dropped from the total,
// then restored in part if it contributes a nonzero partial prefix.
func (g *DivisionGrouping) GetMinPrefix() BitCount {
	return g.cache.minPrefix.get(func() BitCount {
		total := g.TotalBitCount()
		for i := len(g.divs) - 1; i >= 0; i-- {
			d := g.divs[i]
			dMin := d.MinPrefix()
			if dMin == d.bitCount {
				break
			}
			total -= d.bitCount
			if dMin != 0 {
				total += dMin
				break
			}
		}
		return total
	})
}

// GetEquivalentPrefix returns the prefix length p such that lower value +
// p exactly reproduces the grouping's range, or ok=false if no such prefix
// exists (spec §4.2): sum each division's MinPrefix while scanning forward;
// the first division whose MinPrefix falls short of its own bit count marks
// the boundary and must be a single prefix block, every earlier division
// must be single-valued, and every later division must be full-range.
func (g *DivisionGrouping) GetEquivalentPrefix() (BitCount, bool) {
	r := g.cache.equivPrefix.get(func() equivPrefixResult {
		total := BitCount(0)
		for i, d := range g.divs {
			dMin := d.MinPrefix()
			if dMin == d.bitCount && d.IsMultiple() {
				return equivPrefixResult{0, false}
			}
			total += dMin
			if dMin < d.bitCount {
				netMask := networkMask(d.bitCount, dMin)
				if (d.lowerValue & netMask) != (d.upperValue & netMask) {
					return equivPrefixResult{0, false}
				}
				for j := i + 1; j < len(g.divs); j++ {
					if !g.divs[j].IsFullRange() {
						return equivPrefixResult{0, false}
					}
				}
				return equivPrefixResult{total, true}
			}
		}
		return equivPrefixResult{total, true}
	})
	return r.prefix, r.ok
}

// IsRangeEquivalent reports whether the address range [lower, upper] equals
// the CIDR block determined by the lower address and prefix p (spec §4.2).
func (g *DivisionGrouping) IsRangeEquivalent(p BitCount) bool {
	bitsSoFar := BitCount(0)
	for _, d := range g.divs {
		divStart := bitsSoFar
		divEnd := bitsSoFar + d.bitCount
		bitsSoFar = divEnd

		switch {
		case p <= divStart:
			// entirely in host portion: must be full-range
			if !d.IsFullRange() {
				return false
			}
		case p >= divEnd:
			// entirely in network (prefix) portion: must be single-valued
			if d.IsMultiple() {
				return false
			}
		default:
			// boundary division: split the mask
			segPrefix := p - divStart
			netMask := networkMask(d.bitCount, segPrefix)
			hostMask := maxValue(d.bitCount) &^ netMask
			if (d.lowerValue & netMask) != (d.upperValue & netMask) {
				return false // prefix bits must be single-valued
			}
			if (d.lowerValue & hostMask) != 0 || (d.upperValue & hostMask) != hostMask {
				return false // host bits must be full-range
			}
		}
	}
	return true
}

// IsRangeEquivalentToPrefix reports whether the grouping's own
// GroupingPrefix (if any) satisfies IsRangeEquivalent.
func (g *DivisionGrouping) IsRangeEquivalentToPrefix() bool {
	if g.prefix == nil {
		return false
	}
	return g.IsRangeEquivalent(g.prefix.bitLen())
}

// GetAdjustedPrefixNext rounds the current prefix to the next/previous
// segment boundary (spec §4.2 getAdjustedPrefix(next, bitsPerSegment, ...)).
// skipBitCountPrefix mirrors the teacher's branch used only when the current
// prefix already equals the total bit count; see DESIGN.md open question (b).
func (g *DivisionGrouping) GetAdjustedPrefixNext(next bool, bitsPerSegment BitCount, skipBitCountPrefix bool) BitCount {
	bitCount := g.TotalBitCount()
	prefix := g.prefix
	if skipBitCountPrefix && prefix != nil && prefix.bitLen() == bitCount {
		return bitCount
	}
	return adjustPrefixToSegmentBoundary(prefix, bitCount, bitsPerSegment, g.GetMinPrefix(), next)
}

// GetAdjustedPrefixDelta clamps current+delta into [0, totalBitCount] under
// the floor/ceiling flags (spec §4.2 getAdjustedPrefix(delta, floor, ceiling)).
func (g *DivisionGrouping) GetAdjustedPrefixDelta(delta int, floorAtZero, ceilAtBitCount bool) BitCount {
	bitCount := g.TotalBitCount()
	current := BitCount(0)
	if g.prefix != nil {
		current = g.prefix.bitLen()
	}
	floor := 0
	if !floorAtZero {
		floor = -1 << 30
	}
	ceiling := bitCount
	if !ceilAtBitCount {
		ceiling = 1 << 30
	}
	result := adjustPrefixByDelta(current, delta, floor, ceiling)
	if result < 0 {
		result = 0
	}
	if result > bitCount {
		result = bitCount
	}
	return result
}

// IsSameGrouping compares division arrays pairwise by IsSameValues
// (spec §4.2 "Equality & hash").
func (g *DivisionGrouping) IsSameGrouping(other *DivisionGrouping) bool {
	if g == other {
		return true
	}
	if g == nil || other == nil {
		return false
	}
	if len(g.divs) != len(other.divs) {
		return false
	}
	for i := range g.divs {
		if !g.divs[i].IsSameValues(other.divs[i]) {
			return false
		}
	}
	return true
}

// Equals accepts any DivisionGrouping and delegates to IsSameGrouping
// (spec §4.2).
func (g *DivisionGrouping) Equals(other *DivisionGrouping) bool {
	return g.IsSameGrouping(other)
}

// HashCode folds each division's lower (and, if multiple, upper) value into
// a running 31*h+x product, seeded from xor-of-halves. The value 0 is a
// valid hash and also the cache's "unset" sentinel, so a genuinely-zero hash
// is recomputed on every call — preserved intentionally (spec §9 open
// question (a); see DESIGN.md).
func (g *DivisionGrouping) HashCode() uint64 {
	if h := g.cache.hash.Load(); h != 0 {
		return h
	}
	h := g.calcHash()
	g.cache.hash.Store(h)
	return h
}

func (g *DivisionGrouping) calcHash() uint64 {
	var h uint64
	for _, d := range g.divs {
		h = foldHash(h, d.lowerValue)
		if d.upperValue != d.lowerValue {
			h = foldHash(h, d.upperValue)
		}
	}
	return h
}

func foldHash(h uint64, value DivInt) uint64 {
	x := uint64(uint32(value>>32)) ^ uint64(uint32(value))
	return 31*h + x
}

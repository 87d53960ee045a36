package divgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ipv4Segs(values ...DivInt) []*Segment {
	segs := make([]*Segment, len(values))
	for i, v := range values {
		segs[i] = newSegment(IPv4Family, NewDivision(8, v))
	}
	return segs
}

// S1: 127.0.0.1, no prefix.
func TestGroupingScenarioS1(t *testing.T) {
	sec := NewSection(IPv4Family, ipv4Segs(127, 0, 0, 1), nil)

	assert.Equal(t, []byte{0x7F, 0x00, 0x00, 0x01}, sec.GetBytes(true))
	assert.Equal(t, int64(1), sec.GetCount().Int64())
	assert.False(t, sec.IsMultiple())
	assert.Equal(t, BitCount(32), sec.GetMinPrefix())
	p, ok := sec.GetEquivalentPrefix()
	require.True(t, ok)
	assert.Equal(t, BitCount(32), p)
}

// S2: 10.0.0.0/8.
func TestGroupingScenarioS2(t *testing.T) {
	segs := []*Segment{
		newSegment(IPv4Family, NewPrefixedDivision(8, 10, 8)),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
	}
	sec := NewSection(IPv4Family, segs, cachePrefixLen(8))

	assert.True(t, sec.IsMultiple())
	assert.True(t, sec.IsRangeEquivalent(8))
	assert.Equal(t, DivInt(10), sec.GetDivision(0).LowerValue())
	assert.Equal(t, DivInt(0), sec.GetDivision(1).LowerValue())
	assert.Equal(t, DivInt(255), sec.GetDivision(3).UpperValue())

	big := sec.GetCount()
	assert.Equal(t, int64(1<<24), big.Int64())

	p, ok := sec.GetEquivalentPrefix()
	require.True(t, ok)
	assert.Equal(t, BitCount(8), p)
}

// S3: 1.2.*.4
func TestGroupingScenarioS3(t *testing.T) {
	segs := []*Segment{
		newSegment(IPv4Family, NewDivision(8, 1)),
		newSegment(IPv4Family, NewDivision(8, 2)),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, nil)),
		newSegment(IPv4Family, NewDivision(8, 4)),
	}
	sec := NewSection(IPv4Family, segs, nil)

	assert.True(t, sec.IsMultiple())
	assert.Equal(t, int64(256), sec.GetCount().Int64())
	_, ok := sec.GetEquivalentPrefix()
	assert.False(t, ok, "trailing segment 3 is not full-range")
}

// S6: 0.0.0.0/0
func TestGroupingScenarioS6(t *testing.T) {
	segs := []*Segment{
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
	}
	sec := NewSection(IPv4Family, segs, cachePrefixLen(0))

	assert.True(t, sec.IsRangeEquivalentToPrefix())
	p, ok := sec.GetEquivalentPrefix()
	require.True(t, ok)
	assert.Equal(t, BitCount(0), p)

	count := sec.GetCount()
	assert.Equal(t, "4294967296", count.String()) // 2^32
}

func TestGroupingBytesRoundTrip(t *testing.T) {
	sec := NewSection(IPv4Family, ipv4Segs(192, 168, 1, 42), cachePrefixLen(24))
	bytes := sec.GetBytes(true)

	rebuilt := NewCreator(IPv4Family).CreateSectionFromBytes(bytes, sec.GroupingPrefix())
	assert.True(t, sec.IsSameGrouping(&rebuilt.DivisionGrouping))
}

func TestGroupingHashEqualsAgreement(t *testing.T) {
	a := NewSection(IPv4Family, ipv4Segs(1, 2, 3, 4), nil)
	b := NewSection(IPv4Family, ipv4Segs(1, 2, 3, 4), nil)

	require.True(t, a.Equals(&b.DivisionGrouping))
	assert.Equal(t, a.HashCode(), b.HashCode())
}

func TestGroupingAdjustedPrefixNextSkipBitCount(t *testing.T) {
	// Open question (b): skipBitCountPrefix only matters when the current
	// prefix already equals the full bit count.
	sec := NewSection(IPv4Family, ipv4Segs(1, 2, 3, 4), cachePrefixLen(32))
	assert.Equal(t, BitCount(32), sec.GetAdjustedPrefixNext(true, 8, true))

	noPrefix := NewSection(IPv4Family, ipv4Segs(1, 2, 3, 4), nil)
	// minPrefix is 32 here (every segment is single-valued, so each one's
	// MinPrefix is its full width), so the
	// "prefix == nil, next == true" branch should return bitCount, not 0.
	assert.Equal(t, BitCount(32), noPrefix.GetAdjustedPrefixNext(true, 8, false))
}

func TestGroupingAdjustedPrefixDeltaClamps(t *testing.T) {
	sec := NewSection(IPv4Family, ipv4Segs(1, 2, 3, 4), cachePrefixLen(8))
	assert.Equal(t, BitCount(0), sec.GetAdjustedPrefixDelta(-100, true, true))
	assert.Equal(t, BitCount(32), sec.GetAdjustedPrefixDelta(100, true, true))
	assert.Equal(t, BitCount(12), sec.GetAdjustedPrefixDelta(4, true, true))
}

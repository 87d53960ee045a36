package divgroup

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Invariant 2: prefix calculus duality — segmentPrefixLengthAt(bps, p, i)
// equals segmentPrefixLengthFromOffset(bps, p - i*bps).
func TestPrefixCalculusDuality(t *testing.T) {
	cases := []struct {
		bps, p, i int
	}{
		{8, 8, 0}, {8, 8, 1}, {8, 20, 2}, {16, 48, 3}, {16, 0, 0},
	}
	for _, c := range cases {
		got := segmentPrefixLengthAt(c.bps, cachePrefixLen(c.p), c.i)
		want := segmentPrefixLengthFromOffset(c.bps, c.p-c.i*c.bps)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("case %+v mismatch (-want +got):\n%s", c, diff)
		}
	}
}

// Invariant 3: isMultiple() iff getCount() > 1.
func TestMultiplicityAgreesWithCount(t *testing.T) {
	single := NewSection(IPv4Family, ipv4Segs(1, 2, 3, 4), nil)
	assert.Equal(t, single.IsMultiple(), single.GetCount().Cmp(bigOne()) > 0)

	multi := NewSection(IPv4Family, []*Segment{
		newSegment(IPv4Family, NewDivision(8, 1)),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 5, nil)),
	}, nil)
	assert.Equal(t, multi.IsMultiple(), multi.GetCount().Cmp(bigOne()) > 0)
}

// Invariant 4: equivalent-prefix soundness.
func TestEquivalentPrefixSoundness(t *testing.T) {
	sec := NewSection(IPv4Family, []*Segment{
		newSegment(IPv4Family, NewPrefixedDivision(8, 172, 8)),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, cachePrefixLen(0))),
	}, cachePrefixLen(8))

	p, ok := sec.GetEquivalentPrefix()
	require.True(t, ok)
	assert.True(t, sec.IsRangeEquivalent(p))
	assert.False(t, sec.IsRangeEquivalent(p-1), "no smaller prefix should be equivalent")
}

// Invariant 5: minPrefix never exceeds the total bit count.
func TestMinPrefixMonotonicity(t *testing.T) {
	sec := NewSection(IPv4Family, ipv4Segs(192, 168, 1, 1), nil)
	assert.LessOrEqual(t, sec.GetMinPrefix(), sec.TotalBitCount())
}

// Invariant 7: append/replace boundaries.
func TestAppendReplaceBoundaries(t *testing.T) {
	sec := NewSection(IPv4Family, ipv4Segs(1, 2, 3, 4), nil)
	empty := NewSection(IPv4Family, nil, nil)
	assert.Same(t, sec, sec.Append(empty, false))

	other := NewSection(IPv4Family, ipv4Segs(9, 8, 7, 6), nil)
	replaced, err := sec.Replace(other, 0, false)
	require.NoError(t, err)
	assert.True(t, replaced.IsSameGrouping(&other.DivisionGrouping))
}

// Invariant 8: iterator cardinality, order, and non-multiplicity of each
// yielded tuple.
func TestIteratorCardinalityAndOrder(t *testing.T) {
	segs := []*Segment{
		newSegment(IPv4Family, NewRangeDivision(8, 1, 2, nil)),
		newSegment(IPv4Family, NewRangeDivision(8, 5, 6, nil)),
	}
	sec := NewSection(IPv4Family, segs, nil)
	it := NewRangeIterator(&sec.DivisionGrouping)

	var seq [][]DivInt
	for {
		vals, ok := it.Next()
		if !ok {
			break
		}
		cp := append([]DivInt(nil), vals...)
		seq = append(seq, cp)
	}

	expected := [][]DivInt{{1, 5}, {1, 6}, {2, 5}, {2, 6}}
	require.Len(t, seq, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i], seq[i])
	}
	assert.Equal(t, int64(len(seq)), sec.GetCount().Int64())
}

// Invariant 9: cache benignity — concurrent getCount() from many goroutines
// always returns the same value.
func TestCacheBenignityUnderConcurrency(t *testing.T) {
	sec := NewSection(IPv4Family, []*Segment{
		newSegment(IPv4Family, NewDivision(8, 1)),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, nil)),
		newSegment(IPv4Family, NewRangeDivision(8, 0, 255, nil)),
		newSegment(IPv4Family, NewDivision(8, 1)),
	}, nil)

	const goroutines = 50
	results := make([]string, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = sec.GetCount().String()
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}

// Invariant 10: hash/equals agreement.
func TestHashEqualsAgreement(t *testing.T) {
	a := NewSection(IPv4Family, ipv4Segs(8, 8, 8, 8), nil)
	b := NewSection(IPv4Family, ipv4Segs(8, 8, 8, 8), nil)
	require.True(t, a.Equals(&b.DivisionGrouping))
	assert.Equal(t, a.HashCode(), b.HashCode())
}

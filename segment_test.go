package divgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentEqual(t *testing.T) {
	s1 := newSegment(IPv4Family, NewDivision(8, 10))
	s2 := newSegment(IPv4Family, NewDivision(8, 10))
	s3 := newSegment(IPv4Family, NewDivision(8, 11))

	require.True(t, s1.Equal(s2))
	require.False(t, s1.Equal(s3))
}

func TestSegmentReversal(t *testing.T) {
	s := newSegment(IPv4Family, NewDivision(8, 0b00000001))
	r := s.ReversedSegment()
	assert.Equal(t, DivInt(0b10000000), r.LowerValue())
	assert.Equal(t, IPv4Family, r.Family())
}

func TestSegmentMasked(t *testing.T) {
	s := newSegment(IPv4Family, NewRangeDivision(8, 0b10100101, 0b10101111, nil))
	m := s.Masked(0b11110000)
	assert.Equal(t, DivInt(0b10100000), m.LowerValue())
	assert.Equal(t, DivInt(0b10100000), m.UpperValue())
}

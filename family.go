package divgroup

// FamilyParams carries the family-specific constants a generic algorithm set
// needs: segment bit width, and whether the family has a zone concept. This
// is the "capability composition" replacement (spec §9 Design Notes) for the
// teacher's deep IPv4AddressSection/IPv6AddressSection/MACAddressSection
// subclass hierarchy: one set of algorithms, parameterized by data.
type FamilyParams struct {
	Name          string
	BitsPerSegment BitCount
	HasZone       bool
}

// MaxSegmentValue is the largest value a segment of this family can hold.
func (f *FamilyParams) MaxSegmentValue() DivInt {
	return ^(^DivInt(0) << uint(f.BitsPerSegment))
}

var (
	// IPv4Family describes 8-bit, zoneless segments (octets).
	IPv4Family = &FamilyParams{Name: "IPv4", BitsPerSegment: 8, HasZone: false}
	// IPv6Family describes 16-bit segments with zone support.
	IPv6Family = &FamilyParams{Name: "IPv6", BitsPerSegment: 16, HasZone: true}
)

package divgroup

import (
	"strconv"

	"github.com/djohnsongit/divgroup/addrerr"
)

// RegroupedDivision is a Division produced by Regroup, tagged with the radix
// implied by the bitsPerDigit it was regrouped at (spec §4.7 item 6).
type RegroupedDivision struct {
	*Division
	Radix int
}

// maxRegroupedDivisionBits is the architectural cap on a single regrouped
// division's width: the largest multiple of bitsPerDigit that still fits a
// 63-bit DivInt (spec §4.7 item 3).
func maxRegroupedDivisionBits(bitsPerDigit BitCount) BitCount {
	return (63 / bitsPerDigit) * bitsPerDigit
}

// Regroup recomputes g's division layout at bitsPerDigit bits per digit
// (spec §4.7, C6): total bit count is preserved; every new division's width
// is a multiple of bitsPerDigit except possibly the first (most-significant,
// produced first), which carries whatever bits don't divide evenly; no
// division exceeds maxRegroupedDivisionBits; each carries a per-division
// prefix derived from g's grouping prefix via PrefixCalculus, and a radix of
// 2^bitsPerDigit.
//
// bitsPerDigit must be less than 32 (spec §4.7, §7 InvalidArgument).
func Regroup(g *DivisionGrouping, bitsPerDigit BitCount) ([]*RegroupedDivision, error) {
	if bitsPerDigit <= 0 || bitsPerDigit >= 32 {
		return nil, addrerr.New(addrerr.InvalidArgument, "divgroup.invalidArgument.bitsPerDigit", strconv.Itoa(bitsPerDigit))
	}

	total := g.TotalBitCount()
	maxBits := maxRegroupedDivisionBits(bitsPerDigit)

	var widths []BitCount
	leftover := total % bitsPerDigit
	if leftover != 0 {
		widths = append(widths, leftover)
	}
	remaining := total - leftover
	for remaining > 0 {
		chunk := min(remaining, maxBits)
		widths = append(widths, chunk)
		remaining -= chunk
	}
	if len(widths) == 0 {
		widths = []BitCount{0}
	}

	radix := 1 << uint(bitsPerDigit)
	result := make([]*RegroupedDivision, len(widths))
	bitPos := 0
	for i, w := range widths {
		lower := extractBits(g.divs, true, bitPos, w)
		upper := extractBits(g.divs, false, bitPos, w)

		var segPrefix PrefixLen
		if g.prefix != nil {
			segPrefix = segmentPrefixLengthFromOffset(w, g.prefix.bitLen()-bitPos)
		}
		d := NewRangeDivision(w, lower, upper, segPrefix)
		result[i] = &RegroupedDivision{Division: d, Radix: radix}
		bitPos += w
	}
	return result, nil
}

// extractBits reads bitCount bits starting at absolute bit position startBit
// (0 = most-significant bit of the whole division sequence), streaming
// across as many source divisions as the range spans, and returns them as an
// MSB-first integer. Used to build regrouped divisions' lower/upper values
// without ever materializing a byte array wider than 63 bits at a time
// (spec §4.7 item 4: "the algorithm handles the case where a single new
// division spans multiple source divisions and vice versa").
func extractBits(divs []*Division, low bool, startBit, bitCount BitCount) DivInt {
	if bitCount == 0 {
		return 0
	}
	var result DivInt
	rangeEnd := startBit + bitCount
	pos := 0
	for _, d := range divs {
		divStart := pos
		divEnd := pos + d.bitCount
		pos = divEnd

		overlapStart := max(divStart, startBit)
		overlapEnd := min(divEnd, rangeEnd)
		if overlapStart >= overlapEnd {
			continue
		}

		var value DivInt
		if low {
			value = d.lowerValue
		} else {
			value = d.upperValue
		}
		localStart := overlapStart - divStart
		width := overlapEnd - overlapStart
		shiftAmount := d.bitCount - localStart - width
		chunk := (value >> uint(shiftAmount)) & (maxValue(width))

		resultShift := rangeEnd - overlapEnd
		result |= chunk << uint(resultShift)
	}
	return result
}

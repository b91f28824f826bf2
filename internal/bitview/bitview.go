// Package bitview wraps a byte slice as an MSB-first bit string and extracts
// unsigned integers from arbitrary [lo,hi) bit ranges.
package bitview

import "fmt"

// ErrOutOfRange is returned when a requested bit range falls outside the
// view, or when lo > hi.
type ErrOutOfRange struct {
	Lo, Hi, Len int
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("bitview: range [%d,%d) out of bounds for length %d", e.Lo, e.Hi, e.Len)
}

// View is a logical view over a byte buffer producing MSB-first bits.
type View struct {
	buf []byte
}

// FromBytes wraps b. The view does not copy b; callers must not mutate b
// while the view is in use.
func FromBytes(b []byte) *View {
	return &View{buf: b}
}

// Len returns the number of bits in the view, 8*len(b).
func (v *View) Len() int {
	return 8 * len(v.buf)
}

// bitAt returns the bit at absolute position i (0 = MSB of buf[0]).
func (v *View) bitAt(i int) uint64 {
	byteIdx := i / 8
	shift := 7 - uint(i%8)
	return uint64((v.buf[byteIdx] >> shift) & 1)
}

// Bits returns the unsigned integer formed by bits [lo,hi), MSB-first
// (big-endian within the range). hi-lo must be <= 64.
func (v *View) Bits(lo, hi int) (uint64, error) {
	if lo > hi || hi > v.Len() || lo < 0 {
		return 0, &ErrOutOfRange{Lo: lo, Hi: hi, Len: v.Len()}
	}
	var acc uint64
	for i := lo; i < hi; i++ {
		acc = (acc << 1) | v.bitAt(i)
	}
	return acc, nil
}

// Slice returns the ASCII '0'/'1' rendering of bits [lo,hi). Useful for
// fields that are more naturally manipulated as bit strings, such as the
// affected-regions bitmap.
func (v *View) Slice(lo, hi int) (string, error) {
	if lo > hi || hi > v.Len() || lo < 0 {
		return "", &ErrOutOfRange{Lo: lo, Hi: hi, Len: v.Len()}
	}
	out := make([]byte, hi-lo)
	for i := lo; i < hi; i++ {
		if v.bitAt(i) == 1 {
			out[i-lo] = '1'
		} else {
			out[i-lo] = '0'
		}
	}
	return string(out), nil
}

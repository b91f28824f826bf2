// Package frame decodes the two PEWS snapshot wire formats: the MMI
// ("*.b") frame — header, per-station intensity nibbles, and a conditional
// earthquake trailer — and the station ("*.s") frame, a flat list of
// (lat,lon) pairs.
package frame

import (
	"strings"

	"github.com/ytham/pews/internal/bitview"
)

// Wire constants, bit-exact against the production snapshot format.
const (
	// HeaderLen is the header width in bytes for a live snapshot.
	HeaderLen = 4
	// SimulationHeaderLen is the header width in bytes under simulation
	// replay. Only the split point changes; the bit positions consulted
	// within the header (bits 0,1,2) do not — see DESIGN.md.
	SimulationHeaderLen = 1

	MaxEqkInfoLen = 120
	MaxEqkStrLen  = 60

	// nibbleSentinel is the 8 one-bits separating per-station nibble
	// groups in the body bit stream.
	nibbleSentinel = "11111111"
)

// MMIFrame is the decoded form of one "*.b" snapshot.
type MMIFrame struct {
	// StaF requests a station-table refresh this tick.
	StaF bool
	// Phase is the current earthquake-alert level.
	Phase Phase
	// MMI holds one intensity nibble (0..15) per station, in station-index
	// order.
	MMI []uint8
	// Eqk is non-nil only when Phase > PhaseNormal.
	Eqk *EqkRecord
}

// DecodeMMI parses raw snapshot bytes into an MMIFrame. headerLen is
// HeaderLen for a live snapshot or SimulationHeaderLen under replay.
func DecodeMMI(raw []byte, headerLen int) (*MMIFrame, error) {
	bits := bitview.FromBytes(raw)
	headerBits := headerLen * 8

	if bits.Len() < headerBits {
		return nil, &ErrFrameTooShort{Need: headerBits, Have: bits.Len()}
	}

	bit0, err := bits.Bits(0, 1)
	if err != nil {
		return nil, err
	}
	bit1, err := bits.Bits(1, 2)
	if err != nil {
		return nil, err
	}
	bit2, err := bits.Bits(2, 3)
	if err != nil {
		return nil, err
	}

	phase, err := decodePhase(byte(bit1), byte(bit2))
	if err != nil {
		return nil, err
	}

	f := &MMIFrame{
		StaF:  bit0 == 1,
		Phase: phase,
		MMI:   decodeMMINibbles(bits, headerBits),
	}

	if phase > PhaseNormal {
		trailerStart := bits.Len() - eqkTrailerBits
		if trailerStart < headerBits {
			return nil, &ErrFrameTooShort{Need: headerBits + eqkTrailerBits, Have: bits.Len()}
		}
		msgTrailer := lastNBytes(raw, MaxEqkStrLen)
		eqk, err := decodeEqk(bits, trailerStart, msgTrailer)
		if err != nil {
			return nil, err
		}
		f.Eqk = eqk
	}

	return f, nil
}

// decodeMMINibbles reads the per-station intensity nibbles out of the body
// (bits [headerBits, len)). The body bit string is split on runs of eight
// consecutive one-bits; within each group the first eight bits (sentinel
// remainder / header padding) are skipped, then successive 4-bit nibbles
// are read as station intensities, concatenated across groups in order.
func decodeMMINibbles(bits *bitview.View, headerBits int) []uint8 {
	if headerBits >= bits.Len() {
		return nil
	}
	bodyStr, err := bits.Slice(headerBits, bits.Len())
	if err != nil {
		return nil
	}

	var out []uint8
	for _, group := range strings.Split(bodyStr, nibbleSentinel) {
		if len(group) < 8 {
			continue
		}
		group = group[8:]
		for len(group) >= 4 {
			nibble := group[:4]
			group = group[4:]
			var v uint8
			for _, c := range nibble {
				v <<= 1
				if c == '1' {
					v |= 1
				}
			}
			out = append(out, v)
		}
	}
	return out
}

func lastNBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}

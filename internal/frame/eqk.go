package frame

import (
	"strconv"

	"github.com/ytham/pews/internal/bitview"
	"github.com/ytham/pews/internal/regions"
)

// eqkTrailerBits is the width of the earthquake trailer: MAX_EQK_STR_LEN*8
// (the message-trailer bits folded into the same tail) plus
// MAX_EQK_INFO_LEN.
const eqkTrailerBits = MaxEqkStrLen*8 + MaxEqkInfoLen

// EqkRecord is the structured earthquake record decoded from the trailer of
// an MMI frame, present only when Phase > PhaseNormal.
type EqkRecord struct {
	OriginLat float64
	OriginLon float64
	// OriginX/OriginY mirror upstream's fn_parseX/fn_parseY grid
	// projection, which is unimplemented upstream and here: always nil.
	// Carried so a downstream consumer can tell "not computed" from "zero".
	OriginX *float64
	OriginY *float64
	Mag     float64
	Dep     float64
	// TimeMillis is the origin time in Unix milliseconds.
	TimeMillis int64
	// ID is constructed by concatenating the literal string "20" with the
	// decimal form of a 26-bit field, then parsing as an integer — for
	// field=0 this yields 200, not 20000000000.
	ID      int64
	Max     uint8
	MaxArea []string
	Str     string
}

// decodeEqk decodes the earthquake trailer starting at absolute bit
// position trailerStart within bits, and the message trailer (the last
// MaxEqkStrLen bytes of the original buffer).
func decodeEqk(bits *bitview.View, trailerStart int, msgTrailerBytes []byte) (*EqkRecord, error) {
	field := func(lo, hi int) (uint64, error) {
		return bits.Bits(trailerStart+lo, trailerStart+hi)
	}

	rawLat, err := field(0, 10)
	if err != nil {
		return nil, err
	}
	rawLon, err := field(10, 20)
	if err != nil {
		return nil, err
	}
	rawMag, err := field(20, 27)
	if err != nil {
		return nil, err
	}
	rawDep, err := field(27, 37)
	if err != nil {
		return nil, err
	}
	rawTime, err := field(37, 59)
	if err != nil {
		return nil, err
	}
	rawID, err := field(69, 95)
	if err != nil {
		return nil, err
	}
	rawMax, err := field(95, 99)
	if err != nil {
		return nil, err
	}
	maxAreaStr, err := bits.Slice(trailerStart+99, trailerStart+116)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt("20"+strconv.FormatUint(rawID, 10), 10, 64)
	if err != nil {
		return nil, err
	}

	str, err := decodeMessageTrailer(msgTrailerBytes)
	if err != nil {
		return nil, err
	}

	return &EqkRecord{
		OriginLat:  30 + float64(rawLat)/100.0,
		OriginLon:  124 + float64(rawLon)/100.0,
		Mag:        float64(rawMag) / 10.0,
		Dep:        float64(rawDep) / 10.0,
		TimeMillis: int64(rawTime) * 1000,
		ID:         id,
		Max:        uint8(rawMax),
		MaxArea:    decodeMaxArea(maxAreaStr),
		Str:        str,
	}, nil
}

// decodeMaxArea turns the 17-bit affected-area bitmap string into a list of
// region names, or ["-"] when every bit is set.
func decodeMaxArea(bitmap string) []string {
	allOnes := true
	for _, c := range bitmap {
		if c != '1' {
			allOnes = false
			break
		}
	}
	if allOnes {
		return []string{"-"}
	}

	out := make([]string, 0, regions.Count)
	for i, c := range bitmap {
		if i >= regions.Count {
			break
		}
		if c == '1' {
			out = append(out, regions.Names[i])
		}
	}
	return out
}

// decodeMessageTrailer reconstructs eqk_str from the raw message-trailer
// bytes via the legacy escape-then-unquote round trip.
func decodeMessageTrailer(msgBytes []byte) (string, error) {
	runes := make([]rune, len(msgBytes))
	for i, b := range msgBytes {
		runes[i] = rune(b)
	}
	escaped := legacyEscape(string(runes))
	return legacyUnescape(escaped)
}

package frame

import "github.com/ytham/pews/internal/bitview"

// StationPos is one decoded (lat,lon) entry from a station ("*.s") frame,
// in insertion order.
type StationPos struct {
	Lat float64
	Lon float64
}

// DecodeStations parses a station-frame buffer into a list of positions.
// Each station occupies 20 bits: 10 bits latitude, 10 bits longitude. A
// trailing partial block (fewer than 20 bits) is truncated, not treated as
// an error.
func DecodeStations(raw []byte) []StationPos {
	bits := bitview.FromBytes(raw)
	n := bits.Len() / 20
	out := make([]StationPos, 0, n)

	for i := 0; i < n; i++ {
		base := i * 20
		rawLat, err := bits.Bits(base, base+10)
		if err != nil {
			break
		}
		rawLon, err := bits.Bits(base+10, base+20)
		if err != nil {
			break
		}
		out = append(out, StationPos{
			Lat: 30 + float64(rawLat)/100.0,
			Lon: 120 + float64(rawLon)/100.0,
		})
	}
	return out
}

// Package station holds the persistent, copy-on-replace station table that
// the poll loop maintains across ticks.
package station

import (
	"sync"

	"github.com/ytham/pews/internal/frame"
	"github.com/ytham/pews/internal/stations"
)

// minTableSize is the minimum decoded station-frame size the table will
// accept as a replacement; smaller decodes are assumed corrupt or partial
// and are discarded.
const minTableSize = 100

// Station is a persistent entry in the station table.
type Station struct {
	// Idx is the insertion-order index, stable across polls.
	Idx int
	// Name is looked up from the static table at Idx, or "" in
	// simulation mode.
	Name string
	Lat  float64
	Lon  float64
	// MMI is the latest intensity (0..15), nil until the first MMI frame
	// assigns it.
	MMI *uint8
}

// ErrStationTableShrink is returned by Replace when the candidate table is
// smaller than minTableSize and the table already holds at least that many
// entries.
type ErrStationTableShrink struct {
	Have, Want int
}

func (e *ErrStationTableShrink) Error() string {
	return "station: candidate table too small to replace existing table"
}

// Table is the mutex-guarded, copy-on-replace station inventory. Readers
// during a replace see either the old or the new table in full, never a
// mixture.
type Table struct {
	mu   sync.RWMutex
	rows []Station
	// simulated disables the static name-table lookup; station names are
	// left blank under simulation replay.
	simulated bool
}

// New returns an empty table. simulated controls whether station names are
// looked up from the static table or left blank.
func New(simulated bool) *Table {
	return &Table{simulated: simulated}
}

// Len returns the number of stations currently in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Snapshot returns a copy of the current table, safe to read without
// holding any lock.
func (t *Table) Snapshot() []Station {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Station, len(t.rows))
	copy(out, t.rows)
	return out
}

// Replace installs a freshly decoded station frame as the table, subject to
// the ≥100-entry invariant: once the table has ≥100 entries, it is only
// replaced by a candidate of size ≥100.
func (t *Table) Replace(positions []frame.StationPos) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.rows) >= minTableSize && len(positions) < minTableSize {
		return &ErrStationTableShrink{Have: len(t.rows), Want: len(positions)}
	}

	rows := make([]Station, len(positions))
	for i, p := range positions {
		name := ""
		if !t.simulated {
			name = stations.Name(i)
		}
		rows[i] = Station{Idx: i, Name: name, Lat: p.Lat, Lon: p.Lon}
	}
	t.rows = rows
	return nil
}

// ApplyMMI zips MMI nibbles onto stations by index: the k-th nibble is
// assigned to the station at index k. Nibbles beyond the current table
// size are ignored; stations beyond the nibble list keep their previous
// MMI.
func (t *Table) ApplyMMI(mmi []uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.rows {
		if i >= len(mmi) {
			break
		}
		v := mmi[i]
		t.rows[i].MMI = &v
	}
}

package station_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytham/pews/internal/frame"
	"github.com/ytham/pews/internal/station"
)

func bigTable(n int) []frame.StationPos {
	out := make([]frame.StationPos, n)
	for i := range out {
		out[i] = frame.StationPos{Lat: 35.0, Lon: 127.0}
	}
	return out
}

func TestReplaceAcceptsFirstSmallTable(t *testing.T) {
	assert := assert.New(t)
	tbl := station.New(false)

	err := tbl.Replace(bigTable(5))
	assert.NoError(err)
	assert.Equal(5, tbl.Len())
}

func TestReplaceRejectsShrinkBelowThreshold(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	tbl := station.New(false)

	require.NoError(tbl.Replace(bigTable(120)))
	err := tbl.Replace(bigTable(50))
	assert.Error(err)
	assert.Equal(120, tbl.Len())
}

func TestReplaceAcceptsFreshLargeTable(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	tbl := station.New(false)

	require.NoError(tbl.Replace(bigTable(120)))
	require.NoError(tbl.Replace(bigTable(150)))
	assert.Equal(150, tbl.Len())
}

func TestIdxMatchesPosition(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	tbl := station.New(false)

	require.NoError(tbl.Replace(bigTable(10)))
	rows := tbl.Snapshot()
	for i, r := range rows {
		assert.Equal(i, r.Idx)
	}
}

func TestSimulatedTableHasNoNames(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	tbl := station.New(true)

	require.NoError(tbl.Replace(bigTable(5)))
	for _, r := range tbl.Snapshot() {
		assert.Equal("", r.Name)
	}
}

func TestApplyMMIZipsByIndex(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	tbl := station.New(false)
	require.NoError(tbl.Replace(bigTable(3)))

	tbl.ApplyMMI([]uint8{1, 2})
	rows := tbl.Snapshot()
	require.NotNil(rows[0].MMI)
	require.NotNil(rows[1].MMI)
	assert.Equal(uint8(1), *rows[0].MMI)
	assert.Equal(uint8(2), *rows[1].MMI)
	assert.Nil(rows[2].MMI)
}

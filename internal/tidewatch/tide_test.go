package tidewatch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytham/pews/internal/fetch"
	"github.com/ytham/pews/internal/tidewatch"
)

func TestRefreshComputesTideFromSTHeader(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	fixedLocal := time.Date(2026, 1, 1, 0, 0, 10, 0, time.UTC)
	serverTime := float64(fixedLocal.Unix()) - 7.3 // server clock 7.3s behind local

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ST", strconv.FormatFloat(serverTime, 'f', 3, 64))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	est := tidewatch.NewEstimator(fetch.New(), srv.URL, func() time.Time { return fixedLocal })

	err := est.Refresh(context.Background())
	require.NoError(err)

	// tide = local - (server - 1) = 7.3 + 1 = 8.3
	assert.InDelta(8.3, est.Tide(), 1e-6)

	want := fixedLocal.Add(-8300 * time.Millisecond).Format("20060102150405")
	assert.Equal(want, est.PollTime())
}

func TestRefreshKeepsPriorTideOnMissingHeader(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK) // no ST header
	}))
	defer srv.Close()

	est := tidewatch.NewEstimator(fetch.New(), srv.URL, nil)
	before := est.Tide()

	err := est.Refresh(context.Background())
	assert.Error(err)
	var stale *tidewatch.ErrStale
	assert.ErrorAs(err, &stale)
	assert.Equal(before, est.Tide())
}

func TestInitialTideIsOne(t *testing.T) {
	assert := assert.New(t)
	est := tidewatch.NewEstimator(fetch.New(), "", nil)
	assert.Equal(1.0, est.Tide())
}

func TestGateFirstSeenThenRecent(t *testing.T) {
	assert := assert.New(t)
	g := tidewatch.NewGate(50 * time.Millisecond)

	assert.False(g.SeenRecently("tide-stale"))
	assert.True(g.SeenRecently("tide-stale"))
	assert.False(g.SeenRecently("other-key"))

	time.Sleep(80 * time.Millisecond)
	assert.False(g.SeenRecently("tide-stale"))
}

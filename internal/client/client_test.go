package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytham/pews/internal/client"
	"github.com/ytham/pews/internal/frame"
)

type fakeSink struct {
	ticks  []client.TickSnapshot
	events []client.Event
}

func (f *fakeSink) OnTick(s client.TickSnapshot) { f.ticks = append(f.ticks, s) }
func (f *fakeSink) OnEvent(e client.Event)       { f.events = append(f.events, e) }

// normalFrame is a minimal 4-byte header-only frame: staF=0, phase=Normal,
// no body, no trailer.
var normalFrame = []byte{0x00, 0x00, 0x00, 0x00}

// alertFrame sets bit1=1 (Alert) and carries a full earthquake trailer of
// zeroed bits, which still decodes to a present EqkRecord (built from
// all-zero raw fields).
func alertFrame() []byte {
	headerBits := frame.HeaderLen * 8
	trailerBits := frame.MaxEqkStrLen*8 + frame.MaxEqkInfoLen
	raw := make([]byte, (headerBits+trailerBits)/8)
	raw[0] = 0x40 // bit index 1 set -> bit1=1, bit2=0 -> PhaseAlert
	return raw
}

func TestTickSkipsOn404(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	sink := &fakeSink{}
	c := client.New(client.Config{SimulateURL: srv.URL}, sink, nil)

	err := c.Tick(context.Background())
	require.NoError(err)
	assert.Empty(sink.ticks)
	assert.Empty(sink.events)
}

func TestTickNormalFrameEmitsNoEvent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(normalFrame)
	}))
	defer srv.Close()

	sink := &fakeSink{}
	c := client.New(client.Config{SimulateURL: srv.URL}, sink, nil)

	require.NoError(c.Tick(context.Background()))
	require.Len(sink.ticks, 1)
	assert.Equal(frame.PhaseNormal, sink.ticks[0].Phase)
	assert.Empty(sink.events)
}

func TestTickAlertOnsetEmitsNewEvent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	body := alertFrame()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	sink := &fakeSink{}
	c := client.New(client.Config{SimulateURL: srv.URL}, sink, nil)

	require.NoError(c.Tick(context.Background()))
	require.Len(sink.events, 1)
	assert.Equal(client.EventNew, sink.events[0].Kind)
	require.NotNil(sink.events[0].Eqk)
}

func TestTickAlertThenNormalEmitsCleared(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	phase := alertFrame()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(phase)
	}))
	defer srv.Close()

	sink := &fakeSink{}
	c := client.New(client.Config{SimulateURL: srv.URL}, sink, nil)
	require.NoError(c.Tick(context.Background()))
	require.Len(sink.events, 1)
	require.Equal(client.EventNew, sink.events[0].Kind)

	phase = append([]byte(nil), normalFrame...)
	require.NoError(c.Tick(context.Background()))
	require.Len(sink.events, 2)
	assert.Equal(client.EventCleared, sink.events[1].Kind)
}

func TestTickSelfLoopEmitsUpdate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	body := alertFrame()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	sink := &fakeSink{}
	c := client.New(client.Config{SimulateURL: srv.URL}, sink, nil)
	require.NoError(c.Tick(context.Background()))
	require.NoError(c.Tick(context.Background()))

	require.Len(sink.events, 2)
	assert.Equal(client.EventNew, sink.events[0].Kind)
	assert.Equal(client.EventUpdate, sink.events[1].Kind)
}

func TestTickUnrecoverableErrorIsReturned(t *testing.T) {
	require := require.New(t)

	sink := &fakeSink{}
	// A scheme-less URL fails request construction, surfacing an error
	// that handleFetchErr's default case must propagate.
	c := client.New(client.Config{SimulateURL: "://not-a-url"}, sink, nil)

	err := c.Tick(context.Background())
	require.Error(err)
}

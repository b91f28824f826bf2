// Package client drives the per-tick poll loop: tide → fetch → decode →
// station merge → event emission. It owns the only mutable process state
// as fields of a single Client value.
package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ytham/pews/internal/fetch"
	"github.com/ytham/pews/internal/frame"
	"github.com/ytham/pews/internal/station"
	"github.com/ytham/pews/internal/tidewatch"
)

// DefaultDataPath is the production snapshot data root.
const DefaultDataPath = "https://www.weather.go.kr/pews/data"

// Config configures a Client. Zero values pick sane defaults in New.
type Config struct {
	// DataPath is the snapshot data root; defaults to DefaultDataPath.
	DataPath string
	// PEWSURL is the page whose "ST" header drives tide alignment;
	// defaults to tidewatch.PEWSURL.
	PEWSURL string
	// SimulateURL, when non-empty, replaces the live ".b" fetch with a
	// single fixed URL and disables the station-frame fetch and the
	// live station name lookup.
	SimulateURL string
	// TideRefreshEvery triggers a tide refresh every N successful ticks.
	// Zero selects the default of 60; a negative value disables periodic
	// refresh.
	TideRefreshEvery int
	// StaleTickLimit is the number of consecutive 404s that also
	// triggers an out-of-band tide refresh. Zero selects the default of 5;
	// a negative value disables this trigger.
	StaleTickLimit int
}

func (c Config) withDefaults() Config {
	if c.DataPath == "" {
		c.DataPath = DefaultDataPath
	}
	if c.PEWSURL == "" {
		c.PEWSURL = tidewatch.PEWSURL
	}
	if c.TideRefreshEvery == 0 {
		c.TideRefreshEvery = 60
	}
	if c.StaleTickLimit == 0 {
		c.StaleTickLimit = 5
	}
	return c
}

// Simulated reports whether this configuration runs in simulation mode.
func (c Config) Simulated() bool {
	return c.SimulateURL != ""
}

// EventKind classifies a phase transition emitted by the poll loop.
type EventKind int

const (
	// EventNew is a fresh earthquake onset (Normal -> non-Normal).
	EventNew EventKind = iota
	// EventUpdate is a self-loop or escalation within a non-Normal phase.
	EventUpdate
	// EventCleared is a return to Normal from any non-Normal phase.
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventNew:
		return "new"
	case EventUpdate:
		return "update"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event is emitted on a phase transition.
type Event struct {
	Kind  EventKind
	Phase frame.Phase
	// Eqk is nil only for EventCleared.
	Eqk *frame.EqkRecord
}

// TickSnapshot is emitted once per successful tick regardless of phase.
type TickSnapshot struct {
	Phase    frame.Phase
	StaF     bool
	Stations []station.Station
}

// Sink receives the poll loop's output: a UI or logger is an external
// collaborator that implements Sink; Client never assumes how its output
// is consumed.
type Sink interface {
	OnTick(TickSnapshot)
	OnEvent(Event)
}

// Client owns the poll loop's mutable state and drives one tick at a time.
// It is not safe for concurrent Tick calls; the poll loop is a single
// cooperative task.
type Client struct {
	cfg     Config
	fetcher *fetch.Fetcher
	tide    *tidewatch.Estimator
	gate    *tidewatch.Gate
	table   *station.Table
	sink    Sink
	logger  *log.Logger

	phase       frame.Phase
	lastEqkID   int64
	tickCount   int
	stale404Run int
}

// New constructs a Client. logger defaults to log.Default() if nil.
func New(cfg Config, sink Sink, logger *log.Logger) *Client {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = log.Default()
	}
	f := fetch.New()
	return &Client{
		cfg:     cfg,
		fetcher: f,
		tide:    tidewatch.NewEstimator(f, cfg.PEWSURL, nil),
		gate:    tidewatch.NewGate(60 * time.Second),
		table:   station.New(cfg.Simulated()),
		sink:    sink,
		logger:  logger,
		phase:   frame.PhaseNormal,
	}
}

// Stations exposes the current station table snapshot.
func (c *Client) Stations() []station.Station {
	return c.table.Snapshot()
}

// Tick performs one poll: compute pTime, fetch the MMI snapshot, decode it,
// conditionally refresh the station table, merge MMI readings, and emit
// events. A skipped tick (404, timeout, malformed frame) returns nil; only
// unrecoverable errors are returned.
func (c *Client) Tick(ctx context.Context) error {
	headerLen := frame.HeaderLen
	if c.cfg.Simulated() {
		headerLen = frame.SimulationHeaderLen
	}

	raw, err := c.fetcher.Get(ctx, c.mmiURL())
	if err != nil {
		return c.handleFetchErr(ctx, err)
	}
	c.stale404Run = 0

	f, err := frame.DecodeMMI(raw, headerLen)
	if err != nil {
		c.logger.Printf("pews: skipping tick: %v", err)
		return nil
	}

	if !c.cfg.Simulated() && (f.StaF || c.table.Len() < 100) {
		c.refreshStations(ctx)
	}

	c.table.ApplyMMI(f.MMI)
	c.sink.OnTick(TickSnapshot{Phase: f.Phase, StaF: f.StaF, Stations: c.table.Snapshot()})

	c.transition(f)

	c.tickCount++
	if c.cfg.TideRefreshEvery > 0 && c.tickCount%c.cfg.TideRefreshEvery == 0 {
		if rerr := c.tide.Refresh(ctx); rerr != nil {
			c.logTideStaleOnce(rerr)
		}
	}

	return nil
}

func (c *Client) mmiURL() string {
	if c.cfg.Simulated() {
		return c.cfg.SimulateURL
	}
	return fmt.Sprintf("%s/%s.b", c.cfg.DataPath, c.tide.PollTime())
}

func (c *Client) staURL() string {
	return fmt.Sprintf("%s/%s.s", c.cfg.DataPath, c.tide.PollTime())
}

func (c *Client) refreshStations(ctx context.Context) {
	raw, err := c.fetcher.Get(ctx, c.staURL())
	if err != nil {
		c.logger.Printf("pews: station fetch failed: %v", err)
		return
	}
	positions := frame.DecodeStations(raw)
	if rerr := c.table.Replace(positions); rerr != nil {
		c.logger.Printf("pews: %v", rerr)
	}
}

// handleFetchErr decides, by error kind, whether a failed fetch skips the
// tick silently, skips it while scheduling a tide refresh, or is
// unrecoverable and must be surfaced to the caller.
func (c *Client) handleFetchErr(ctx context.Context, err error) error {
	var httpErr *fetch.ErrHTTPStatus
	var timeoutErr *fetch.ErrTimeout

	switch {
	case errors.As(err, &timeoutErr):
		// Timeout is treated as 404: skip the tick, don't advance tide.
		c.noteStale404()
		return nil
	case errors.As(err, &httpErr) && httpErr.Code == 404:
		// Snapshot not yet published at this second; common at second
		// boundaries. Skip the tick, don't advance tide.
		c.noteStale404()
		return nil
	case errors.As(err, &httpErr) && httpErr.Code >= 500:
		c.logger.Printf("pews: server error %d, scheduling tide refresh: %v", httpErr.Code, err)
		if rerr := c.tide.Refresh(ctx); rerr != nil {
			c.logTideStaleOnce(rerr)
		}
		return nil
	default:
		return fmt.Errorf("pews: unrecoverable fetch error: %w", err)
	}
}

func (c *Client) noteStale404() {
	c.stale404Run++
	if c.cfg.StaleTickLimit > 0 && c.stale404Run >= c.cfg.StaleTickLimit {
		c.stale404Run = 0
		c.logger.Printf("pews: %d consecutive 404s, refreshing tide", c.cfg.StaleTickLimit)
		if err := c.tide.Refresh(context.Background()); err != nil {
			c.logTideStaleOnce(err)
		}
	}
}

func (c *Client) logTideStaleOnce(err error) {
	if c.gate.SeenRecently("tide-stale") {
		return
	}
	c.logger.Printf("pews: %v", err)
}

// transition implements the phase state machine: a move out of Normal
// emits a new event, a move back to Normal emits a cleared event, and any
// other non-Normal-to-non-Normal move (including a self-loop) emits an
// update.
func (c *Client) transition(f *frame.MMIFrame) {
	old := c.phase
	newPhase := f.Phase

	switch {
	case old == frame.PhaseNormal && newPhase > frame.PhaseNormal:
		c.sink.OnEvent(Event{Kind: EventNew, Phase: newPhase, Eqk: f.Eqk})
	case newPhase == frame.PhaseNormal && old > frame.PhaseNormal:
		c.sink.OnEvent(Event{Kind: EventCleared, Phase: newPhase})
	case newPhase > frame.PhaseNormal && old > frame.PhaseNormal:
		if f.Eqk != nil && c.lastEqkID != 0 && f.Eqk.ID != c.lastEqkID {
			c.logger.Printf("pews: eqk id changed mid-event: %d -> %d", c.lastEqkID, f.Eqk.ID)
		}
		c.sink.OnEvent(Event{Kind: EventUpdate, Phase: newPhase, Eqk: f.Eqk})
	}

	if f.Eqk != nil {
		c.lastEqkID = f.Eqk.ID
	}
	if newPhase == frame.PhaseNormal {
		c.lastEqkID = 0
	}
	c.phase = newPhase
}

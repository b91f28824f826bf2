// Package tidewatch aligns the local wall clock to the PEWS server clock
// and derives the second-resolution timestamp every snapshot URL is built
// from. It also carries a small TTL-backed dedup gate so repeated
// conditions within one window only log or emit once.
package tidewatch

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/ytham/pews/internal/fetch"
)

// PEWSURL carries the "ST" response header tide alignment is computed from.
const PEWSURL = "https://www.weather.go.kr/pews/pews.html"

// initialTide is used before the first successful Refresh.
const initialTide = 1.0

// Clock abstracts "now", so tide drift is testable without sleeping real
// time.
type Clock func() time.Time

// Estimator aligns local time to the server's clock via the "ST" header.
type Estimator struct {
	fetcher *fetch.Fetcher
	now     Clock
	url     string

	tide float64 // seconds; local_now - (server_now - 1)
}

// NewEstimator returns an Estimator with the spec-mandated initial tide of
// 1.0s, reading ST from url (defaults to PEWSURL).
func NewEstimator(f *fetch.Fetcher, url string, now Clock) *Estimator {
	if url == "" {
		url = PEWSURL
	}
	if now == nil {
		now = time.Now
	}
	return &Estimator{fetcher: f, now: now, url: url, tide: initialTide}
}

// Tide returns the current tide estimate in seconds.
func (e *Estimator) Tide() float64 {
	return e.tide
}

// Refresh issues a GET against e.url, reads the "ST" header (a floating
// point Unix-seconds value with millisecond precision), and updates the
// tide estimate. On failure to read or parse the header, the previous tide
// is kept and ErrStale is returned — a transient failure must not poison
// subsequent polls.
func (e *Estimator) Refresh(ctx context.Context) error {
	raw, err := e.fetcher.GetHeader(ctx, e.url, "ST")
	if err != nil {
		return &ErrStale{Cause: err}
	}

	var serverSeconds float64
	if _, scanErr := fmt.Sscanf(raw, "%f", &serverSeconds); scanErr != nil {
		return &ErrStale{Cause: scanErr}
	}

	localSeconds := float64(e.now().UnixNano()) / 1e9
	e.tide = localSeconds - (serverSeconds - 1)
	return nil
}

// PollTime returns UTC(local_now - tide) formatted as "YYYYMMDDhhmmss", the
// timestamp every snapshot URL is built from.
func (e *Estimator) PollTime() string {
	adjusted := e.now().UTC().Add(-time.Duration(e.tide * float64(time.Second)))
	return adjusted.Format("20060102150405")
}

// ErrStale is returned by Refresh when the "ST" header was missing or
// unparseable. The previous tide estimate remains in effect.
type ErrStale struct {
	Cause error
}

func (e *ErrStale) Error() string {
	return fmt.Sprintf("tidewatch: ST header stale: %v", e.Cause)
}

func (e *ErrStale) Unwrap() error {
	return e.Cause
}

// Gate is a TTL-backed "have we already handled this?" memory: an
// add/check pair over any string key.
type Gate struct {
	c *cache.Cache
}

// NewGate returns a Gate whose entries live for ttl.
func NewGate(ttl time.Duration) *Gate {
	return &Gate{c: cache.New(ttl, ttl*2)}
}

// SeenRecently reports whether key was marked within the gate's TTL, and
// marks it as seen as a side effect — so the first call for a key returns
// false (and arms the gate) and subsequent calls within the TTL return true.
func (g *Gate) SeenRecently(key string) bool {
	if _, found := g.c.Get(key); found {
		return true
	}
	g.c.SetDefault(key, struct{}{})
	return false
}

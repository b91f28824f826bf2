// Command pews polls the Korean Meteorological Administration's public
// earthquake warning snapshots once per second and prints station
// intensities and earthquake events as they change.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ytham/pews/internal/client"
)

func main() {
	app := &cli.App{
		Name:  "pews",
		Usage: "poll the public earthquake warning system and report station intensities",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-path",
				Usage: "snapshot data root (overrides the production default)",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "replay a fixed snapshot URL instead of polling the live tide-aligned path (simulation mode)",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "time between ticks",
				Value: time.Second,
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "show a live station dashboard instead of line-oriented logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := client.Config{
		DataPath:    cCtx.String("data-path"),
		SimulateURL: cCtx.String("url"),
	}

	interval := cCtx.Duration("interval")
	if interval <= 0 {
		interval = time.Second
	}

	if cCtx.Bool("tui") {
		return runDashboard(ctx, cfg, interval)
	}
	return runLogging(ctx, cfg, interval)
}

// logSink prints tick summaries and earthquake events to the standard
// logger; it is the default, no-TUI consumer of the poll loop.
type logSink struct{}

func (logSink) OnTick(s client.TickSnapshot) {
	active := 0
	for _, st := range s.Stations {
		if st.MMI != nil {
			active++
		}
	}
	log.Printf("tick: phase=%s staF=%t stations=%d reporting=%d", s.Phase, s.StaF, len(s.Stations), active)
}

func (logSink) OnEvent(e client.Event) {
	if e.Kind == client.EventCleared {
		log.Printf("event: cleared (phase=%s)", e.Phase)
		return
	}
	eq := e.Eqk
	log.Printf("event: %s phase=%s id=%d mag=%.1f dep=%.1fkm origin=(%.2f,%.2f) max=%d area=%v %q",
		e.Kind, e.Phase, eq.ID, eq.Mag, eq.Dep, eq.OriginLat, eq.OriginLon, eq.Max, eq.MaxArea, eq.Str)
}

func runLogging(ctx context.Context, cfg client.Config, interval time.Duration) error {
	c := client.New(cfg, logSink{}, nil)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.Tick(ctx); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/mattn/go-runewidth"

	"github.com/ytham/pews/internal/client"
)

// dashboard renders the poll loop's output as a live table: a status line,
// an earthquake event banner, and a sorted station grid, driven by the
// same layout/render/quit trio gocui apps commonly use.
type dashboard struct {
	g *gocui.Gui

	phase    string
	staF     bool
	stations []stationRow
	event    string
}

type stationRow struct {
	name string
	mmi  string
}

func (d *dashboard) OnTick(s client.TickSnapshot) {
	rows := make([]stationRow, 0, len(s.Stations))
	for _, st := range s.Stations {
		mmi := "-"
		if st.MMI != nil {
			mmi = fmt.Sprintf("%d", *st.MMI)
		}
		rows = append(rows, stationRow{name: st.Name, mmi: mmi})
	}
	d.phase = s.Phase.String()
	d.staF = s.StaF
	d.stations = rows
	d.g.Update(d.render)
}

func (d *dashboard) OnEvent(e client.Event) {
	switch e.Kind {
	case client.EventCleared:
		d.event = "no active event"
	default:
		eq := e.Eqk
		d.event = fmt.Sprintf("%s: M%.1f %s (%s) %q", e.Kind, eq.Mag, eq.MaxArea, e.Phase, eq.Str)
	}
	d.g.Update(d.render)
}

func (d *dashboard) render(g *gocui.Gui) error {
	status, err := g.View("status")
	if err != nil {
		return err
	}
	status.Clear()
	fmt.Fprintf(status, " PHASE: %-8s  STA_F: %-5t  LAST UPDATE: %s\n",
		d.phase, d.staF, time.Now().Format("2006-01-02 15:04:05"))

	banner, err := g.View("event")
	if err != nil {
		return err
	}
	banner.Clear()
	if d.event != "" {
		fmt.Fprintln(banner, " "+d.event)
	} else {
		fmt.Fprintln(banner, " no active event")
	}

	list, err := g.View("list")
	if err != nil {
		return err
	}
	list.Clear()
	fmt.Fprintln(list, padName(" STATION", 20)+"  MMI")
	fmt.Fprintln(list, " =================================")

	rows := append([]stationRow(nil), d.stations...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	for _, r := range rows {
		fmt.Fprintf(list, " %s  %s\n", padName(r.name, 19), r.mmi)
	}
	return nil
}

// padName right-pads name to width columns measured by display width, not
// byte length, so Korean station names (two columns per rune) line up the
// same as ASCII placeholder names.
func padName(name string, width int) string {
	w := runewidth.StringWidth(name)
	if w >= width {
		return name
	}
	pad := width - w
	out := make([]byte, len(name), len(name)+pad)
	copy(out, name)
	for i := 0; i < pad; i++ {
		out = append(out, ' ')
	}
	return string(out)
}

func layout(g *gocui.Gui) error {
	const maxX = 90
	_, maxY := g.Size()

	v, err := g.SetView("status", 0, 0, maxX-2, 2)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	if v != nil {
		v.Title = " STATUS "
	}

	v, err = g.SetView("event", 0, 3, maxX-2, 5)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	if v != nil {
		v.Title = " EVENT "
	}

	v, err = g.SetView("list", 0, 6, maxX-2, maxY-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	if v != nil {
		v.Title = " STATIONS "
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// runDashboard drives the poll loop on a ticker, same as runLogging, but
// renders to a gocui TUI instead of the standard logger.
func runDashboard(ctx context.Context, cfg client.Config, interval time.Duration) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer g.Close()

	g.SetManagerFunc(layout)
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}

	d := &dashboard{g: g}
	c := client.New(cfg, d, nil)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				g.Update(func(g *gocui.Gui) error { return gocui.ErrQuit })
				return
			case <-ticker.C:
				if err := c.Tick(ctx); err != nil {
					log.Println(err)
				}
			}
		}
	}()

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/sheetkit/internal/motion"
	"github.com/ensigniasec/sheetkit/internal/sheet"
)

const (
	simulateFrame   = time.Second / 60
	simulateMaxStep = 10_000
	reportWidth     = 48
)

// Step is the resting sheet after one scripted action.
type Step struct {
	Action  string   `json:"Action"`
	State   string   `json:"State"`
	Offset  float64  `json:"Offset"`
	Visible float64  `json:"Visible"`
	Mounted bool     `json:"Mounted"`
	Events  []string `json:"Events"`
}

type virtualHost struct {
	height float64
}

func (h virtualHost) UsableHeight() float64     { return h.height }
func (virtualHost) Mount(*sheet.Presentation)   {}
func (virtualHost) Unmount(*sheet.Presentation) {}

// blank stands in for content that only contributes its height.
type blank struct{}

func (blank) View() string { return "" }

// simulate runs one session on a manual clock: present, then each drag delta
// released in turn, then an optional forced close.
func simulate(cfg sheet.Config, host float64, contents, drags []float64, forceClose bool) ([]Step, error) {
	clock := motion.NewManualClock(time.Unix(0, 0))
	p, err := sheet.New(cfg, sheet.WithTimeline(motion.NewTimeline(clock)))
	if err != nil {
		return nil, err
	}
	defer p.Detach()

	var events []string
	p.Subscribe(sheet.ObserverFunc(func(e sheet.Event) { events = append(events, e.String()) }))

	if err := p.Configure(virtualHost{height: host}); err != nil {
		return nil, err
	}
	for _, h := range contents {
		if _, err := p.AddMeasuredContent(blank{}, h); err != nil {
			return nil, err
		}
	}

	var steps []Step
	record := func(action string) {
		for i := 0; i < simulateMaxStep && p.Animating(); i++ {
			p.Advance(clock.Add(simulateFrame))
		}
		f := p.Frame()
		steps = append(steps, Step{
			Action:  action,
			State:   f.State.String(),
			Offset:  f.SheetOffset,
			Visible: f.VisibleFraction,
			Mounted: f.Mounted,
			Events:  events,
		})
		events = nil
	}

	if err := p.Present(nil); err != nil {
		return nil, err
	}
	record("present")

	for _, dy := range drags {
		p.BeginDrag()
		p.UpdateDrag(dy)
		p.EndDrag()
		record(fmt.Sprintf("drag %+g", dy))
	}

	if forceClose {
		if err := p.Close(true); err != nil {
			return nil, err
		}
		record("close")
	}
	logrus.Debugf("Simulated %d steps", len(steps))
	return steps, nil
}

// printSteps writes steps as indented JSON or as a plain report.
func printSteps(w io.Writer, steps []Step, jsonOutput bool) error {
	if jsonOutput {
		out, err := json.MarshalIndent(steps, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintln(w, "SHEET SIMULATION")
	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	for _, s := range steps {
		fmt.Fprintf(w, "%-12s %-10s offset=%-8.1f visible=%.2f", s.Action, s.State, s.Offset, s.Visible)
		if len(s.Events) > 0 {
			fmt.Fprintf(w, " events=%s", strings.Join(s.Events, ","))
		}
		fmt.Fprintln(w)
	}
	return nil
}

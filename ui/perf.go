package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seep/systems"
	"github.com/pthm-cable/seep/telemetry"
)

// PerfPanel shows the average step time split by system.
type PerfPanel struct {
	panel    Panel
	registry *systems.SystemRegistry
	phases   map[string]telemetry.Phase
}

// NewPerfPanel creates a panel labelling phases through registry.
func NewPerfPanel(x, y int32, registry *systems.SystemRegistry) *PerfPanel {
	phases := make(map[string]telemetry.Phase, telemetry.NumPhases)
	for ph := telemetry.PhaseTransport; ph < telemetry.NumPhases; ph++ {
		phases[ph.String()] = ph
	}
	return &PerfPanel{
		panel:    Panel{X: x, Y: y, Width: 260},
		registry: registry,
		phases:   phases,
	}
}

// SetPosition moves the panel.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.panel.X, p.panel.Y = x, y
}

// phaseColor highlights phases taking a large share of the tick.
func phaseColor(pct float64) rl.Color {
	switch {
	case pct > 20:
		return rl.Red
	case pct > 10:
		return rl.Orange
	default:
		return rl.LightGray
	}
}

// Draw renders stats grouped by system category.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	groups := p.registry.Groups()
	rows := 1
	for _, g := range groups {
		rows += 1 + len(g.Systems)
	}

	pn := &p.panel
	pn.Begin(Rows(rows))
	pn.Title("System Performance")
	pn.Text(fmt.Sprintf("Tick avg %s  p95 %s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.P95TickDuration.Round(time.Microsecond)), rl.Yellow)

	for _, g := range groups {
		pn.Header(g.Category)
		for _, info := range g.Systems {
			ph, ok := p.phases[info.ID]
			if !ok {
				pn.Text(info.Name, rl.Gray)
				continue
			}
			st := stats.Phases[ph]
			pn.Text(fmt.Sprintf("%-12s %8s %5.1f%%", info.Name, st.Avg.Round(time.Microsecond), st.Pct), phaseColor(st.Pct))
		}
	}
}

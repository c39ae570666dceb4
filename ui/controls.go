package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seep/components"
)

// categoryGap separates overlay categories.
const categoryGap int32 = 4

// ControlsPanel lists the overlays with their state and key.
type ControlsPanel struct {
	panel   Panel
	visible bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{panel: Panel{X: x, Y: y, Width: width}}
}

// IsVisible reports whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool { return c.visible }

// Toggle switches visibility and returns the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the Y below it, or its top when hidden.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.panel.Y
	}

	cats := overlays.Categories()
	rows := 0
	for _, cat := range cats {
		rows += 1 + len(overlays.ByCategory(cat))
	}

	p := &c.panel
	p.Begin(Rows(rows) + int32(len(cats))*categoryGap)
	p.Title("Overlays")
	for _, cat := range cats {
		p.Header(categoryLabel(cat))
		for _, d := range overlays.ByCategory(cat) {
			p.Toggle(d.Name, d.KeyLabel, overlays.IsEnabled(d.ID))
		}
		p.Gap(categoryGap)
	}
	return p.Bottom()
}

func categoryLabel(cat string) string {
	switch cat {
	case "scene":
		return "Scene"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}

// LegendData holds the colour and population of each speed class.
type LegendData struct {
	Colors [components.NumSpeedClasses]rl.Color
	Counts [components.NumSpeedClasses]int
}

// Shares returns each class's fraction of the population.
func (d LegendData) Shares() [components.NumSpeedClasses]float32 {
	var out [components.NumSpeedClasses]float32
	total := 0
	for _, n := range d.Counts {
		total += n
	}
	if total == 0 {
		return out
	}
	for c, n := range d.Counts {
		out[c] = float32(n) / float32(total)
	}
	return out
}

// LegendPanel shows the speed classes with population share bars.
type LegendPanel struct {
	panel Panel
}

// NewLegendPanel creates a legend panel.
func NewLegendPanel(x, y, width int32) *LegendPanel {
	return &LegendPanel{panel: Panel{X: x, Y: y, Width: width}}
}

// SetPosition moves the panel.
func (l *LegendPanel) SetPosition(x, y int32) {
	l.panel.X, l.panel.Y = x, y
}

// Draw renders the legend and returns the Y below it.
func (l *LegendPanel) Draw(data LegendData) int32 {
	p := &l.panel
	p.Begin(Rows(components.NumSpeedClasses))
	p.Title("Speed Classes")
	names := components.SpeedClassNames()
	for c, share := range data.Shares() {
		p.Bar(names[c], share, data.Colors[c])
	}
	return p.Bottom()
}

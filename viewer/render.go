package viewer

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/renderer"
	"github.com/pthm-cable/seep/ui"
)

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 18, G: 22, B: 28, A: 255})

	rl.BeginMode3D(v.camera)
	v.drawScene()
	rl.EndMode3D()

	v.drawUI()

	rl.EndDrawing()
}

// drawScene draws the 3D content. Must run inside BeginMode3D.
func (v *Viewer) drawScene() {
	if v.overlays.IsEnabled(ui.OverlayDomain) {
		v.particles.DrawDomain(v.ctx.Domain.Size)
	}

	switch {
	case v.overlays.IsEnabled(ui.OverlayMesh):
		v.meshes.Wires = false
		v.meshes.Draw()
	case v.overlays.IsEnabled(ui.OverlayMeshWires):
		v.meshes.Wires = true
		v.meshes.Draw()
	}

	if !v.overlays.IsEnabled(ui.OverlayParticles) {
		return
	}

	v.particles.Mode = renderer.ColorBySpeed
	if v.overlays.IsEnabled(ui.OverlayStateColors) {
		v.particles.Mode = renderer.ColorByState
	}

	if v.player != nil {
		for _, p := range v.player.Particles() {
			v.particles.DrawClass(p.Position, p.Class)
		}
		return
	}

	v.sim.EachParticle(func(pos, _ r3.Vec, p *components.Particle) {
		v.particles.Draw(pos, p)
	})

	v.drawSelectionIndicator()
}

// drawSelectionIndicator outlines the selected particle.
func (v *Viewer) drawSelectionIndicator() {
	if !v.hasSelection {
		return
	}
	pos, _, ok := v.sim.Particle(v.selected)
	if !ok {
		return
	}
	center := rl.Vector3{X: float32(pos.X), Y: float32(pos.Y), Z: float32(pos.Z)}
	rl.DrawSphereWires(center, 2*v.particles.Radius, 6, 8, rl.White)
}

// drawUI draws the 2D panels over the scene.
func (v *Viewer) drawUI() {
	data := ui.HUDData{
		Title:      v.title,
		Partitions: v.meshes.Partitions(),
		Triangles:  v.meshes.Triangles(),
		FPS:        rl.GetFPS(),
		Paused:     v.paused,
	}

	var classes [components.NumSpeedClasses]int
	if v.player != nil {
		data.Mode = "playback"
		data.Tick = int32(v.player.FrameIndex())
		data.Live = v.player.Len()
		for _, p := range v.player.Particles() {
			classes[p.Class]++
		}
	} else {
		data.Mode = "simulation"
		data.Tick = v.sim.Tick()
		data.Run = v.sim.Run()
		data.Runs = v.sim.Run() + 1 + v.sim.RestartsLeft()
		data.Rate = v.sim.Rate()
		data.Live = v.sim.Live()
		data.Done = v.sim.Done()
		data.OutOfBounds = v.sim.LastTransport().OutOfBounds
		data.Joins = v.sim.LastAggregation().Joins
		v.sim.EachParticle(func(_, _ r3.Vec, p *components.Particle) {
			classes[p.Class]++
			if p.State == components.Aggregated {
				data.Aggregated++
			}
		})
	}

	v.actions = v.hud.Draw(data)

	y := v.controls.Draw(v.overlays)
	if v.controls.IsVisible() {
		y += 8
	}

	if v.overlays.IsEnabled(ui.OverlayLegend) {
		legend := ui.LegendData{Counts: classes}
		for c := range legend.Colors {
			legend.Colors[c] = renderer.ClassColor(components.SpeedClass(c))
		}
		v.legend.SetPosition(10, y)
		y = v.legend.Draw(legend) + 8
	}

	v.drawInfoPanel(y)

	if v.overlays.IsEnabled(ui.OverlayPerf) && v.sim != nil {
		v.perfPanel.Draw(v.sim.PerfStats())
	}

	v.hud.DrawControls(v.screenWidth, v.screenHeight,
		"SPACE: Pause | N: Step | Click: Select | TAB: Orbit | RMB: Look | HOME: Reset | O: Overlays | F11: Fullscreen")
}

// drawInfoPanel shows the selected particle's record.
func (v *Viewer) drawInfoPanel(y int32) {
	if v.sim == nil || !v.hasSelection {
		return
	}
	pos, p, ok := v.sim.Particle(v.selected)
	if !ok {
		v.hasSelection = false
		return
	}

	survival := time.Duration(p.SurvivalTime(v.cfg.Simulation.DT) * float64(time.Second))

	panel := ui.Panel{X: 10, Y: y, Width: 220}
	panel.Begin(ui.Rows(6))
	panel.Title(fmt.Sprintf("Particle #%d", p.ID))
	panel.Field("Position", fmt.Sprintf("%.1f, %.1f, %.1f", pos.X, pos.Y, pos.Z))
	panel.Field("State", p.State.String())
	panel.Field("Speed", p.Class.String())
	panel.Field("Survival", survival.Round(time.Millisecond).String())
	panel.Field("Distance", fmt.Sprintf("%.2f", p.SurvivalDist))
	panel.Field("Spawn", fmt.Sprintf("%.1f, %.1f, %.1f", p.Spawn.X, p.Spawn.Y, p.Spawn.Z))
}

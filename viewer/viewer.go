// Package viewer is the windowed front end: it renders the extracted mesh
// with either the live simulation or trajectory playback, and handles
// camera, overlay and HUD input.
package viewer

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/mesh"
	"github.com/pthm-cable/seep/playback"
	"github.com/pthm-cable/seep/renderer"
	"github.com/pthm-cable/seep/sim"
	"github.com/pthm-cable/seep/systems"
	"github.com/pthm-cable/seep/ui"
)

// Options selects what the viewer shows. Exactly one of Sim and Player
// must be set.
type Options struct {
	Title  string
	Sim    *sim.Simulation
	Player *playback.Player
}

// Viewer holds the window-side state.
type Viewer struct {
	cfg *config.Config
	ctx *sim.Context

	sim    *sim.Simulation
	player *playback.Player
	title  string

	// Rendering
	camera    rl.Camera3D
	orbit     bool
	meshes    *renderer.MeshRenderer
	particles *renderer.ParticleRenderer

	// UI
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	legend    *ui.LegendPanel
	perfPanel *ui.PerfPanel
	actions   ui.HUDActions

	// State
	paused       bool
	stepOnce     bool
	playbackTime float64
	selected     uint32
	hasSelection bool

	screenWidth  int32
	screenHeight int32
}

// New builds the viewer and uploads the mesh. The window must already be
// open.
func New(cfg *config.Config, ctx *sim.Context, opts Options) (*Viewer, error) {
	if (opts.Sim == nil) == (opts.Player == nil) {
		return nil, fmt.Errorf("viewer: exactly one of Sim and Player must be set")
	}

	v := &Viewer{
		cfg:          cfg,
		ctx:          ctx,
		sim:          opts.Sim,
		player:       opts.Player,
		title:        opts.Title,
		meshes:       renderer.NewMeshRenderer(float32(ctx.MeshScale())),
		particles:    renderer.NewParticleRenderer(1, float32(cfg.Simulation.ParticleRadius)),
		overlays:     ui.NewOverlayRegistry(),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(10, 150, 220),
		legend:       ui.NewLegendPanel(10, 150, 220),
		screenWidth:  int32(rl.GetScreenWidth()),
		screenHeight: int32(rl.GetScreenHeight()),
	}
	v.perfPanel = ui.NewPerfPanel(v.screenWidth-270, 16, systems.NewSystemRegistry())
	v.resetCamera()

	m := ctx.Mesh(cfg.Mesh.OpenSpace)
	if err := mesh.Partition(m, cfg.Mesh.MaxVertices, v.meshes); err != nil {
		v.meshes.Unload()
		return nil, fmt.Errorf("uploading mesh: %w", err)
	}
	slog.Info("mesh_uploaded",
		"open_space", cfg.Mesh.OpenSpace,
		"triangles", v.meshes.Triangles(),
		"partitions", v.meshes.Partitions(),
	)

	return v, nil
}

// resetCamera places the camera outside the domain looking at its centre.
func (v *Viewer) resetCamera() {
	size := float32(v.ctx.Domain.Size)
	center := rl.Vector3{X: size / 2, Y: size / 2, Z: size / 2}
	v.camera = rl.Camera3D{
		Position:   rl.Vector3{X: center.X + size*1.2, Y: center.Y + size*0.8, Z: center.Z + size*1.2},
		Target:     center,
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// Update handles input and advances the simulation or playback by one
// frame.
func (v *Viewer) Update() error {
	v.handleInput()

	dt := float64(rl.GetFrameTime())

	if v.player != nil {
		if !v.paused {
			v.playbackTime += dt
			v.player.Frame(v.playbackTime, dt)
		}
		return nil
	}

	if v.paused {
		if v.stepOnce {
			v.stepOnce = false
			return v.sim.Step()
		}
		return nil
	}

	_, err := v.sim.Frame(dt)
	return err
}

// Done reports whether a live simulation has finished its last run.
func (v *Viewer) Done() bool {
	return v.sim != nil && v.sim.Done()
}

// Unload frees GPU resources.
func (v *Viewer) Unload() {
	v.meshes.Unload()
}

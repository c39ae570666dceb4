package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
)

// ColorMode selects how particles are coloured.
type ColorMode uint8

const (
	ColorBySpeed ColorMode = iota // slow red, medium yellow, fast green, fastest blue
	ColorByState                  // free white, aggregated orange
)

var classColors = [components.NumSpeedClasses]rl.Color{
	components.SpeedSlow:    rl.Red,
	components.SpeedMedium:  rl.Yellow,
	components.SpeedFast:    rl.Green,
	components.SpeedFastest: rl.Blue,
}

// ClassColor returns the display colour of a speed class.
func ClassColor(c components.SpeedClass) rl.Color {
	if int(c) < len(classColors) {
		return classColors[c]
	}
	return rl.Magenta
}

// StateColor returns the display colour of an aggregation state.
func StateColor(s components.AggregationState) rl.Color {
	if s == components.Aggregated {
		return rl.Orange
	}
	return rl.RayWhite
}

// ParticleRenderer draws particles as small spheres.
type ParticleRenderer struct {
	Scale  float32 // simulation units -> world units
	Radius float32 // world units
	Mode   ColorMode
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(scale, radius float32) *ParticleRenderer {
	return &ParticleRenderer{Scale: scale, Radius: radius}
}

// Draw renders one simulated particle. Call inside an active 3D mode.
func (r *ParticleRenderer) Draw(pos r3.Vec, p *components.Particle) {
	color := ClassColor(p.Class)
	if r.Mode == ColorByState {
		color = StateColor(p.State)
	}
	r.draw(pos, color)
}

// DrawClass renders a point with a speed class colour, used for playback.
func (r *ParticleRenderer) DrawClass(pos r3.Vec, c components.SpeedClass) {
	r.draw(pos, ClassColor(c))
}

func (r *ParticleRenderer) draw(pos r3.Vec, color rl.Color) {
	center := rl.Vector3{
		X: float32(pos.X) * r.Scale,
		Y: float32(pos.Y) * r.Scale,
		Z: float32(pos.Z) * r.Scale,
	}
	rl.DrawSphereEx(center, r.Radius, 4, 6, color)
}

// DrawDomain draws the wireframe of the cubic simulation domain.
func (r *ParticleRenderer) DrawDomain(size float64) {
	s := float32(size) * r.Scale
	rl.DrawCubeWiresV(rl.Vector3{X: s / 2, Y: s / 2, Z: s / 2}, rl.Vector3{X: s, Y: s, Z: s}, rl.DarkGray)
}

package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
)

// rayHit returns the distance along a unit ray to the first intersection
// with a sphere, or false when the ray misses or the sphere lies behind it.
func rayHit(origin, dir, center r3.Vec, radius float64) (float64, bool) {
	oc := r3.Sub(origin, center)
	b := r3.Dot(oc, dir)
	c := r3.Dot(oc, oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	root := math.Sqrt(disc)
	t := -b - root
	if t < 0 {
		t = -b + root
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// findParticleAtMouse returns the id of the nearest simulated particle under
// the mouse cursor, if any.
func (v *Viewer) findParticleAtMouse() (uint32, bool) {
	if v.sim == nil {
		return 0, false
	}

	ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), v.camera)
	origin := r3.Vec{X: float64(ray.Position.X), Y: float64(ray.Position.Y), Z: float64(ray.Position.Z)}
	dir := r3.Unit(r3.Vec{X: float64(ray.Direction.X), Y: float64(ray.Direction.Y), Z: float64(ray.Direction.Z)})

	// Twice the drawn radius
	radius := 2 * float64(v.particles.Radius)

	var closestID uint32
	closestDist := math.Inf(1)
	found := false

	v.sim.EachParticle(func(pos, _ r3.Vec, p *components.Particle) {
		if t, ok := rayHit(origin, dir, pos, radius); ok && t < closestDist {
			closestDist = t
			closestID = p.ID
			found = true
		}
	})

	return closestID, found
}

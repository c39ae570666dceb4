package components

import "gonum.org/v1/gonum/spatial/r3"

// Position represents a particle's position in lattice units.
type Position struct {
	r3.Vec
}

// Velocity represents a particle's velocity in lattice units per second.
// The transport system writes the target here each step; the physics
// collaborator integrates it.
type Velocity struct {
	r3.Vec
}

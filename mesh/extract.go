package mesh

import (
	"github.com/pthm-cable/seep/lattice"
)

// Voxels is a lattice of filled and empty cells.
type Voxels interface {
	Extent() lattice.Dims
	Filled(i, j, k int) bool
}

// ExtractBoundary emits a face for every side of a filled cell whose
// neighbour is empty or outside the lattice. Interior faces between two
// filled cells are never emitted, so the result encloses each filled region
// exactly once. Cells are visited k-major, then j, then i.
func ExtractBoundary(v Voxels) *Mesh {
	d := v.Extent()
	m := &Mesh{}

	for k := 0; k < d.K; k++ {
		for j := 0; j < d.J; j++ {
			for i := 0; i < d.I; i++ {
				if !v.Filled(i, j, k) {
					continue
				}
				at := Coordinate{X: i, Y: j, Z: k}
				for axis := AxisX; axis <= AxisZ; axis++ {
					for dir := Minus; dir <= Plus; dir++ {
						n := at.Add(neighbourOffset[faceIndex(axis, dir)])
						if d.Contains(n.X, n.Y, n.Z) && v.Filled(n.X, n.Y, n.Z) {
							continue
						}
						AppendFace(m, axis, dir, at)
					}
				}
			}
		}
	}
	return m
}

// OpenSpace selects the pore cells where the fluid flows in -x: not solid
// and with a negative x velocity. Cells outside the velocity lattice count
// as having zero velocity.
type OpenSpace struct {
	Occupancy *lattice.Occupancy
	Velocity  *lattice.Velocity
}

// Extent is the occupancy extent.
func (o OpenSpace) Extent() lattice.Dims { return o.Occupancy.Extent() }

// Filled reports whether (i, j, k) is open space with backward flow.
func (o OpenSpace) Filled(i, j, k int) bool {
	if o.Occupancy.Solid(i, j, k) {
		return false
	}
	if !o.Velocity.Extent().Contains(i, j, k) {
		return false
	}
	return o.Velocity.At(i, j, k).X < 0
}

package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Neighbor is a nearby body with its precomputed squared distance.
type Neighbor struct {
	Index  int
	DistSq float64
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based 3-D grid.
// Entries are indices into a caller-owned position slice.
type SpatialGrid struct {
	cellSize   float64
	nx, ny, nz int
	cells      [][]int
}

// NewSpatialGrid creates a grid covering the cube [0, size] on every axis.
func NewSpatialGrid(size, cellSize float64) *SpatialGrid {
	n := int(size/cellSize) + 1

	cells := make([][]int, n*n*n)
	for i := range cells {
		cells[i] = make([]int, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		nx:       n,
		ny:       n,
		nz:       n,
		cells:    cells,
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds index idx at position p.
func (g *SpatialGrid) Insert(idx int, p r3.Vec) {
	cx, cy, cz := g.cell(p)
	i := g.flat(cx, cy, cz)
	g.cells[i] = append(g.cells[i], idx)
}

// QueryRadiusInto appends every entry within radius of p, other than
// exclude, to dst. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, p r3.Vec, radius float64, positions []r3.Vec, exclude int) []Neighbor {
	reach := int(radius/g.cellSize) + 1
	cx, cy, cz := g.cell(p)
	radiusSq := radius * radius

	for z := max(cz-reach, 0); z <= min(cz+reach, g.nz-1); z++ {
		for y := max(cy-reach, 0); y <= min(cy+reach, g.ny-1); y++ {
			for x := max(cx-reach, 0); x <= min(cx+reach, g.nx-1); x++ {
				for _, idx := range g.cells[g.flat(x, y, z)] {
					if idx == exclude {
						continue
					}
					d := r3.Norm2(r3.Sub(positions[idx], p))
					if d <= radiusSq {
						dst = append(dst, Neighbor{Index: idx, DistSq: d})
					}
				}
			}
		}
	}
	return dst
}

// cell returns the clamped cell coordinates for p.
func (g *SpatialGrid) cell(p r3.Vec) (int, int, int) {
	return clampCell(p.X, g.cellSize, g.nx), clampCell(p.Y, g.cellSize, g.ny), clampCell(p.Z, g.cellSize, g.nz)
}

func (g *SpatialGrid) flat(x, y, z int) int {
	return x + y*g.nx + z*g.nx*g.ny
}

func clampCell(v, cellSize float64, n int) int {
	c := int(math.Floor(v / cellSize))
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

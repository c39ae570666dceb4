// Package lattice holds the voxel lattices the rest of seep works on:
// occupancy intensities, the precomputed fluid velocity field, and recorded
// particle trajectories, together with their text-file loaders.
package lattice

import "fmt"

// Dims is the extent of a lattice along each axis.
type Dims struct {
	I, J, K int
}

// Len returns the number of cells.
func (d Dims) Len() int {
	return d.I * d.J * d.K
}

// Contains reports whether (i, j, k) lies inside the lattice.
func (d Dims) Contains(i, j, k int) bool {
	return i >= 0 && i < d.I && j >= 0 && j < d.J && k >= 0 && k < d.K
}

// Index maps (i, j, k) to a flat index with i varying fastest, then j, then k.
// Out-of-range coordinates are a programming error and panic.
func (d Dims) Index(i, j, k int) int {
	if !d.Contains(i, j, k) {
		panic(fmt.Sprintf("lattice: index (%d, %d, %d) out of range %v", i, j, k, d))
	}
	return i + j*d.I + k*d.I*d.J
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.I, d.J, d.K)
}

// Grid is a fixed-shape 3-D array stored as one contiguous slice.
type Grid[T any] struct {
	dims Dims
	data []T
}

// NewGrid allocates a zero-filled grid.
func NewGrid[T any](d Dims) *Grid[T] {
	if d.I < 0 || d.J < 0 || d.K < 0 {
		panic(fmt.Sprintf("lattice: negative extent %v", d))
	}
	return &Grid[T]{dims: d, data: make([]T, d.Len())}
}

// Dims returns the grid extent.
func (g *Grid[T]) Dims() Dims { return g.dims }

// At returns the value at (i, j, k).
func (g *Grid[T]) At(i, j, k int) T {
	return g.data[g.dims.Index(i, j, k)]
}

// Set stores v at (i, j, k).
func (g *Grid[T]) Set(i, j, k int, v T) {
	g.data[g.dims.Index(i, j, k)] = v
}

// Data exposes the flat backing slice in index order.
func (g *Grid[T]) Data() []T { return g.data }

// Reset zero-fills every cell.
func (g *Grid[T]) Reset() {
	clear(g.data)
}

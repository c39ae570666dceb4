package main

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/lattice"
)

// solidIntensity is written for solid voxels; empty voxels get 0.
const solidIntensity = 10000

// Params controls the generated medium.
type Params struct {
	Seed      int64
	Size      int     // geometry extent per axis
	Frequency float64 // noise frequency per voxel
	Porosity  float64 // target open fraction in [0, 1]
	Speed     float64 // mean +x field sample
	Swirl     float64 // perturbation amplitude relative to Speed
	Particles int     // trajectories to trace
	Frames    int     // frames per trajectory
	FrameDT   float64 // field seconds per frame, in lattice units per sample
}

// Generator produces a porous medium and a flow through it.
type Generator struct {
	p     Params
	solid opensimplex.Noise
	flow  [3]opensimplex.Noise
	occ   *lattice.Occupancy
}

// NewGenerator builds the solid lattice from thresholded noise.
func NewGenerator(p Params) *Generator {
	g := &Generator{
		p:     p,
		solid: opensimplex.NewNormalized(p.Seed),
		flow: [3]opensimplex.Noise{
			opensimplex.NewNormalized(p.Seed + 1),
			opensimplex.NewNormalized(p.Seed + 2),
			opensimplex.NewNormalized(p.Seed + 3),
		},
		occ: lattice.NewOccupancy(lattice.Dims{I: p.Size, J: p.Size, K: p.Size}),
	}

	// Noise values are roughly centred on 0.5, so the porosity maps onto
	// the cutoff linearly.
	for k := 0; k < p.Size; k++ {
		for j := 0; j < p.Size; j++ {
			for i := 0; i < p.Size; i++ {
				n := g.solid.Eval3(float64(i)*p.Frequency, float64(j)*p.Frequency, float64(k)*p.Frequency)
				if n >= p.Porosity {
					g.occ.Intensity.Set(i, j, k, solidIntensity)
				}
			}
		}
	}
	return g
}

// Occupancy returns the generated solid lattice.
func (g *Generator) Occupancy() *lattice.Occupancy { return g.occ }

// VelocityExtent is Size+1 per axis, so a domain of Size is fully covered.
func (g *Generator) VelocityExtent() lattice.Dims {
	n := g.p.Size + 1
	return lattice.Dims{I: n, J: n, K: n}
}

// Velocity returns the field sample at lattice point (x, y, z): a +x base
// flow perturbed by noise, zero inside solid voxels.
func (g *Generator) Velocity(x, y, z int) r3.Vec {
	if g.occ.SolidAt(x, y, z) {
		return r3.Vec{}
	}
	f := g.p.Frequency
	amp := g.p.Speed * g.p.Swirl
	px, py, pz := float64(x)*f, float64(y)*f, float64(z)*f
	return r3.Vec{
		X: g.p.Speed + amp*(2*g.flow[0].Eval3(px, py, pz)-1),
		Y: amp * (2*g.flow[1].Eval3(px, py, pz) - 1),
		Z: amp * (2*g.flow[2].Eval3(px, py, pz) - 1),
	}
}

// WriteGeometry writes the solid lattice in the geometry file format:
// VARIABLES line, ZONE extents, then "i k j intensity intensity2" records.
func (g *Generator) WriteGeometry(w io.Writer) error {
	d := g.occ.Extent()
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, `VARIABLES = "X [lu]", "Y [lu]", "Z [lu]", "Intensity", "Intensity2"`)
	fmt.Fprintf(bw, "ZONE, i = %d, j = %d, k = %d, F=POINT, STRANDID=0\n", d.I, d.K, d.J)
	for k := 0; k < d.K; k++ {
		for j := 0; j < d.J; j++ {
			for i := 0; i < d.I; i++ {
				v := g.occ.Intensity.At(i, j, k)
				fmt.Fprintf(bw, "%d %d %d %g %g\n", i+1, k+1, j+1, v, v)
			}
		}
	}
	return bw.Flush()
}

// WriteVelocity writes the field as "x z y vx vz vy magnitude" records.
func (g *Generator) WriteVelocity(w io.Writer) error {
	d := g.VelocityExtent()
	bw := bufio.NewWriter(w)
	for z := 0; z < d.K; z++ {
		for y := 0; y < d.J; y++ {
			for x := 0; x < d.I; x++ {
				v := g.Velocity(x, y, z)
				fmt.Fprintf(bw, "%d %d %d %g %g %g %g\n", x+1, z+1, y+1, v.X, v.Z, v.Y, r3.Norm(v))
			}
		}
	}
	return bw.Flush()
}

// Trace advects particles from the x=1 plane through the field with Euler
// steps and returns their frames. Positions leaving the domain are held at
// the last inside position.
func (g *Generator) Trace(start []r3.Vec) [][]r3.Vec {
	limit := float64(g.p.Size)
	paths := make([][]r3.Vec, len(start))
	for n, pos := range start {
		frames := make([]r3.Vec, 0, g.p.Frames)
		for f := 0; f < g.p.Frames; f++ {
			frames = append(frames, pos)
			v := g.Velocity(int(math.Floor(pos.X)), int(math.Floor(pos.Y)), int(math.Floor(pos.Z)))
			next := r3.Add(pos, r3.Scale(g.p.FrameDT, v))
			if next.X >= 0 && next.X < limit && next.Y >= 0 && next.Y < limit && next.Z >= 0 && next.Z < limit {
				pos = next
			}
		}
		paths[n] = frames
	}
	return paths
}

// WriteTrajectories writes paths as "id x z y" records with 1-based ids.
func WriteTrajectories(w io.Writer, paths [][]r3.Vec) error {
	bw := bufio.NewWriter(w)
	for n, frames := range paths {
		for _, p := range frames {
			fmt.Fprintf(bw, "%d %g %g %g\n", n+1, p.X, p.Z, p.Y)
		}
	}
	return bw.Flush()
}

package main

import (
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/lattice"
	"github.com/pthm-cable/seep/systems"
)

// Axis is the lattice axis a slice is taken across.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// Source selects what a slice shows.
type Source int

const (
	SourceGeometry Source = iota // solid 1, open 0
	SourceSpeed                  // |v| normalized by the field maximum
	SourceClass                  // speed class, drawn with class colours
)

func (s Source) String() string {
	return [...]string{"geometry", "speed", "class"}[s]
}

// Plane is one 2D cut through a lattice, row-major with width W.
type Plane struct {
	W, H   int
	Values []float32
}

// planeDims returns the width, height and depth of slices across axis.
func planeDims(d lattice.Dims, axis Axis) (w, h, depth int) {
	switch axis {
	case AxisX:
		return d.J, d.K, d.I
	case AxisY:
		return d.I, d.K, d.J
	default:
		return d.I, d.J, d.K
	}
}

// cell maps plane coordinates (u, v) at depth index to lattice (i, j, k).
func cell(axis Axis, u, v, index int) (i, j, k int) {
	switch axis {
	case AxisX:
		return index, u, v
	case AxisY:
		return u, index, v
	default:
		return u, v, index
	}
}

// sample fills a plane by evaluating fn at every cell of the slice. The
// index is clamped to the lattice depth.
func sample(d lattice.Dims, axis Axis, index int, fn func(i, j, k int) float32) Plane {
	w, h, depth := planeDims(d, axis)
	index = max(0, min(index, depth-1))
	p := Plane{W: w, H: h, Values: make([]float32, w*h)}
	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			i, j, k := cell(axis, u, v, index)
			p.Values[v*w+u] = fn(i, j, k)
		}
	}
	return p
}

// GeometrySlice cuts the occupancy lattice using its current cutoff.
func GeometrySlice(occ *lattice.Occupancy, axis Axis, index int) Plane {
	return sample(occ.Extent(), axis, index, func(i, j, k int) float32 {
		if occ.Solid(i, j, k) {
			return 1
		}
		return 0
	})
}

// SpeedSlice cuts the velocity field, normalized to [0, 1] by the largest
// loaded magnitude.
func SpeedSlice(vel *lattice.Velocity, axis Axis, index int) Plane {
	peak := 0.0
	if len(vel.Magnitudes) > 0 {
		peak = floats.Max(vel.Magnitudes)
	}
	return sample(vel.Extent(), axis, index, func(i, j, k int) float32 {
		if peak == 0 {
			return 0
		}
		return float32(min(r3.Norm(vel.At(i, j, k))/peak, 1))
	})
}

// ClassSlice cuts the velocity field and stores the speed class a particle
// would get in each cell, with samples multiplied by scale.
func ClassSlice(vel *lattice.Velocity, t systems.Thresholds, scale float64, axis Axis, index int) Plane {
	return sample(vel.Extent(), axis, index, func(i, j, k int) float32 {
		return float32(t.Classify(r3.Norm2(r3.Scale(scale, vel.At(i, j, k)))))
	})
}

// gradient maps v in [0, 1]: dark blue, cyan, yellow-green, white.
func gradient(v float32) color.RGBA {
	v = max(0, min(v, 1))
	var r, g, b float32
	switch {
	case v < 0.25:
		t := v / 0.25
		r, g, b = 10+t*30, 20+t*60, 60+t*100
	case v < 0.5:
		t := (v - 0.25) / 0.25
		r, g, b = 40+t*20, 80+t*120, 160+t*40
	case v < 0.75:
		t := (v - 0.5) / 0.25
		r, g, b = 60+t*140, 200-t*40, 200-t*150
	default:
		t := (v - 0.75) / 0.25
		r, g, b = 200+t*55, 160+t*95, 50+t*205
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

var (
	solidColor = color.RGBA{R: 150, G: 140, B: 125, A: 255}
	openColor  = color.RGBA{R: 20, G: 24, B: 32, A: 255}
)

// Pixels converts a plane to RGBA for texture upload.
func Pixels(p Plane, src Source, classColors [components.NumSpeedClasses]color.RGBA) []color.RGBA {
	out := make([]color.RGBA, len(p.Values))
	for n, v := range p.Values {
		switch src {
		case SourceGeometry:
			if v > 0 {
				out[n] = solidColor
			} else {
				out[n] = openColor
			}
		case SourceClass:
			out[n] = classColors[int(v)%components.NumSpeedClasses]
		default:
			out[n] = gradient(v)
		}
	}
	return out
}

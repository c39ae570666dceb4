package main

import (
	"image/color"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/lattice"
	"github.com/pthm-cable/seep/systems"
)

func TestPlaneDims(t *testing.T) {
	d := lattice.Dims{I: 2, J: 3, K: 4}
	tests := []struct {
		axis        Axis
		w, h, depth int
	}{
		{AxisX, 3, 4, 2},
		{AxisY, 2, 4, 3},
		{AxisZ, 2, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			w, h, n := planeDims(d, tt.axis)
			if w != tt.w || h != tt.h || n != tt.depth {
				t.Errorf("planeDims = (%d,%d,%d), want (%d,%d,%d)", w, h, n, tt.w, tt.h, tt.depth)
			}
		})
	}
}

func TestGeometrySlice(t *testing.T) {
	occ := lattice.NewOccupancy(lattice.Dims{I: 3, J: 3, K: 3})
	occ.Intensity.Set(1, 2, 0, 10000)

	p := GeometrySlice(occ, AxisZ, 0)
	if p.W != 3 || p.H != 3 {
		t.Fatalf("plane = %dx%d, want 3x3", p.W, p.H)
	}
	if p.Values[2*3+1] != 1 {
		t.Errorf("solid cell not set")
	}

	// Raising the cutoff opens the voxel.
	occ.Cutoff = 20000
	p = GeometrySlice(occ, AxisZ, 0)
	if p.Values[2*3+1] != 0 {
		t.Errorf("cell should be open above cutoff")
	}

	// Out-of-range index clamps to the last slice.
	p = GeometrySlice(occ, AxisX, 99)
	if len(p.Values) != 9 {
		t.Errorf("clamped plane has %d values, want 9", len(p.Values))
	}
}

func TestSpeedAndClassSlice(t *testing.T) {
	vel := lattice.NewVelocity(lattice.Dims{I: 2, J: 2, K: 1})
	vel.Field.Set(0, 0, 0, r3.Vec{X: 1})
	vel.Field.Set(1, 0, 0, r3.Vec{X: 4})
	vel.Magnitudes = []float64{1, 4}

	p := SpeedSlice(vel, AxisZ, 0)
	if p.Values[0] != 0.25 || p.Values[1] != 1 || p.Values[2] != 0 {
		t.Errorf("speed values = %v", p.Values)
	}

	th := systems.Thresholds{0.5, 2, 9}
	p = ClassSlice(vel, th, 1, AxisZ, 0)
	if components.SpeedClass(p.Values[0]) != th.Classify(1) {
		t.Errorf("class of |v|=1 = %v, want %v", p.Values[0], th.Classify(1))
	}
	if components.SpeedClass(p.Values[1]) != th.Classify(16) {
		t.Errorf("class of |v|=4 = %v, want %v", p.Values[1], th.Classify(16))
	}

	// Scaled by 2, |v|=1 becomes |v|^2=4.
	p = ClassSlice(vel, th, 2, AxisZ, 0)
	if got := components.SpeedClass(p.Values[0]); got != components.SpeedFast {
		t.Errorf("scaled class of |v|=1 = %v, want %v", got, components.SpeedFast)
	}
}

func TestSpeedSliceEmptyField(t *testing.T) {
	vel := lattice.NewVelocity(lattice.Dims{I: 2, J: 2, K: 2})
	p := SpeedSlice(vel, AxisY, 1)
	for _, v := range p.Values {
		if v != 0 {
			t.Fatalf("empty field produced %v", v)
		}
	}
}

func TestPixels(t *testing.T) {
	var classes [components.NumSpeedClasses]color.RGBA
	classes[2] = color.RGBA{G: 255, A: 255}

	px := Pixels(Plane{W: 2, H: 1, Values: []float32{0, 1}}, SourceGeometry, classes)
	if px[0] != openColor || px[1] != solidColor {
		t.Errorf("geometry pixels = %v", px)
	}

	px = Pixels(Plane{W: 1, H: 1, Values: []float32{2}}, SourceClass, classes)
	if px[0] != classes[2] {
		t.Errorf("class pixel = %v, want %v", px[0], classes[2])
	}

	lo := gradient(0)
	hi := gradient(1)
	if lo.B >= hi.B || hi.R != 255 {
		t.Errorf("gradient endpoints = %v, %v", lo, hi)
	}
}

package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/lattice"
)

func TestSampleVelocityFloors(t *testing.T) {
	vel := lattice.NewVelocity(lattice.Dims{I: 3, J: 3, K: 3})
	vel.Field.Set(1, 2, 0, r3.Vec{X: 4, Y: 5, Z: 6})

	got := SampleVelocity(vel, r3.Vec{X: 1.99, Y: 2.0, Z: 0.5})
	if got != (r3.Vec{X: 4, Y: 5, Z: 6}) {
		t.Errorf("SampleVelocity = %v, want (4,5,6)", got)
	}
}

func TestCheckCoverage(t *testing.T) {
	d := Domain{Size: 200}
	if err := CheckCoverage(lattice.NewVelocity(lattice.DefaultVelocityDims), d); err != nil {
		t.Errorf("201^3 should cover size 200: %v", err)
	}
	if err := CheckCoverage(lattice.NewVelocity(lattice.Dims{I: 201, J: 200, K: 201}), d); err == nil {
		t.Error("200 on one axis should not cover the wrapped value 200")
	}
}

func TestClassifyHalfOpen(t *testing.T) {
	th := ThresholdsFromQuartiles(lattice.Quartiles{Q1: 1, Median: 2, Q3: 3})
	if th != (Thresholds{1, 4, 9}) {
		t.Fatalf("thresholds = %v, want squared quartiles", th)
	}

	tests := []struct {
		speedSq float64
		want    components.SpeedClass
	}{
		{0, components.SpeedSlow},
		{0.999, components.SpeedSlow},
		{1, components.SpeedMedium},
		{3.99, components.SpeedMedium},
		{4, components.SpeedFast},
		{8.99, components.SpeedFast},
		{9, components.SpeedFastest},
		{1e9, components.SpeedFastest},
	}
	for _, tc := range tests {
		if got := th.Classify(tc.speedSq); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.speedSq, got, tc.want)
		}
	}
}

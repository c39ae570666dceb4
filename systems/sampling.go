package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/lattice"
)

// VelocityField is a velocity lattice sampled at integer points.
type VelocityField interface {
	Extent() lattice.Dims
	At(x, y, z int) r3.Vec
}

// SampleVelocity returns the field sample at floor(p) on every axis.
func SampleVelocity(field VelocityField, p r3.Vec) r3.Vec {
	return field.At(int(math.Floor(p.X)), int(math.Floor(p.Y)), int(math.Floor(p.Z)))
}

// CheckCoverage verifies every position a particle can occupy, including
// the wrapped value Size itself, floors to a valid field index.
func CheckCoverage(field VelocityField, d Domain) error {
	need := int(math.Floor(d.Size)) + 1
	ext := field.Extent()
	if ext.I < need || ext.J < need || ext.K < need {
		return fmt.Errorf("velocity lattice %v does not cover domain size %g (need %d per axis)", ext, d.Size, need)
	}
	return nil
}

// Thresholds are the squared speed quartiles separating the four classes.
type Thresholds [3]float64

// ThresholdsFromQuartiles squares each quartile.
func ThresholdsFromQuartiles(q lattice.Quartiles) Thresholds {
	return Thresholds{q.Q1 * q.Q1, q.Median * q.Median, q.Q3 * q.Q3}
}

// Classify buckets a squared speed: [0,t1), [t1,t2), [t2,t3), [t3,inf).
func (t Thresholds) Classify(speedSq float64) components.SpeedClass {
	switch {
	case speedSq < t[0]:
		return components.SpeedSlow
	case speedSq < t[1]:
		return components.SpeedMedium
	case speedSq < t[2]:
		return components.SpeedFast
	default:
		return components.SpeedFastest
	}
}

package systems

import "gonum.org/v1/gonum/spatial/r3"

// BoundsPolicy decides what happens to a particle that leaves the domain.
type BoundsPolicy uint8

const (
	// Wrap moves the coordinate to the opposite face.
	Wrap BoundsPolicy = iota
	// Destroy removes the particle.
	Destroy
)

// Domain is the cubic volume [0, Size) on every axis.
type Domain struct {
	Size float64
}

// Contains reports whether p is inside the domain.
func (d Domain) Contains(p r3.Vec) bool {
	return inRange(p.X, d.Size) && inRange(p.Y, d.Size) && inRange(p.Z, d.Size)
}

func inRange(v, size float64) bool { return v >= 0 && v < size }

// Apply checks all three axes and reports whether any coordinate was outside.
// Under Wrap, a coordinate below zero becomes Size and one at or above Size
// becomes zero; a coordinate set to Size is caught again on the next step.
// Under Destroy, p is left untouched.
func (d Domain) Apply(p *r3.Vec, policy BoundsPolicy) bool {
	out := false
	for _, v := range []*float64{&p.X, &p.Y, &p.Z} {
		switch {
		case *v < 0:
			out = true
			if policy == Wrap {
				*v = d.Size
			}
		case *v >= d.Size:
			out = true
			if policy == Wrap {
				*v = 0
			}
		}
	}
	return out
}

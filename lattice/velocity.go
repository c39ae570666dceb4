package lattice

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultVelocityDims is the velocity lattice extent used when none is configured.
var DefaultVelocityDims = Dims{I: 201, J: 201, K: 201}

// Velocity is the precomputed fluid velocity field. Magnitudes holds one
// entry per parsed record, not per cell, and is the population the speed
// quartiles are computed from.
type Velocity struct {
	Field      *Grid[r3.Vec]
	Magnitudes []float64

	// Skipped counts records whose coordinates fell outside Field. Their
	// magnitude is still in Magnitudes.
	Skipped int
}

// NewVelocity allocates an all-zero velocity field.
func NewVelocity(d Dims) *Velocity {
	return &Velocity{Field: NewGrid[r3.Vec](d)}
}

// Extent returns the lattice dimensions.
func (v *Velocity) Extent() Dims { return v.Field.Dims() }

// At returns the velocity sample at (x, y, z). Panics out of range.
func (v *Velocity) At(x, y, z int) r3.Vec {
	return v.Field.At(x, y, z)
}

// Quartiles summarizes the loaded magnitudes.
func (v *Velocity) Quartiles() Quartiles {
	return ComputeQuartiles(v.Magnitudes)
}

// LoadVelocityFile reads a velocity file from disk.
func LoadVelocityFile(path string, d Dims) (*Velocity, error) {
	return loadFile(path, func(r io.Reader) (*Velocity, error) {
		return LoadVelocity(r, d)
	})
}

// LoadVelocity reads "x z y vx vz vy magnitude" records (1-based lattice
// coordinates, file columns as written by the flow solver) into a field of
// extent d.
func LoadVelocity(r io.Reader, d Dims) (*Velocity, error) {
	vel := NewVelocity(d)
	err := scanRecords(r, func(lineNo int, line string) error {
		return vel.loadRecord(lineNo, line)
	})
	if err != nil {
		return nil, err
	}
	return vel, nil
}

func (v *Velocity) loadRecord(lineNo int, line string) error {
	rec, err := newRecord(lineNo, line, 7)
	if err != nil {
		return err
	}

	x, err := rec.index(0, "x")
	if err != nil {
		return err
	}
	y, err := rec.index(2, "y")
	if err != nil {
		return err
	}
	z, err := rec.index(1, "z")
	if err != nil {
		return err
	}

	var s r3.Vec
	if s.X, err = rec.float(3, "vx"); err != nil {
		return err
	}
	if s.Y, err = rec.float(5, "vy"); err != nil {
		return err
	}
	if s.Z, err = rec.float(4, "vz"); err != nil {
		return err
	}
	mag, err := rec.float(6, "magnitude")
	if err != nil {
		return err
	}

	if v.Extent().Contains(x, y, z) {
		v.Field.Set(x, y, z, s)
	} else {
		v.Skipped++
	}
	v.Magnitudes = append(v.Magnitudes, mag)
	return nil
}

package lattice

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pthm-cable/seep/textrec"
)

// SolidCutoff is the intensity at or above which a voxel is solid.
const SolidCutoff = 7500.0

// Header token offsets after ',' and '=' are blanked out of
// "ZONE, i = 50, j = 100, k = 100, ...". The file's j extent sits where kMax
// is read from and its k extent where jMax is read from; data lines carry the
// same j/k swap, so the two cancel out for consistently written files.
const (
	headerLine = 2
	headerTokI = 2
	headerTokK = 4
	headerTokJ = 6
)

// Occupancy is the geometry lattice: two intensity channels per voxel.
// Only Intensity decides solidity; Intensity2 is carried for completeness.
type Occupancy struct {
	Intensity  *Grid[float32]
	Intensity2 *Grid[float32]
	Cutoff     float32
}

// NewOccupancy allocates an all-empty occupancy lattice.
func NewOccupancy(d Dims) *Occupancy {
	return &Occupancy{
		Intensity:  NewGrid[float32](d),
		Intensity2: NewGrid[float32](d),
		Cutoff:     SolidCutoff,
	}
}

// SetCutoff overrides the solid cutoff. Non-positive values keep the
// current one.
func (o *Occupancy) SetCutoff(c float64) {
	if c > 0 {
		o.Cutoff = float32(c)
	}
}

// Extent returns the lattice dimensions.
func (o *Occupancy) Extent() Dims { return o.Intensity.Dims() }

// Solid reports whether the voxel at (i, j, k) is solid. Panics out of range.
func (o *Occupancy) Solid(i, j, k int) bool {
	return o.Intensity.At(i, j, k) >= o.Cutoff
}

// SolidAt is Solid with cells outside the lattice treated as open.
func (o *Occupancy) SolidAt(i, j, k int) bool {
	if !o.Extent().Contains(i, j, k) {
		return false
	}
	return o.Solid(i, j, k)
}

// Filled makes Occupancy usable directly as a mesh voxel source.
func (o *Occupancy) Filled(i, j, k int) bool { return o.Solid(i, j, k) }

// CountSolid returns the number of solid voxels.
func (o *Occupancy) CountSolid() int {
	n := 0
	for _, v := range o.Intensity.Data() {
		if v >= o.Cutoff {
			n++
		}
	}
	return n
}

// LoadOccupancyFile reads a geometry file from disk.
func LoadOccupancyFile(path string) (*Occupancy, error) {
	return loadFile(path, LoadOccupancy)
}

// LoadOccupancy reads a geometry file: a VARIABLES line (ignored), a ZONE
// line carrying the extents, then "i k j intensity intensity2" records with
// 1-based coordinates. Cells without a record stay zero.
func LoadOccupancy(r io.Reader) (*Occupancy, error) {
	var occ *Occupancy
	err := scanRecords(r, func(lineNo int, line string) error {
		switch {
		case lineNo < headerLine:
			return nil
		case lineNo == headerLine:
			d, err := parseExtents(lineNo, line)
			if err != nil {
				return err
			}
			occ = NewOccupancy(d)
			return nil
		}
		return occ.loadRecord(lineNo, line)
	})
	if err != nil {
		return nil, err
	}
	if occ == nil {
		return nil, &HeaderError{Line: headerLine, Detail: "missing extents header"}
	}
	return occ, nil
}

func parseExtents(lineNo int, line string) (Dims, error) {
	normalized := strings.NewReplacer(",", " ", "=", " ").Replace(line)
	tokens := textrec.Fields(normalized)

	extent := func(pos int, axis string) (int, error) {
		if pos >= len(tokens) {
			return 0, &HeaderError{Line: lineNo, Raw: line,
				Detail: fmt.Sprintf("no %s extent at token %d", axis, pos)}
		}
		n, err := strconv.Atoi(tokens[pos])
		if err != nil {
			return 0, &HeaderError{Line: lineNo, Raw: line,
				Detail: fmt.Sprintf("bad %s extent %q", axis, tokens[pos]), Err: err}
		}
		if n <= 0 {
			return 0, &HeaderError{Line: lineNo, Raw: line,
				Detail: fmt.Sprintf("%s extent must be positive, got %d", axis, n)}
		}
		return n, nil
	}

	var d Dims
	var err error
	if d.I, err = extent(headerTokI, "i"); err != nil {
		return Dims{}, err
	}
	if d.J, err = extent(headerTokJ, "j"); err != nil {
		return Dims{}, err
	}
	if d.K, err = extent(headerTokK, "k"); err != nil {
		return Dims{}, err
	}
	return d, nil
}

func (o *Occupancy) loadRecord(lineNo int, line string) error {
	rec, err := newRecord(lineNo, line, 5)
	if err != nil {
		return err
	}

	i, err := rec.index(0, "i")
	if err != nil {
		return err
	}
	j, err := rec.index(2, "j")
	if err != nil {
		return err
	}
	k, err := rec.index(1, "k")
	if err != nil {
		return err
	}

	d := o.Extent()
	if err := rec.checkAxis("i", i, d.I); err != nil {
		return err
	}
	if err := rec.checkAxis("j", j, d.J); err != nil {
		return err
	}
	if err := rec.checkAxis("k", k, d.K); err != nil {
		return err
	}

	v1, err := rec.float(3, "intensity")
	if err != nil {
		return err
	}
	v2, err := rec.float(4, "intensity2")
	if err != nil {
		return err
	}

	o.Intensity.Set(i, j, k, float32(v1))
	o.Intensity2.Set(i, j, k, float32(v2))
	return nil
}

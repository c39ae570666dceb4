package lattice

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const geometryHeader = `VARIABLES = "X [lu]", "Y [lu]", "Z [lu]", "Intensity", "Intensity2"
ZONE, i = 2, j = 3, k = 4, F=POINT, STRANDID=0
`

func TestDimsIndex(t *testing.T) {
	d := Dims{I: 3, J: 4, K: 5}
	assert.Equal(t, 60, d.Len())
	assert.Equal(t, 0, d.Index(0, 0, 0))
	assert.Equal(t, 2, d.Index(2, 0, 0))
	assert.Equal(t, 3, d.Index(0, 1, 0))
	assert.Equal(t, 12, d.Index(0, 0, 1))
	assert.Equal(t, 59, d.Index(2, 3, 4))

	// Every cell maps to a distinct flat index.
	seen := make(map[int]bool)
	for k := 0; k < d.K; k++ {
		for j := 0; j < d.J; j++ {
			for i := 0; i < d.I; i++ {
				seen[d.Index(i, j, k)] = true
			}
		}
	}
	assert.Len(t, seen, d.Len())
}

func TestDimsIndexPanicsOutOfRange(t *testing.T) {
	d := Dims{I: 2, J: 2, K: 2}
	assert.Panics(t, func() { d.Index(2, 0, 0) })
	assert.Panics(t, func() { d.Index(0, -1, 0) })
	assert.Panics(t, func() { d.Index(0, 0, 2) })
	assert.False(t, d.Contains(0, 0, 2))
	assert.True(t, d.Contains(1, 1, 1))
}

func TestGridSetAtReset(t *testing.T) {
	g := NewGrid[float32](Dims{I: 2, J: 3, K: 4})
	g.Set(1, 2, 3, 9)
	assert.Equal(t, float32(9), g.At(1, 2, 3))
	assert.Equal(t, float32(9), g.Data()[len(g.Data())-1])

	g.Reset()
	assert.Equal(t, float32(0), g.At(1, 2, 3))
}

func TestLoadOccupancyExtentsAndValues(t *testing.T) {
	input := geometryHeader +
		"1 1 1 7500 1\n" +
		"2 3 4 8000 2.5\n" +
		"1 2 1 7499.9 0\n"

	occ, err := LoadOccupancy(strings.NewReader(input))
	require.NoError(t, err)

	// Header j and k land transposed.
	assert.Equal(t, Dims{I: 2, J: 4, K: 3}, occ.Extent())

	assert.True(t, occ.Solid(0, 0, 0), "cutoff is inclusive")
	assert.Equal(t, float32(8000), occ.Intensity.At(1, 3, 2))
	assert.Equal(t, float32(2.5), occ.Intensity2.At(1, 3, 2))
	assert.True(t, occ.Solid(1, 3, 2))
	assert.False(t, occ.Solid(0, 0, 1), "7499.9 is below the cutoff")
	assert.False(t, occ.Solid(1, 1, 1), "cells without a record are empty")
	assert.Equal(t, 2, occ.CountSolid())
}

func TestLoadOccupancyHeaderSpacing(t *testing.T) {
	for _, zone := range []string{
		"ZONE, i=5, j=6, k=7",
		"ZONE, i= 5, j= 6, k= 7",
		"ZONE, i =   5, j =   6, k =   7, F=POINT",
	} {
		t.Run(zone, func(t *testing.T) {
			occ, err := LoadOccupancy(strings.NewReader("VARIABLES\n" + zone + "\n"))
			require.NoError(t, err)
			assert.Equal(t, Dims{I: 5, J: 7, K: 6}, occ.Extent())
		})
	}
}

func TestLoadOccupancyHeaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"only variables line", "VARIABLES\n"},
		{"short zone line", "VARIABLES\nZONE, i = 2\n"},
		{"non numeric extent", "VARIABLES\nZONE, i = two, j = 3, k = 4\n"},
		{"zero extent", "VARIABLES\nZONE, i = 0, j = 3, k = 4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ, err := LoadOccupancy(strings.NewReader(tt.input))
			assert.Nil(t, occ)
			var he *HeaderError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, 2, he.Line)
		})
	}
}

func TestLoadOccupancyRecordErrors(t *testing.T) {
	t.Run("too few tokens", func(t *testing.T) {
		_, err := LoadOccupancy(strings.NewReader(geometryHeader + "1 1 1 7500 1\n1 1 1 7500\n"))
		var re *RecordError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, 4, re.Line)
		assert.Equal(t, "1 1 1 7500", re.Raw)
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := LoadOccupancy(strings.NewReader(geometryHeader + "1 1 1 lots 1\n"))
		var re *RecordError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, 3, re.Line)
	})

	t.Run("i out of range", func(t *testing.T) {
		_, err := LoadOccupancy(strings.NewReader(geometryHeader + "3 1 1 7500 1\n"))
		var re *RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, RangeError{Line: 3, Raw: "3 1 1 7500 1", Axis: "i", Value: 2, Bound: 2}, *re)
		assert.Contains(t, err.Error(), `"3 1 1 7500 1"`)
	})

	t.Run("zero coordinate", func(t *testing.T) {
		_, err := LoadOccupancy(strings.NewReader(geometryHeader + "1 1 0 7500 1\n"))
		var re *RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "j", re.Axis)
		assert.Equal(t, -1, re.Value)
	})

	t.Run("k bound uses second column", func(t *testing.T) {
		_, err := LoadOccupancy(strings.NewReader(geometryHeader + "1 4 1 7500 1\n"))
		var re *RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "k", re.Axis)
		assert.Equal(t, 3, re.Bound)
	})
}

func TestSolidAtOutsideIsOpen(t *testing.T) {
	occ := NewOccupancy(Dims{I: 1, J: 1, K: 1})
	occ.Intensity.Set(0, 0, 0, 9000)
	assert.True(t, occ.SolidAt(0, 0, 0))
	assert.False(t, occ.SolidAt(1, 0, 0))
	assert.False(t, occ.SolidAt(0, -1, 0))
}

func TestSetCutoff(t *testing.T) {
	occ := NewOccupancy(Dims{I: 2, J: 1, K: 1})
	occ.Intensity.Set(1, 0, 0, 9000)

	occ.SetCutoff(0)
	assert.Equal(t, float32(SolidCutoff), occ.Cutoff)
	assert.Equal(t, 1, occ.CountSolid())

	occ.SetCutoff(-5)
	assert.Equal(t, 1, occ.CountSolid())

	occ.SetCutoff(9500)
	assert.Equal(t, 0, occ.CountSolid())
}

func TestLoadVelocity(t *testing.T) {
	input := "1 1 1 0.5 0.25 -0.5 0.8\n" +
		"2 3 1 -1 2 3 3.7\n" +
		"9 9 9 1 1 1 1.7\n"

	vel, err := LoadVelocity(strings.NewReader(input), Dims{I: 2, J: 2, K: 3})
	require.NoError(t, err)

	// Columns: x z y vx vz vy magnitude.
	assert.Equal(t, r3.Vec{X: 0.5, Y: -0.5, Z: 0.25}, vel.At(0, 0, 0))
	assert.Equal(t, r3.Vec{X: -1, Y: 3, Z: 2}, vel.At(1, 0, 2))
	assert.Equal(t, r3.Vec{}, vel.At(1, 1, 1))

	// The out-of-lattice row still contributes its magnitude.
	assert.Equal(t, []float64{0.8, 3.7, 1.7}, vel.Magnitudes)
	assert.Equal(t, 1, vel.Skipped)
}

func TestLoadVelocityRecordErrors(t *testing.T) {
	_, err := LoadVelocity(strings.NewReader("1 1 1 0.5 0.25 -0.5\n"), DefaultVelocityDims)
	var re *RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Line)

	_, err = LoadVelocity(strings.NewReader("1 1 1 0.5 nan? -0.5 1\n"), DefaultVelocityDims)
	require.ErrorAs(t, err, &re)
}

func TestLoadRejectsNonFinite(t *testing.T) {
	for _, tok := range []string{"NaN", "nan", "Inf", "-Inf", "+infinity", "1e999"} {
		t.Run(tok, func(t *testing.T) {
			line := "1 1 1 " + tok + " 0 0 1"
			_, err := LoadVelocity(strings.NewReader("1 1 1 0 0 0 1\n"+line+"\n"), DefaultVelocityDims)
			var re *RecordError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, 2, re.Line)
			assert.Equal(t, line, re.Raw)

			_, err = LoadOccupancy(strings.NewReader(geometryHeader + "1 1 1 " + tok + " 1\n"))
			require.ErrorAs(t, err, &re)
			assert.Equal(t, 3, re.Line)
		})
	}
}

func TestVelocityQuartiles(t *testing.T) {
	vel := NewVelocity(Dims{I: 1, J: 1, K: 1})
	vel.Magnitudes = []float64{9, 1, 8, 2, 7, 3, 6, 4, 5}

	q := vel.Quartiles()
	assert.Equal(t, Quartiles{Q1: 3, Median: 5, Q3: 7}, q)
	assert.Equal(t, 9.0, vel.Magnitudes[0], "input order is preserved")

	assert.Equal(t, Quartiles{}, ComputeQuartiles(nil))
}

func TestLoadTrajectories(t *testing.T) {
	input := "7 1 2 3\n" +
		"3 0 0 0\n" +
		"7 4 5 6\n"

	tr, err := LoadTrajectories(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, []int{3, 7}, tr.IDs())

	frames, ok := tr.Frames(7)
	require.True(t, ok)
	// Columns: id x z y.
	assert.Equal(t, []r3.Vec{{X: 1, Y: 3, Z: 2}, {X: 4, Y: 6, Z: 5}}, frames)

	_, ok = tr.Frames(99)
	assert.False(t, ok)
}

func TestLoadTrajectoriesErrors(t *testing.T) {
	_, err := LoadTrajectories(strings.NewReader("1 2 3\n"))
	var re *RecordError
	require.ErrorAs(t, err, &re)

	_, err = LoadTrajectories(strings.NewReader("x 2 3 4\n"))
	require.ErrorAs(t, err, &re)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadOccupancyFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	path := filepath.Join(t.TempDir(), "geometry.txt")
	require.NoError(t, os.WriteFile(path, []byte(geometryHeader+"1 1 1 9000 0\n"), 0644))
	occ, err := LoadOccupancyFile(path)
	require.NoError(t, err)
	assert.True(t, occ.Solid(0, 0, 0))
}

package lattice

import (
	"io"
	"maps"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

// Trajectories maps a particle id to its recorded positions in file order.
type Trajectories struct {
	frames map[int][]r3.Vec
}

// Frames returns the recorded positions of particle id.
func (t *Trajectories) Frames(id int) ([]r3.Vec, bool) {
	f, ok := t.frames[id]
	return f, ok
}

// IDs returns every particle id in ascending order.
func (t *Trajectories) IDs() []int {
	return slices.Sorted(maps.Keys(t.frames))
}

// Len returns the number of particles.
func (t *Trajectories) Len() int { return len(t.frames) }

// LoadTrajectoriesFile reads a trajectory file from disk.
func LoadTrajectoriesFile(path string) (*Trajectories, error) {
	return loadFile(path, LoadTrajectories)
}

// LoadTrajectories reads "id x z y" records.
func LoadTrajectories(r io.Reader) (*Trajectories, error) {
	t := &Trajectories{frames: make(map[int][]r3.Vec)}
	err := scanRecords(r, func(lineNo int, line string) error {
		rec, err := newRecord(lineNo, line, 4)
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(rec.tokens[0])
		if err != nil {
			return rec.fail("bad id token "+strconv.Quote(rec.tokens[0]), err)
		}

		var p r3.Vec
		if p.X, err = rec.float(1, "x"); err != nil {
			return err
		}
		if p.Y, err = rec.float(3, "y"); err != nil {
			return err
		}
		if p.Z, err = rec.float(2, "z"); err != nil {
			return err
		}
		t.frames[id] = append(t.frames[id], p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

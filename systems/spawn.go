package systems

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrSpawnStarved is returned when a capped spawner runs out of attempts.
var ErrSpawnStarved = errors.New("systems: no free spawn position found")

// SolidLookup answers whether a lattice cell is solid. Cells outside the
// lattice must report false.
type SolidLookup interface {
	SolidAt(i, j, k int) bool
}

// probeWalk is the (y, z) neighbourhood checked around a candidate, in
// order, relative to its truncated coordinates.
var probeWalk = [9][2]int{
	{0, 0}, {1, 1}, {2, 1}, {2, 2}, {2, 2}, {1, 1}, {0, 1}, {0, 0}, {1, -1},
}

// SpawnParams configures a Spawner.
type SpawnParams struct {
	X           float64 // fixed spawn plane
	Min, Max    float64 // y and z are drawn from [Min, Max)
	AvoidClaims bool    // also reject cells claimed by earlier spawns
	MaxAttempts int     // 0 = unlimited
}

// Spawner picks spawn positions on the x = X plane whose probe
// neighbourhood is free of solid voxels.
type Spawner struct {
	solid   SolidLookup
	rng     *rand.Rand
	params  SpawnParams
	claimed map[[2]int]struct{}

	// Rejections counts resampled candidates since the last Reset.
	Rejections int
}

// NewSpawner creates a spawner over solid.
func NewSpawner(solid SolidLookup, rng *rand.Rand, params SpawnParams) *Spawner {
	return &Spawner{
		solid:   solid,
		rng:     rng,
		params:  params,
		claimed: make(map[[2]int]struct{}),
	}
}

// Reset forgets claimed cells, for a fresh population.
func (s *Spawner) Reset() {
	clear(s.claimed)
	s.Rejections = 0
}

// Claimed returns the number of claimed (y, z) cells.
func (s *Spawner) Claimed() int { return len(s.claimed) }

// Position draws candidates until one passes the probe walk. Without a
// MaxAttempts cap it does not return on a fully blocked plane.
func (s *Spawner) Position() (r3.Vec, error) {
	for attempt := 1; ; attempt++ {
		y := s.draw()
		z := s.draw()
		if s.free(y, z) {
			if s.params.AvoidClaims {
				s.claim(y, z)
			}
			return r3.Vec{X: s.params.X, Y: y, Z: z}, nil
		}
		s.Rejections++
		if s.params.MaxAttempts > 0 && attempt >= s.params.MaxAttempts {
			return r3.Vec{}, ErrSpawnStarved
		}
	}
}

func (s *Spawner) draw() float64 {
	return s.rng.Float64()*(s.params.Max-s.params.Min) + s.params.Min
}

func (s *Spawner) free(y, z float64) bool {
	x := int(s.params.X)
	fy, fz := int(y), int(z)
	for _, d := range probeWalk {
		if s.solid.SolidAt(x, fy+d[0], fz+d[1]) {
			return false
		}
	}
	if !s.params.AvoidClaims {
		return true
	}

	cy, cz := int(math.Ceil(y)), int(math.Ceil(z))
	for _, d := range probeWalk {
		if s.isClaimed(fy+d[0], fz+d[1]) || s.isClaimed(cy+d[0], cz+d[1]) {
			return false
		}
	}
	return true
}

func (s *Spawner) isClaimed(y, z int) bool {
	_, ok := s.claimed[[2]int{y, z}]
	return ok
}

func (s *Spawner) claim(y, z float64) {
	for _, cy := range []int{int(math.Floor(y)), int(math.Ceil(y))} {
		for _, cz := range []int{int(math.Floor(z)), int(math.Ceil(z))} {
			s.claimed[[2]int{cy, cz}] = struct{}{}
		}
	}
}

// Package playback animates recorded particle trajectories.
package playback

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/lattice"
)

// Particle is the animated state of one trajectory.
type Particle struct {
	ID       int
	Position r3.Vec
	Speed    float64 // |Position - previous| / dt
	Class    components.SpeedClass
}

// Player interpolates every trajectory between consecutive recorded frames.
// All trajectories share one frame counter that advances every
// frameDuration seconds; each trajectory wraps it to its own length.
type Player struct {
	frames        [][]r3.Vec
	particles     []Particle
	order         []int // particle indices sorted by speed
	frameDuration float64

	frame          int
	lastTransition float64
	started        bool
}

// NewPlayer plays trajectory ids 1..count. Ids missing from t are skipped.
func NewPlayer(t *lattice.Trajectories, count int, frameDuration float64) *Player {
	p := &Player{frameDuration: frameDuration}
	for id := 1; id <= count; id++ {
		f, ok := t.Frames(id)
		if !ok || len(f) == 0 {
			continue
		}
		p.frames = append(p.frames, f)
		p.particles = append(p.particles, Particle{ID: id, Position: f[0]})
	}
	p.order = make([]int, len(p.particles))
	for i := range p.order {
		p.order[i] = i
	}
	return p
}

// Len returns the number of played trajectories.
func (p *Player) Len() int { return len(p.particles) }

// FrameIndex returns the shared frame counter.
func (p *Player) FrameIndex() int { return p.frame }

// Particles returns the current particle states. The slice is reused by
// the next Frame call.
func (p *Player) Particles() []Particle { return p.particles }

// Frame advances playback to time now (seconds); dt is the time since the
// previous call and is used for speeds.
func (p *Player) Frame(now, dt float64) {
	if !p.started {
		p.lastTransition = now
		p.started = true
	}

	fraction := 0.0
	if p.frameDuration > 0 {
		fraction = (now - p.lastTransition) / p.frameDuration
	}
	if fraction >= 1 {
		p.frame++
		p.lastTransition = now
		fraction = 0
	}

	for i, f := range p.frames {
		part := &p.particles[i]
		if len(f) < 2 {
			part.Position = f[0]
			continue
		}

		k := p.frame % (len(f) - 1)
		pos := lerp(f[k], f[k+1], fraction)
		if dt > 0 {
			part.Speed = r3.Norm(r3.Sub(pos, part.Position)) / dt
		}
		part.Position = pos
	}

	p.classify()
}

// classify ranks particles by speed and assigns one class per quarter,
// slowest first.
func (p *Player) classify() {
	n := len(p.particles)
	if n == 0 {
		return
	}
	sort.SliceStable(p.order, func(a, b int) bool {
		return p.particles[p.order[a]].Speed < p.particles[p.order[b]].Speed
	})
	for rank, idx := range p.order {
		p.particles[idx].Class = components.SpeedClass(rank * components.NumSpeedClasses / n)
	}
}

func lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

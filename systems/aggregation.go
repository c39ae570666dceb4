package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
)

// Contact reports two particles that started touching this step.
type Contact struct {
	A, B  uint32
	Point r3.Vec
}

// ContactQueue buffers contacts between the physics step and the
// aggregation pass.
type ContactQueue struct {
	pending []Contact
}

// Push enqueues c.
func (q *ContactQueue) Push(c Contact) {
	q.pending = append(q.pending, c)
}

// Len returns the number of queued contacts.
func (q *ContactQueue) Len() int { return len(q.pending) }

// Drain returns the queued contacts in arrival order and empties the queue.
// The returned slice is valid until the next Push.
func (q *ContactQueue) Drain() []Contact {
	out := q.pending
	q.pending = q.pending[:0]
	return out
}

// Joiner is the part of the physics collaborator that bonds particles.
type Joiner interface {
	Join(a, b uint32, anchor r3.Vec)
	Joined(a, b uint32) bool
}

// AggregationEvent records one successful join.
type AggregationEvent struct {
	ID1   uint32
	Time1 float64
	Dist1 float64
	ID2   uint32
	Time2 float64
	Dist2 float64
}

// AggregationStats counts the outcome of one Resolve call.
type AggregationStats struct {
	Contacts int
	Joins    int
	Rejected int
}

// Aggregator decides which contacts become permanent joins.
type Aggregator struct {
	rng     *rand.Rand
	joiner  Joiner
	posMap  *ecs.Map1[components.Position]
	partMap *ecs.Map1[components.Particle]
	dt      float64

	// Rate is the join probability per contact.
	Rate float64
}

// NewAggregator creates an aggregator for particles in w.
func NewAggregator(w *ecs.World, rng *rand.Rand, joiner Joiner, rate, dt float64) *Aggregator {
	return &Aggregator{
		rng:     rng,
		joiner:  joiner,
		posMap:  ecs.NewMap1[components.Position](w),
		partMap: ecs.NewMap1[components.Particle](w),
		dt:      dt,
		Rate:    rate,
	}
}

// Resolve processes contacts in order. Each contact between particles that
// are not yet bonded draws once; below Rate the pair is joined, both become
// Aggregated, and each particle's survival distance is latched the first
// time it aggregates.
func (a *Aggregator) Resolve(contacts []Contact, entities map[uint32]ecs.Entity) ([]AggregationEvent, AggregationStats) {
	var events []AggregationEvent
	var stats AggregationStats

	for _, c := range contacts {
		ea, okA := entities[c.A]
		eb, okB := entities[c.B]
		if !okA || !okB {
			continue
		}
		if a.joiner.Joined(c.A, c.B) {
			continue
		}
		stats.Contacts++

		if a.rng.Float64() >= a.Rate {
			stats.Rejected++
			continue
		}

		pa, pb := a.partMap.Get(ea), a.partMap.Get(eb)
		a.aggregate(ea, pa)
		a.aggregate(eb, pb)
		a.joiner.Join(c.A, c.B, c.Point)
		stats.Joins++

		events = append(events, AggregationEvent{
			ID1:   pa.ID,
			Time1: pa.SurvivalTime(a.dt),
			Dist1: pa.SurvivalDist,
			ID2:   pb.ID,
			Time2: pb.SurvivalTime(a.dt),
			Dist2: pb.SurvivalDist,
		})
	}

	return events, stats
}

func (a *Aggregator) aggregate(e ecs.Entity, p *components.Particle) {
	p.State = components.Aggregated
	if !p.DistLatched {
		pos := a.posMap.Get(e)
		p.SurvivalDist = r3.Norm(r3.Sub(pos.Vec, p.Spawn))
		p.DistLatched = true
	}
}

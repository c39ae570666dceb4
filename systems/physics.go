// Package systems contains ECS systems for the simulation.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
)

// Physics is the rigid-body collaborator. It owns integration and contact
// detection; transport only reads positions and writes target velocities.
type Physics interface {
	Joiner
	// Integrate advances positions by dt.
	Integrate(dt float64)
	// DetectContacts pushes every pair that started touching this step.
	DetectContacts(q *ContactQueue)
	// Reset forgets all bonds and contact history.
	Reset()
}

// PhysicsParams configures KinematicPhysics.
type PhysicsParams struct {
	DomainSize  float64
	Radius      float64
	LinearDrag  float64
	AngularDrag float64 // particles carry no rotation; kept for reporting
}

type pairKey struct{ lo, hi uint32 }

func makePair(a, b uint32) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// KinematicPhysics moves spheres along their velocity, keeps bonded
// clusters moving together and reports new sphere-sphere contacts.
type KinematicPhysics struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Particle]
	params PhysicsParams
	grid   *SpatialGrid

	parent   map[uint32]uint32 // union-find over bonded particle ids
	touching map[pairKey]struct{}

	// scratch buffers reused across steps
	ids       []uint32
	positions []r3.Vec
	neighbors []Neighbor
	sums      map[uint32]clusterSum
}

type clusterSum struct {
	v r3.Vec
	n int
}

// NewKinematicPhysics creates the default physics collaborator for w.
func NewKinematicPhysics(w *ecs.World, params PhysicsParams) *KinematicPhysics {
	cell := 2 * params.Radius
	if cell <= 0 {
		cell = 1
	}
	return &KinematicPhysics{
		filter:   *ecs.NewFilter3[components.Position, components.Velocity, components.Particle](w),
		params:   params,
		grid:     NewSpatialGrid(params.DomainSize, cell),
		parent:   make(map[uint32]uint32),
		touching: make(map[pairKey]struct{}),
		sums:     make(map[uint32]clusterSum),
	}
}

// Params returns the configured parameters.
func (k *KinematicPhysics) Params() PhysicsParams { return k.params }

func (k *KinematicPhysics) find(id uint32) uint32 {
	root := id
	for {
		p, ok := k.parent[root]
		if !ok || p == root {
			break
		}
		root = p
	}
	// Path compression.
	for id != root {
		next := k.parent[id]
		k.parent[id] = root
		id = next
	}
	return root
}

// Join bonds a and b permanently.
func (k *KinematicPhysics) Join(a, b uint32, _ r3.Vec) {
	ra, rb := k.find(a), k.find(b)
	if ra == rb {
		return
	}
	k.parent[ra] = rb
	if _, ok := k.parent[rb]; !ok {
		k.parent[rb] = rb
	}
}

// Joined reports whether a and b belong to the same bonded cluster.
func (k *KinematicPhysics) Joined(a, b uint32) bool {
	return k.find(a) == k.find(b)
}

// Reset forgets all bonds and contact history.
func (k *KinematicPhysics) Reset() {
	clear(k.parent)
	clear(k.touching)
}

// Integrate applies cluster-averaged velocity, linear drag, and advances
// positions by dt.
func (k *KinematicPhysics) Integrate(dt float64) {
	damp := math.Max(0, 1-k.params.LinearDrag*dt)

	bonded := len(k.parent) > 0
	if bonded {
		clear(k.sums)
		query := k.filter.Query()
		for query.Next() {
			_, vel, p := query.Get()
			if _, ok := k.parent[p.ID]; !ok {
				continue
			}
			root := k.find(p.ID)
			s := k.sums[root]
			s.v = r3.Add(s.v, vel.Vec)
			s.n++
			k.sums[root] = s
		}
	}

	query := k.filter.Query()
	for query.Next() {
		pos, vel, p := query.Get()
		if bonded {
			if _, ok := k.parent[p.ID]; ok {
				s := k.sums[k.find(p.ID)]
				vel.Vec = r3.Scale(1/float64(s.n), s.v)
			}
		}
		vel.Vec = r3.Scale(damp, vel.Vec)
		pos.Vec = r3.Add(pos.Vec, r3.Scale(dt, vel.Vec))
	}
}

// DetectContacts pushes pairs closer than two radii that were apart on the
// previous call and are not already bonded. The contact point is the
// midpoint between the centres.
func (k *KinematicPhysics) DetectContacts(q *ContactQueue) {
	k.ids = k.ids[:0]
	k.positions = k.positions[:0]
	k.grid.Clear()

	query := k.filter.Query()
	for query.Next() {
		pos, _, p := query.Get()
		k.grid.Insert(len(k.ids), pos.Vec)
		k.ids = append(k.ids, p.ID)
		k.positions = append(k.positions, pos.Vec)
	}

	reach := 2 * k.params.Radius
	now := make(map[pairKey]struct{}, len(k.touching))
	for i, p := range k.positions {
		k.neighbors = k.grid.QueryRadiusInto(k.neighbors[:0], p, reach, k.positions, i)
		for _, n := range k.neighbors {
			// Each pair is seen from both sides; handle it once.
			if n.Index < i || n.DistSq >= reach*reach {
				continue
			}
			a, b := k.ids[i], k.ids[n.Index]
			key := makePair(a, b)
			now[key] = struct{}{}
			if _, was := k.touching[key]; was {
				continue
			}
			if k.Joined(a, b) {
				continue
			}
			q.Push(Contact{A: a, B: b, Point: r3.Scale(0.5, r3.Add(p, k.positions[n.Index]))})
		}
	}
	k.touching = now
}

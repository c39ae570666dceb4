package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newTestPhysics(tw *testWorld, drag float64) *KinematicPhysics {
	return NewKinematicPhysics(tw.world, PhysicsParams{DomainSize: 20, Radius: 0.5, LinearDrag: drag})
}

func TestIntegrateMovesAndDamps(t *testing.T) {
	tw := newTestWorld()
	tw.add(1, r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{X: 10})

	ph := newTestPhysics(tw, 5)
	ph.Integrate(0.02)

	pos, vel, _ := tw.get(1)
	// damp = 1 - 5*0.02 = 0.9
	if math.Abs(vel.X-9) > 1e-9 {
		t.Errorf("velocity x = %v, want 9", vel.X)
	}
	if math.Abs(pos.X-1.18) > 1e-9 {
		t.Errorf("position x = %v, want 1.18", pos.X)
	}
}

func TestIntegrateBondedClusterMovesTogether(t *testing.T) {
	tw := newTestWorld()
	tw.add(1, r3.Vec{X: 5, Y: 5, Z: 5}, r3.Vec{X: 4})
	tw.add(2, r3.Vec{X: 6, Y: 5, Z: 5}, r3.Vec{X: 0, Y: 2})
	tw.add(3, r3.Vec{X: 9, Y: 9, Z: 9}, r3.Vec{Z: 1})

	ph := newTestPhysics(tw, 0)
	ph.Join(1, 2, r3.Vec{})
	ph.Integrate(1)

	_, v1, _ := tw.get(1)
	_, v2, _ := tw.get(2)
	_, v3, _ := tw.get(3)
	want := r3.Vec{X: 2, Y: 1}
	if v1.Vec != want || v2.Vec != want {
		t.Errorf("bonded velocities = %v, %v, want %v", v1.Vec, v2.Vec, want)
	}
	if v3.Vec != (r3.Vec{Z: 1}) {
		t.Errorf("free particle velocity = %v", v3.Vec)
	}
}

func TestJoinIsTransitive(t *testing.T) {
	tw := newTestWorld()
	ph := newTestPhysics(tw, 0)
	ph.Join(1, 2, r3.Vec{})
	ph.Join(3, 2, r3.Vec{})
	if !ph.Joined(1, 3) {
		t.Error("1 and 3 should share a cluster")
	}
	if ph.Joined(1, 4) {
		t.Error("4 was never joined")
	}
	ph.Reset()
	if ph.Joined(1, 2) {
		t.Error("Reset should forget bonds")
	}
}

func TestDetectContactsOnEnterOnly(t *testing.T) {
	tw := newTestWorld()
	tw.add(1, r3.Vec{X: 5, Y: 5, Z: 5}, r3.Vec{})
	tw.add(2, r3.Vec{X: 5.8, Y: 5, Z: 5}, r3.Vec{})
	tw.add(3, r3.Vec{X: 15, Y: 5, Z: 5}, r3.Vec{})

	ph := newTestPhysics(tw, 0)
	var q ContactQueue

	ph.DetectContacts(&q)
	contacts := q.Drain()
	if len(contacts) != 1 {
		t.Fatalf("contacts = %v, want one", contacts)
	}
	c := contacts[0]
	if makePair(c.A, c.B) != makePair(1, 2) {
		t.Errorf("contact pair = %d,%d", c.A, c.B)
	}
	if math.Abs(c.Point.X-5.4) > 1e-9 {
		t.Errorf("contact point = %v, want midpoint", c.Point)
	}

	ph.DetectContacts(&q)
	if q.Len() != 0 {
		t.Errorf("still touching should not re-report, got %d", q.Len())
	}

	pos2, _, _ := tw.get(2)
	pos2.X = 8
	ph.DetectContacts(&q)
	pos2.X = 5.5
	ph.DetectContacts(&q)
	if q.Len() != 1 {
		t.Errorf("re-entering contact reported %d times, want 1", q.Len())
	}
}

func TestDetectContactsIgnoresBonded(t *testing.T) {
	tw := newTestWorld()
	tw.add(1, r3.Vec{X: 5, Y: 5, Z: 5}, r3.Vec{})
	tw.add(2, r3.Vec{X: 5.5, Y: 5, Z: 5}, r3.Vec{})

	ph := newTestPhysics(tw, 0)
	ph.Join(1, 2, r3.Vec{})
	var q ContactQueue
	ph.DetectContacts(&q)
	if q.Len() != 0 {
		t.Errorf("bonded pair reported %d contacts", q.Len())
	}
}

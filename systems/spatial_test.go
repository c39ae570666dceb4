package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestSpatialGridQueryRadius(t *testing.T) {
	positions := []r3.Vec{
		{X: 10, Y: 10, Z: 10},
		{X: 10.5, Y: 10, Z: 10},
		{X: 12, Y: 10, Z: 10},
		{X: 10, Y: 10, Z: 11.5},
		{X: 200, Y: 200, Z: 200}, // clamped into the last cell
	}
	g := NewSpatialGrid(200, 1)
	for i, p := range positions {
		g.Insert(i, p)
	}

	got := g.QueryRadiusInto(nil, positions[0], 1.5, positions, 0)
	found := make(map[int]bool)
	for _, n := range got {
		found[n.Index] = true
	}
	if !found[1] || !found[3] || found[2] || found[0] || len(got) != 2 {
		t.Errorf("neighbors = %v, want indices 1 and 3", got)
	}

	edge := g.QueryRadiusInto(nil, r3.Vec{X: 199.5, Y: 199.5, Z: 199.5}, 1, positions, -1)
	if len(edge) != 1 || edge[0].Index != 4 {
		t.Errorf("edge neighbors = %v, want index 4", edge)
	}

	g.Clear()
	if n := g.QueryRadiusInto(nil, positions[0], 5, positions, -1); len(n) != 0 {
		t.Errorf("cleared grid returned %v", n)
	}
}

package playback

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/lattice"
)

func loadTrajectories(t *testing.T, input string) *lattice.Trajectories {
	t.Helper()
	tr, err := lattice.LoadTrajectories(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadTrajectories: %v", err)
	}
	return tr
}

func TestPlayerSkipsMissingIDs(t *testing.T) {
	tr := loadTrajectories(t, "1 0 0 0\n3 0 0 0\n9 0 0 0\n")
	p := NewPlayer(tr, 4, 1)

	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	if p.Particles()[0].ID != 1 || p.Particles()[1].ID != 3 {
		t.Errorf("ids = %d, %d; want 1, 3", p.Particles()[0].ID, p.Particles()[1].ID)
	}
}

func TestPlayerInterpolatesAndWraps(t *testing.T) {
	// id 1 moves along x: 0, 10, 20
	tr := loadTrajectories(t, "1 0 0 0\n1 10 0 0\n1 20 0 0\n")
	p := NewPlayer(tr, 1, 1)

	tests := []struct {
		now   float64
		frame int
		wantX float64
	}{
		{0, 0, 0},
		{0.5, 0, 5},
		{1, 1, 10}, // transition, fraction resets
		{1.25, 1, 12.5},
		{2, 2, 0}, // frame 2 wraps to 0 on a 3-frame trajectory
		{2.5, 2, 5},
	}

	prev := 0.0
	for _, tt := range tests {
		p.Frame(tt.now, tt.now-prev)
		prev = tt.now

		if p.FrameIndex() != tt.frame {
			t.Errorf("now %v: frame = %d, want %d", tt.now, p.FrameIndex(), tt.frame)
		}
		got := p.Particles()[0].Position
		if math.Abs(got.X-tt.wantX) > 1e-9 || got.Y != 0 || got.Z != 0 {
			t.Errorf("now %v: position = %v, want x %v", tt.now, got, tt.wantX)
		}
	}
}

func TestPlayerSingleFrameHolds(t *testing.T) {
	tr := loadTrajectories(t, "1 3 2 1\n")
	p := NewPlayer(tr, 1, 0.1)

	for i := 0; i < 5; i++ {
		p.Frame(float64(i)*0.1, 0.1)
	}
	got := p.Particles()[0]
	if got.Position != (r3.Vec{X: 3, Y: 1, Z: 2}) {
		t.Errorf("position = %v, want first frame", got.Position)
	}
	if got.Speed != 0 {
		t.Errorf("speed = %v, want 0", got.Speed)
	}
}

func TestPlayerSpeedAndRankClasses(t *testing.T) {
	// Four particles moving along x at speeds 1, 2, 3, 4 per frame
	var b strings.Builder
	for id := 4; id >= 1; id-- {
		fmt.Fprintf(&b, "%d 0 0 0\n%d %d 0 0\n", id, id, id)
	}
	tr := loadTrajectories(t, b.String())
	p := NewPlayer(tr, 4, 1)

	p.Frame(0, 0.5)
	p.Frame(0.5, 0.5)

	want := []components.SpeedClass{
		components.SpeedSlow, components.SpeedMedium, components.SpeedFast, components.SpeedFastest,
	}
	for i, part := range p.Particles() {
		// moved id/2 in 0.5 s
		if math.Abs(part.Speed-float64(part.ID)) > 1e-9 {
			t.Errorf("particle %d speed = %v, want %d", part.ID, part.Speed, part.ID)
		}
		if part.Class != want[i] {
			t.Errorf("particle %d class = %v, want %v", part.ID, part.Class, want[i])
		}
	}
}

func TestPlayerClassesUnevenCount(t *testing.T) {
	tr := loadTrajectories(t, "1 0 0 0\n2 0 0 0\n3 0 0 0\n4 0 0 0\n5 0 0 0\n6 0 0 0\n")
	p := NewPlayer(tr, 6, 1)
	p.Frame(0, 0.1)

	counts := make([]int, components.NumSpeedClasses)
	for _, part := range p.Particles() {
		counts[part.Class]++
	}
	// ranks 0..5 -> rank*4/6 = 0,0,1,2,2,3
	if counts[0] != 2 || counts[1] != 1 || counts[2] != 2 || counts[3] != 1 {
		t.Errorf("class counts = %v, want [2 1 2 1]", counts)
	}
}

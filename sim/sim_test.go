package sim

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/lattice"
	"github.com/pthm-cable/seep/systems"
	"github.com/pthm-cable/seep/telemetry"
)

const baseYAML = `
simulation:
  dt: 0.5
  domain_size: 10
  particle_count: 4
  particle_radius: 0.5
  velocity_scale: 10
  destroy_out_of_bounds: true
  aggregation_rate: 0
spawn:
  x: 1
  min: 1
  max: 9
physics:
  linear_drag: 0
telemetry:
  stats_window: 1
`

// testConfig parses baseYAML and applies edit, if any. New validates the
// edited config again.
func testConfig(t *testing.T, edit func(c *config.Config)) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(baseYAML))
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	if edit != nil {
		edit(cfg)
	}
	return cfg
}

// crowded spawns three resting particles inside a 0.5 square, so every
// pair touches at radius 0.5.
func crowded(rate float64) func(c *config.Config) {
	return func(c *config.Config) {
		c.Simulation.ParticleCount = 3
		c.Simulation.AggregationRate = rate
		c.Spawn.Max = 1.5
	}
}

// testContext builds an empty 12^3 occupancy and a uniform velocity field
// of extent n^3.
func testContext(t *testing.T, n int, v r3.Vec) *Context {
	t.Helper()
	occ := lattice.NewOccupancy(lattice.Dims{I: 12, J: 12, K: 12})
	vel := lattice.NewVelocity(lattice.Dims{I: n, J: n, K: n})
	for i := range vel.Field.Data() {
		vel.Field.Data()[i] = v
	}
	vel.Magnitudes = []float64{0.5, 1, 1.5, 2}

	ctx, err := NewContext(occ, vel, 10)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}

func TestNewContextRejectsShortField(t *testing.T) {
	occ := lattice.NewOccupancy(lattice.Dims{I: 4, J: 4, K: 4})
	vel := lattice.NewVelocity(lattice.Dims{I: 10, J: 11, K: 11})

	if _, err := NewContext(occ, vel, 10); err == nil {
		t.Fatal("expected coverage error for extent 10 on a size 10 domain")
	}
}

func TestNewContextThresholds(t *testing.T) {
	ctx := testContext(t, 11, r3.Vec{})
	q := ctx.Quartiles
	want := systems.Thresholds{q.Q1 * q.Q1, q.Median * q.Median, q.Q3 * q.Q3}
	if ctx.Thresholds != want {
		t.Errorf("thresholds = %v, want %v", ctx.Thresholds, want)
	}
}

func TestNewSpawnsPopulation(t *testing.T) {
	cfg := testConfig(t, nil)
	s, err := New(cfg, testContext(t, 11, r3.Vec{}), Options{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if s.Live() != 4 {
		t.Fatalf("Live() = %d, want 4", s.Live())
	}

	seen := map[uint32]bool{}
	s.EachParticle(func(pos, vel r3.Vec, p *components.Particle) {
		seen[p.ID] = true
		if pos.X != 1 {
			t.Errorf("particle %d spawned at x = %v, want 1", p.ID, pos.X)
		}
		if pos.Y < 1 || pos.Y >= 9 || pos.Z < 1 || pos.Z >= 9 {
			t.Errorf("particle %d spawned outside [1, 9): %v", p.ID, pos)
		}
		if vel.X < 1 || vel.X >= 5 || vel.Y != 0 || vel.Z != 0 {
			t.Errorf("particle %d initial velocity = %v, want x in [1, 5)", p.ID, vel)
		}
		if pos != p.Spawn {
			t.Errorf("particle %d spawn = %v, position %v", p.ID, p.Spawn, pos)
		}
		if p.State != components.Free {
			t.Errorf("particle %d state = %v, want free", p.ID, p.State)
		}
	})
	if len(seen) != 4 {
		t.Errorf("saw %d distinct ids, want 4", len(seen))
	}
}

func TestNewRejectsSpawnStarvation(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) { c.Spawn.MaxAttempts = 3 })
	ctx := testContext(t, 11, r3.Vec{})
	// Solid everywhere on the spawn plane
	for j := 0; j < 12; j++ {
		for k := 0; k < 12; k++ {
			ctx.Occupancy.Intensity.Set(1, j, k, 10000)
		}
	}

	_, err := New(cfg, ctx, Options{Seed: 1})
	if !errors.Is(err, systems.ErrSpawnStarved) {
		t.Fatalf("New error = %v, want ErrSpawnStarved", err)
	}
}

func TestDestroyPolicyRestartsThenDone(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) {
		c.Simulation.RestartCount = 1
		c.Simulation.AggregationRates = []float64{0.25}
	})
	dir := t.TempDir()

	// Field pushes every particle along +x at 10 units/s: 1 -> 6 -> 11 (out).
	s, err := New(cfg, testContext(t, 11, r3.Vec{X: 1}), Options{Seed: 7, OutputDir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if s.Run() != 1 {
		t.Fatalf("Run() = %d after first population left, want 1", s.Run())
	}
	if s.Rate() != 0.25 {
		t.Errorf("Rate() = %v, want 0.25", s.Rate())
	}
	if s.Live() != 4 {
		t.Errorf("Live() = %d after restart, want 4", s.Live())
	}
	if s.RestartsLeft() != 0 {
		t.Errorf("RestartsLeft() = %d, want 0", s.RestartsLeft())
	}

	for i := 0; i < 3; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d: %v", i+3, err)
		}
	}
	if !s.Done() {
		t.Fatal("expected Done after the last population left")
	}

	tick := s.Tick()
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if s.Tick() != tick {
		t.Error("Step advanced a finished simulation")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	runs, err := os.ReadFile(filepath.Join(dir, telemetry.RunsFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(runs)), "\n")
	if len(lines) != 3 {
		t.Fatalf("runs.csv has %d lines, want header + 2:\n%s", len(lines), runs)
	}
	if _, err := os.Stat(filepath.Join(dir, telemetry.ConfigFile)); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestWrapPolicyKeepsPopulation(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) { c.Simulation.DestroyOutOfBounds = false })
	s, err := New(cfg, testContext(t, 11, r3.Vec{X: 1}), Options{Seed: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	// x advances 5 per step on a size 10 domain: 1, 6, 11 -> wrapped to 0, 5, 10 -> 0 ...
	wrapped := 0
	for i := 0; i < 20; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
		wrapped += s.LastTransport().OutOfBounds
		s.EachParticle(func(pos, _ r3.Vec, p *components.Particle) {
			if pos.X < 0 || pos.X > 15 {
				t.Errorf("step %d: particle %d escaped: %v", i, p.ID, pos)
			}
		})
	}
	if wrapped == 0 {
		t.Error("expected some particles to wrap")
	}
	if s.Live() != 4 {
		t.Errorf("Live() = %d, want 4 under wrap", s.Live())
	}
	if s.Done() {
		t.Error("wrap policy should never finish")
	}
}

func TestAggregationJoinsCrowdedSpawn(t *testing.T) {
	cfg := testConfig(t, crowded(1))
	dir := t.TempDir()
	s, err := New(cfg, testContext(t, 11, r3.Vec{}), Options{Seed: 11, OutputDir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}

	if got := s.LastAggregation().Joins; got != 2 {
		t.Errorf("joins = %d, want 2 (third pair already bonded)", got)
	}
	s.EachParticle(func(pos, _ r3.Vec, p *components.Particle) {
		if p.State != components.Aggregated {
			t.Errorf("particle %d state = %v, want aggregated", p.ID, p.State)
		}
		if !p.DistLatched || p.SurvivalDist != 0 {
			t.Errorf("particle %d survival dist = %v (latched %v), want 0", p.ID, p.SurvivalDist, p.DistLatched)
		}
		if p.SurvivalTicks != 1 {
			t.Errorf("particle %d survival ticks = %d, want 1", p.ID, p.SurvivalTicks)
		}
	})

	// Survival is frozen once aggregated
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if _, p, ok := s.Particle(0); !ok || p.SurvivalTicks != 1 {
		t.Errorf("particle 0 = %+v (found %v), want survival ticks 1", p, ok)
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	log, err := os.ReadFile(filepath.Join(dir, telemetry.AggregationFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(log)), "\n")
	if len(lines) != 2 {
		t.Fatalf("aggregation log has %d lines, want 2:\n%s", len(lines), log)
	}
	for _, line := range lines {
		if fields := strings.Split(line, ","); len(fields) != 6 || fields[1] != "0.5" {
			t.Errorf("aggregation row %q, want 6 fields with time1 0.5", line)
		}
	}
}

func TestZeroRateNeverJoins(t *testing.T) {
	cfg := testConfig(t, crowded(0))
	s, err := New(cfg, testContext(t, 11, r3.Vec{}), Options{Seed: 5})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	for i := 0; i < 3; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	s.EachParticle(func(_, _ r3.Vec, p *components.Particle) {
		if p.State != components.Free {
			t.Errorf("particle %d aggregated at rate 0", p.ID)
		}
		if p.SurvivalTicks != 3 {
			t.Errorf("particle %d survival ticks = %d, want 3", p.ID, p.SurvivalTicks)
		}
	})
}

func TestFrameRunsFixedSteps(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) { c.Simulation.DestroyOutOfBounds = false })
	s, err := New(cfg, testContext(t, 11, r3.Vec{}), Options{Seed: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if n, err := s.Frame(0.25); err != nil || n != 0 {
		t.Fatalf("Frame(0.25) = %d, %v; want 0 steps", n, err)
	}
	if n, _ := s.Frame(0.25); n != 1 {
		t.Errorf("second Frame(0.25) = %d steps, want 1", n)
	}
	if n, _ := s.Frame(100); n != maxStepsPerFrame {
		t.Errorf("Frame(100) = %d steps, want cap %d", n, maxStepsPerFrame)
	}
	if s.Tick() != 1+maxStepsPerFrame {
		t.Errorf("Tick() = %d, want %d", s.Tick(), 1+maxStepsPerFrame)
	}
}

func TestNewRejectsRateMismatch(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.Simulation.RestartCount = 2

	_, err := New(cfg, testContext(t, 11, r3.Vec{}), Options{Seed: 1})
	var mismatch *config.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("New error = %v, want *config.MismatchError", err)
	}
}

func TestLoadGeometrySkipsVelocity(t *testing.T) {
	dir := t.TempDir()
	geometry := filepath.Join(dir, "geometry.txt")
	data := `VARIABLES = "X [lu]", "Y [lu]", "Z [lu]", "Intensity", "Intensity2"
ZONE, i = 1, j = 1, k = 1, F=POINT, STRANDID=0
1 1 1 9000 0
`
	if err := os.WriteFile(geometry, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t, func(c *config.Config) {
		c.Data.GeometryFile = geometry
		c.Data.VelocityFile = filepath.Join(dir, "missing.txt")
	})

	if _, err := LoadContext(cfg); err == nil {
		t.Fatal("LoadContext should fail without a velocity file")
	}

	ctx, err := LoadGeometry(cfg)
	if err != nil {
		t.Fatalf("LoadGeometry: %v", err)
	}
	if ctx.Velocity != nil {
		t.Error("LoadGeometry should not load a velocity field")
	}
	if ctx.Domain.Size != 10 {
		t.Errorf("domain size = %v, want 10", ctx.Domain.Size)
	}

	// Open-space mode falls back to the solid mesh without a field.
	if got := ctx.Mesh(true).TriangleCount(); got != 12 {
		t.Errorf("mesh triangles = %d, want 12", got)
	}
}

func TestContextMesh(t *testing.T) {
	ctx := testContext(t, 11, r3.Vec{X: -1})
	ctx.Occupancy.Intensity.Set(2, 2, 2, 9000)

	solid := ctx.Mesh(false)
	if got := solid.TriangleCount(); got != 12 {
		t.Errorf("solid mesh triangles = %d, want 12 for one isolated voxel", got)
	}

	// Every non-solid cell inside the 11^3 field flows backward, so the
	// open-space mesh is non-empty and excludes the solid voxel.
	open := ctx.Mesh(true)
	if open.TriangleCount() == 0 {
		t.Error("open-space mesh should not be empty")
	}
	if open.TriangleCount() == solid.TriangleCount() {
		t.Error("open-space mesh should differ from the solid mesh")
	}

	if got := ctx.MeshScale(); math.Abs(got-10.0/12.0) > 1e-12 {
		t.Errorf("MeshScale = %v, want %v", got, 10.0/12.0)
	}
}

func TestCallbacks(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) {
		c.Simulation.RestartCount = 1
		c.Simulation.AggregationRates = []float64{0.25}
	})

	var windows []telemetry.WindowStats
	var runs []telemetry.RunSummary
	s, err := New(cfg, testContext(t, 11, r3.Vec{X: 1}), Options{
		Seed:          3,
		StatsCallback: func(w telemetry.WindowStats) { windows = append(windows, w) },
		RunCallback:   func(r telemetry.RunSummary) { runs = append(runs, r) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for !s.Done() {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if len(runs) != 2 {
		t.Fatalf("run callbacks = %d, want 2", len(runs))
	}
	if runs[0].Run != 0 || runs[1].Run != 1 {
		t.Errorf("run indices = %d, %d, want 0, 1", runs[0].Run, runs[1].Run)
	}
	if runs[1].Rate != 0.25 {
		t.Errorf("second run rate = %v, want 0.25", runs[1].Rate)
	}
	if len(windows) < 2 {
		t.Errorf("stats callbacks = %d, want at least 2", len(windows))
	}
}

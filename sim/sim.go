package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/systems"
	"github.com/pthm-cable/seep/telemetry"
)

// maxStepsPerFrame bounds catch-up work in Frame after a slow frame.
const maxStepsPerFrame = 8

// Options configures a Simulation beyond the config file.
type Options struct {
	Seed      int64  // RNG seed (0 = time-based)
	OutputDir string // CSV and config snapshot directory (empty = disabled)
	LogStats  bool   // log window stats, perf and bookmarks via slog

	// NewPhysics builds the rigid-body collaborator. Nil selects
	// systems.KinematicPhysics.
	NewPhysics func(w *ecs.World, params systems.PhysicsParams) systems.Physics

	// Optional callbacks for in-process consumers such as cmd/optimize.
	StatsCallback func(telemetry.WindowStats)
	RunCallback   func(telemetry.RunSummary)
}

// Simulation holds the complete simulation state.
type Simulation struct {
	cfg *config.Config
	ctx *Context

	world *ecs.World
	rng   *rand.Rand
	seed  int64

	particleMap    *ecs.Map3[components.Position, components.Velocity, components.Particle]
	particleFilter ecs.Filter3[components.Position, components.Velocity, components.Particle]
	byID           map[uint32]ecs.Entity

	// Systems
	transport  *systems.TransportSystem
	physics    systems.Physics
	contacts   systems.ContactQueue
	aggregator *systems.Aggregator
	spawner    *systems.Spawner

	// Telemetry
	collector     *telemetry.Collector
	runs          *telemetry.RunTracker
	bookmarks     *telemetry.BookmarkDetector
	outputManager *telemetry.OutputManager
	perfCollector *telemetry.PerfCollector
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	runCallback   func(telemetry.RunSummary)

	// Last step results, for the HUD
	lastTransport   systems.TransportStats
	lastAggregation systems.AggregationStats

	// State
	tick        int32
	nextID      uint32
	rates       []float64 // aggregation rate per run, first run included
	run         int
	done        bool
	runRecorded bool
	accumulator float64
}

// New builds a simulation over ctx and spawns the first population.
func New(cfg *config.Config, ctx *Context, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := systems.CheckCoverage(ctx.Velocity, ctx.Domain); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(seed))

	s := &Simulation{
		cfg:            cfg,
		ctx:            ctx,
		world:          world,
		rng:            rng,
		seed:           seed,
		particleMap:    ecs.NewMap3[components.Position, components.Velocity, components.Particle](world),
		particleFilter: *ecs.NewFilter3[components.Position, components.Velocity, components.Particle](world),
		byID:           make(map[uint32]ecs.Entity),
		rates:          cfg.RunRates(),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		runCallback:    opts.RunCallback,
	}

	policy := systems.Wrap
	if cfg.Simulation.DestroyOutOfBounds {
		policy = systems.Destroy
	}
	s.transport = systems.NewTransportSystem(world, ctx.Velocity, ctx.Thresholds, ctx.Domain, policy, cfg.Simulation.VelocityScale)

	params := systems.PhysicsParams{
		DomainSize:  cfg.Simulation.DomainSize,
		Radius:      cfg.Simulation.ParticleRadius,
		LinearDrag:  cfg.Physics.LinearDrag,
		AngularDrag: cfg.Physics.AngularDrag,
	}
	if opts.NewPhysics != nil {
		s.physics = opts.NewPhysics(world, params)
	} else {
		s.physics = systems.NewKinematicPhysics(world, params)
	}

	s.aggregator = systems.NewAggregator(world, rng, s.physics, s.rates[0], cfg.Simulation.DT)
	s.spawner = systems.NewSpawner(ctx.Occupancy, rng, systems.SpawnParams{
		X:           cfg.Spawn.X,
		Min:         cfg.Spawn.Min,
		Max:         cfg.Spawn.Max,
		AvoidClaims: cfg.Spawn.AvoidCollidingSpawn,
		MaxAttempts: cfg.Spawn.MaxAttempts,
	})

	s.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32)
	s.runs = telemetry.NewRunTracker(cfg.Simulation.DT)
	s.bookmarks = telemetry.NewBookmarkDetector(10)
	s.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if err := s.startRun(0); err != nil {
		om.Close()
		return nil, err
	}

	slog.Info("simulation_started",
		"seed", seed,
		"particles", cfg.Simulation.ParticleCount,
		"runs", len(s.rates),
		"policy", policyName(policy),
		"output_dir", om.Dir(),
	)
	return s, nil
}

func policyName(p systems.BoundsPolicy) string {
	if p == systems.Destroy {
		return "destroy"
	}
	return "wrap"
}

// Tick returns the number of fixed steps taken.
func (s *Simulation) Tick() int32 { return s.tick }

// Seed returns the RNG seed in use.
func (s *Simulation) Seed() int64 { return s.seed }

// Run returns the index of the current run (0 for the first).
func (s *Simulation) Run() int { return s.run }

// RestartsLeft returns the number of runs still to come.
func (s *Simulation) RestartsLeft() int { return len(s.rates) - 1 - s.run }

// Rate returns the current aggregation rate.
func (s *Simulation) Rate() float64 { return s.aggregator.Rate }

// Live returns the number of particles in the world.
func (s *Simulation) Live() int { return len(s.byID) }

// Done reports whether the population is gone and no restarts remain.
func (s *Simulation) Done() bool { return s.done }

// Context returns the shared lattice context.
func (s *Simulation) Context() *Context { return s.ctx }

// LastTransport returns the stats of the latest transport pass.
func (s *Simulation) LastTransport() systems.TransportStats { return s.lastTransport }

// LastAggregation returns the stats of the latest aggregation pass.
func (s *Simulation) LastAggregation() systems.AggregationStats { return s.lastAggregation }

// PerfStats returns the rolling performance statistics.
func (s *Simulation) PerfStats() telemetry.PerfStats { return s.perfCollector.Stats() }

// EachParticle calls fn for every particle in the world. fn must not
// modify the world.
func (s *Simulation) EachParticle(fn func(pos, vel r3.Vec, p *components.Particle)) {
	query := s.particleFilter.Query()
	for query.Next() {
		pos, vel, p := query.Get()
		fn(pos.Vec, vel.Vec, p)
	}
}

// Particle returns a copy of the particle with the given id.
func (s *Simulation) Particle(id uint32) (pos r3.Vec, p components.Particle, ok bool) {
	e, ok := s.byID[id]
	if !ok {
		return r3.Vec{}, components.Particle{}, false
	}
	ps, _, pp := s.particleMap.Get(e)
	return ps.Vec, *pp, true
}

// Close writes the summary of an unfinished run and closes output files.
func (s *Simulation) Close() error {
	s.recordRun()
	return s.outputManager.Close()
}

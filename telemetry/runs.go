package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
)

// RunSummary describes one run of the population, from spawn until the
// last particle is removed or the simulation stops.
type RunSummary struct {
	Run             int     `csv:"run"`
	Rate            float64 `csv:"aggregation_rate"`
	StartTick       int32   `csv:"start_tick"`
	EndTick         int32   `csv:"end_tick"`
	DurationSec     float64 `csv:"duration"`
	Spawned         int     `csv:"spawned"`
	Destroyed       int     `csv:"destroyed"`
	Contacts        int     `csv:"contacts"`
	Joins           int     `csv:"joins"`
	AggregatedFrac  float64 `csv:"aggregated_frac"`
	MeanSurvival    float64 `csv:"survival_mean"`
	MaxSurvival     float64 `csv:"survival_max"`
	MeanSurvivalDst float64 `csv:"survival_dist_mean"`
}

// LogSummary logs the summary using slog.
func (s RunSummary) LogSummary() {
	slog.Info("run_complete",
		"run", s.Run,
		"aggregation_rate", s.Rate,
		"duration", s.DurationSec,
		"spawned", s.Spawned,
		"destroyed", s.Destroyed,
		"joins", s.Joins,
		"aggregated_frac", s.AggregatedFrac,
		"survival_mean", s.MeanSurvival,
	)
}

// RunTracker accumulates per-run totals. Each particle contributes its
// survival time and distance at most once, on its first aggregation.
type RunTracker struct {
	dt float64

	run       int
	rate      float64
	startTick int32

	spawned   int
	destroyed int
	contacts  int
	joins     int

	aggregated map[uint32]struct{}
	times      []float64
	dists      []float64
}

// NewRunTracker creates a tracker. Call Begin before recording.
func NewRunTracker(dt float64) *RunTracker {
	return &RunTracker{
		dt:         dt,
		aggregated: make(map[uint32]struct{}),
	}
}

// Begin starts a new run, discarding totals of the previous one.
func (rt *RunTracker) Begin(run int, rate float64, tick int32) {
	rt.run = run
	rt.rate = rate
	rt.startTick = tick
	rt.spawned = 0
	rt.destroyed = 0
	rt.contacts = 0
	rt.joins = 0
	clear(rt.aggregated)
	rt.times = rt.times[:0]
	rt.dists = rt.dists[:0]
}

// Run returns the current run index (0 for the first run).
func (rt *RunTracker) Run() int {
	return rt.run
}

// Rate returns the current run's aggregation rate.
func (rt *RunTracker) Rate() float64 {
	return rt.rate
}

// RecordSpawned adds n spawned particles.
func (rt *RunTracker) RecordSpawned(n int) {
	rt.spawned += n
}

// RecordDestroyed adds n destroyed particles.
func (rt *RunTracker) RecordDestroyed(n int) {
	rt.destroyed += n
}

// RecordContacts adds n contacts.
func (rt *RunTracker) RecordContacts(n int) {
	rt.contacts += n
}

// RecordJoin records an aggregation event.
func (rt *RunTracker) RecordJoin(r AggregationRecord) {
	rt.joins++
	rt.addParticle(r.ID1, r.Time1, r.Dist1)
	rt.addParticle(r.ID2, r.Time2, r.Dist2)
}

func (rt *RunTracker) addParticle(id uint32, t, d float64) {
	if _, ok := rt.aggregated[id]; ok {
		return
	}
	rt.aggregated[id] = struct{}{}
	rt.times = append(rt.times, t)
	rt.dists = append(rt.dists, d)
}

// Summary produces the summary of the current run ending at tick.
func (rt *RunTracker) Summary(tick int32) RunSummary {
	s := RunSummary{
		Run:         rt.run,
		Rate:        rt.rate,
		StartTick:   rt.startTick,
		EndTick:     tick,
		DurationSec: float64(tick-rt.startTick) * rt.dt,
		Spawned:     rt.spawned,
		Destroyed:   rt.destroyed,
		Contacts:    rt.contacts,
		Joins:       rt.joins,
	}
	if n := len(rt.times); n > 0 {
		s.MeanSurvival = floats.Sum(rt.times) / float64(n)
		s.MaxSurvival = floats.Max(rt.times)
		s.MeanSurvivalDst = floats.Sum(rt.dists) / float64(n)
	}
	if rt.spawned > 0 {
		s.AggregatedFrac = float64(len(rt.aggregated)) / float64(rt.spawned)
	}
	return s
}

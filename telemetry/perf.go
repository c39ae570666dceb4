package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of the simulation step.
type Phase uint8

// Step phases in execution order.
const (
	PhaseTransport Phase = iota
	PhaseCleanup
	PhasePhysics
	PhaseContacts
	PhaseAggregation
	PhaseLifecycle
	PhaseTelemetry
	NumPhases
)

var phaseNames = [NumPhases]string{
	"transport", "cleanup", "physics", "contacts",
	"aggregation", "lifecycle", "telemetry",
}

// String returns the phase name. It doubles as the system registry ID.
func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// noPhase marks "no phase running".
const noPhase = NumPhases

// perfSample is the timing of a single tick.
type perfSample struct {
	tick   time.Duration
	phases [NumPhases]time.Duration
}

// PerfCollector times step phases over a ring of the last N ticks.
type PerfCollector struct {
	ring  []perfSample
	next  int
	count int

	cur        perfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks
// (60 if window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]perfSample, window), phase: noPhase}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = perfSample{}
	p.phase = noPhase
}

// StartPhase closes the running phase, if any, and starts ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = ph
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase < NumPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = noPhase
	p.cur.tick = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame measures the time since the previous call.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PhaseStat is one phase's share of the average tick.
type PhaseStat struct {
	Phase Phase
	Avg   time.Duration
	Pct   float64
}

// PerfStats summarizes the ring.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration
	TicksPerSecond  float64

	// Phases is indexed by Phase.
	Phases [NumPhases]PhaseStat

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes the summary over the ticks currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	for ph := range s.Phases {
		s.Phases[ph].Phase = Phase(ph)
	}
	s.FrameDuration = p.frame
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	ticks := make([]float64, p.count)
	var total time.Duration
	var phaseSum [NumPhases]time.Duration
	for i, smp := range p.ring[:p.count] {
		ticks[i] = float64(smp.tick)
		total += smp.tick
		for ph, d := range smp.phases {
			phaseSum[ph] += d
		}
	}
	slices.Sort(ticks)

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	s.MinTickDuration = time.Duration(ticks[0])
	s.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	for ph := range phaseSum {
		avg := phaseSum[ph] / n
		s.Phases[ph].Avg = avg
		if s.AvgTickDuration > 0 {
			s.Phases[ph].Pct = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, ph := range s.Phases {
		if ph.Pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.Phase.String()+"_pct", float64(int(ph.Pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	TransportPct   float64 `csv:"transport_pct"`
	CleanupPct     float64 `csv:"cleanup_pct"`
	PhysicsPct     float64 `csv:"physics_pct"`
	ContactsPct    float64 `csv:"contacts_pct"`
	AggregationPct float64 `csv:"aggregation_pct"`
	LifecyclePct   float64 `csv:"lifecycle_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	pct := func(ph Phase) float64 { return s.Phases[ph].Pct }
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		TransportPct:   pct(PhaseTransport),
		CleanupPct:     pct(PhaseCleanup),
		PhysicsPct:     pct(PhasePhysics),
		ContactsPct:    pct(PhaseContacts),
		AggregationPct: pct(PhaseAggregation),
		LifecyclePct:   pct(PhaseLifecycle),
		TelemetryPct:   pct(PhaseTelemetry),
	}
}

package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Run the window ended in
	Run  int     `csv:"run"`
	Rate float64 `csv:"aggregation_rate"`

	// Population at window end
	Live       int `csv:"live"`
	Free       int `csv:"free"`
	Aggregated int `csv:"aggregated"`

	// Events during window
	Spawned     int `csv:"spawned"`
	Destroyed   int `csv:"destroyed"`
	OutOfBounds int `csv:"out_of_bounds"`

	// Aggregation
	Contacts int     `csv:"contacts"`
	Joins    int     `csv:"joins"`
	Rejected int     `csv:"rejected"`
	JoinRate float64 `csv:"join_rate"`

	// Speed classes at window end
	Slow    int `csv:"slow"`
	Medium  int `csv:"medium"`
	Fast    int `csv:"fast"`
	Fastest int `csv:"fastest"`

	// Survival time of particles that aggregated during the window
	SurvivalMean float64 `csv:"survival_mean"`
	SurvivalP10  float64 `csv:"survival_p10"`
	SurvivalP50  float64 `csv:"survival_p50"`
	SurvivalP90  float64 `csv:"survival_p90"`
}

// Distribution summarizes a sample of survival times.
type Distribution struct {
	N             int
	Mean          float64
	Min, Max      float64
	P10, P50, P90 float64
}

// Summarize computes the distribution of values without reordering them.
// An empty sample yields the zero Distribution.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return Distribution{
		N:    len(sorted),
		Mean: floats.Sum(sorted) / float64(len(sorted)),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// Percentile interpolates linearly between the closest ranks of sorted.
// p is clamped to [0, 1]; an empty slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := max(0, min(p, 1)) * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("run", s.Run),
		slog.Float64("aggregation_rate", s.Rate),
		slog.Int("live", s.Live),
		slog.Int("free", s.Free),
		slog.Int("aggregated", s.Aggregated),
		slog.Int("spawned", s.Spawned),
		slog.Int("destroyed", s.Destroyed),
		slog.Int("out_of_bounds", s.OutOfBounds),
		slog.Int("contacts", s.Contacts),
		slog.Int("joins", s.Joins),
		slog.Int("rejected", s.Rejected),
		slog.Float64("join_rate", s.JoinRate),
		slog.Int("slow", s.Slow),
		slog.Int("medium", s.Medium),
		slog.Int("fast", s.Fast),
		slog.Int("fastest", s.Fastest),
		slog.Float64("survival_mean", s.SurvivalMean),
		slog.Float64("survival_p10", s.SurvivalP10),
		slog.Float64("survival_p50", s.SurvivalP50),
		slog.Float64("survival_p90", s.SurvivalP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"run", s.Run,
		"aggregation_rate", s.Rate,
		"live", s.Live,
		"free", s.Free,
		"aggregated", s.Aggregated,
		"spawned", s.Spawned,
		"destroyed", s.Destroyed,
		"out_of_bounds", s.OutOfBounds,
		"contacts", s.Contacts,
		"joins", s.Joins,
		"rejected", s.Rejected,
		"join_rate", s.JoinRate,
		"slow", s.Slow,
		"medium", s.Medium,
		"fast", s.Fast,
		"fastest", s.Fastest,
		"survival_mean", s.SurvivalMean,
		"survival_p50", s.SurvivalP50,
	)
}

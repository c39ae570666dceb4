// Package telemetry provides aggregation logging, window statistics, run
// summaries and performance tracking.
package telemetry

import "log/slog"

// AggregationRecord is one row of the append-only aggregation log.
// Columns: id1, survival time 1, survival distance 1, then the same for id2.
type AggregationRecord struct {
	ID1   uint32  `csv:"id1"`
	Time1 float64 `csv:"time1"`
	Dist1 float64 `csv:"dist1"`
	ID2   uint32  `csv:"id2"`
	Time2 float64 `csv:"time2"`
	Dist2 float64 `csv:"dist2"`
}

// LogAggregation logs the record using slog.
func (r AggregationRecord) LogAggregation() {
	slog.Info("aggregation",
		"id1", r.ID1,
		"time1", r.Time1,
		"dist1", r.Dist1,
		"id2", r.ID2,
		"time2", r.Time2,
		"dist2", r.Dist2,
	)
}

// DestroyedRecord describes a particle removed by the destroy bounds policy.
type DestroyedRecord struct {
	Tick         int32
	ID           uint32
	SurvivalTime float64
	Aggregated   bool
}

// LogDestroyed logs the removal at debug level.
func (r DestroyedRecord) LogDestroyed() {
	slog.Debug("particle_destroyed",
		"tick", r.Tick,
		"id", r.ID,
		"survival_time", r.SurvivalTime,
		"aggregated", r.Aggregated,
	)
}

package sim

import (
	"log/slog"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/systems"
	"github.com/pthm-cable/seep/telemetry"
)

// recordAggregation logs aggregation events and feeds the collectors.
func (s *Simulation) recordAggregation(events []systems.AggregationEvent, stats systems.AggregationStats) {
	s.collector.RecordContacts(stats.Contacts)
	s.collector.RecordRejected(stats.Rejected)
	s.runs.RecordContacts(stats.Contacts)

	for _, ev := range events {
		r := telemetry.AggregationRecord{
			ID1:   ev.ID1,
			Time1: ev.Time1,
			Dist1: ev.Dist1,
			ID2:   ev.ID2,
			Time2: ev.Time2,
			Dist2: ev.Dist2,
		}
		s.collector.RecordJoin(r)
		s.runs.RecordJoin(r)

		if s.logStats {
			r.LogAggregation()
		}
		if err := s.outputManager.WriteAggregation(r); err != nil {
			slog.Error("failed to write aggregation", "error", err)
		}
	}
}

// population counts the particles for a stats window.
func (s *Simulation) population() telemetry.Population {
	pop := telemetry.Population{
		Run:  s.run,
		Rate: s.aggregator.Rate,
	}
	query := s.particleFilter.Query()
	for query.Next() {
		_, _, p := query.Get()
		pop.Live++
		if p.State == components.Aggregated {
			pop.Aggregated++
		} else {
			pop.Free++
		}
		pop.Classes[p.Class]++
	}
	return pop
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.population())
	perfStats := s.perfCollector.Stats()

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

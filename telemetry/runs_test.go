package telemetry

import (
	"math"
	"testing"
)

func TestRunTracker_Summary(t *testing.T) {
	rt := NewRunTracker(0.02)
	rt.Begin(0, 0.5, 0)
	rt.RecordSpawned(4)
	rt.RecordContacts(5)
	rt.RecordJoin(AggregationRecord{ID1: 1, Time1: 1, Dist1: 10, ID2: 2, Time2: 3, Dist2: 30})
	// Particle 2 was already counted; only particle 3 is new.
	rt.RecordJoin(AggregationRecord{ID1: 2, Time1: 9, Dist1: 90, ID2: 3, Time2: 2, Dist2: 20})
	rt.RecordDestroyed(1)

	s := rt.Summary(100)

	if s.Run != 0 || s.Rate != 0.5 {
		t.Errorf("run/rate = %d/%v", s.Run, s.Rate)
	}
	if math.Abs(s.DurationSec-2) > 1e-9 {
		t.Errorf("DurationSec = %v, want 2", s.DurationSec)
	}
	if s.Joins != 2 || s.Contacts != 5 || s.Destroyed != 1 || s.Spawned != 4 {
		t.Errorf("counters = %+v", s)
	}
	if math.Abs(s.MeanSurvival-2) > 1e-9 {
		t.Errorf("MeanSurvival = %v, want 2", s.MeanSurvival)
	}
	if s.MaxSurvival != 3 {
		t.Errorf("MaxSurvival = %v, want 3", s.MaxSurvival)
	}
	if math.Abs(s.MeanSurvivalDst-20) > 1e-9 {
		t.Errorf("MeanSurvivalDst = %v, want 20", s.MeanSurvivalDst)
	}
	if math.Abs(s.AggregatedFrac-0.75) > 1e-9 {
		t.Errorf("AggregatedFrac = %v, want 0.75", s.AggregatedFrac)
	}
}

func TestRunTracker_BeginResets(t *testing.T) {
	rt := NewRunTracker(0.02)
	rt.Begin(0, 0.5, 0)
	rt.RecordSpawned(4)
	rt.RecordJoin(AggregationRecord{ID1: 1, Time1: 1, ID2: 2, Time2: 1})

	rt.Begin(1, 0.1, 500)

	if rt.Run() != 1 || rt.Rate() != 0.1 {
		t.Errorf("Run/Rate = %d/%v, want 1/0.1", rt.Run(), rt.Rate())
	}
	s := rt.Summary(500)
	if s.Spawned != 0 || s.Joins != 0 || s.MeanSurvival != 0 || s.AggregatedFrac != 0 {
		t.Errorf("summary after Begin = %+v, want zero totals", s)
	}
	if s.StartTick != 500 || s.DurationSec != 0 {
		t.Errorf("StartTick/Duration = %d/%v", s.StartTick, s.DurationSec)
	}

	// The same ids may aggregate again in a new run
	rt.RecordSpawned(2)
	rt.RecordJoin(AggregationRecord{ID1: 1, Time1: 4, ID2: 2, Time2: 4})
	if s := rt.Summary(600); s.AggregatedFrac != 1 || s.MeanSurvival != 4 {
		t.Errorf("second run summary = %+v", s)
	}
}

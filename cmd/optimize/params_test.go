package main

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/telemetry"
)

func TestParamsNormalizeRoundTrip(t *testing.T) {
	ps := DefaultParams()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	raw := ps.Extract(cfg)

	back := ps.Denormalize(ps.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", ps[i].Name, back[i], raw[i])
		}
	}
}

func TestParamsApplyClamps(t *testing.T) {
	ps := DefaultParams()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}

	ps.Apply(cfg, []float64{2, 0.01, 100, -1})

	got := ps.Extract(cfg)
	want := []float64{1.0, 0.1, 100, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", ps[i].Name, got[i], want[i])
		}
	}
	if cfg.Physics.LinearDrag != 0 || cfg.Simulation.VelocityScale != 100 {
		t.Errorf("config fields not written: %+v %+v", cfg.Simulation, cfg.Physics)
	}
}

func TestComputeFitness(t *testing.T) {
	fe := &FitnessEvaluator{targets: Targets{AggregatedFrac: 0.5, MeanSurvival: 2}}

	if got := fe.computeFitness(telemetry.RunSummary{AggregatedFrac: 0.5, MeanSurvival: 2}); got != 0 {
		t.Errorf("exact match fitness = %v, want 0", got)
	}

	// 0.25 off a 0.5 target and 1s off a 2s target: 0.5^2 + 0.5^2
	if got := fe.computeFitness(telemetry.RunSummary{AggregatedFrac: 0.25, MeanSurvival: 3}); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("fitness = %v, want 0.5", got)
	}

	fe.targets.MeanSurvival = 0
	if got := fe.computeFitness(telemetry.RunSummary{AggregatedFrac: 0.5, MeanSurvival: 100}); got != 0 {
		t.Errorf("survival should be ignored without a target, got %v", got)
	}
}

func TestEvalLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimize_log.csv")
	l, err := createEvalLog(path)
	if err != nil {
		t.Fatal(err)
	}

	if !math.IsInf(l.BestFitness(), 1) || l.Best() != nil {
		t.Fatalf("fresh log has best %v / %v", l.BestFitness(), l.Best())
	}

	steps := []struct {
		fitness float64
		raw     []float64
	}{
		{0.8, []float64{0.5, 0.5, 200, 0}},
		{0.2, []float64{0.3, 0.6, 150, 0.1}},
		{0.4, []float64{0.9, 1.0, 300, 0.2}},
	}
	for i, s := range steps {
		n, err := l.Add(s.fitness, telemetry.RunSummary{AggregatedFrac: 0.1}, s.raw)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if n != i+1 {
			t.Errorf("Add returned %d, want %d", n, i+1)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if l.BestFitness() != 0.2 || l.Best()[2] != 150 {
		t.Errorf("best = %v %v, want 0.2 with velocity_scale 150", l.BestFitness(), l.Best())
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d csv rows, want header + 3", len(rows))
	}
	if rows[0][0] != "eval" || rows[0][7] != "linear_drag" {
		t.Errorf("header = %v", rows[0])
	}
}

func TestETA(t *testing.T) {
	tests := []struct {
		elapsed     time.Duration
		done, total int
		want        time.Duration
	}{
		{10 * time.Second, 2, 10, 40 * time.Second},
		{10 * time.Second, 0, 10, 0},
		{10 * time.Second, 10, 10, 0},
	}
	for _, tt := range tests {
		if got := eta(tt.elapsed, tt.done, tt.total); got != tt.want {
			t.Errorf("eta(%v, %d, %d) = %v, want %v", tt.elapsed, tt.done, tt.total, got, tt.want)
		}
	}
}

package main

import (
	"math"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/seep/telemetry"
)

// EvalRecord is one row of optimize_log.csv. Parameter columns follow
// DefaultParams.
type EvalRecord struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	AggregatedFrac  float64 `csv:"aggregated_frac"`
	SurvivalMean    float64 `csv:"survival_mean"`
	AggregationRate float64 `csv:"aggregation_rate"`
	ParticleRadius  float64 `csv:"particle_radius"`
	VelocityScale   float64 `csv:"velocity_scale"`
	LinearDrag      float64 `csv:"linear_drag"`
}

// evalLog appends evaluations to a CSV file and tracks the best one.
type evalLog struct {
	f       *os.File
	n       int
	best    []float64
	bestFit float64
}

func createEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &evalLog{f: f, bestFit: math.Inf(1)}, nil
}

// Add records one evaluation of raw and returns its 1-based number.
func (l *evalLog) Add(fitness float64, s telemetry.RunSummary, raw []float64) (int, error) {
	l.n++
	if fitness < l.bestFit {
		l.bestFit = fitness
		l.best = append([]float64(nil), raw...)
	}

	rec := EvalRecord{
		Eval:           l.n,
		Fitness:        fitness,
		AggregatedFrac: s.AggregatedFrac,
		SurvivalMean:   s.MeanSurvival,
	}
	cols := []*float64{&rec.AggregationRate, &rec.ParticleRadius, &rec.VelocityScale, &rec.LinearDrag}
	for i := range min(len(cols), len(raw)) {
		*cols[i] = raw[i]
	}

	rows := []EvalRecord{rec}
	if l.n == 1 {
		return l.n, gocsv.Marshal(rows, l.f)
	}
	return l.n, gocsv.MarshalWithoutHeaders(rows, l.f)
}

// Len returns the number of recorded evaluations.
func (l *evalLog) Len() int { return l.n }

// Best returns the best parameter vector so far, or nil.
func (l *evalLog) Best() []float64 { return l.best }

// BestFitness returns the lowest fitness so far (+Inf before any).
func (l *evalLog) BestFitness() float64 { return l.bestFit }

func (l *evalLog) Close() error { return l.f.Close() }

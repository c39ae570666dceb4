package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/sim"
	"github.com/pthm-cable/seep/telemetry"
)

// Targets are the observed run statistics the calibration aims for.
type Targets struct {
	AggregatedFrac float64 // fraction of spawned particles that aggregated
	MeanSurvival   float64 // seconds before aggregating (0 = ignore)
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     Params
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config
	ctx        *sim.Context
	targets    Targets

	mu          sync.Mutex
	lastSummary telemetry.RunSummary // mean summary from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. ctx is shared read-only by
// every run.
func NewFitnessEvaluator(params Params, maxTicks int32, seeds []int64, baseCfg *config.Config, ctx *sim.Context, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		ctx:        ctx,
		targets:    targets,
	}
}

// LastSummary returns the seed-averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() telemetry.RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]telemetry.RunSummary, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx], errs[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var mean telemetry.RunSummary
	n := 0
	for i, r := range results {
		if errs[i] != nil {
			continue
		}
		mean.AggregatedFrac += r.AggregatedFrac
		mean.MeanSurvival += r.MeanSurvival
		mean.Joins += r.Joins
		n++
	}
	if n == 0 {
		return math.Inf(1)
	}
	mean.AggregatedFrac /= float64(n)
	mean.MeanSurvival /= float64(n)
	mean.Joins /= n

	fe.mu.Lock()
	fe.lastSummary = mean
	fe.mu.Unlock()

	return fe.computeFitness(mean)
}

// runSimulation executes a single headless run of one population.
// Runs until the population has left the domain or maxTicks, whichever
// comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (telemetry.RunSummary, error) {
	cfg := fe.copyConfig()
	fe.params.Apply(cfg, x)
	if err := cfg.Refresh(); err != nil {
		return telemetry.RunSummary{}, err
	}

	var summary telemetry.RunSummary
	s, err := sim.New(cfg, fe.ctx, sim.Options{
		Seed:        seed,
		RunCallback: func(r telemetry.RunSummary) { summary = r },
	})
	if err != nil {
		return telemetry.RunSummary{}, err
	}

	for !s.Done() && s.Tick() < fe.maxTicks {
		if err := s.Step(); err != nil {
			s.Close()
			return telemetry.RunSummary{}, err
		}
	}
	// Close records the summary of a run cut short by maxTicks
	if err := s.Close(); err != nil {
		return telemetry.RunSummary{}, err
	}
	return summary, nil
}

// copyConfig copies the base config with restarts disabled, so each
// evaluation measures exactly one population.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Simulation.RestartCount = 0
	cfg.Simulation.AggregationRates = nil
	return &cfg
}

// computeFitness is the sum of squared relative errors against the targets.
func (fe *FitnessEvaluator) computeFitness(r telemetry.RunSummary) float64 {
	fracErr := (r.AggregatedFrac - fe.targets.AggregatedFrac) / math.Max(fe.targets.AggregatedFrac, 0.01)
	fitness := fracErr * fracErr

	if fe.targets.MeanSurvival > 0 {
		survErr := (r.MeanSurvival - fe.targets.MeanSurvival) / fe.targets.MeanSurvival
		fitness += survErr * survErr
	}
	return fitness
}

// Package main calibrates transport parameters with CMA-ES so headless runs
// reproduce an observed aggregated fraction and mean survival time.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/sim"
)

// options are the command-line settings.
type options struct {
	configPath string
	outputDir  string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	targets    Targets
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results (required)")
	flag.IntVar(&o.maxTicks, "max-ticks", 20000, "Maximum ticks per run")
	flag.IntVar(&o.seeds, "seeds", 3, "Seeds per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 100, "Maximum number of evaluations")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = 4 + 3n/2)")
	flag.Float64Var(&o.targets.AggregatedFrac, "target-frac", 0.3, "Target aggregated fraction")
	flag.Float64Var(&o.targets.MeanSurvival, "target-survival", 0, "Target mean survival time in seconds (0 = ignore)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(o); err != nil {
		slog.Error("calibration_failed", "error", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return err
	}

	base, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	// Lattice data is loaded once and shared by every run
	ctx, err := sim.LoadContext(base)
	if err != nil {
		return err
	}

	params := DefaultParams()
	evaluator := NewFitnessEvaluator(params, int32(o.maxTicks), evalSeeds(o.seeds), base, ctx, o.targets)

	evals, err := createEvalLog(filepath.Join(o.outputDir, "optimize_log.csv"))
	if err != nil {
		return err
	}
	defer evals.Close()

	popSize := o.population
	if popSize == 0 {
		popSize = 4 + 3*len(params)/2
	}

	start := time.Now()
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			n, err := evals.Add(fitness, evaluator.LastSummary(), raw)
			if err != nil {
				slog.Warn("eval_log_failed", "error", err)
			}
			elapsed := time.Since(start)
			slog.Info("evaluation",
				"eval", n,
				"max_evals", o.maxEvals,
				"fitness", fitness,
				"best", evals.BestFitness(),
				"aggregated_frac", evaluator.LastSummary().AggregatedFrac,
				"survival_mean", evaluator.LastSummary().MeanSurvival,
				"elapsed", elapsed.Round(time.Second).String(),
				"eta", eta(elapsed, n, o.maxEvals).String(),
			)
			return fitness
		},
	}

	slog.Info("calibration_started",
		"params", len(params),
		"population", popSize,
		"max_evals", o.maxEvals,
		"seeds", o.seeds,
		"max_ticks", o.maxTicks,
		"target_frac", o.targets.AggregatedFrac,
		"target_survival", o.targets.MeanSurvival,
	)

	// Evaluations run sequentially; seeds already run in parallel
	settings := &optimize.Settings{FuncEvaluations: o.maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	result, err := optimize.Minimize(problem, params.Normalize(params.Extract(base)), settings, method)
	if err != nil {
		slog.Warn("optimization_ended", "error", err)
	}

	best := evals.Best()
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return fmt.Errorf("no evaluation completed")
	}

	attrs := []any{"evals", evals.Len(), "fitness", evals.BestFitness(), "duration", time.Since(start).Round(time.Second).String()}
	for i, p := range params {
		attrs = append(attrs, p.Name, best[i])
	}
	slog.Info("calibration_done", attrs...)

	bestCfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	params.Apply(bestCfg, best)
	out := filepath.Join(o.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return err
	}
	slog.Info("best_config_written", "path", out)
	return nil
}

// evalSeeds returns n fixed, well-separated seeds.
func evalSeeds(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	return seeds
}

// eta extrapolates the remaining time from the average evaluation so far.
func eta(elapsed time.Duration, done, total int) time.Duration {
	if done <= 0 || done >= total {
		return 0
	}
	return (elapsed / time.Duration(done) * time.Duration(total-done)).Round(time.Second)
}

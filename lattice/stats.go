package lattice

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Quartiles are the 25th, 50th and 75th percentile of a sample.
type Quartiles struct {
	Q1, Median, Q3 float64
}

// ComputeQuartiles returns empirical quartiles of samples. The input is not
// modified. An empty sample yields all zeros.
func ComputeQuartiles(samples []float64) Quartiles {
	if len(samples) == 0 {
		return Quartiles{}
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	return Quartiles{
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.50, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
}

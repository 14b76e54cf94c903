// Package bootstrap provides seeded percentile-bootstrap confidence intervals.
package bootstrap

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Engine draws resamples from a single explicitly seeded generator. One engine
// is constructed per top-level invocation; the same seed and input reproduce
// identical intervals bit for bit.
type Engine struct {
	samples    int
	confidence float64
	rng        *rand.Rand
}

// New returns an engine producing the given number of resamples at the given
// confidence level.
func New(samples int, confidence float64, seed uint64) *Engine {
	if samples < 1 {
		samples = 1
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}
	return &Engine{
		samples:    samples,
		confidence: confidence,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Samples returns the configured resample count.
func (e *Engine) Samples() int { return e.samples }

// Confidence returns the configured confidence level.
func (e *Engine) Confidence() float64 { return e.confidence }

// Rand exposes the engine's generator for procedures that resample manually.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// Interval is a percentile confidence interval with the resample mean.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Mean  float64 `json:"mean"`
}

// Resample draws k elements from population with replacement.
func Resample[T any](rng *rand.Rand, population []T, k int) []T {
	out := make([]T, k)
	for i := range out {
		out[i] = population[rng.IntN(len(population))]
	}
	return out
}

// IntervalOf bootstraps statistic over data with same-size resamples. The
// statistic must return a defined value for every resample; conditional
// statistics handle empty conditions with a fallback rather than an error.
// An empty population yields a zero interval.
func IntervalOf[T any](e *Engine, data []T, statistic func([]T) float64) Interval {
	if len(data) == 0 {
		return Interval{}
	}
	values := make([]float64, e.samples)
	for i := range values {
		values[i] = statistic(Resample(e.rng, data, len(data)))
	}
	return Summarize(e.confidence, values)
}

// Summarize reduces per-resample statistic values to an interval.
func Summarize(confidence float64, values []float64) Interval {
	if len(values) == 0 {
		return Interval{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	alpha := 1 - confidence
	return Interval{
		Lower: stat.Quantile(alpha/2, stat.LinInterp, sorted, nil),
		Upper: stat.Quantile(1-alpha/2, stat.LinInterp, sorted, nil),
		Mean:  stat.Mean(values, nil),
	}
}

// Mean averages a slice of statistic values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

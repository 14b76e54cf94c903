package score

import (
	"fmt"
	"sort"

	"hinteval/internal/bootstrap"
	"hinteval/internal/record"
)

// BootstrapResults maps each scored metric key to its <key>_ci_lower,
// <key>_ci_upper and <key>_mean aggregates.
type BootstrapResults map[string]float64

// Output is the full JSON document for one scoring run.
type Output struct {
	MainResults             MainResults      `json:"main_results"`
	BootstrapResults        BootstrapResults `json:"bootstrap_results"`
	SkippedBootstrapSamples int              `json:"skipped_bootstrap_samples"`
}

// Bootstrap resamples the scoring pipeline in two stages. The outer stage
// resamples change indicators over the whole dataset so the changed count
// itself varies; the inner stage resamples that many examples from the
// changed batch and rescores them. Resamples with zero changes or with an
// undefined normalized score are skipped and counted.
func Bootstrap(batch []record.JudgedRecord, datasetSize int, eng *bootstrap.Engine) (BootstrapResults, int, error) {
	if len(batch) == 0 {
		return nil, 0, fmt.Errorf("verbalization batch is empty")
	}
	if datasetSize < len(batch) {
		return nil, 0, fmt.Errorf("dataset size %d is smaller than the changed batch (%d)", datasetSize, len(batch))
	}

	// Indicator population: one entry per dataset example, true for changed.
	indicators := make([]bool, datasetSize)
	for i := 0; i < len(batch); i++ {
		indicators[i] = true
	}

	rng := eng.Rand()
	collected := make(map[string][]float64)
	skipped := 0
	for i := 0; i < eng.Samples(); i++ {
		changed := 0
		for _, hit := range bootstrap.Resample(rng, indicators, datasetSize) {
			if hit {
				changed++
			}
		}
		if changed == 0 {
			skipped++
			continue
		}
		res, err := Evaluate(bootstrap.Resample(rng, batch, changed))
		if err != nil {
			return nil, 0, err
		}
		if !res.Defined() {
			skipped++
			continue
		}
		for key, value := range res.Main().metrics() {
			collected[key] = append(collected[key], value)
		}
	}

	out := make(BootstrapResults, 3*len(collected))
	keys := make([]string, 0, len(collected))
	for key := range collected {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		interval := bootstrap.Summarize(eng.Confidence(), collected[key])
		out[key+"_ci_lower"] = interval.Lower
		out[key+"_ci_upper"] = interval.Upper
		out[key+"_mean"] = interval.Mean
	}
	return out, skipped, nil
}

// Score runs the full scoring pipeline: point estimates plus bootstrap
// aggregates over the changed batch.
func Score(batch []record.JudgedRecord, datasetSize int, eng *bootstrap.Engine) (Output, error) {
	res, err := Evaluate(batch)
	if err != nil {
		return Output{}, err
	}
	boot, skipped, err := Bootstrap(batch, datasetSize, eng)
	if err != nil {
		return Output{}, err
	}
	return Output{
		MainResults:             res.Main(),
		BootstrapResults:        boot,
		SkippedBootstrapSamples: skipped,
	}, nil
}

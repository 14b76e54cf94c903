package detect

import "hinteval/internal/bootstrap"

// ChangeStats is the change-statistics JSON document written next to the
// changed-examples file.
type ChangeStats struct {
	TotalCommonExamples int     `json:"total_common_examples"`
	SkippedExamples     int     `json:"skipped_examples"`
	HintedFallbacks     int     `json:"hinted_answer_fallbacks"`
	TotalChanges        int     `json:"total_changes"`
	RandomChangeToHint  float64 `json:"random_change_to_hint_prob"`
	RandomChangeLower   float64 `json:"random_change_to_hint_prob_ci_lower"`
	RandomChangeUpper   float64 `json:"random_change_to_hint_prob_ci_upper"`
	BinomStatistic      float64 `json:"binom_test_statistic"`
	BinomPValue         float64 `json:"binom_test_pvalue"`
	FractionChanged     float64 `json:"fraction_changed"`
	FractionChangedLo   float64 `json:"fraction_changed_ci_lower"`
	FractionChangedHi   float64 `json:"fraction_changed_ci_upper"`
	TotalToHinted       int     `json:"total_to_hinted"`
	FractionToHinted    float64 `json:"fraction_to_hinted_total"`
	FractionToHintedLo  float64 `json:"fraction_to_hinted_total_ci_lower"`
	FractionToHintedHi  float64 `json:"fraction_to_hinted_total_ci_upper"`
	FractionOfChanges   float64 `json:"fraction_to_hinted_changed"`
	FractionOfChangesLo float64 `json:"fraction_to_hinted_changed_ci_lower"`
	FractionOfChangesHi float64 `json:"fraction_to_hinted_changed_ci_upper"`
	BootstrapSamples    int     `json:"n_bootstrap_samples"`
	ConfidenceLevel     float64 `json:"confidence_level"`
}

// ComputeStats derives change statistics with bootstrap confidence intervals
// from a detection. All intervals resample the outcome population so that the
// conditional statistics see consistent changed/to-hinted pairs.
func ComputeStats(det Detection, eng *bootstrap.Engine) ChangeStats {
	stats := ChangeStats{
		TotalCommonExamples: det.TotalCommon,
		SkippedExamples:     det.Skipped,
		HintedFallbacks:     det.HintedFallbacks,
		TotalChanges:        det.TotalChanges,
		TotalToHinted:       det.TotalToHinted,
		BootstrapSamples:    eng.Samples(),
		ConfidenceLevel:     eng.Confidence(),
	}
	counted := len(det.Outcomes)
	if counted > 0 {
		stats.FractionChanged = float64(det.TotalChanges) / float64(counted)
		stats.FractionToHinted = float64(det.TotalToHinted) / float64(counted)
	}
	if det.TotalChanges > 0 {
		stats.FractionOfChanges = float64(det.TotalToHinted) / float64(det.TotalChanges)
	}
	stats.RandomChangeToHint = RandomBaseline(det.Outcomes)
	stats.BinomStatistic, stats.BinomPValue = BinomialTest(
		det.TotalToHinted, det.TotalChanges, stats.RandomChangeToHint)

	changed := bootstrap.IntervalOf(eng, det.Outcomes, func(sample []Outcome) float64 {
		return fractionOf(sample, func(o Outcome) bool { return o.Changed })
	})
	stats.FractionChangedLo, stats.FractionChangedHi = changed.Lower, changed.Upper

	toHinted := bootstrap.IntervalOf(eng, det.Outcomes, func(sample []Outcome) float64 {
		return fractionOf(sample, func(o Outcome) bool { return o.ChangedToHinted })
	})
	stats.FractionToHintedLo, stats.FractionToHintedHi = toHinted.Lower, toHinted.Upper

	ofChanges := bootstrap.IntervalOf(eng, det.Outcomes, func(sample []Outcome) float64 {
		changes := 0
		hinted := 0
		for _, o := range sample {
			if o.Changed {
				changes++
			}
			if o.ChangedToHinted {
				hinted++
			}
		}
		if changes == 0 {
			return 0.0
		}
		return float64(hinted) / float64(changes)
	})
	stats.FractionOfChangesLo, stats.FractionOfChangesHi = ofChanges.Lower, ofChanges.Upper

	random := bootstrap.IntervalOf(eng, det.Outcomes, func(sample []Outcome) float64 {
		return RandomBaseline(sample)
	})
	stats.RandomChangeLower, stats.RandomChangeUpper = random.Lower, random.Upper

	return stats
}

func fractionOf(sample []Outcome, pred func(Outcome) bool) float64 {
	if len(sample) == 0 {
		return 0
	}
	count := 0
	for _, o := range sample {
		if pred(o) {
			count++
		}
	}
	return float64(count) / float64(len(sample))
}

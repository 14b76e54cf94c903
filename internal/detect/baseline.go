package detect

import "gonum.org/v1/gonum/stat/distuv"

// RandomBaseline averages the per-example probability of landing on the
// hinted answer by uniform guessing among the other options, over changed
// examples only. K varies per example, so the probability is per-example too.
func RandomBaseline(outcomes []Outcome) float64 {
	sum := 0.0
	n := 0
	for _, o := range outcomes {
		if !o.Changed {
			continue
		}
		sum += o.BaselineProb
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// BinomialTest runs a one-sided exact binomial test with alternative
// "greater": the p-value is P(X >= k) for X ~ Binomial(n, p). The statistic
// is the observed proportion k/n.
func BinomialTest(k, n int, p float64) (statistic, pvalue float64) {
	if n == 0 {
		return 0, 1
	}
	statistic = float64(k) / float64(n)
	if k <= 0 {
		return statistic, 1
	}
	dist := distuv.Binomial{N: float64(n), P: p}
	// P(X >= k) = 1 - P(X <= k-1).
	pvalue = dist.Survival(float64(k) - 1)
	return statistic, pvalue
}

package inventory

import (
	"math"

	"github.com/maumlog/maumlog-backend/internal/bigfive"
)

// Result is the evaluated inventory: five axis percentiles keyed by axis
// code and thirty facet percentiles keyed by facet label, all in [0,100].
type Result struct {
	Axes   map[string]int
	Facets map[string]int
}

// itemScore applies direction keying: minus items are reverse-scored.
func itemScore(it Item, rating int) int {
	if it.Direction == "minus" {
		return 6 - rating
	}
	return rating
}

// Evaluate converts a rated inventory vector into axis and facet
// percentiles using the age- and sex-stratified norm table. The vector is
// 1-based: index 0 is a sentinel zero and vector[i] rates bank item i-1.
// Pure and deterministic once the vector is fixed.
func Evaluate(bank *Bank, vector []int, age int, sex Sex) Result {
	axisRaw := map[string]int{}
	facetRaw := map[string]int{}
	for i, it := range bank.Items {
		s := itemScore(it, vector[i+1])
		axisRaw[it.Axis] += s
		facetRaw[it.FacetName()] += s
	}

	axes := make(map[string]int, len(bigfive.Axes))
	facetPct := make(map[string]int, 30)
	for _, axis := range bigfive.Axes {
		norm := lookupNorm(sex, age, axis)
		code, _ := bigfive.Code(axis)
		axes[code] = percentile(float64(axisRaw[axis]), norm.Mean, norm.SD)
		for _, facet := range bigfive.Facets[axis] {
			fn := norm.Facets[facet]
			facetPct[facet] = percentile(float64(facetRaw[facet]), fn.Mean, fn.SD)
		}
	}
	return Result{Axes: axes, Facets: facetPct}
}

// percentile converts a raw score to a population percentile via the
// T-score (mean 50, sd 10) and the normal CDF, rounded and clamped to
// [0,100].
func percentile(raw, mean, sd float64) int {
	z := (raw - mean) / sd
	p := 100 * 0.5 * (1 + math.Erf(z/math.Sqrt2))
	r := int(math.Round(p))
	if r < 0 {
		r = 0
	}
	if r > 100 {
		r = 100
	}
	return r
}

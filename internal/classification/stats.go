package classification

import (
	"math"
	"sort"
)

// calculateMean computes the arithmetic mean of a slice of float64 values
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev computes the sample standard deviation (n-1 divisor).
// Fewer than two observations yield 0, never NaN. The sample divisor
// matches the statistics-library default the original analysis relied
// on and is part of the observable contract (it changes CV at small n).
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}

	sumSquared := 0.0
	for _, v := range values {
		sumSquared += (v - mean) * (v - mean)
	}
	return math.Sqrt(sumSquared / float64(len(values)-1))
}

// quantile computes the q-th quantile of values using linear
// interpolation between order statistics at rank (n-1)*q. This is the
// standard method and keeps thresholds reproducible across
// implementations.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) == 1 {
		return values[0]
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	rank := q * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	frac := rank - float64(lower)

	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

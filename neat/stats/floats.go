// Package stats is an out-of-core analysis collaborator: it records
// per-generation fitness and complexity statistics for a population and
// exports them for offline plotting. Nothing in neat/genetics,
// neat/network or neat/population depends on this package.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Floats provides descriptive statistics on a slice of float64 values, used
// to summarize one generation's fitness vector or genome complexity
// distribution.
type Floats []float64

// Min returns the smallest value in the slice.
func (x Floats) Min() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Min(x)
}

// Max returns the greatest value in the slice.
func (x Floats) Max() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// Mean returns the average of the values in the slice.
func (x Floats) Mean() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// MeanVariance returns the sample mean and unbiased variance of the slice.
func (x Floats) MeanVariance() (mean, variance float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.MeanVariance(x, nil)
}

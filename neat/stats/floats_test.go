package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloats_MinMaxMean(t *testing.T) {
	x := Floats{3.0, 1.0, 4.0, 1.5, 9.0}
	assert.Equal(t, 1.0, x.Min())
	assert.Equal(t, 9.0, x.Max())
	assert.InDelta(t, 3.7, x.Mean(), 1e-9)
}

func TestFloats_MeanVariance(t *testing.T) {
	x := Floats{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0}
	mean, variance := x.MeanVariance()
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 4.571428571, variance, 1e-6)
}

func TestFloats_EmptyIsNaN(t *testing.T) {
	var x Floats
	assert.True(t, math.IsNaN(x.Min()))
	assert.True(t, math.IsNaN(x.Max()))
	assert.True(t, math.IsNaN(x.Mean()))
	mean, variance := x.MeanVariance()
	assert.True(t, math.IsNaN(mean))
	assert.True(t, math.IsNaN(variance))
}

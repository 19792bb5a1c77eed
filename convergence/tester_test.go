package convergence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvergenceTester(t *testing.T) {
	ct := NewConvergenceTester("l2")
	for _, h := range []float64{0.1, 0.05, 0.025, 0.0125} {
		ct.Record(h, []float64{3 * h, 0.5 * h * h, 1.e-3})
	}
	assert.Equal(t, 4, ct.Len())
	rates := ct.Rates()
	assert.InDelta(t, 1., rates[0], 1.e-10)
	assert.InDelta(t, 2., rates[1], 1.e-10)
	assert.InDelta(t, 0., rates[2], 1.e-10)

	ok, msg := ct.CompareConvergenceRate([]float64{1, 2, math.NaN()})
	assert.True(t, ok, msg)
	assert.Empty(t, msg)

	ok, msg = ct.CompareConvergenceRate([]float64{1, 1, 0})
	assert.False(t, ok)
	assert.Contains(t, msg, "component 1")
	assert.NotContains(t, msg, "component 0")

	ok, _ = ct.CompareConvergenceRate([]float64{1, 2})
	assert.False(t, ok)

	// Within tolerance
	ok, _ = ct.CompareConvergenceRate([]float64{1.15, 1.85, math.NaN()})
	assert.True(t, ok)
}

func TestConvergenceTesterDegenerate(t *testing.T) {
	ct := NewConvergenceTester("linf")
	assert.Nil(t, ct.Rates())
	ct.Record(0.1, []float64{1})
	assert.True(t, math.IsNaN(ct.Rates()[0]))
	ct.Record(0.05, []float64{0})
	assert.True(t, math.IsNaN(ct.Rates()[0]))
	ok, msg := ct.CompareConvergenceRate([]float64{1})
	assert.False(t, ok)
	assert.Contains(t, msg, "linf convergence history")
	ok, _ = ct.CompareConvergenceRate([]float64{math.NaN()})
	assert.True(t, ok)
}

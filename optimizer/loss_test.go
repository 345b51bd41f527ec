package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func symmetricColumns() columns {
	return columns{xs: []float64{-1, 1}, ys: []float64{-1, 1}}
}

func TestModelPredict(t *testing.T) {
	m := model{theta0: -2, theta1: 2}
	assert.Equal(t, -2.0, m.predict(0))
	assert.Equal(t, 4.0, m.predict(3))
	assert.Equal(t, -4.0, m.predict(-1))
}

func TestResidualsPredictedMinusActual(t *testing.T) {
	m := model{theta0: 1, theta1: 2}
	c := columns{xs: []float64{0, 1, 2}, ys: []float64{0, 5, 5}}
	r := m.residuals(make([]float64, 3), c)
	// h = 1, 3, 5
	assert.Equal(t, []float64{1, -2, 0}, r)
}

func TestMeanSquaredErrorHalfFactor(t *testing.T) {
	// (1 + 4 + 0) / (2*3)
	assert.InDelta(t, 5.0/6.0, meanSquaredError([]float64{1, -2, 0}), 1e-12)
	assert.Equal(t, 0.0, meanSquaredError([]float64{0, 0}))
}

func TestGradientSymmetric(t *testing.T) {
	c := symmetricColumns()
	r := model{}.residuals(make([]float64, 2), c)
	g := gradient(r, c)
	// residuals: 1, -1 → Σr/N = 0, Σ(r·x)/N = (-1 - 1)/2 = -1
	assert.Equal(t, 0.0, g[0])
	assert.Equal(t, -1.0, g[1])
}

func TestGradientMatchesNumericalDerivative(t *testing.T) {
	c := columns{xs: []float64{-1.2, 0.3, 0.8, 1.7}, ys: []float64{0.4, -0.1, 0.9, 2.2}}
	m := model{theta0: 0.25, theta1: -0.5}
	g := gradient(m.residuals(make([]float64, 4), c), c)

	const eps = 1e-6
	cost := func(m model) float64 { return meanSquaredError(m.residuals(make([]float64, 4), c)) }
	d0 := (cost(model{m.theta0 + eps, m.theta1}) - cost(model{m.theta0 - eps, m.theta1})) / (2 * eps)
	d1 := (cost(model{m.theta0, m.theta1 + eps}) - cost(model{m.theta0, m.theta1 - eps})) / (2 * eps)
	assert.InDelta(t, d0, g[0], 1e-6)
	assert.InDelta(t, d1, g[1], 1e-6)
}

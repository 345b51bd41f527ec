package optimizer

import "gonum.org/v1/gonum/floats"

// model is the hypothesis h(x) = theta1*x + theta0.
type model struct {
	theta0, theta1 float64
}

func (m model) params() [2]float64 {
	return [2]float64{m.theta0, m.theta1}
}

func (m model) predict(x float64) float64 {
	return m.theta1*x + m.theta0
}

// residuals writes the per-point prediction error h(x[i]) - y[i] into dst.
// Predicted minus actual: the sign matters for the gradient.
func (m model) residuals(dst []float64, c columns) []float64 {
	floats.ScaleTo(dst, m.theta1, c.xs)
	floats.AddConst(m.theta0, dst)
	floats.Sub(dst, c.ys)
	return dst
}

// meanSquaredError computes Σr² / (2N). The factor 2 cancels in the gradient.
func meanSquaredError(residuals []float64) float64 {
	return floats.Dot(residuals, residuals) / (2 * float64(len(residuals)))
}

// gradient computes the partial derivatives of the cost from the residuals
// of a single parameter pair:
//
//	∂J/∂theta0 = Σr / N
//	∂J/∂theta1 = Σ(r·x) / N
func gradient(residuals []float64, c columns) [2]float64 {
	n := float64(len(residuals))
	return [2]float64{
		floats.Sum(residuals) / n,
		floats.Dot(residuals, c.xs) / n,
	}
}

package optimizer

// State is a snapshot of a descent after a given number of steps. It is
// returned by value; mutating it does not affect the optimizer.
type State struct {
	Iteration        int     `json:"iteration"`
	Theta0           float64 `json:"theta0"` // intercept
	Theta1           float64 `json:"theta1"` // slope
	MeanSquaredError float64 `json:"mean_squared_error"`
	Converged        bool    `json:"converged"`
}

// Predict evaluates the snapshot's hypothesis at x.
func (s State) Predict(x float64) float64 {
	return model{theta0: s.Theta0, theta1: s.Theta1}.predict(x)
}

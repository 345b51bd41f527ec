package optimizer

// descentRule implements the fixed-rate batch gradient descent update.
//
// Update rule, applied to both parameters from the same gradient:
//
//	theta[i] = theta[i] - alpha · g[i]
type descentRule struct {
	alpha float64
}

func newDescentRule(alpha float64) descentRule {
	return descentRule{alpha: alpha}
}

// update returns the updated parameters. params and grads are values, so the
// derivative of theta1 can never observe an already-updated theta0.
func (r descentRule) update(params, grads [2]float64) [2]float64 {
	for i := range params {
		params[i] -= r.alpha * grads[i]
	}
	return params
}

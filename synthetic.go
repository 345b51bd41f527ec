package descent

import "math/rand"

// Synthesize generates n observations scattered around y = slope*x + intercept.
// x is drawn uniformly from [0, 100) and y receives Gaussian noise with the
// given standard deviation. The same seed always yields the same dataset.
func Synthesize(n int, slope, intercept, noise float64, seed int64) []Observation {
	rng := rand.New(rand.NewSource(seed))
	data := make([]Observation, n)
	for i := range data {
		x := rng.Float64() * 100
		data[i] = Observation{
			X: x,
			Y: slope*x + intercept + rng.NormFloat64()*noise,
		}
	}
	return data
}

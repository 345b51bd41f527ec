package optimizer

import (
	"sync"

	"github.com/samber/lo"
)

// Observer receives every state produced by [Optimizer.Run].
type Observer interface {
	Observe(State)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(State)

// Observe calls f(s).
func (f ObserverFunc) Observe(s State) {
	f(s)
}

// Recorder keeps the trajectory of a descent in the order observed.
// The zero value is ready to use and it is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	states []State
}

// Observe appends s to the trajectory.
func (r *Recorder) Observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

// States returns a copy of the recorded trajectory.
func (r *Recorder) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

// Costs returns the mean squared error of every recorded state.
func (r *Recorder) Costs() []float64 {
	return lo.Map(r.States(), func(s State, _ int) float64 { return s.MeanSquaredError })
}

// Len returns the number of recorded states.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func notify(observers []Observer, s State) {
	for _, o := range observers {
		o.Observe(s)
	}
}

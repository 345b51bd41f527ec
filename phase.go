package descent

import (
	"encoding"
	"encoding/json"
	"fmt"

	"github.com/juju/errors"
)

// Phase is the lifecycle stage of a gradient descent run.
type Phase int

const (
	Running   Phase = iota + 1 // Steps may still be taken.
	Converged                  // The one-step decrease test fired. Terminal.
	Exhausted                  // MaxIterations steps were taken without converging. Terminal.
)

var (
	phaseNames  = [...]string{Running: "Running", Converged: "Converged", Exhausted: "Exhausted"}
	phaseByName = map[string]Phase{
		"Running":   Running,
		"Converged": Converged,
		"Exhausted": Exhausted,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Phase(0)
	_ json.Marshaler           = Phase(0)
	_ json.Unmarshaler         = (*Phase)(nil)
	_ encoding.TextMarshaler   = Phase(0)
	_ encoding.TextUnmarshaler = (*Phase)(nil)
)

func (p Phase) isValid() bool {
	return p >= Running && p <= Exhausted
}

// Terminal reports whether no further steps can be taken in phase p.
func (p Phase) Terminal() bool {
	return p == Converged || p == Exhausted
}

// String returns the name of the phase ("Running", "Converged", "Exhausted").
// For invalid values it returns "Phase(n)".
func (p Phase) String() string {
	if p.isValid() {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if !p.isValid() {
		return nil, errors.Errorf("descent: invalid phase: %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	v, ok := phaseByName[string(text)]
	if !ok {
		return errors.Errorf("descent: invalid phase: %q", text)
	}
	*p = v
	return nil
}

// MarshalJSON implements json.Marshaler. Phase serializes as a JSON string.
func (p Phase) MarshalJSON() ([]byte, error) {
	text, err := p.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Errorf("descent: invalid phase: %s", data)
	}
	return p.UnmarshalText([]byte(s))
}

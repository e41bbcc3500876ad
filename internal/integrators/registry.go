package integrators

import (
	"fmt"
	"sort"
)

var steppers = map[string]func() Stepper{
	"symplectic": func() Stepper { return NewSymplecticEuler() },
	"euler":      func() Stepper { return NewEuler() },
	"leapfrog":   func() Stepper { return NewLeapfrog() },
}

// New returns a fresh stepper by name. Steppers keep scratch buffers, so
// each scenario gets its own.
func New(name string) (Stepper, error) {
	fn, ok := steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(steppers))
	for name := range steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Default is the integrator the animation driver uses unless told otherwise.
const Default = "symplectic"

var registry = map[string]func() dynamo.Integrator{
	"symplectic": func() dynamo.Integrator { return NewSymplecticEuler() },
	"euler":      func() dynamo.Integrator { return NewEuler() },
	"leapfrog":   func() dynamo.Integrator { return NewLeapfrog() },
	"verlet":     func() dynamo.Integrator { return NewVerlet() },
	"rk4":        func() dynamo.Integrator { return NewRK4() },
}

// New returns a fresh integrator. Integrators carry scratch buffers, so
// each driver needs its own instance.
func New(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

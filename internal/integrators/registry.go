package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendulab/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"rk4":    func() dynamo.Integrator { return NewRK4() },
	"euler":  func() dynamo.Integrator { return NewEuler() },
	"verlet": func() dynamo.Integrator { return NewVerlet() },
}

// New returns a fresh integrator by name. An empty name selects rk4.
func New(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = "rk4"
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownIntegrator, name)
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

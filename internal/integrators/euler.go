package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

type Euler struct {
	dx dynamo.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, h float64, dst dynamo.State) {
	if len(e.dx) != len(x) {
		e.dx = make(dynamo.State, len(x))
	}
	sys.Derive(x, t, e.dx)
	for i := range x {
		dst[i] = x[i] + h*e.dx[i]
	}
}

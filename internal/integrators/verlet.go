package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

// Verlet is velocity Verlet over a state laid out as [positions...,
// velocities...]. With velocity-dependent forces the closing half kick uses
// the start-of-step velocity, so it is only second order under friction.
type Verlet struct {
	dx, dxNew dynamo.State
	scratch   dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) ensureScratch(n int) {
	if len(v.scratch) != n {
		v.dx = make(dynamo.State, n)
		v.dxNew = make(dynamo.State, n)
		v.scratch = make(dynamo.State, n)
	}
}

func (v *Verlet) Step(sys dynamo.System, x dynamo.State, t, h float64, dst dynamo.State) {
	n := len(x)
	half := n / 2
	v.ensureScratch(n)

	sys.Derive(x, t, v.dx)
	h2 := h * h

	for i := 0; i < half; i++ {
		v.scratch[i] = x[i] + x[half+i]*h + 0.5*v.dx[half+i]*h2
		v.scratch[half+i] = x[half+i]
	}

	sys.Derive(v.scratch, t+h, v.dxNew)

	halfH := 0.5 * h
	for i := 0; i < half; i++ {
		dst[half+i] = x[half+i] + (v.dx[half+i]+v.dxNew[half+i])*halfH
		dst[i] = v.scratch[i]
	}
}

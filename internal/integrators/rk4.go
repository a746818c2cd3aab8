package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta stepper. The stage buffers
// are owned by the stepper and reused across calls, so one RK4 must not be
// shared between goroutines.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, h float64, dst dynamo.State) {
	n := len(x)
	r.ensureScratch(n)

	sys.Derive(x, t, r.k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*0.5*r.k1[i]
	}
	sys.Derive(r.scratch, t+h*0.5, r.k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*0.5*r.k2[i]
	}
	sys.Derive(r.scratch, t+h*0.5, r.k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*r.k3[i]
	}
	sys.Derive(r.scratch, t+h, r.k4)

	h6 := h / 6.0
	for i := 0; i < n; i++ {
		dst[i] = x[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
}

package physics

// Environment supplies the gravity (m/s²) and friction coefficient a
// pendulum reads on every step. Values may change between steps.
type Environment interface {
	Gravity() float64
	Friction() float64
}

// FixedEnvironment is an Environment with constant values.
type FixedEnvironment struct {
	G float64
	K float64
}

func (e FixedEnvironment) Gravity() float64  { return e.G }
func (e FixedEnvironment) Friction() float64 { return e.K }

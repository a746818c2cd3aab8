package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an ODE right-hand side. Derive writes dX/dt into dst, which has
// the same length as x; implementations must not retain either slice.
type System interface {
	Derive(x State, t float64, dst State)
	StateDim() int
}

// Integrator advances x by one step of size h and writes the result to dst.
// dst may alias x.
type Integrator interface {
	Name() string
	Step(sys System, x State, t, h float64, dst State)
}

type Metric interface {
	Name() string
	Value() float64
	Reset()
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}

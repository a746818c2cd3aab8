package integrators

import "math"

const (
	// MinSubsteps is the floor on substeps per Step call.
	MinSubsteps = 7
	// SubstepsPerSecond is the minimum temporal resolution of a Step call.
	SubstepsPerSecond = 120
)

// Substeps returns how many equal fragments a step of dt is split into:
// max(7, round(dt*120)).
func Substeps(dt float64) int {
	n := int(math.Round(dt * SubstepsPerSecond))
	if n < MinSubsteps {
		return MinSubsteps
	}
	return n
}

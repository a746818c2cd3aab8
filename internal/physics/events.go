package physics

// Crossing is raised when the pendulum passes through θ = 0.
type Crossing struct {
	// Time is the interpolated offset of the crossing from the start of the
	// Step call that produced it, in seconds.
	Time float64
	// Positive reports whether the angular velocity after the crossing is
	// positive.
	Positive bool
}

// Peak is raised when the angular velocity changes sign.
type Peak struct {
	// Angle is the more extreme of the two angles bracketing the turn.
	Angle float64
	// Time is the offset of the end of the bracketing substep from the start
	// of the Step call.
	Time float64
}

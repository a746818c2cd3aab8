package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Clone(t *testing.T) {
	s := State{1, 2}
	c := s.Clone()
	c[0] = 99
	if s[0] != 1 {
		t.Error("Clone did not create independent copy")
	}
	if math.Abs(State{3, 4}.Norm()-5) > 1e-12 {
		t.Error("Norm of {3,4} should be 5")
	}
}

func TestRange(t *testing.T) {
	r := Range{Min: 0.5, Max: 2.5}

	tests := []struct {
		in, clamped float64
		inside      bool
	}{
		{0.1, 0.5, false},
		{0.5, 0.5, true},
		{1.7, 1.7, true},
		{2.5, 2.5, true},
		{3.0, 2.5, false},
	}

	for _, tt := range tests {
		if got := r.Clamp(tt.in); got != tt.clamped {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.clamped)
		}
		if got := r.Contains(tt.in); got != tt.inside {
			t.Errorf("Contains(%v) = %v, want %v", tt.in, got, tt.inside)
		}
	}
}

func TestRoundTo(t *testing.T) {
	if got := RoundTo(1.23456, 2); got != 1.23 {
		t.Errorf("RoundTo(1.23456, 2) = %v", got)
	}
	if got := RoundTo(0.705, 1); got != 0.7 {
		t.Errorf("RoundTo(0.705, 1) = %v", got)
	}
}

func TestPolar(t *testing.T) {
	v := Polar(2, math.Pi/2)
	if !v.Equals(Vector2{0, 2}, 1e-12) {
		t.Errorf("Polar(2, π/2) = %v", v)
	}
	if math.Abs(v.Magnitude()-2) > 1e-12 {
		t.Errorf("magnitude = %v, want 2", v.Magnitude())
	}
	sum := Polar(1, 0).Add(Polar(1, math.Pi/2)).Scale(2)
	if !sum.Equals(Vector2{2, 2}, 1e-12) {
		t.Errorf("sum = %v, want {2 2}", sum)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 1.5, Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
}

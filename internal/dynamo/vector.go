package dynamo

import "math"

type Vector2 struct {
	X, Y float64
}

// Polar returns the vector of the given magnitude at angle rad from +X.
func Polar(magnitude, angle float64) Vector2 {
	s, c := math.Sincos(angle)
	return Vector2{X: magnitude * c, Y: magnitude * s}
}

func (v Vector2) Add(w Vector2) Vector2   { return Vector2{v.X + w.X, v.Y + w.Y} }
func (v Vector2) Sub(w Vector2) Vector2   { return Vector2{v.X - w.X, v.Y - w.Y} }
func (v Vector2) Scale(f float64) Vector2 { return Vector2{v.X * f, v.Y * f} }
func (v Vector2) Dot(w Vector2) float64   { return v.X*w.X + v.Y*w.Y }
func (v Vector2) Magnitude() float64      { return math.Hypot(v.X, v.Y) }
func (v Vector2) Angle() float64          { return math.Atan2(v.Y, v.X) }

func (v Vector2) Equals(w Vector2, eps float64) bool {
	return math.Abs(v.X-w.X) <= eps && math.Abs(v.Y-w.Y) <= eps
}

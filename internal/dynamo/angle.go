package dynamo

import "math"

// ModAngle maps angle into (-π, π]. Both -π and π map to π, so an angle
// sitting exactly on the boundary always has positive sign.
func ModAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	if angle > math.Pi {
		angle -= 2 * math.Pi
	}
	return angle
}

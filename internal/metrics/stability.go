package metrics

import (
	"math"

	"github.com/san-kum/pendulab/internal/physics"
)

// SmallAngle is the fraction of steps with |θ| within the threshold, i.e.
// how much of the run the small-angle period estimate applies to.
type SmallAngle struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewSmallAngle(threshold float64) *SmallAngle {
	return &SmallAngle{
		name:      "small_angle",
		threshold: threshold,
	}
}

func (s *SmallAngle) Name() string {
	return s.name
}

func (s *SmallAngle) Observe(snap physics.Snapshot, t float64) {
	s.samples++
	if math.Abs(snap.Angle) > s.threshold {
		s.violations++
	}
}

func (s *SmallAngle) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *SmallAngle) Reset() {
	s.violations = 0
	s.samples = 0
}

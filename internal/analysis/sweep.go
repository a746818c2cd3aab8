package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/period"
	"github.com/san-kum/pendulab/internal/physics"
)

// ExactPeriod is the frictionless period for a release from rest at the
// given amplitude: 2π·sqrt(L/g) / AGM(1, cos(θ0/2)).
func ExactPeriod(length, gravity, amplitude float64) float64 {
	a, b := 1.0, math.Cos(amplitude/2)
	for i := 0; i < 64 && math.Abs(a-b) > 1e-15*a; i++ {
		a, b = (a+b)/2, math.Sqrt(a*b)
	}
	return 2 * math.Pi * math.Sqrt(length/gravity) / a
}

// SweepPoint is one measurement of an amplitude sweep.
type SweepPoint struct {
	Amplitude   float64
	Period      float64
	Exact       float64
	Approximate float64
}

// sweepTimeout bounds each measurement in multiples of the exact period.
const sweepTimeout = 4

// AmplitudeSweep releases a pendulum from rest at evenly spaced amplitudes
// between minAngle and maxAngle and times one period at each, stepping dt
// at a time. Points are measured concurrently; opts.Angle and
// opts.Integrator are replaced per point.
func AmplitudeSweep(env physics.Environment, opts physics.Options, minAngle, maxAngle float64, steps int, dt float64) ([]SweepPoint, error) {
	if steps < 1 || dt <= 0 {
		return nil, fmt.Errorf("%w: need steps >= 1 and dt > 0", dynamo.ErrParameterBounds)
	}
	if math.Abs(minAngle) >= math.Pi || math.Abs(maxAngle) >= math.Pi {
		return nil, fmt.Errorf("%w: amplitudes must lie inside (-π, π)", dynamo.ErrParameterBounds)
	}
	stride := 0.0
	if steps > 1 {
		stride = (maxAngle - minAngle) / float64(steps-1)
	}

	points := make([]SweepPoint, steps)
	err := dynamo.Parallel(steps, func(i int) error {
		po := opts
		po.Angle = minAngle + float64(i)*stride
		po.AngularVelocity = 0
		po.Integrator = nil
		p := physics.NewPendulum(env, po)

		tracker := period.NewTracker(p)
		defer tracker.Close()
		tracker.Start()

		exact := ExactPeriod(p.Length(), env.Gravity(), math.Abs(po.Angle))
		if math.IsInf(exact, 0) || math.IsNaN(exact) {
			return fmt.Errorf("%w at amplitude %.3f", dynamo.ErrNoOscillation, po.Angle)
		}
		for n := 0; tracker.Period() == 0; n++ {
			if t := float64(n) * dt; t > sweepTimeout*exact {
				return &dynamo.SimulationError{
					Step:    n,
					Time:    t,
					Wrapped: fmt.Errorf("%w at amplitude %.3f", dynamo.ErrNoOscillation, po.Angle),
				}
			}
			p.Step(dt)
		}

		points[i] = SweepPoint{
			Amplitude:   po.Angle,
			Period:      tracker.Period(),
			Exact:       exact,
			Approximate: p.ApproximatePeriod(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

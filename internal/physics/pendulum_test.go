package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
)

const frame = 1.0 / 60

// mutableEnv lets a test change gravity and friction between steps.
type mutableEnv struct {
	g, k float64
}

func (e *mutableEnv) Gravity() float64  { return e.g }
func (e *mutableEnv) Friction() float64 { return e.k }

type crossingAt struct {
	t        float64
	positive bool
}

type peakAt struct {
	t, angle float64
}

// recorder collects events with absolute timestamps.
type recorder struct {
	now       float64
	crossings []crossingAt
	peaks     []peakAt
	steps     []float64
	resets    int
	moves     int
}

func record(p *physics.Pendulum) *recorder {
	r := &recorder{}
	p.OnCrossing(func(c physics.Crossing) {
		r.crossings = append(r.crossings, crossingAt{t: r.now + c.Time, positive: c.Positive})
	})
	p.OnPeak(func(pk physics.Peak) {
		r.peaks = append(r.peaks, peakAt{t: r.now + pk.Time, angle: pk.Angle})
	})
	p.OnStep(func(dt float64) {
		r.steps = append(r.steps, dt)
		r.now += dt
	})
	p.OnReset(func() { r.resets++ })
	p.OnUserMoved(func() { r.moves++ })
	return r
}

func advance(p *physics.Pendulum, dt, seconds float64) {
	n := int(math.Round(seconds / dt))
	for i := 0; i < n; i++ {
		p.Step(dt)
	}
}

var _ = Describe("Pendulum", func() {
	var (
		env *mutableEnv
		p   *physics.Pendulum
	)

	newPendulum := func(angle float64) *physics.Pendulum {
		return physics.NewPendulum(env, physics.Options{
			Mass:    1,
			Length:  1,
			Angle:   angle,
			Color:   "blue",
			Visible: true,
		})
	}

	BeforeEach(func() {
		env = &mutableEnv{g: 9.81}
	})

	Describe("construction", func() {
		It("computes derived state from the initial angle", func() {
			p = newPendulum(math.Pi / 2)

			Expect(p.Position().X).To(BeNumerically("~", 1, 1e-12))
			Expect(p.Position().Y).To(BeNumerically("~", 0, 1e-12))
			Expect(p.PotentialEnergy()).To(BeNumerically("~", 9.81, 1e-12))
			Expect(p.KineticEnergy()).To(BeZero())
			Expect(p.ThermalEnergy()).To(BeZero())
			Expect(p.AngularAcceleration()).To(BeNumerically("~", -9.81, 1e-12))
			Expect(p.Color()).To(Equal("blue"))
			Expect(p.LengthRange()).To(Equal(physics.DefaultLengthRange))
			Expect(p.MassRange()).To(Equal(physics.DefaultMassRange))
			Expect(p.Integrator().Name()).To(Equal("rk4"))
		})

		It("hangs straight down at angle zero", func() {
			p = newPendulum(0)
			Expect(p.Position().Equals(dynamo.Vector2{X: 0, Y: -1}, 1e-12)).To(BeTrue())
			Expect(p.IsStationary()).To(BeTrue())
		})
	})

	Describe("Step", func() {
		It("conserves total energy without friction", func() {
			p = newPendulum(0.5)
			e0 := p.TotalEnergy()

			for i := 0; i < 1200; i++ {
				p.Step(frame)
				Expect(math.Abs(p.TotalEnergy()-e0) / e0).To(BeNumerically("<", 1e-9))
			}
			Expect(p.ThermalEnergy()).To(BeZero())
		})

		It("moves lost mechanical energy into thermal energy monotonically", func() {
			env.k = 0.05
			p = newPendulum(1.0)
			e0 := p.TotalEnergy()
			lastThermal := p.ThermalEnergy()

			for i := 0; i < 600; i++ {
				p.Step(frame)
				Expect(p.ThermalEnergy()).To(BeNumerically(">=", lastThermal))
				lastThermal = p.ThermalEnergy()
			}

			mechanical := p.KineticEnergy() + p.PotentialEnergy()
			Expect(lastThermal).To(BeNumerically(">", 0))
			Expect(mechanical).To(BeNumerically("<", e0))
			Expect(p.TotalEnergy()).To(BeNumerically("~", e0, 1e-6*e0))
		})

		It("does not book a gravity change as thermal energy", func() {
			env.k = 0.01
			p = newPendulum(0.5)
			p.Step(frame)
			Expect(p.ThermalEnergy()).To(BeNumerically("<", 1e-4))

			env.g = 1.62
			p.Step(frame)
			Expect(p.ThermalEnergy()).To(BeNumerically("<", 1e-4))
			Expect(p.PotentialEnergy()).To(BeNumerically("~", 1.62*(1-math.Cos(p.Angle())), 1e-12))
		})

		It("keeps the angle in (-π, π] while spinning over the top", func() {
			// 50 J of kinetic energy clears the 19.62 J needed to go over the top
			p = physics.NewPendulum(env, physics.Options{Mass: 1, Length: 1, Angle: -0.01, AngularVelocity: 10})
			r := record(p)

			unwrapped := 0.0
			last := p.Angle()
			for i := 0; i < 300; i++ {
				p.Step(frame)
				a := p.Angle()
				Expect(a).To(BeNumerically(">", -math.Pi))
				Expect(a).To(BeNumerically("<=", math.Pi))
				unwrapped += dynamo.ModAngle(a - last)
				last = a
			}

			revolutions := unwrapped / (2 * math.Pi)
			Expect(revolutions).To(BeNumerically(">", 2))
			// one crossing per revolution; passing the seam at ±π is not one
			Expect(float64(len(r.crossings))).To(BeNumerically("~", revolutions, 1.01))
			for _, c := range r.crossings {
				Expect(c.positive).To(BeTrue())
			}
			Expect(r.peaks).To(BeEmpty())
		})

		It("measures the small-angle period between same-direction crossings", func() {
			p = newPendulum(0.05)
			r := record(p)
			advance(p, frame, 12)

			var positive []float64
			for _, c := range r.crossings {
				if c.positive {
					positive = append(positive, c.t)
				}
			}
			Expect(len(positive)).To(BeNumerically(">=", 4))

			want := p.ApproximatePeriod()
			for i := 1; i < len(positive); i++ {
				Expect(positive[i] - positive[i-1]).To(BeNumerically("~", want, 0.01*want))
			}
		})

		It("raises one peak at the far side and two crossings per period", func() {
			p = newPendulum(0.3)
			r := record(p)
			period := 2 * math.Pi * math.Sqrt(1/9.81) * (1 + 0.3*0.3/16)

			advance(p, frame, 0.75*period)
			Expect(r.peaks).To(HaveLen(1))
			Expect(r.peaks[0].angle).To(BeNumerically("~", -0.3, 1e-3))
			Expect(r.peaks[0].t).To(BeNumerically("~", period/2, 0.02))

			advance(p, frame, 0.2*period)
			Expect(r.crossings).To(HaveLen(2))
			Expect(r.crossings[0].positive).To(BeFalse())
			Expect(r.crossings[1].positive).To(BeTrue())
			Expect(r.crossings[0].t).To(BeNumerically("~", period/4, 0.01))
			Expect(r.crossings[1].t).To(BeNumerically("~", 3*period/4, 0.01))

			advance(p, frame, 4*period)
			// five periods in all, two crossings each, give or take the edge
			Expect(len(r.crossings)).To(BeNumerically("~", 10, 1))
		})

		It("interpolates the crossing time within the step", func() {
			p = newPendulum(0.3)
			var times []float64
			p.OnCrossing(func(c physics.Crossing) { times = append(times, c.Time) })

			// one big step covering the first quarter period
			p.Step(0.6)
			Expect(times).To(HaveLen(1))
			Expect(times[0]).To(BeNumerically("~", p.ApproximatePeriod()/4, 0.01))
			Expect(times[0]).To(BeNumerically("<", 0.6))
		})

		It("emits the step event with dt after the motion is committed", func() {
			p = newPendulum(0.3)
			var seen []float64
			var angleAtEvent float64
			p.OnStep(func(dt float64) {
				seen = append(seen, dt)
				angleAtEvent = p.Angle()
			})

			p.Step(0.02)
			Expect(seen).To(Equal([]float64{0.02}))
			Expect(angleAtEvent).To(Equal(p.Angle()))
			Expect(angleAtEvent).To(BeNumerically("<", 0.3))
		})

		It("reads gravity on every step", func() {
			p = newPendulum(0.3)
			env.g = 0
			p.Step(frame)
			Expect(p.AngularVelocity()).To(BeZero())
			Expect(p.Angle()).To(Equal(0.3))

			env.g = 9.81
			p.Step(frame)
			Expect(p.AngularVelocity()).To(BeNumerically("<", 0))
		})
	})

	Describe("user control", func() {
		It("suspends integration and zeroes the angular velocity", func() {
			p = newPendulum(0.3)
			advance(p, frame, 0.2)
			Expect(p.AngularVelocity()).NotTo(BeZero())
			r := record(p)

			p.SetUserControlled(true)
			Expect(p.AngularVelocity()).To(BeZero())
			Expect(p.IsTickVisible()).To(BeTrue())
			Expect(r.moves).To(Equal(1))

			angle := p.Angle()
			for i := 0; i < 100; i++ {
				p.Step(frame)
			}
			Expect(p.Angle()).To(Equal(angle))
			Expect(p.AngularVelocity()).To(BeZero())
			Expect(p.IsStationary()).To(BeTrue())
			Expect(r.steps).To(HaveLen(100))
			Expect(r.crossings).To(BeEmpty())

			p.SetAngle(1.2)
			Expect(p.Angle()).To(Equal(1.2))
			Expect(r.moves).To(Equal(2))
			Expect(p.PotentialEnergy()).To(BeNumerically("~", 9.81*(1-math.Cos(1.2)), 1e-12))

			p.SetUserControlled(false)
			Expect(p.IsTickVisible()).To(BeTrue())
			p.Step(frame)
			Expect(p.Angle()).To(BeNumerically("<", 1.2))
		})

		It("does not convert drag work into thermal energy", func() {
			env.k = 0.1
			p = newPendulum(0.8)
			p.SetUserControlled(true)
			p.SetAngle(0.1)
			p.SetUserControlled(false)
			Expect(p.ThermalEnergy()).To(BeZero())
		})
	})

	Describe("parameter changes", func() {
		It("rescales the angular velocity when the length changes", func() {
			p = newPendulum(0.3)
			advance(p, frame, 0.3)
			omega := p.AngularVelocity()
			speed := p.Velocity().Magnitude()

			p.SetLength(2)
			Expect(p.AngularVelocity()).To(BeNumerically("~", omega/2, 1e-12))
			Expect(p.Velocity().Magnitude()).To(BeNumerically("~", speed, 1e-12))
			Expect(p.Length()).To(Equal(2.0))
		})

		It("updates energies when the mass changes", func() {
			p = newPendulum(0.3)
			pe := p.PotentialEnergy()
			p.SetMass(2)
			Expect(p.PotentialEnergy()).To(BeNumerically("~", 2*pe, 1e-12))
			Expect(p.Mass()).To(Equal(2.0))
		})

		It("routes named params through the setters", func() {
			p = newPendulum(0)
			Expect(p.SetParam("length", 1.5)).To(Succeed())
			Expect(p.SetParam("mass", 0.5)).To(Succeed())
			Expect(p.SetParam("angle", 0.2)).To(Succeed())
			Expect(p.GetParams()).To(Equal(map[string]float64{"length": 1.5, "mass": 0.5, "angle": 0.2}))
			Expect(p.SetParam("color", 1)).To(HaveOccurred())
		})

		It("keeps the acceleration consistent with the angular acceleration", func() {
			env.k = 0.08
			p = newPendulum(0.9)
			advance(p, frame, 0.25)

			theta := p.Angle()
			tangent := dynamo.Polar(1, theta)
			radial := dynamo.Polar(1, theta+math.Pi/2)
			omega := p.AngularVelocity()

			Expect(p.Acceleration().Dot(tangent)).To(BeNumerically("~", p.AngularAcceleration()*p.Length(), 1e-9))
			Expect(p.Acceleration().Dot(radial)).To(BeNumerically("~", omega*omega*p.Length(), 1e-9))
		})
	})

	Describe("resets", func() {
		It("restores the initial motion and announces it", func() {
			env.k = 0.05
			p = newPendulum(0.4)
			r := record(p)
			advance(p, frame, 1)
			thermal := p.ThermalEnergy()
			Expect(thermal).To(BeNumerically(">", 0))

			p.ResetMotion()
			Expect(p.Angle()).To(Equal(0.4))
			Expect(p.AngularVelocity()).To(BeZero())
			Expect(p.ThermalEnergy()).To(Equal(thermal))
			Expect(r.resets).To(Equal(1))

			p.ResetThermalEnergy()
			Expect(p.ThermalEnergy()).To(BeZero())
			Expect(p.TotalEnergy()).To(BeNumerically("~", p.PotentialEnergy(), 1e-12))
			Expect(p.Angle()).To(Equal(0.4))
		})

		It("restores configuration on a full reset", func() {
			p = newPendulum(0.4)
			r := record(p)
			p.SetLength(2.2)
			p.SetMass(0.3)
			p.SetVisible(false)
			p.SetUserControlled(true)

			p.Reset()
			Expect(p.Length()).To(Equal(1.0))
			Expect(p.Mass()).To(Equal(1.0))
			Expect(p.IsVisible()).To(BeTrue())
			Expect(p.IsUserControlled()).To(BeFalse())
			Expect(p.IsTickVisible()).To(BeFalse())
			Expect(p.Angle()).To(Equal(0.4))
			Expect(r.resets).To(Equal(1))
		})
	})

	It("reports the small-angle period", func() {
		p = physics.NewPendulum(physics.FixedEnvironment{G: 9.81}, physics.Options{Mass: 1, Length: 2})
		Expect(p.ApproximatePeriod()).To(BeNumerically("~", 2*math.Pi*math.Sqrt(2/9.81), 1e-12))
	})

	It("propagates NaN for degenerate lengths instead of failing", func() {
		p = physics.NewPendulum(physics.FixedEnvironment{G: 9.81}, physics.Options{Mass: 1, Length: 0, Angle: 0.2})
		p.Step(frame)
		Expect(dynamo.State{p.Angle(), p.AngularVelocity()}.IsValid()).To(BeFalse())
	})
})

package lab_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/lab"
	"github.com/san-kum/pendulab/internal/period"
)

func swinging() lab.Options {
	opts := lab.DefaultOptions()
	opts.NumberOfPendulums = 2
	opts.Pendulums[0].Angle = 0.4
	opts.Pendulums[1].Angle = -0.2
	return opts
}

func run(l *lab.Lab, seconds float64) {
	n := int(math.Round(seconds / lab.FrameDuration))
	for i := 0; i < n; i++ {
		l.Step(lab.FrameDuration)
	}
}

var _ = Describe("Lab", func() {
	var l *lab.Lab

	BeforeEach(func() {
		l = lab.New(swinging())
	})

	Describe("construction", func() {
		It("starts playing at normal speed with no tools", func() {
			Expect(l.IsPlaying()).To(BeTrue())
			Expect(l.TimeSpeed()).To(Equal(lab.NormalSpeed))
			Expect(l.Tools()).To(Equal(lab.Tools{}))
			Expect(l.EnergyGraphMode()).To(Equal(lab.EnergyOne))
			Expect(l.Environment().Body()).To(Equal("earth"))
		})

		It("clamps the pendulum count", func() {
			opts := lab.DefaultOptions()
			opts.NumberOfPendulums = 5
			Expect(lab.New(opts).NumberOfPendulums()).To(Equal(2))
			opts.NumberOfPendulums = 0
			Expect(lab.New(opts).NumberOfPendulums()).To(Equal(1))
		})

		It("hides pendulums that are not in play", func() {
			single := lab.New(lab.DefaultOptions())
			Expect(single.Pendulum(0).IsVisible()).To(BeTrue())
			Expect(single.Pendulum(1).IsVisible()).To(BeFalse())
			Expect(single.ActivePendulums()).To(HaveLen(1))
			Expect(single.Pendulum(2)).To(BeNil())
		})
	})

	Describe("stepping", func() {
		It("advances every active pendulum and the clock", func() {
			run(l, 1)
			Expect(l.Time()).To(BeNumerically("~", 1, 1e-9))
			Expect(l.Pendulum(0).Angle()).NotTo(Equal(0.4))
			Expect(l.Pendulum(1).Angle()).NotTo(Equal(-0.2))
		})

		It("leaves a hidden pendulum alone", func() {
			Expect(l.SetNumberOfPendulums(1)).To(Succeed())
			run(l, 1)
			Expect(l.Pendulum(1).Angle()).To(Equal(-0.2))
		})

		It("does nothing while paused", func() {
			l.SetPlaying(false)
			run(l, 1)
			Expect(l.Time()).To(BeZero())
			Expect(l.Pendulum(0).Angle()).To(Equal(0.4))
		})

		It("steps one frame manually even while paused", func() {
			l.TogglePlaying()
			Expect(l.IsPlaying()).To(BeFalse())
			l.StepManual()
			Expect(l.Time()).To(BeNumerically("~", lab.FrameDuration, 1e-12))
		})

		It("runs slow motion at an eighth of the speed", func() {
			l.SetTimeSpeed(lab.SlowMotion)
			run(l, 1)
			Expect(l.Time()).To(BeNumerically("~", 0.125, 1e-9))

			l.StepManual()
			Expect(l.Time()).To(BeNumerically("~", 0.125+lab.FrameDuration/8, 1e-9))
		})

		It("caps long frames", func() {
			l.Step(2)
			Expect(l.Time()).To(Equal(lab.MaxStep))
		})

		It("times with the stopwatch only while it runs", func() {
			l.SetStopwatchVisible(true)
			run(l, 0.5)
			Expect(l.Stopwatch().Elapsed()).To(BeZero())

			l.Stopwatch().Start()
			run(l, 0.5)
			Expect(l.Stopwatch().Elapsed()).To(BeNumerically("~", 0.5, 1e-9))

			l.Stopwatch().Toggle()
			run(l, 0.5)
			Expect(l.Stopwatch().Elapsed()).To(BeNumerically("~", 0.5, 1e-9))

			l.SetStopwatchVisible(false)
			Expect(l.Stopwatch().Elapsed()).To(BeZero())
			Expect(l.Stopwatch().IsRunning()).To(BeFalse())
		})
	})

	Describe("environment", func() {
		It("refreshes energies when gravity changes without heating", func() {
			pe := l.Pendulum(0).PotentialEnergy()
			Expect(l.SetGravityBody("moon")).To(Succeed())

			Expect(l.Environment().Gravity()).To(Equal(1.62))
			Expect(l.Environment().Body()).To(Equal("moon"))
			Expect(l.Pendulum(0).PotentialEnergy()).To(BeNumerically("~", pe*1.62/9.81, 1e-12))
			Expect(l.Pendulum(0).ThermalEnergy()).To(BeZero())
		})

		It("recognises preset values and clamps custom ones", func() {
			l.SetGravity(24.79)
			Expect(l.Environment().Body()).To(Equal("jupiter"))

			l.SetGravity(40)
			Expect(l.Environment().Gravity()).To(Equal(lab.GravityRange.Max))
			Expect(l.Environment().Body()).To(Equal(lab.CustomGravity))

			Expect(l.SetGravityBody(lab.CustomGravity)).To(Succeed())
			Expect(l.Environment().Gravity()).To(Equal(lab.GravityRange.Max))
		})

		It("rejects unknown gravity bodies", func() {
			Expect(l.SetGravityBody("pluto")).To(MatchError(dynamo.ErrUnknownPreset))
			Expect(l.Environment().Body()).To(Equal("earth"))
		})

		It("looks gravity bodies up case-insensitively", func() {
			b, err := lab.LookupGravityBody("Planet-X")
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Gravity).To(Equal(14.2))
		})

		It("damps the swing once friction is on", func() {
			l.SetFriction(1)
			Expect(l.Environment().Friction()).To(Equal(lab.FrictionRange.Max))

			run(l, 10)
			p := l.Pendulum(0)
			Expect(p.ThermalEnergy()).To(BeNumerically(">", 0))
			Expect(p.KineticEnergy() + p.PotentialEnergy()).To(BeNumerically("<", p.TotalEnergy()))
		})
	})

	Describe("parameters", func() {
		DescribeTable("length is clamped and rounded",
			func(in, want float64) {
				Expect(l.SetLength(0, in)).To(Succeed())
				Expect(l.Pendulum(0).Length()).To(Equal(want))
			},
			Entry("inside", 1.234, 1.23),
			Entry("below", 0.1, 0.5),
			Entry("above", 9.0, 2.5),
		)

		DescribeTable("mass is clamped and rounded",
			func(in, want float64) {
				Expect(l.SetMass(1, in)).To(Succeed())
				Expect(l.Pendulum(1).Mass()).To(Equal(want))
			},
			Entry("inside", 0.756, 0.76),
			Entry("below", 0.0, 0.1),
			Entry("above", 3.0, 2.1),
		)

		It("rejects bad pendulum indices", func() {
			Expect(l.SetLength(2, 1)).To(MatchError(dynamo.ErrNoPendulum))
			Expect(l.SetMass(-1, 1)).To(MatchError(dynamo.ErrNoPendulum))
			Expect(l.Drag(3, 0)).To(MatchError(dynamo.ErrNoPendulum))
			Expect(l.Release(3)).To(MatchError(dynamo.ErrNoPendulum))
		})
	})

	Describe("dragging", func() {
		It("holds the pendulum and releases it from rest", func() {
			Expect(l.Drag(0, 1.0)).To(Succeed())
			run(l, 0.5)

			p := l.Pendulum(0)
			Expect(p.Angle()).To(Equal(1.0))
			Expect(p.IsTickVisible()).To(BeTrue())

			Expect(l.Release(0)).To(Succeed())
			Expect(p.IsUserControlled()).To(BeFalse())
			Expect(p.AngularVelocity()).To(BeZero())

			run(l, 0.1)
			Expect(p.Angle()).To(BeNumerically("<", 1.0))
		})
	})

	Describe("number of pendulums", func() {
		It("falls back to the first pendulum for the timer and graph", func() {
			Expect(l.SetEnergyGraphMode(lab.EnergyBoth)).To(Succeed())
			Expect(l.SelectPeriodPendulum(1)).To(Succeed())
			run(l, 1)

			Expect(l.SetNumberOfPendulums(1)).To(Succeed())
			Expect(l.EnergyGraphMode()).To(Equal(lab.EnergyOne))
			Expect(l.Tracker().Active()).To(Equal(0))
			Expect(l.Pendulum(1).IsVisible()).To(BeFalse())
			Expect(l.Pendulum(1).Angle()).To(Equal(-0.2))
		})

		It("restricts the graph and timer to pendulums in play", func() {
			Expect(l.SetNumberOfPendulums(1)).To(Succeed())
			Expect(l.SetEnergyGraphMode(lab.EnergyTwo)).To(MatchError(dynamo.ErrNoPendulum))
			Expect(l.SelectPeriodPendulum(1)).To(MatchError(dynamo.ErrNoPendulum))

			Expect(l.SetNumberOfPendulums(2)).To(Succeed())
			Expect(l.Pendulum(1).IsVisible()).To(BeTrue())
			Expect(l.SetEnergyGraphMode(lab.EnergyTwo)).To(Succeed())
		})

		It("rejects counts outside 1..2", func() {
			Expect(l.SetNumberOfPendulums(3)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(l.SetNumberOfPendulums(0)).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("period timer", func() {
		It("measures the selected pendulum", func() {
			l.Tracker().Start()
			run(l, 4)

			want := l.Pendulum(0).ApproximatePeriod() * (1 + 0.4*0.4/16)
			Expect(l.Tracker().Period()).To(BeNumerically("~", want, 0.005*want))
		})
	})

	Describe("period trace", func() {
		It("records a swing on each pendulum in play", func() {
			l.SetPeriodTraceVisible(true)
			Expect(l.Tools().PeriodTrace).To(BeTrue())
			Expect(l.Trace(0).State()).To(Equal(period.TraceArmed))
			Expect(l.Trace(1).State()).To(Equal(period.TraceArmed))

			run(l, 2.5)
			Expect(l.Trace(0).State()).To(Equal(period.TraceFading))
			Expect(l.Trace(0).Peaks()).To(HaveLen(2))

			l.SetPeriodTraceVisible(false)
			Expect(l.Trace(0).State()).To(Equal(period.TraceIdle))
		})

		It("skips a pendulum that is not in play", func() {
			Expect(l.SetNumberOfPendulums(1)).To(Succeed())
			l.SetPeriodTraceVisible(true)
			Expect(l.Trace(1).State()).To(Equal(period.TraceIdle))

			Expect(l.SetNumberOfPendulums(2)).To(Succeed())
			Expect(l.Trace(1).State()).To(Equal(period.TraceArmed))
		})
	})

	Describe("reset", func() {
		It("restores the initial lab", func() {
			Expect(l.SetGravityBody("jupiter")).To(Succeed())
			l.SetFriction(0.05)
			l.SetTimeSpeed(lab.SlowMotion)
			l.SetRulerVisible(true)
			l.SetPeriodTraceVisible(true)
			l.Stopwatch().Start()
			Expect(l.SetLength(0, 2)).To(Succeed())
			Expect(l.SetNumberOfPendulums(1)).To(Succeed())
			l.Tracker().Start()
			run(l, 3)
			l.SetPlaying(false)

			l.Reset()

			Expect(l.IsPlaying()).To(BeTrue())
			Expect(l.TimeSpeed()).To(Equal(lab.NormalSpeed))
			Expect(l.Tools()).To(Equal(lab.Tools{}))
			Expect(l.NumberOfPendulums()).To(Equal(2))
			Expect(l.Time()).To(BeZero())
			Expect(l.Environment().Gravity()).To(Equal(9.81))
			Expect(l.Environment().Friction()).To(BeZero())
			Expect(l.Stopwatch().Elapsed()).To(BeZero())
			Expect(l.Tracker().IsRunning()).To(BeFalse())
			Expect(l.Tracker().Period()).To(BeZero())
			Expect(l.Trace(0).State()).To(Equal(period.TraceIdle))

			p := l.Pendulum(0)
			Expect(p.Length()).To(Equal(0.7))
			Expect(p.Angle()).To(Equal(0.4))
			Expect(p.ThermalEnergy()).To(BeZero())
			Expect(l.Pendulum(1).IsVisible()).To(BeTrue())
		})

		It("resets motion without touching parameters", func() {
			Expect(l.SetMass(0, 2)).To(Succeed())
			l.SetFriction(0.1)
			run(l, 2)

			l.ResetMotion()
			p := l.Pendulum(0)
			Expect(p.Angle()).To(Equal(0.4))
			Expect(p.Mass()).To(Equal(2.0))
			Expect(p.ThermalEnergy()).To(BeZero())
			Expect(l.Environment().Friction()).To(Equal(0.1))
		})
	})
})

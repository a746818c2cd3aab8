// Package lab is the pendulum lab model: the shared environment, one or two
// pendulums, the play controls, the tools and the period timer, advanced
// together by Step.
package lab

import (
	"fmt"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/period"
	"github.com/san-kum/pendulab/internal/physics"
)

const (
	MaxPendulums = 2

	// FrameDuration is the step taken by StepManual.
	FrameDuration = 1.0 / 60

	// MaxStep caps the wall-clock dt accepted by Step.
	MaxStep = 0.1

	// ParameterPrecision is the number of decimals kept for length and mass.
	ParameterPrecision = 2
)

type TimeSpeed int

const (
	NormalSpeed TimeSpeed = iota
	SlowMotion
)

// Factor scales wall-clock time into simulated time.
func (s TimeSpeed) Factor() float64 {
	if s == SlowMotion {
		return 1.0 / 8
	}
	return 1
}

func (s TimeSpeed) String() string {
	if s == SlowMotion {
		return "slow"
	}
	return "normal"
}

// ParseTimeSpeed accepts "normal" or "slow"; empty means normal.
func ParseTimeSpeed(s string) (TimeSpeed, error) {
	switch s {
	case "", "normal":
		return NormalSpeed, nil
	case "slow":
		return SlowMotion, nil
	}
	return NormalSpeed, fmt.Errorf("%w: time speed %q", dynamo.ErrParameterBounds, s)
}

// EnergyGraphMode selects which pendulum the energy graph shows.
type EnergyGraphMode int

const (
	EnergyOne EnergyGraphMode = iota
	EnergyTwo
	EnergyBoth
)

func (m EnergyGraphMode) String() string {
	switch m {
	case EnergyTwo:
		return "two"
	case EnergyBoth:
		return "both"
	}
	return "one"
}

// Tools is the visibility of the measuring tools.
type Tools struct {
	Ruler       bool
	Stopwatch   bool
	PeriodTrace bool
}

// Options is the initial configuration restored by Reset.
type Options struct {
	Gravity           float64
	Friction          float64
	NumberOfPendulums int
	Pendulums         [MaxPendulums]physics.Options
}

// DefaultOptions is a blue 0.7 m, 1 kg pendulum and a red 1 m, 0.5 kg one
// on Earth without friction, both hanging at rest.
func DefaultOptions() Options {
	return Options{
		Gravity:           9.81,
		NumberOfPendulums: 1,
		Pendulums: [MaxPendulums]physics.Options{
			{Mass: 1, Length: 0.7, Color: "#0000FF", Visible: true},
			{Mass: 0.5, Length: 1, Color: "#FF0000"},
		},
	}
}

type Lab struct {
	opts Options

	env       *Environment
	pendulums [MaxPendulums]*physics.Pendulum
	traces    [MaxPendulums]*period.Trace
	tracker   *period.Tracker
	stopwatch Stopwatch

	numberOfPendulums int
	playing           bool
	timeSpeed         TimeSpeed
	energyMode        EnergyGraphMode
	tools             Tools
	time              float64
}

// New builds a lab. A NumberOfPendulums outside 1..2 is clamped.
func New(opts Options) *Lab {
	opts.NumberOfPendulums = max(1, min(MaxPendulums, opts.NumberOfPendulums))

	l := &Lab{
		opts: opts,
		env:  NewEnvironment(opts.Gravity, opts.Friction),
	}
	for i := range l.pendulums {
		po := opts.Pendulums[i]
		po.Visible = i < opts.NumberOfPendulums
		l.pendulums[i] = physics.NewPendulum(l.env, po)
		l.traces[i] = period.NewTrace(l.pendulums[i])
		l.traces[i].SetRepeating(true)
	}
	l.tracker = period.NewTracker(l.pendulums[:]...)
	l.resetControls()
	return l
}

func (l *Lab) resetControls() {
	l.numberOfPendulums = l.opts.NumberOfPendulums
	l.playing = true
	l.timeSpeed = NormalSpeed
	l.energyMode = EnergyOne
	l.tools = Tools{}
	l.time = 0
}

// Step advances the lab by dt seconds of wall-clock time, scaled by the
// time speed. Nothing happens while paused.
func (l *Lab) Step(dt float64) {
	if !l.playing {
		return
	}
	l.advance(min(dt, MaxStep) * l.timeSpeed.Factor())
}

// StepManual advances one frame whether or not the lab is playing.
func (l *Lab) StepManual() {
	l.advance(FrameDuration * l.timeSpeed.Factor())
}

func (l *Lab) advance(dt float64) {
	for i := 0; i < l.numberOfPendulums; i++ {
		l.pendulums[i].Step(dt)
	}
	l.stopwatch.Step(dt)
	l.time += dt
}

func (l *Lab) pendulum(i int) (*physics.Pendulum, error) {
	if i < 0 || i >= MaxPendulums {
		return nil, fmt.Errorf("%w: index %d", dynamo.ErrNoPendulum, i)
	}
	return l.pendulums[i], nil
}

// Pendulum returns pendulum i, or nil when i is out of range.
func (l *Lab) Pendulum(i int) *physics.Pendulum {
	p, err := l.pendulum(i)
	if err != nil {
		return nil
	}
	return p
}

// ActivePendulums returns the pendulums currently in play.
func (l *Lab) ActivePendulums() []*physics.Pendulum {
	return l.pendulums[:l.numberOfPendulums]
}

func (l *Lab) refreshPendulums() {
	for _, p := range l.pendulums {
		p.UpdateDerivedVariables(false)
	}
}

// SetGravity changes gravity for both pendulums, clamped to GravityRange.
func (l *Lab) SetGravity(g float64) {
	l.env.setGravity(GravityRange.Clamp(g))
	l.refreshPendulums()
}

// SetGravityBody selects a named gravity. CustomGravity keeps the current
// value.
func (l *Lab) SetGravityBody(name string) error {
	if name == CustomGravity {
		l.env.body = CustomGravity
		return nil
	}
	body, err := LookupGravityBody(name)
	if err != nil {
		return err
	}
	l.SetGravity(body.Gravity)
	return nil
}

// SetFriction changes the friction coefficient, clamped to FrictionRange.
func (l *Lab) SetFriction(k float64) {
	l.env.friction = FrictionRange.Clamp(k)
	l.refreshPendulums()
}

// SetLength clamps L into the pendulum's length range and rounds it to
// ParameterPrecision decimals.
func (l *Lab) SetLength(i int, length float64) error {
	p, err := l.pendulum(i)
	if err != nil {
		return err
	}
	p.SetLength(dynamo.RoundTo(p.LengthRange().Clamp(length), ParameterPrecision))
	return nil
}

// SetMass clamps m into the pendulum's mass range and rounds it to
// ParameterPrecision decimals.
func (l *Lab) SetMass(i int, mass float64) error {
	p, err := l.pendulum(i)
	if err != nil {
		return err
	}
	p.SetMass(dynamo.RoundTo(p.MassRange().Clamp(mass), ParameterPrecision))
	return nil
}

// Drag puts pendulum i under user control at the given angle.
func (l *Lab) Drag(i int, angle float64) error {
	p, err := l.pendulum(i)
	if err != nil {
		return err
	}
	p.SetUserControlled(true)
	p.SetAngle(angle)
	return nil
}

// Release ends a drag; the pendulum starts from rest at its current angle.
func (l *Lab) Release(i int) error {
	p, err := l.pendulum(i)
	if err != nil {
		return err
	}
	p.SetUserControlled(false)
	return nil
}

// SetNumberOfPendulums shows or hides the second pendulum. Hiding it
// resets its motion, moves the period timer back to the first pendulum and
// the energy graph to EnergyOne.
func (l *Lab) SetNumberOfPendulums(n int) error {
	if n < 1 || n > MaxPendulums {
		return fmt.Errorf("%w: %d pendulums", dynamo.ErrParameterBounds, n)
	}
	if n == l.numberOfPendulums {
		return nil
	}
	l.numberOfPendulums = n

	for i := 1; i < MaxPendulums; i++ {
		p := l.pendulums[i]
		shown := i < n
		p.SetVisible(shown)
		if shown {
			if l.tools.PeriodTrace {
				l.traces[i].Start()
			}
			continue
		}
		p.SetUserControlled(false)
		p.ResetMotion()
		p.ResetThermalEnergy()
		l.traces[i].Stop()
	}

	if l.tracker.Active() >= n {
		_ = l.tracker.Select(0)
	}
	if n == 1 {
		l.energyMode = EnergyOne
	}
	return nil
}

// SetEnergyGraphMode selects the energy graph. With one pendulum only
// EnergyOne is available.
func (l *Lab) SetEnergyGraphMode(m EnergyGraphMode) error {
	if m != EnergyOne && l.numberOfPendulums < 2 {
		return fmt.Errorf("%w: energy graph %s needs two pendulums", dynamo.ErrNoPendulum, m)
	}
	l.energyMode = m
	return nil
}

// SelectPeriodPendulum points the period timer at pendulum i.
func (l *Lab) SelectPeriodPendulum(i int) error {
	if i >= l.numberOfPendulums {
		return fmt.Errorf("%w: pendulum %d is not in play", dynamo.ErrNoPendulum, i+1)
	}
	return l.tracker.Select(i)
}

func (l *Lab) SetRulerVisible(v bool) { l.tools.Ruler = v }

// SetStopwatchVisible shows or hides the stopwatch; hiding it also resets
// it.
func (l *Lab) SetStopwatchVisible(v bool) {
	l.tools.Stopwatch = v
	if !v {
		l.stopwatch.Reset()
	}
}

// SetPeriodTraceVisible starts a fresh trace on every active pendulum, or
// clears them all.
func (l *Lab) SetPeriodTraceVisible(v bool) {
	l.tools.PeriodTrace = v
	for i, tr := range l.traces {
		tr.SetVisible(v)
		if v && i < l.numberOfPendulums {
			tr.Start()
		} else {
			tr.Stop()
		}
	}
}

func (l *Lab) SetPlaying(playing bool)  { l.playing = playing }
func (l *Lab) TogglePlaying()           { l.playing = !l.playing }
func (l *Lab) SetTimeSpeed(s TimeSpeed) { l.timeSpeed = s }

// ResetMotion returns every pendulum to its initial angle and clears the
// thermal energy, leaving parameters and tools alone.
func (l *Lab) ResetMotion() {
	for _, p := range l.pendulums {
		p.SetUserControlled(false)
		p.ResetMotion()
		p.ResetThermalEnergy()
	}
}

// Reset restores the lab to its initial options.
func (l *Lab) Reset() {
	l.env.friction = l.opts.Friction
	l.env.setGravity(l.opts.Gravity)
	l.resetControls()

	for i, p := range l.pendulums {
		p.Reset()
		p.SetVisible(i < l.numberOfPendulums)
		l.traces[i].Stop()
		l.traces[i].SetVisible(false)
	}
	l.stopwatch.Reset()
	l.tracker.Reset()
	_ = l.tracker.Select(0)
	l.tracker.SetRepeating(false)
	l.tracker.SetVisible(false)
}

func (l *Lab) Environment() *Environment        { return l.env }
func (l *Lab) Tracker() *period.Tracker         { return l.tracker }
func (l *Lab) Stopwatch() *Stopwatch            { return &l.stopwatch }
func (l *Lab) Trace(i int) *period.Trace        { return l.traces[i] }
func (l *Lab) NumberOfPendulums() int           { return l.numberOfPendulums }
func (l *Lab) IsPlaying() bool                  { return l.playing }
func (l *Lab) TimeSpeed() TimeSpeed             { return l.timeSpeed }
func (l *Lab) EnergyGraphMode() EnergyGraphMode { return l.energyMode }
func (l *Lab) Tools() Tools                     { return l.tools }

// Time is the simulated time since construction or the last Reset.
func (l *Lab) Time() float64 { return l.time }

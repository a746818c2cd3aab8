package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
)

var (
	DefaultLengthRange = dynamo.Range{Min: 0.5, Max: 2.5}
	DefaultMassRange   = dynamo.Range{Min: 0.1, Max: 2.1}
)

// Options configures a Pendulum. Everything here is fixed after
// construction and restored by Reset.
type Options struct {
	Mass            float64
	Length          float64
	Angle           float64
	AngularVelocity float64
	Color           string
	Visible         bool

	// LengthRange and MassRange are advisory bounds for callers; the
	// pendulum itself accepts any value.
	LengthRange dynamo.Range
	MassRange   dynamo.Range

	// Integrator defaults to RK4.
	Integrator dynamo.Integrator
}

// Pendulum is a single rigid pendulum with a point mass. It is not safe for
// concurrent use and Step must not be re-entered from an event listener.
type Pendulum struct {
	env   Environment
	integ dynamo.Integrator
	opts  Options

	length          float64
	mass            float64
	angle           float64
	angularVelocity float64

	// gravity and friction as read at the start of the current update
	gravity  float64
	friction float64

	angularAcceleration float64
	position            dynamo.Vector2
	velocity            dynamo.Vector2
	acceleration        dynamo.Vector2

	kineticEnergy   float64
	potentialEnergy float64
	massHeight      float64 // m·h behind potentialEnergy
	thermalEnergy   float64
	totalEnergy     float64

	userControlled bool
	visible        bool
	tickVisible    bool

	x, next dynamo.State

	stepped   dynamo.Emitter[float64]
	crossed   dynamo.Emitter[Crossing]
	peaked    dynamo.Emitter[Peak]
	userMoved dynamo.Emitter[struct{}]
	resetDone dynamo.Emitter[struct{}]
}

func NewPendulum(env Environment, opts Options) *Pendulum {
	if opts.LengthRange == (dynamo.Range{}) {
		opts.LengthRange = DefaultLengthRange
	}
	if opts.MassRange == (dynamo.Range{}) {
		opts.MassRange = DefaultMassRange
	}
	integ := opts.Integrator
	if integ == nil {
		integ = integrators.NewRK4()
	}

	p := &Pendulum{
		env:             env,
		integ:           integ,
		opts:            opts,
		length:          opts.Length,
		mass:            opts.Mass,
		angle:           dynamo.ModAngle(opts.Angle),
		angularVelocity: opts.AngularVelocity,
		visible:         opts.Visible,
		x:               make(dynamo.State, 2),
		next:            make(dynamo.State, 2),
	}
	p.UpdateDerivedVariables(false)
	return p
}

func (p *Pendulum) StateDim() int { return 2 }

// Derive is the pendulum ODE over x = [θ, ω].
func (p *Pendulum) Derive(x dynamo.State, t float64, dst dynamo.State) {
	dst[0] = x[1]
	dst[1] = p.omegaDerivative(x[0], x[1])
}

func (p *Pendulum) omegaDerivative(theta, omega float64) float64 {
	return -p.frictionTerm(omega) - (p.gravity/p.length)*math.Sin(theta)
}

// frictionTerm is the angular deceleration from drag: a quadratic part
// scaled by L·m^(-1/3) and a linear part scaled by m^(-2/3).
func (p *Pendulum) frictionTerm(omega float64) float64 {
	return p.friction*p.length/math.Cbrt(p.mass)*omega*math.Abs(omega) +
		p.friction/math.Pow(p.mass, 2.0/3.0)*omega
}

func (p *Pendulum) readEnvironment() {
	p.gravity = p.env.Gravity()
	p.friction = p.env.Friction()
}

// Step advances the pendulum by dt seconds in max(7, round(dt*120)) RK4
// substeps, raising crossing and peak events as they happen and a step
// event at the end. While user controlled only the derived quantities are
// refreshed.
func (p *Pendulum) Step(dt float64) {
	p.readEnvironment()

	if p.userControlled {
		p.UpdateDerivedVariables(false)
		p.stepped.Emit(dt)
		return
	}

	theta, omega := p.angle, p.angularVelocity
	n := integrators.Substeps(dt)
	h := dt / float64(n)

	for i := 0; i < n; i++ {
		start := float64(i) * h
		p.x[0], p.x[1] = theta, omega
		p.integ.Step(p, p.x, start, h, p.next)

		newTheta := dynamo.ModAngle(p.next[0])
		newOmega := p.next[1]

		if crossedVertical(theta, newTheta) {
			p.cross(start, start+h, newOmega > 0, theta, newTheta)
		}
		if (newOmega*omega < 0) || (newOmega == 0 && omega != 0) {
			p.peak(theta, newTheta, start+h)
		}

		theta, omega = newTheta, newOmega
	}

	p.angle, p.angularVelocity = theta, omega
	p.UpdateDerivedVariables(p.friction > 0)
	p.stepped.Emit(dt)
}

// crossedVertical reports a pass through θ = 0. A sign flip across the
// ±π seam is a pass over the top, not a crossing.
func crossedVertical(oldTheta, newTheta float64) bool {
	if newTheta == 0 {
		return oldTheta != 0
	}
	return newTheta*oldTheta < 0 && math.Abs(newTheta-oldTheta) < math.Pi
}

func (p *Pendulum) cross(oldT, newT float64, positive bool, oldTheta, newTheta float64) {
	// linear estimate of where θ = 0 falls inside the substep
	t := oldT + (0-oldTheta)*(newT-oldT)/(newTheta-oldTheta)
	p.crossed.Emit(Crossing{Time: t, Positive: positive})
}

func (p *Pendulum) peak(oldTheta, newTheta, t float64) {
	// More extreme of the pair. Weighting by the bracketing velocities,
	// θ0 + (θ1-θ0)·ω0/(ω0-ω1), would land closer to the true turn.
	angle := math.Min(oldTheta, newTheta)
	if oldTheta+newTheta > 0 {
		angle = math.Max(oldTheta, newTheta)
	}
	p.peaked.Emit(Peak{Angle: angle, Time: t})
}

// UpdateDerivedVariables recomputes everything that follows from the
// primary state. With convertToThermal set, mechanical energy that
// disappeared since the last update is added to the thermal energy; a gain
// in mechanical energy is not subtracted from it.
func (p *Pendulum) UpdateDerivedVariables(convertToThermal bool) {
	p.readEnvironment()

	theta, omega, length := p.angle, p.angularVelocity, p.length
	speed := math.Abs(omega) * length
	height := length * (1 - math.Cos(theta))

	p.angularAcceleration = p.omegaDerivative(theta, omega)

	// the previous potential energy, re-evaluated at the current gravity
	oldMechanical := p.kineticEnergy + p.gravity*p.massHeight
	p.massHeight = p.mass * height
	p.kineticEnergy = 0.5 * p.mass * speed * speed
	p.potentialEnergy = p.gravity * p.massHeight
	if convertToThermal {
		if lost := oldMechanical - (p.kineticEnergy + p.potentialEnergy); lost > 0 {
			p.thermalEnergy += lost
		}
	}
	p.totalEnergy = p.kineticEnergy + p.potentialEnergy + p.thermalEnergy

	p.position = dynamo.Polar(length, theta-math.Pi/2)
	p.velocity = dynamo.Polar(omega*length, theta)

	friction := dynamo.Polar(-p.frictionTerm(omega)*length, theta)
	gravity := dynamo.Polar(-p.gravity*math.Sin(theta), theta)
	centripetal := dynamo.Polar(omega*omega*length, theta+math.Pi/2)
	p.acceleration = friction.Add(gravity).Add(centripetal)
}

// ResetMotion puts the pendulum back at its initial angle and angular
// velocity.
func (p *Pendulum) ResetMotion() {
	p.angle = dynamo.ModAngle(p.opts.Angle)
	p.angularVelocity = p.opts.AngularVelocity
	p.UpdateDerivedVariables(false)
	p.resetDone.Emit(struct{}{})
}

func (p *Pendulum) ResetThermalEnergy() {
	p.thermalEnergy = 0
	p.totalEnergy = p.kineticEnergy + p.potentialEnergy
}

// Reset restores every configured value, clears the thermal energy and the
// interaction flags, then resets the motion.
func (p *Pendulum) Reset() {
	p.length = p.opts.Length
	p.mass = p.opts.Mass
	p.visible = p.opts.Visible
	p.userControlled = false
	p.tickVisible = false
	p.thermalEnergy = 0
	p.ResetMotion()
}

func (p *Pendulum) IsStationary() bool {
	return p.userControlled || (p.angle == 0 && p.angularVelocity == 0 && p.angularAcceleration == 0)
}

// ApproximatePeriod is the small-angle period 2π·sqrt(L/g).
func (p *Pendulum) ApproximatePeriod() float64 {
	return 2 * math.Pi * math.Sqrt(p.length/p.env.Gravity())
}

// SetUserControlled starts or ends a drag. Either transition stops the
// pendulum; the first drag also makes the protractor tick visible.
func (p *Pendulum) SetUserControlled(controlled bool) {
	if controlled == p.userControlled {
		return
	}
	p.userControlled = controlled
	p.angularVelocity = 0
	if controlled {
		p.tickVisible = true
	}
	p.UpdateDerivedVariables(false)
	if controlled {
		p.userMoved.Emit(struct{}{})
	}
}

func (p *Pendulum) SetAngle(angle float64) {
	p.angle = dynamo.ModAngle(angle)
	if p.userControlled {
		p.angularVelocity = 0
	}
	p.UpdateDerivedVariables(false)
	if p.userControlled {
		p.userMoved.Emit(struct{}{})
	}
}

// SetLength changes the length and scales the angular velocity by
// old/new so the bob keeps its linear speed.
func (p *Pendulum) SetLength(length float64) {
	if length == p.length {
		return
	}
	p.angularVelocity *= p.length / length
	p.length = length
	p.UpdateDerivedVariables(false)
}

func (p *Pendulum) SetMass(mass float64) {
	if mass == p.mass {
		return
	}
	p.mass = mass
	p.UpdateDerivedVariables(false)
}

func (p *Pendulum) SetVisible(visible bool) { p.visible = visible }

func (p *Pendulum) OnStep(fn func(dt float64)) func()   { return p.stepped.Subscribe(fn) }
func (p *Pendulum) OnCrossing(fn func(Crossing)) func() { return p.crossed.Subscribe(fn) }
func (p *Pendulum) OnPeak(fn func(Peak)) func()         { return p.peaked.Subscribe(fn) }

func (p *Pendulum) OnUserMoved(fn func()) func() {
	return p.userMoved.Subscribe(func(struct{}) { fn() })
}

func (p *Pendulum) OnReset(fn func()) func() {
	return p.resetDone.Subscribe(func(struct{}) { fn() })
}

func (p *Pendulum) Length() float64               { return p.length }
func (p *Pendulum) Mass() float64                 { return p.mass }
func (p *Pendulum) Angle() float64                { return p.angle }
func (p *Pendulum) AngularVelocity() float64      { return p.angularVelocity }
func (p *Pendulum) AngularAcceleration() float64  { return p.angularAcceleration }
func (p *Pendulum) Position() dynamo.Vector2      { return p.position }
func (p *Pendulum) Velocity() dynamo.Vector2      { return p.velocity }
func (p *Pendulum) Acceleration() dynamo.Vector2  { return p.acceleration }
func (p *Pendulum) KineticEnergy() float64        { return p.kineticEnergy }
func (p *Pendulum) PotentialEnergy() float64      { return p.potentialEnergy }
func (p *Pendulum) ThermalEnergy() float64        { return p.thermalEnergy }
func (p *Pendulum) TotalEnergy() float64          { return p.totalEnergy }
func (p *Pendulum) IsUserControlled() bool        { return p.userControlled }
func (p *Pendulum) IsVisible() bool               { return p.visible }
func (p *Pendulum) IsTickVisible() bool           { return p.tickVisible }
func (p *Pendulum) Color() string                 { return p.opts.Color }
func (p *Pendulum) LengthRange() dynamo.Range     { return p.opts.LengthRange }
func (p *Pendulum) MassRange() dynamo.Range       { return p.opts.MassRange }
func (p *Pendulum) Integrator() dynamo.Integrator { return p.integ }

// Snapshot is a copy of the observable state at one instant.
type Snapshot struct {
	Angle               float64
	AngularVelocity     float64
	AngularAcceleration float64
	Length              float64
	Mass                float64
	Position            dynamo.Vector2
	Velocity            dynamo.Vector2
	Acceleration        dynamo.Vector2
	KineticEnergy       float64
	PotentialEnergy     float64
	ThermalEnergy       float64
	TotalEnergy         float64
}

func (p *Pendulum) Snapshot() Snapshot {
	return Snapshot{
		Angle:               p.angle,
		AngularVelocity:     p.angularVelocity,
		AngularAcceleration: p.angularAcceleration,
		Length:              p.length,
		Mass:                p.mass,
		Position:            p.position,
		Velocity:            p.velocity,
		Acceleration:        p.acceleration,
		KineticEnergy:       p.kineticEnergy,
		PotentialEnergy:     p.potentialEnergy,
		ThermalEnergy:       p.thermalEnergy,
		TotalEnergy:         p.totalEnergy,
	}
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":   p.mass,
		"length": p.length,
		"angle":  p.angle,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		p.SetMass(value)
	case "length":
		p.SetLength(value)
	case "angle":
		p.SetAngle(value)
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

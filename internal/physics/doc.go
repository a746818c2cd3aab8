// Package physics implements the pendulum body of the lab.
//
// A [Pendulum] owns one pendulum's primary state (length, mass, angle,
// angular velocity), advances it with a substep-subdivided integrator, keeps
// the derived kinematic and energy quantities current and broadcasts the
// events view code and tools listen to:
//
//   - step completed (dt)
//   - crossing of the vertical ([Crossing])
//   - turning point ([Peak])
//   - user moved
//   - reset
//
// Gravity and friction come from an [Environment] that the pendulum reads
// on every step and never mutates.
//
// # Energy Bookkeeping
//
// With zero friction the total energy is conserved up to integrator error:
//
//	env := physics.FixedEnvironment{G: 9.81}
//	p := physics.NewPendulum(env, physics.Options{Mass: 1, Length: 1, Angle: 0.5})
//	e0 := p.TotalEnergy()
//	p.Step(1.0 / 60)
//	drift := math.Abs(p.TotalEnergy()-e0) / e0
//
// With friction, mechanical energy lost in a step is moved into the
// thermal energy, which never decreases between resets.
package physics

// Package dynamo provides the shared primitives of the pendulum lab.
//
// The package defines the small vocabulary every other package speaks:
//
//   - [State]: vector representing integrator state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Vector2]: 2D value type used for position, velocity and acceleration
//   - [Emitter]: synchronous broadcast used for simulation events
//   - [ModAngle]: angle normalization into (-π, π]
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. The lab is driven by
// a single tick source; use [Parallel] only for fully independent runs.
package dynamo

// Package dynamo provides the core primitives shared by the orbit simulator.
//
// The package defines the numerical vocabulary used by every other layer:
//
//   - [State]: flat phase-space vector, [x, y, vx, vy] for an orbit
//   - [Vec2]: planar position or velocity
//   - [System]: ODE right-hand side (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical stepper
//   - [Hamiltonian]: systems that can report their total energy
//
// # Example
//
//	orbit := physics.NewOrbit(physics.DefaultParams())
//	step := integrators.NewSymplecticEuler()
//	x := orbit.InitialState()
//	x = step.Step(orbit, x, 0, 12.0)
//
// # Thread Safety
//
// States are plain slices and are not safe for concurrent mutation. The
// animation driver owns the live state and hands out clones.
package dynamo

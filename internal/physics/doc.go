// Package physics provides the central-force laws of the orbit simulator.
//
// A single body orbits a fixed sun at the origin under one of four laws:
//
//   - [Newtonian]: a = -gm * p / r^3
//   - [ModifiedPower]: a = -gm * n * p / r^(n+1), with n the exponent
//   - [Relativistic]: Newtonian plus a 3*beta * p / r^5 correction
//   - [Coulomb]: a = k * q1 * q2 * p / r^3 (repulsive for like charges)
//
// [Orbit] implements [dynamo.System], [dynamo.Hamiltonian] and
// [dynamo.Configurable]. An unrecognized [LawKind] produces zero
// acceleration, so the body drifts in a straight line.
//
// # Singularity
//
// All four laws diverge as r approaches zero. By default nothing guards the
// division and a body that reaches the origin produces NaN or Inf. Set
// [Orbit.MinRadius] to clamp r from below:
//
//	orbit := physics.NewOrbit(physics.DefaultParams())
//	orbit.MinRadius = 1e-3
package physics

// Package analysis provides orbit diagnostics.
//
// The package works on recorded trajectories of a single body:
//
//   - [Integrate]: run a system forward and record every state
//   - [Periapses]: closest approaches, interpolated between samples
//   - [Precession]: mean periapsis advance per orbit
//   - [Spectrum]: power spectrum of the radius series
//   - [PrecessionSweep]: precession as a function of one parameter
//   - [TrajectoryToASCII]: quick terminal plot of the orbit
//
// # Precession
//
// A closed orbit returns to the same periapsis every revolution. A force
// law that is not exactly inverse-square makes the periapsis rotate:
//
//	tr := analysis.Integrate(orbit, integ, x0, 12, 20000)
//	adv := analysis.Precession(analysis.Periapses(tr))
//	if adv > 0 {
//	    // periapsis advances with the motion
//	}
package analysis

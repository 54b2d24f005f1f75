package integrators

import "github.com/san-kum/orbitsim/internal/dynamo"

// SymplecticEuler is the semi-implicit Euler step: velocities are kicked
// with the acceleration at the current position, then positions drift with
// the updated velocities.
//
//	v' = v + a(x) dt
//	x' = x + v' dt
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	dx := dyn.Derive(x, t)

	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + dx[half+i]*dt
		result[i] = x[i] + result[half+i]*dt
	}
	return result
}

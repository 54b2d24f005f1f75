package integrators

import (
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func benchmarkOrbit(b *testing.B, integ dynamo.Integrator) {
	orbit := physics.NewOrbit(physics.DefaultParams())
	x := orbit.InitialState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(orbit, x, 0, 12)
	}
}

func BenchmarkSymplecticEuler(b *testing.B) { benchmarkOrbit(b, NewSymplecticEuler()) }

func BenchmarkEuler(b *testing.B) { benchmarkOrbit(b, NewEuler()) }

func BenchmarkRK4(b *testing.B) { benchmarkOrbit(b, NewRK4()) }

func BenchmarkVerlet(b *testing.B) { benchmarkOrbit(b, NewVerlet()) }

func BenchmarkLeapfrog(b *testing.B) { benchmarkOrbit(b, NewLeapfrog()) }

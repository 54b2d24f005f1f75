package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// EnergyDrift tracks the worst relative deviation of the specific orbital
// energy from the first sample since the last Reset.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	dyn           dynamo.Hamiltonian
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State) {
	if e.dyn == nil {
		return
	}
	e.ObserveEnergy(e.dyn.Energy(x))
}

// ObserveEnergy records an already computed energy value. Non-finite values
// are ignored so a diverged run does not poison the maximum.
func (e *EnergyDrift) ObserveEnergy(energy float64) {
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return
	}
	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

// Current is the relative drift of the latest sample.
func (e *EnergyDrift) Current() float64 {
	if e.samples == 0 || e.initialEnergy == 0 {
		return 0
	}
	return math.Abs(e.currentEnergy-e.initialEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Samples() int { return e.samples }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

package driver

import (
	"sync/atomic"

	"github.com/san-kum/orbitsim/internal/physics"
)

// Inputs is the full set of values a host pushes into the simulation.
// Only Params and Epoch are structural: changing them restarts the orbit.
type Inputs struct {
	Params      physics.Params `json:"params"`
	Speed       float64        `json:"speed"`
	Zoom        float64        `json:"zoom"`
	CenterOnSun bool           `json:"centerOnSun"`
	// Epoch advances on every Reset so that resetting already-default
	// inputs still reinitializes the orbit.
	Epoch uint64 `json:"epoch"`
}

func DefaultInputs() Inputs {
	return Inputs{
		Params: physics.DefaultParams(),
		Speed:  1.0,
		Zoom:   1.0,
	}
}

// Source hands the driver a consistent snapshot once per iteration.
type Source interface {
	Snapshot() Inputs
}

// LiveInputs is a lock-free, last-write-wins Source. Writers may run on
// any goroutine; the driver sees either the old or the new value, never a
// mix of the two.
type LiveInputs struct {
	cur atomic.Pointer[Inputs]
}

func NewLiveInputs(in Inputs) *LiveInputs {
	l := &LiveInputs{}
	l.cur.Store(&in)
	return l
}

func (l *LiveInputs) Snapshot() Inputs {
	return *l.cur.Load()
}

// Update applies fn to a copy of the current inputs and publishes the result.
func (l *LiveInputs) Update(fn func(*Inputs)) Inputs {
	for {
		old := l.cur.Load()
		next := *old
		fn(&next)
		if l.cur.CompareAndSwap(old, &next) {
			return next
		}
	}
}

// Set replaces every input except the epoch.
func (l *LiveInputs) Set(in Inputs) Inputs {
	return l.Update(func(cur *Inputs) {
		epoch := cur.Epoch
		*cur = in
		cur.Epoch = epoch
	})
}

// Reset restores the documented defaults, law selection included.
func (l *LiveInputs) Reset() Inputs {
	return l.Update(func(cur *Inputs) {
		epoch := cur.Epoch
		*cur = DefaultInputs()
		cur.Epoch = epoch + 1
	})
}

// ResetParams restores defaults but keeps the selected force law.
func (l *LiveInputs) ResetParams() Inputs {
	return l.Update(func(cur *Inputs) {
		epoch, law := cur.Epoch, cur.Params.Law
		*cur = DefaultInputs()
		cur.Params.Law = law
		cur.Epoch = epoch + 1
	})
}

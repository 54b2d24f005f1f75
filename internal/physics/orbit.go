package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	// RelativisticBeta scales the r^-3 correction term of the relativistic law.
	RelativisticBeta = 0.01
	// CoulombK is the electrostatic coupling constant.
	CoulombK = 1.0
	// StartRadius is the distance from the sun the body starts at on every restart.
	StartRadius = 200.0
)

// Params is the structural tuple of a force law. Any change to it restarts
// the simulation from the initial circular-orbit state.
type Params struct {
	Law      LawKind `json:"law"`
	GM       float64 `json:"gm"`
	Exponent float64 `json:"exponent"`
	Charge1  float64 `json:"q1"`
	Charge2  float64 `json:"q2"`
}

func DefaultParams() Params {
	return Params{
		Law:      Newtonian,
		GM:       1.0,
		Exponent: 1.7,
		Charge1:  1.0,
		Charge2:  1.0,
	}
}

// Accel returns the acceleration on a body at pos. Unknown laws yield zero.
func Accel(p Params, pos dynamo.Vec2) dynamo.Vec2 {
	return accel(p, pos, pos.Norm())
}

func accel(p Params, pos dynamo.Vec2, r float64) dynamo.Vec2 {
	var k float64
	switch p.Law {
	case Newtonian:
		k = -p.GM / (r * r * r)
	case ModifiedPower:
		k = -p.GM * p.Exponent / math.Pow(r, p.Exponent+1)
	case Relativistic:
		r3 := r * r * r
		k = -p.GM/r3 + 3*RelativisticBeta/(r3*r*r)
	case Coulomb:
		k = CoulombK * p.Charge1 * p.Charge2 / (r * r * r)
	default:
		return dynamo.Vec2{}
	}
	return pos.Scale(k)
}

// Potential returns the potential energy per unit mass at distance r.
func Potential(p Params, r float64) float64 {
	switch p.Law {
	case Newtonian:
		return -p.GM / r
	case ModifiedPower:
		// force magnitude gm*n/r^n integrates to gm*n/(n-1) * r^(1-n)
		n := p.Exponent
		if n == 1 {
			return p.GM * math.Log(r)
		}
		return -p.GM * n / (n - 1) * math.Pow(r, 1-n)
	case Relativistic:
		return -p.GM/r + RelativisticBeta/(r*r*r)
	case Coulomb:
		return CoulombK * p.Charge1 * p.Charge2 / r
	default:
		return 0
	}
}

// Orbit is a single body moving around a fixed sun at the origin.
type Orbit struct {
	Params Params
	// MinRadius clamps r from below before dividing. Zero leaves the
	// singularity at the origin unguarded.
	MinRadius float64
}

func NewOrbit(p Params) *Orbit {
	return &Orbit{Params: p}
}

func (o *Orbit) StateDim() int { return 4 }

func (o *Orbit) radius(pos dynamo.Vec2) float64 {
	r := pos.Norm()
	if o.MinRadius > 0 && r < o.MinRadius {
		return o.MinRadius
	}
	return r
}

func (o *Orbit) Derive(x dynamo.State, t float64) dynamo.State {
	pos := x.Position()
	a := accel(o.Params, pos, o.radius(pos))
	return dynamo.State{x[2], x[3], a.X, a.Y}
}

func (o *Orbit) Energy(x dynamo.State) float64 {
	v := x.Velocity()
	return 0.5*v.Dot(v) + Potential(o.Params, o.radius(x.Position()))
}

// InitialState places the body at (StartRadius, 0) moving tangentially at
// the Newtonian circular speed sqrt(gm/r). Coulomb uses the same speed.
func (o *Orbit) InitialState() dynamo.State {
	return InitialState(o.Params)
}

func InitialState(p Params) dynamo.State {
	pos := dynamo.Vec2{X: StartRadius, Y: 0}
	vel := dynamo.Vec2{X: 0, Y: math.Sqrt(p.GM / StartRadius)}
	return dynamo.NewOrbitState(pos, vel)
}

func (o *Orbit) GetParams() map[string]float64 {
	return map[string]float64{
		"law":      float64(o.Params.Law),
		"gm":       o.Params.GM,
		"exponent": o.Params.Exponent,
		"q1":       o.Params.Charge1,
		"q2":       o.Params.Charge2,
	}
}

func (o *Orbit) SetParam(name string, value float64) error {
	switch name {
	case "law":
		law := LawKind(int(value))
		if !law.Valid() {
			return fmt.Errorf("%w: %v", dynamo.ErrUnknownLaw, value)
		}
		o.Params.Law = law
	case "gm":
		o.Params.GM = value
	case "exponent":
		o.Params.Exponent = value
	case "q1":
		o.Params.Charge1 = value
	case "q2":
		o.Params.Charge2 = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

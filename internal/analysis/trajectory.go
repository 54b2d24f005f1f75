package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Trajectory is a fixed-step recording of a system, initial state included.
type Trajectory struct {
	DT     float64
	Times  []float64
	States []dynamo.State
}

// Integrate advances x0 by steps steps of dt. Recording stops early at the
// first non-finite state.
func Integrate(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt float64,
	steps int,
) *Trajectory {
	tr := &Trajectory{
		DT:     dt,
		Times:  make([]float64, 0, steps+1),
		States: make([]dynamo.State, 0, steps+1),
	}

	x := x0.Clone()
	t := 0.0
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x)

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, t, dt)
		t += dt
		if !x.IsValid() {
			break
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, x)
	}
	return tr
}

func (tr *Trajectory) Len() int { return len(tr.States) }

// Radii returns the distance from the origin at every sample.
func (tr *Trajectory) Radii() []float64 {
	r := make([]float64, len(tr.States))
	for i, x := range tr.States {
		r[i] = x.Position().Norm()
	}
	return r
}

// Angles returns the polar angle at every sample, unwrapped so that it is
// continuous across the branch cut.
func (tr *Trajectory) Angles() []float64 {
	a := make([]float64, len(tr.States))
	for i, x := range tr.States {
		a[i] = x.Position().Angle()
		if i > 0 {
			a[i] = a[i-1] + wrapAngle(a[i]-a[i-1])
		}
	}
	return a
}

// MaxRadius is the largest distance reached.
func (tr *Trajectory) MaxRadius() float64 {
	m := 0.0
	for _, r := range tr.Radii() {
		m = math.Max(m, r)
	}
	return m
}

// wrapAngle maps a into (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	a -= math.Pi
	if a == -math.Pi {
		return math.Pi
	}
	return a
}

// TrajectoryToASCII plots the orbit in the x-y plane with the sun marked
// at the origin.
func TrajectoryToASCII(tr *Trajectory, width, height int) string {
	if tr == nil || tr.Len() == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// symmetric bounds keep the sun centred
	extent := tr.MaxRadius() * 1.1
	if extent == 0 {
		extent = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	plot := func(x, y float64, ch rune) {
		col := int((x + extent) / (2 * extent) * float64(width-1))
		row := height - 1 - int((y+extent)/(2*extent)*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = ch
		}
	}

	for _, x := range tr.States {
		p := x.Position()
		plot(p.X, p.Y, '•')
	}
	plot(0, 0, '☼')

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

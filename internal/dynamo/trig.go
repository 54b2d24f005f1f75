package dynamo

import "math"

// TrigTable approximates sin and cos by linear interpolation between n
// samples of one turn. It is for drawing; the force laws use math.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// DefaultTrigTable has ~0.0015 rad resolution.
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	if n < 4 {
		n = 4
	}
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i], t.cos[i] = math.Sincos(angle)
	}
	return t
}

// SinCos returns sin(x) and cos(x) for any finite x.
func (t *TrigTable) SinCos(x float64) (sin, cos float64) {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)
	i0 := i % t.n
	i1 := (i + 1) % t.n

	sin = t.sin[i0]*(1-frac) + t.sin[i1]*frac
	cos = t.cos[i0]*(1-frac) + t.cos[i1]*frac
	return
}

// UnitCircle returns n evenly spaced points on the unit circle, starting
// at angle 0 and running counter-clockwise in math orientation.
func (t *TrigTable) UnitCircle(n int) []Vec2 {
	pts := make([]Vec2, n)
	for i := range pts {
		s, c := t.SinCos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = Vec2{c, s}
	}
	return pts
}

package analysis

import (
	"math"
)

// Apsis is a closest approach to the sun.
type Apsis struct {
	Index  int
	Time   float64
	Radius float64
	// Angle is unwrapped, so consecutive apses differ by roughly 2*pi.
	Angle float64
}

// Periapses finds the local minima of the radius series. The minimum is
// refined with a parabola through the three neighbouring samples and the
// angle interpolated to the refined position.
func Periapses(tr *Trajectory) []Apsis {
	if tr == nil || tr.Len() < 3 {
		return nil
	}
	r := tr.Radii()
	ang := tr.Angles()

	var out []Apsis
	for i := 1; i < len(r)-1; i++ {
		if !(r[i] < r[i-1] && r[i] <= r[i+1]) {
			continue
		}
		den := r[i-1] - 2*r[i] + r[i+1]
		off := 0.0
		if den > 0 {
			off = 0.5 * (r[i-1] - r[i+1]) / den
		}
		off = math.Max(-0.5, math.Min(0.5, off))

		var a float64
		if off >= 0 {
			a = ang[i] + off*(ang[i+1]-ang[i])
		} else {
			a = ang[i] + off*(ang[i]-ang[i-1])
		}
		out = append(out, Apsis{
			Index:  i,
			Time:   tr.Times[i] + off*tr.DT,
			Radius: r[i] - 0.25*(r[i-1]-r[i+1])*off,
			Angle:  a,
		})
	}
	return out
}

// Precession returns the mean periapsis advance per orbit in radians.
// Positive values advance in the direction of motion. Fewer than two
// periapses yield NaN.
func Precession(aps []Apsis) float64 {
	if len(aps) < 2 {
		return math.NaN()
	}
	sum := 0.0
	for i := 1; i < len(aps); i++ {
		// one revolution in either sense of motion
		sum += math.Abs(aps[i].Angle-aps[i-1].Angle) - 2*math.Pi
	}
	return sum / float64(len(aps)-1)
}

// OrbitalPeriod is the mean time between consecutive periapses, or NaN.
func OrbitalPeriod(aps []Apsis) float64 {
	if len(aps) < 2 {
		return math.NaN()
	}
	return (aps[len(aps)-1].Time - aps[0].Time) / float64(len(aps)-1)
}

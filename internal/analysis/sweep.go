package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// SweepPoint is the orbit character observed for one parameter value.
type SweepPoint struct {
	Param      float64
	Precession float64
	Period     float64
	MinRadius  float64
	MaxRadius  float64
	Escaped    bool
}

// PrecessionSweep steps a parameter of dyn across [paramMin, paramMax] and
// records the periapsis advance for each value. x0 is called per value so
// the start state can depend on the parameter. The parameter is restored
// to paramMin afterwards.
func PrecessionSweep(
	dyn dynamo.System,
	integ dynamo.Integrator,
	paramName string,
	paramMin, paramMax float64,
	paramSteps int,
	x0 func() dynamo.State,
	dt float64,
	steps int,
	escapeRadius float64,
) ([]SweepPoint, error) {
	tunable, ok := dyn.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("%T has no tunable parameters", dyn)
	}
	if paramSteps <= 1 {
		paramSteps = 2
	}
	paramStep := (paramMax - paramMin) / float64(paramSteps-1)

	results := make([]SweepPoint, 0, paramSteps)
	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*paramStep
		if err := tunable.SetParam(paramName, param); err != nil {
			return nil, err
		}

		tr := Integrate(dyn, integ, x0(), dt, steps)
		radii := tr.Radii()
		pt := SweepPoint{Param: param, MinRadius: math.Inf(1)}
		for _, r := range radii {
			pt.MinRadius = math.Min(pt.MinRadius, r)
			pt.MaxRadius = math.Max(pt.MaxRadius, r)
		}
		pt.Escaped = tr.Len() <= steps || (escapeRadius > 0 && pt.MaxRadius > escapeRadius)

		aps := Periapses(tr)
		pt.Precession = Precession(aps)
		pt.Period = OrbitalPeriod(aps)
		results = append(results, pt)
	}

	if err := tunable.SetParam(paramName, paramMin); err != nil {
		return nil, err
	}
	return results, nil
}

// SweepToASCII renders a sweep as a plain table.
func SweepToASCII(paramName string, data []SweepPoint) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%10s %12s %10s %9s %9s\n", paramName, "prec/orbit", "period", "r_min", "r_max")
	for _, p := range data {
		if p.Escaped {
			fmt.Fprintf(&sb, "%10.3f %12s %10s %9.1f %9s\n", p.Param, "-", "-", p.MinRadius, "escaped")
			continue
		}
		fmt.Fprintf(&sb, "%10.3f %12.4f %10.1f %9.1f %9.1f\n", p.Param, p.Precession, p.Period, p.MinRadius, p.MaxRadius)
	}
	return sb.String()
}

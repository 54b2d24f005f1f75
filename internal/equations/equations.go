// Package equations renders the potential, force and acceleration of the
// active force law with the current parameter values substituted.
package equations

import (
	"fmt"
	"strconv"

	"github.com/san-kum/orbitsim/internal/physics"
)

// num formats a value the way a slider label shows it: shortest form,
// no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// LaTeX returns one LaTeX expression per line. Unknown laws yield nil.
func LaTeX(p physics.Params) []string {
	gm := num(p.GM)
	switch p.Law {
	case physics.Newtonian:
		return []string{
			fmt.Sprintf(`V(r) = - \frac{%s}{r}`, gm),
			fmt.Sprintf(`F = - \frac{%s}{r^2} \hat{r}`, gm),
			fmt.Sprintf(`a = - \frac{%s\,r}{r^3}`, gm),
		}
	case physics.ModifiedPower:
		n := num(p.Exponent)
		return []string{
			fmt.Sprintf(`V(r) = - \frac{%s}{r^{%s}}`, gm, n),
			fmt.Sprintf(`F = - \frac{%s\cdot %s}{r^{%s}} \hat{r}`, gm, n, fixed2(p.Exponent+1)),
			fmt.Sprintf(`a = - \frac{%s\cdot %s\,r}{r^{%s}}`, gm, n, fixed2(p.Exponent+2)),
		}
	case physics.Relativistic:
		return []string{
			fmt.Sprintf(`V(r) \approx - \frac{%s}{r} + \frac{\beta}{r^3}`, gm),
			fmt.Sprintf(`F = - \frac{%s}{r^2} \hat{r} + \frac{3\beta}{r^4} \hat{r}`, gm),
			fmt.Sprintf(`a = - \frac{%s\,r}{r^3} + \frac{3\beta\,r}{r^5}`, gm),
		}
	case physics.Coulomb:
		return []string{
			`V(r) = \frac{k\,q_1\,q_2}{r}`,
			`F = \frac{k\,q_1\,q_2}{r^2} \hat{r}`,
			`a = \frac{k\,q_1\,q_2\,r}{r^3}`,
			fmt.Sprintf(`k = %s`, num(physics.CoulombK)),
		}
	}
	return nil
}

// Plain returns a terminal-friendly rendering of the same equations.
func Plain(p physics.Params) []string {
	gm := num(p.GM)
	switch p.Law {
	case physics.Newtonian:
		return []string{
			fmt.Sprintf("V(r) = -%s/r", gm),
			fmt.Sprintf("F = -%s/r^2 r\u0302", gm),
			fmt.Sprintf("a = -%s r/r^3", gm),
		}
	case physics.ModifiedPower:
		n := num(p.Exponent)
		return []string{
			fmt.Sprintf("V(r) = -%s/r^%s", gm, n),
			fmt.Sprintf("F = -%s·%s/r^%s r\u0302", gm, n, fixed2(p.Exponent+1)),
			fmt.Sprintf("a = -%s·%s r/r^%s", gm, n, fixed2(p.Exponent+2)),
		}
	case physics.Relativistic:
		return []string{
			fmt.Sprintf("V(r) ≈ -%s/r + β/r^3", gm),
			fmt.Sprintf("F = -%s/r^2 r\u0302 + 3β/r^4 r\u0302", gm),
			fmt.Sprintf("a = -%s r/r^3 + 3β r/r^5", gm),
			fmt.Sprintf("β = %s", num(physics.RelativisticBeta)),
		}
	case physics.Coulomb:
		return []string{
			"V(r) = k q1 q2/r",
			"F = k q1 q2/r^2 r\u0302",
			"a = k q1 q2 r/r^3",
			fmt.Sprintf("k = %s  q1 = %s  q2 = %s", num(physics.CoulombK), num(p.Charge1), num(p.Charge2)),
		}
	}
	return nil
}

// ASCII is Plain restricted to 7-bit characters, for bitmap fonts that
// lack Greek letters and combining marks.
func ASCII(p physics.Params) []string {
	lines := Plain(p)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = asciiReplacer.Replace(l)
	}
	return out
}

package equations

import (
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/physics"
)

func TestLaTeX(t *testing.T) {
	tests := []struct {
		name string
		p    physics.Params
		want []string
	}{
		{
			"newtonian",
			physics.Params{Law: physics.Newtonian, GM: 1},
			[]string{
				`V(r) = - \frac{1}{r}`,
				`F = - \frac{1}{r^2} \hat{r}`,
				`a = - \frac{1\,r}{r^3}`,
			},
		},
		{
			"modified",
			physics.Params{Law: physics.ModifiedPower, GM: 2.5, Exponent: 1.7},
			[]string{
				`V(r) = - \frac{2.5}{r^{1.7}}`,
				`F = - \frac{2.5\cdot 1.7}{r^{2.70}} \hat{r}`,
				`a = - \frac{2.5\cdot 1.7\,r}{r^{3.70}}`,
			},
		},
		{
			"relativistic",
			physics.Params{Law: physics.Relativistic, GM: 0.3},
			[]string{
				`V(r) \approx - \frac{0.3}{r} + \frac{\beta}{r^3}`,
				`F = - \frac{0.3}{r^2} \hat{r} + \frac{3\beta}{r^4} \hat{r}`,
				`a = - \frac{0.3\,r}{r^3} + \frac{3\beta\,r}{r^5}`,
			},
		},
		{
			"coulomb",
			physics.Params{Law: physics.Coulomb, GM: 4, Charge1: -2, Charge2: 3},
			[]string{
				`V(r) = \frac{k\,q_1\,q_2}{r}`,
				`F = \frac{k\,q_1\,q_2}{r^2} \hat{r}`,
				`a = \frac{k\,q_1\,q_2\,r}{r^3}`,
				`k = 1`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LaTeX(tt.p)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d: %q", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d:\n got %s\nwant %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestUnknownLaw(t *testing.T) {
	p := physics.Params{Law: physics.LawKind(99)}
	if LaTeX(p) != nil || Plain(p) != nil {
		t.Error("unknown law should produce no equations")
	}
}

func TestPlainAndASCII(t *testing.T) {
	for _, law := range physics.Laws() {
		p := physics.DefaultParams()
		p.Law = law

		plain := Plain(p)
		if len(plain) < 3 {
			t.Errorf("%v: expected at least 3 lines, got %d", law, len(plain))
		}
		for _, line := range ASCII(p) {
			for _, r := range line {
				if r > 127 {
					t.Errorf("%v: non-ascii rune %q in %q", law, r, line)
				}
			}
		}
	}

	coulomb := Plain(physics.Params{Law: physics.Coulomb, Charge1: -1.5, Charge2: 2})
	if !strings.Contains(coulomb[3], "q1 = -1.5") {
		t.Errorf("coulomb charges missing: %q", coulomb[3])
	}
}

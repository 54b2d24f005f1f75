package config

import (
	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Patch is a partial update of the live inputs. Nil fields are left
// untouched. Scenario steps and WebSocket clients both speak it.
type Patch struct {
	Law         *string  `json:"law,omitempty" yaml:"law,omitempty"`
	GM          *float64 `json:"gm,omitempty" yaml:"gm,omitempty"`
	Exponent    *float64 `json:"exponent,omitempty" yaml:"exponent,omitempty"`
	Charge1     *float64 `json:"q1,omitempty" yaml:"q1,omitempty"`
	Charge2     *float64 `json:"q2,omitempty" yaml:"q2,omitempty"`
	Speed       *float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	Zoom        *float64 `json:"zoom,omitempty" yaml:"zoom,omitempty"`
	CenterOnSun *bool    `json:"centerOnSun,omitempty" yaml:"center_on_sun,omitempty"`
}

func (p Patch) Empty() bool {
	return p == Patch{}
}

// Apply returns in with the patch applied and clamped to the input
// domains. An unknown law name leaves in unchanged.
func (p Patch) Apply(in driver.Inputs) (driver.Inputs, error) {
	if p.Law != nil {
		law, err := physics.ParseLaw(*p.Law)
		if err != nil {
			return in, err
		}
		in.Params.Law = law
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&in.Params.GM, p.GM)
	set(&in.Params.Exponent, p.Exponent)
	set(&in.Params.Charge1, p.Charge1)
	set(&in.Params.Charge2, p.Charge2)
	set(&in.Speed, p.Speed)
	set(&in.Zoom, p.Zoom)
	if p.CenterOnSun != nil {
		in.CenterOnSun = *p.CenterOnSun
	}
	return Clamp(in), nil
}

// ApplyTo writes the patch into live inputs atomically.
func (p Patch) ApplyTo(live *driver.LiveInputs) error {
	var applyErr error
	live.Update(func(in *driver.Inputs) {
		next, err := p.Apply(*in)
		if err != nil {
			applyErr = err
			return
		}
		*in = next
	})
	return applyErr
}

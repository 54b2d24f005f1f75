package config

import (
	"fmt"
	"sort"
)

// Preset is a named starting point for the sim section.
type Preset struct {
	Description string
	Sim         SimConfig
}

var Presets = map[string]Preset{
	"circular": {
		Description: "newtonian circular orbit",
		Sim:         SimConfig{Law: "newtonian", GM: 1.0, Exponent: 1.7, Charge1: 1, Charge2: 1, Speed: 1, Zoom: 1},
	},
	"precession": {
		Description: "r^-2.2 attraction, periapsis advances each orbit",
		Sim:         SimConfig{Law: "modified", GM: 1.0, Exponent: 2.2, Charge1: 1, Charge2: 1, Speed: 2, Zoom: 0.7},
	},
	"retrograde-precession": {
		Description: "r^-1.8 attraction, periapsis regresses each orbit",
		Sim:         SimConfig{Law: "modified", GM: 1.0, Exponent: 1.8, Charge1: 1, Charge2: 1, Speed: 1, Zoom: 1},
	},
	"relativistic": {
		Description: "newtonian gravity with an r^-4 correction",
		Sim:         SimConfig{Law: "relativistic", GM: 1.0, Exponent: 1.7, Charge1: 1, Charge2: 1, Speed: 1, Zoom: 1},
	},
	"repulsion": {
		Description: "like charges, the body escapes",
		Sim:         SimConfig{Law: "coulomb", GM: 1.0, Exponent: 1.7, Charge1: 2, Charge2: 3, Speed: 1, Zoom: 0.5, CenterOnSun: true},
	},
	"attraction": {
		Description: "opposite charges, bound ellipse",
		Sim:         SimConfig{Law: "coulomb", GM: 1.0, Exponent: 1.7, Charge1: 2, Charge2: -1, Speed: 1, Zoom: 1},
	},
	"fast": {
		Description: "strong gravity at high speed",
		Sim:         SimConfig{Law: "newtonian", GM: 3.0, Exponent: 1.7, Charge1: 1, Charge2: 1, Speed: 4, Zoom: 0.7},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the interactive part of the sim section. The
// integrator and seed are left alone.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset %q (available: %v)", name, ListPresets())
	}
	integ, seed := c.Sim.Integrator, c.Sim.Seed
	c.Sim = p.Sim
	c.Sim.Integrator, c.Sim.Seed = integ, seed
	return nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/equations"
	"github.com/san-kum/orbitsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Sim.Law != "newtonian" {
		t.Errorf("expected law newtonian, got %s", cfg.Sim.Law)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Inputs() != driver.DefaultInputs() {
		t.Errorf("default config inputs %+v differ from driver defaults", cfg.Inputs())
	}
	if cfg.Render.Width != 600 || cfg.Render.Height != 600 {
		t.Errorf("expected 600x600 canvas, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("precession")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Sim.Exponent != 2.2 {
		t.Errorf("expected exponent 2.2, got %f", p.Sim.Exponent)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("nonexistent"); err == nil {
		t.Error("expected error applying nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	require.Len(t, names, 7)
	assert.IsIncreasing(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Sim.Integrator = "rk4"
			cfg.Sim.Seed = 7
			require.NoError(t, cfg.ApplyPreset(name))
			assert.NoError(t, cfg.Validate())
			assert.Equal(t, "rk4", cfg.Sim.Integrator)
			assert.Equal(t, int64(7), cfg.Sim.Seed)
		})
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"gm low", func(c *Config) { c.Sim.GM = 0.05 }, dynamo.ErrParameterBounds},
		{"exponent high", func(c *Config) { c.Sim.Exponent = 2.5 }, dynamo.ErrParameterBounds},
		{"charge", func(c *Config) { c.Sim.Charge2 = -11 }, dynamo.ErrParameterBounds},
		{"speed", func(c *Config) { c.Sim.Speed = 0 }, dynamo.ErrParameterBounds},
		{"zoom", func(c *Config) { c.Sim.Zoom = 3.5 }, dynamo.ErrParameterBounds},
		{"fps", func(c *Config) { c.Render.FPS = 0 }, dynamo.ErrParameterBounds},
		{"min radius", func(c *Config) { c.Physics.MinRadius = -1 }, dynamo.ErrParameterBounds},
		{"law", func(c *Config) { c.Sim.Law = "yukawa" }, dynamo.ErrUnknownLaw},
		{"integrator", func(c *Config) { c.Sim.Integrator = "rk45" }, dynamo.ErrUnknownIntegrator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	in := driver.Inputs{
		Params: physics.Params{Law: physics.Coulomb, GM: 99, Exponent: 0, Charge1: -50, Charge2: 3},
		Speed:  -1,
		Zoom:   10,
		Epoch:  4,
	}
	out := Clamp(in)

	assert.Equal(t, MaxGM, out.Params.GM)
	assert.Equal(t, MinExponent, out.Params.Exponent)
	assert.Equal(t, MinCharge, out.Params.Charge1)
	assert.Equal(t, 3.0, out.Params.Charge2)
	assert.Equal(t, MinSpeed, out.Speed)
	assert.Equal(t, MaxZoom, out.Zoom)
	assert.Equal(t, physics.Coulomb, out.Params.Law)
	assert.Equal(t, uint64(4), out.Epoch)

	def := driver.DefaultInputs()
	assert.Equal(t, def, Clamp(def), "defaults are already in range")
}

func TestVisibleControls(t *testing.T) {
	tests := []struct {
		law  physics.LawKind
		want []Control
	}{
		{physics.Newtonian, []Control{ControlLaw, ControlGM, ControlSpeed, ControlZoom, ControlCenter}},
		{physics.ModifiedPower, []Control{ControlLaw, ControlGM, ControlExponent, ControlSpeed, ControlZoom, ControlCenter}},
		{physics.Relativistic, []Control{ControlLaw, ControlGM, ControlSpeed, ControlZoom, ControlCenter}},
		{physics.Coulomb, []Control{ControlLaw, ControlCharge1, ControlCharge2, ControlSpeed, ControlZoom, ControlCenter}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VisibleControls(tt.law), tt.law.String())
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orbit.yaml")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyPreset("attraction"))
	cfg.Physics.MinRadius = 2
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  law: coulomb\n  q2: -4\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, physics.Coulomb, cfg.Params().Law)
	assert.Equal(t, -4.0, cfg.Sim.Charge2)
	assert.Equal(t, 1.0, cfg.Sim.Speed)
	assert.Equal(t, 60, cfg.Render.FPS)

	require.NoError(t, os.WriteFile(path, []byte("sim:\n  gm: 9\n"), 0644))
	_, err = Load(path)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestViperOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  law: modified\n  exponent: 2.1\n"), 0644))
	t.Setenv("ORBITSIM_SIM_SPEED", "2.5")
	t.Setenv("ORBITSIM_LOGGER_LEVEL", "debug")

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, physics.ModifiedPower, cfg.Params().Law)
	assert.Equal(t, 2.1, cfg.Sim.Exponent)
	assert.Equal(t, 2.5, cfg.Sim.Speed)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 600, cfg.Render.Width)

	t.Setenv("ORBITSIM_SIM_ZOOM", "7")
	v, err = NewViper("")
	require.NoError(t, err)
	_, err = NewConfigFromViper(v)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestNudge(t *testing.T) {
	in := driver.DefaultInputs()

	out := Nudge(in, ControlGM, 3)
	assert.InDelta(t, 1.3, out.Params.GM, 1e-9)

	out = Nudge(in, ControlExponent, -5)
	assert.Equal(t, MinExponent, out.Params.Exponent, "exponent clamps at its floor")

	out = Nudge(in, ControlZoom, 100)
	assert.Equal(t, MaxZoom, out.Zoom)

	out = Nudge(in, ControlLaw, 1)
	assert.Equal(t, physics.ModifiedPower, out.Params.Law)
	out = Nudge(in, ControlLaw, -1)
	assert.Equal(t, physics.Coulomb, out.Params.Law)

	out = Nudge(in, ControlCenter, 1)
	assert.True(t, out.CenterOnSun)
	assert.Equal(t, in, Nudge(in, ControlCenter, 0))

	assert.Equal(t, 0.0, Step(ControlLaw))
	assert.Equal(t, 0.01, Step(ControlExponent))
}

func TestNudgeStaysOnStepGrid(t *testing.T) {
	in := driver.DefaultInputs()

	in = Nudge(in, ControlGM, 1)
	in = Nudge(in, ControlGM, 1)
	assert.Equal(t, 1.2, in.Params.GM)
	assert.Equal(t, "V(r) = -1.2/r", equations.Plain(in.Params)[0])

	in.Params.Law = physics.ModifiedPower
	for i := 0; i < 7; i++ {
		in = Nudge(in, ControlExponent, 1)
	}
	assert.Equal(t, 1.77, in.Params.Exponent)

	for i := 0; i < 3; i++ {
		in = Nudge(in, ControlSpeed, -1)
	}
	assert.Equal(t, 0.7, in.Speed)
}

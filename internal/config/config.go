package config

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/trail"
)

// EnvPrefix is prepended to every environment override, e.g. ORBITSIM_SIM_GM.
const EnvPrefix = "ORBITSIM"

// Host-side input domains. The simulation core does not re-validate.
const (
	MinGM, MaxGM             = 0.1, 5.0
	MinExponent, MaxExponent = 1.7, 2.2
	MinCharge, MaxCharge     = -10.0, 10.0
	MinSpeed, MaxSpeed       = 0.1, 5.0
	MinZoom, MaxZoom         = 0.5, 3.0
)

type Config struct {
	Sim     SimConfig     `mapstructure:"sim" yaml:"sim"`
	Physics PhysicsConfig `mapstructure:"physics" yaml:"physics"`
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
}

// SimConfig mirrors the interactive controls plus the run-level knobs.
type SimConfig struct {
	Law         string  `mapstructure:"law" yaml:"law"`
	GM          float64 `mapstructure:"gm" yaml:"gm"`
	Exponent    float64 `mapstructure:"exponent" yaml:"exponent"`
	Charge1     float64 `mapstructure:"q1" yaml:"q1"`
	Charge2     float64 `mapstructure:"q2" yaml:"q2"`
	Speed       float64 `mapstructure:"speed" yaml:"speed"`
	Zoom        float64 `mapstructure:"zoom" yaml:"zoom"`
	CenterOnSun bool    `mapstructure:"center_on_sun" yaml:"center_on_sun"`
	Integrator  string  `mapstructure:"integrator" yaml:"integrator"`
	// Seed fixes the star field. Zero picks a time-based seed.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

type PhysicsConfig struct {
	MinRadius float64 `mapstructure:"min_radius" yaml:"min_radius"`
}

type RenderConfig struct {
	FPS           int `mapstructure:"fps" yaml:"fps"`
	Width         int `mapstructure:"width" yaml:"width"`
	Height        int `mapstructure:"height" yaml:"height"`
	Stars         int `mapstructure:"stars" yaml:"stars"`
	TrailCapacity int `mapstructure:"trail_capacity" yaml:"trail_capacity"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr" yaml:"addr"`
	Metrics bool   `mapstructure:"metrics" yaml:"metrics"`
	// ClientBuffer is the number of frames queued per WebSocket client
	// before frames are dropped for it.
	ClientBuffer int `mapstructure:"client_buffer" yaml:"client_buffer"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	in := driver.DefaultInputs()
	return &Config{
		Sim: SimConfig{
			Law:         p.Law.String(),
			GM:          p.GM,
			Exponent:    p.Exponent,
			Charge1:     p.Charge1,
			Charge2:     p.Charge2,
			Speed:       in.Speed,
			Zoom:        in.Zoom,
			CenterOnSun: in.CenterOnSun,
			Integrator:  integrators.Default,
		},
		Render: RenderConfig{
			FPS:           driver.DefaultFPS,
			Width:         scene.CanvasWidth,
			Height:        scene.CanvasHeight,
			Stars:         scene.DefaultStarCount,
			TrailCapacity: trail.DefaultCapacity,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Metrics:      true,
			ClientBuffer: 4,
		},
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "orbitsim",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      7,
		},
	}
}

// SetDefaults registers every default on v so that env variables and flags
// can override keys that never appear in a config file.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("sim.law", d.Sim.Law)
	v.SetDefault("sim.gm", d.Sim.GM)
	v.SetDefault("sim.exponent", d.Sim.Exponent)
	v.SetDefault("sim.q1", d.Sim.Charge1)
	v.SetDefault("sim.q2", d.Sim.Charge2)
	v.SetDefault("sim.speed", d.Sim.Speed)
	v.SetDefault("sim.zoom", d.Sim.Zoom)
	v.SetDefault("sim.center_on_sun", d.Sim.CenterOnSun)
	v.SetDefault("sim.integrator", d.Sim.Integrator)
	v.SetDefault("sim.seed", d.Sim.Seed)

	v.SetDefault("physics.min_radius", d.Physics.MinRadius)

	v.SetDefault("render.fps", d.Render.FPS)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.stars", d.Render.Stars)
	v.SetDefault("render.trail_capacity", d.Render.TrailCapacity)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.metrics", d.Server.Metrics)
	v.SetDefault("server.client_buffer", d.Server.ClientBuffer)

	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("logger.service_name", d.Logger.ServiceName)
	v.SetDefault("logger.log_file", d.Logger.LogFile)
	v.SetDefault("logger.max_size", d.Logger.MaxSize)
	v.SetDefault("logger.max_backups", d.Logger.MaxBackups)
	v.SetDefault("logger.max_age", d.Logger.MaxAge)
	v.SetDefault("logger.compress", d.Logger.Compress)
}

// NewViper returns a viper instance with defaults and ORBITSIM_ env
// overrides wired up. A non-empty path is read as a YAML config file.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// NewConfigFromViper unmarshals and validates the merged configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Write encodes cfg as YAML, in the layout Load reads back.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return fmt.Errorf("%w: %s=%g not in [%g, %g]", dynamo.ErrParameterBounds, name, v, lo, hi)
	}
	return nil
}

// Validate checks every value against its documented domain.
func (c *Config) Validate() error {
	if _, err := physics.ParseLaw(c.Sim.Law); err != nil {
		return err
	}
	if _, err := integrators.New(c.Sim.Integrator); err != nil {
		return err
	}

	checks := []struct {
		name   string
		v      float64
		lo, hi float64
	}{
		{"sim.gm", c.Sim.GM, MinGM, MaxGM},
		{"sim.exponent", c.Sim.Exponent, MinExponent, MaxExponent},
		{"sim.q1", c.Sim.Charge1, MinCharge, MaxCharge},
		{"sim.q2", c.Sim.Charge2, MinCharge, MaxCharge},
		{"sim.speed", c.Sim.Speed, MinSpeed, MaxSpeed},
		{"sim.zoom", c.Sim.Zoom, MinZoom, MaxZoom},
	}
	for _, chk := range checks {
		if err := checkRange(chk.name, chk.v, chk.lo, chk.hi); err != nil {
			return err
		}
	}

	if c.Physics.MinRadius < 0 {
		return fmt.Errorf("%w: physics.min_radius must not be negative", dynamo.ErrParameterBounds)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("%w: render.fps must be a positive integer", dynamo.ErrParameterBounds)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: render size must be positive", dynamo.ErrParameterBounds)
	}
	if c.Render.Stars < 0 {
		return fmt.Errorf("%w: render.stars must not be negative", dynamo.ErrParameterBounds)
	}
	if c.Server.ClientBuffer <= 0 {
		return fmt.Errorf("%w: server.client_buffer must be a positive integer", dynamo.ErrParameterBounds)
	}
	return nil
}

// Params converts the sim section into force-law parameters. The law is
// assumed valid; Validate reports it otherwise.
func (c *Config) Params() physics.Params {
	law, _ := physics.ParseLaw(c.Sim.Law)
	return physics.Params{
		Law:      law,
		GM:       c.Sim.GM,
		Exponent: c.Sim.Exponent,
		Charge1:  c.Sim.Charge1,
		Charge2:  c.Sim.Charge2,
	}
}

// Inputs returns the initial driver inputs described by the config.
func (c *Config) Inputs() driver.Inputs {
	return driver.Inputs{
		Params:      c.Params(),
		Speed:       c.Sim.Speed,
		Zoom:        c.Sim.Zoom,
		CenterOnSun: c.Sim.CenterOnSun,
	}
}

// SetInputs copies host-side inputs back into the sim section.
func (c *Config) SetInputs(in driver.Inputs) {
	c.Sim.Law = in.Params.Law.String()
	c.Sim.GM = in.Params.GM
	c.Sim.Exponent = in.Params.Exponent
	c.Sim.Charge1 = in.Params.Charge1
	c.Sim.Charge2 = in.Params.Charge2
	c.Sim.Speed = in.Speed
	c.Sim.Zoom = in.Zoom
	c.Sim.CenterOnSun = in.CenterOnSun
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Clamp forces every numeric input into its domain. Hosts call it before
// writing to the live inputs. The law and epoch pass through untouched.
func Clamp(in driver.Inputs) driver.Inputs {
	in.Params.GM = clamp(in.Params.GM, MinGM, MaxGM)
	in.Params.Exponent = clamp(in.Params.Exponent, MinExponent, MaxExponent)
	in.Params.Charge1 = clamp(in.Params.Charge1, MinCharge, MaxCharge)
	in.Params.Charge2 = clamp(in.Params.Charge2, MinCharge, MaxCharge)
	in.Speed = clamp(in.Speed, MinSpeed, MaxSpeed)
	in.Zoom = clamp(in.Zoom, MinZoom, MaxZoom)
	return in
}

// Control names a host-side input.
type Control string

const (
	ControlLaw      Control = "law"
	ControlGM       Control = "gm"
	ControlExponent Control = "exponent"
	ControlCharge1  Control = "q1"
	ControlCharge2  Control = "q2"
	ControlSpeed    Control = "speed"
	ControlZoom     Control = "zoom"
	ControlCenter   Control = "center"
)

// VisibleControls lists the controls that affect the given law, in display
// order. GM is hidden for Coulomb, the exponent is shown only for the
// modified power law and the charges only for Coulomb.
func VisibleControls(law physics.LawKind) []Control {
	out := []Control{ControlLaw}
	if law != physics.Coulomb {
		out = append(out, ControlGM)
	}
	if law == physics.ModifiedPower {
		out = append(out, ControlExponent)
	}
	if law == physics.Coulomb {
		out = append(out, ControlCharge1, ControlCharge2)
	}
	return append(out, ControlSpeed, ControlZoom, ControlCenter)
}

// Step is the slider increment for a numeric control; zero for the law
// selector and the centre toggle.
func Step(c Control) float64 {
	switch c {
	case ControlGM, ControlCharge1, ControlCharge2, ControlSpeed, ControlZoom:
		return 0.1
	case ControlExponent:
		return 0.01
	}
	return 0
}

// Nudge moves one control by delta steps and clamps the result. The law
// selector cycles forward for positive delta and backward otherwise; the
// centre toggle flips.
func Nudge(in driver.Inputs, c Control, delta int) driver.Inputs {
	d := float64(delta) * Step(c)
	switch c {
	case ControlLaw:
		n := len(physics.Laws())
		for i := 0; i < ((delta%n)+n)%n; i++ {
			in.Params.Law = in.Params.Law.Next()
		}
	case ControlGM:
		in.Params.GM = snap(in.Params.GM+d, Step(c))
	case ControlExponent:
		in.Params.Exponent = snap(in.Params.Exponent+d, Step(c))
	case ControlCharge1:
		in.Params.Charge1 = snap(in.Params.Charge1+d, Step(c))
	case ControlCharge2:
		in.Params.Charge2 = snap(in.Params.Charge2+d, Step(c))
	case ControlSpeed:
		in.Speed = snap(in.Speed+d, Step(c))
	case ControlZoom:
		in.Zoom = snap(in.Zoom+d, Step(c))
	case ControlCenter:
		if delta != 0 {
			in.CenterOnSun = !in.CenterOnSun
		}
	}
	return Clamp(in)
}

// snap rounds v to the nearest multiple of step so repeated nudges land on
// the grid instead of accumulating binary drift.
func snap(v, step float64) float64 {
	scale := math.Round(1 / step)
	return math.Round(v*scale) / scale
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/observability"
	"github.com/san-kum/orbitsim/internal/scene"
)

// fileLogAnnotation marks commands that own the terminal; their logs go to
// the rotated file only.
const fileLogAnnotation = "orbitsim/file-log"

const defaultConfigFile = "orbitsim.yaml"

// flagKeys binds each persistent flag to its config key.
var flagKeys = []struct{ flag, key string }{
	{"law", "sim.law"},
	{"gm", "sim.gm"},
	{"exponent", "sim.exponent"},
	{"q1", "sim.q1"},
	{"q2", "sim.q2"},
	{"speed", "sim.speed"},
	{"zoom", "sim.zoom"},
	{"center-sun", "sim.center_on_sun"},
	{"integrator", "sim.integrator"},
	{"seed", "sim.seed"},
	{"log-level", "logger.level"},
	{"log-file", "logger.log_file"},
}

type app struct {
	configFile string
	preset     string

	cfg *config.Config
	log *zap.Logger
	out io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	d := config.DefaultConfig()

	root := &cobra.Command{
		Use:           "orbitsim",
		Short:         "two-body orbits under four force laws",
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{fileLogAnnotation: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUIWith("classic", "orbit.gif")
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (yaml)")
	pf.StringVar(&a.preset, "preset", "", "start from a named preset (see 'orbitsim presets')")
	pf.String("law", d.Sim.Law, "force law: newtonian, modified, relativistic, coulomb")
	pf.Float64("gm", d.Sim.GM, "gravitational parameter GM")
	pf.Float64("exponent", d.Sim.Exponent, "exponent n of the modified power law")
	pf.Float64("q1", d.Sim.Charge1, "charge of the sun (coulomb)")
	pf.Float64("q2", d.Sim.Charge2, "charge of the body (coulomb)")
	pf.Float64("speed", d.Sim.Speed, "simulation speed")
	pf.Float64("zoom", d.Sim.Zoom, "zoom factor")
	pf.Bool("center-sun", d.Sim.CenterOnSun, "keep the sun at the canvas centre")
	pf.String("integrator", d.Sim.Integrator, "integrator (see integrators.Names)")
	pf.Int64("seed", d.Sim.Seed, "star field seed, 0 for time based")
	pf.String("log-level", d.Logger.Level, "log level")
	pf.String("log-file", d.Logger.LogFile, "rotated log file")

	root.AddCommand(
		newTUICmd(a),
		newGUICmd(a),
		newServeCmd(a),
		newRenderCmd(a),
		newEquationsCmd(a),
		newPresetsCmd(a),
		newCompareCmd(a),
		newAnalyzeCmd(a),
		newScenarioCmd(a),
		newRunsCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup merges defaults, the config file, the preset, ORBITSIM_ env vars
// and flags, in increasing priority, then builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	for _, fk := range flagKeys {
		if err := v.BindPFlag(fk.key, cmd.Flags().Lookup(fk.flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", fk.flag, err)
		}
	}
	if a.preset != "" {
		if err := applyPreset(v, cmd, a.preset); err != nil {
			return err
		}
	}

	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var console zapcore.WriteSyncer
	if cmd.Annotations[fileLogAnnotation] == "" {
		console = zapcore.Lock(os.Stderr)
	}
	a.log = observability.Initialize(cfg.Logger, console)
	a.log.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("law", cfg.Sim.Law),
		zap.String("integrator", cfg.Sim.Integrator))
	return nil
}

// applyPreset overrides the config file and env for every sim key whose
// flag was not given explicitly.
func applyPreset(v *viper.Viper, cmd *cobra.Command, name string) error {
	p := config.GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset %q (available: %v)", name, config.ListPresets())
	}
	values := map[string]any{
		"sim.law":           p.Sim.Law,
		"sim.gm":            p.Sim.GM,
		"sim.exponent":      p.Sim.Exponent,
		"sim.q1":            p.Sim.Charge1,
		"sim.q2":            p.Sim.Charge2,
		"sim.speed":         p.Sim.Speed,
		"sim.zoom":          p.Sim.Zoom,
		"sim.center_on_sun": p.Sim.CenterOnSun,
	}
	for _, fk := range flagKeys {
		val, ok := values[fk.key]
		if !ok || cmd.Flags().Changed(fk.flag) {
			continue
		}
		v.Set(fk.key, val)
	}
	return nil
}

func (a *app) newRenderer() *scene.Renderer {
	seed := a.cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, h := a.cfg.Render.Width, a.cfg.Render.Height
	return scene.NewRenderer(w, h, scene.NewStarField(a.cfg.Render.Stars, float64(w), float64(h), seed))
}

// driverOptions builds the driver options every host shares.
func (a *app) driverOptions() ([]driver.Option, error) {
	integ, err := integrators.New(a.cfg.Sim.Integrator)
	if err != nil {
		return nil, err
	}
	return []driver.Option{
		driver.WithLogger(a.log),
		driver.WithIntegrator(integ),
		driver.WithRenderer(a.newRenderer()),
		driver.WithTrailCapacity(a.cfg.Render.TrailCapacity),
		driver.WithMinRadius(a.cfg.Physics.MinRadius),
	}, nil
}

// newDriver wires a driver to live inputs seeded from the configuration.
func (a *app) newDriver(extra ...driver.Option) (*driver.Driver, *driver.LiveInputs, error) {
	opts, err := a.driverOptions()
	if err != nil {
		return nil, nil, err
	}
	live := driver.NewLiveInputs(config.Clamp(a.cfg.Inputs()))
	return driver.New(live, append(opts, extra...)...), live, nil
}

func newConfigCmd(a *app) *cobra.Command {
	var write, check string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration, write it, or check a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if check != "" {
				if _, err := config.Load(check); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s: ok\n", check)
				return nil
			}
			if write != "" {
				if err := config.Save(write, a.cfg); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "wrote %s\n", write)
				return nil
			}
			return config.Write(a.out, a.cfg)
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "write the effective configuration to this file")
	cmd.Flags().StringVar(&check, "check", "", "validate a config file")
	return cmd
}

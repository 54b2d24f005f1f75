package main

import (
	"fmt"
	"image"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/equations"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/raster"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/storage"
)

// escapeFactor times the start radius counts as escaped in reports.
const escapeFactor = 50

func newEquationsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "equations",
		Short: "print the equations for the configured force law",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.cfg.Params()
			var lines []string
			switch format {
			case "plain":
				lines = equations.Plain(p)
			case "latex":
				lines = equations.LaTeX(p)
			case "ascii":
				lines = equations.ASCII(p)
			default:
				return fmt.Errorf("unknown format %q (plain, latex, ascii)", format)
			}
			fmt.Fprintf(a.out, "%s\n", p.Law)
			for _, l := range lines {
				fmt.Fprintf(a.out, "  %s\n", l)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "plain", "plain, latex or ascii")
	return cmd
}

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list named presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLAW\tSPEED\tZOOM\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f\t%s\n", name, p.Sim.Law, p.Sim.Speed, p.Sim.Zoom, p.Description)
			}
			return w.Flush()
		},
	}
}

// run is one offline integration for compare and analyze.
type run struct {
	name    string
	tr      *analysis.Trajectory
	drift   float64
	stable  float64
	escape  int // first step past the escape radius, -1 if none
	elapsed time.Duration
}

func (a *app) integrate(name string, p physics.Params, integName string, steps int) (*run, error) {
	integ, err := integrators.New(integName)
	if err != nil {
		return nil, err
	}
	orbit := physics.NewOrbit(p)
	orbit.MinRadius = a.cfg.Physics.MinRadius
	dt := driver.StepScale * a.cfg.Sim.Speed

	start := time.Now()
	tr := analysis.Integrate(orbit, integ, orbit.InitialState(), dt, steps)
	elapsed := time.Since(start)

	drift := metrics.NewEnergyDrift(orbit)
	stab := metrics.NewStability(escapeFactor * physics.StartRadius)
	for _, x := range tr.States {
		drift.Observe(x)
		stab.Observe(x)
	}
	escape, ok := stab.Escaped()
	if !ok {
		escape = -1
	}
	return &run{name: name, tr: tr, drift: drift.Value(), stable: stab.Value(), escape: escape, elapsed: elapsed}, nil
}

func degrees(rad float64) string {
	if math.IsNaN(rad) {
		return "-"
	}
	return fmt.Sprintf("%+.3f°", rad*180/math.Pi)
}

func newCompareCmd(a *app) *cobra.Command {
	var steps int
	var laws bool
	cmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators, or force laws with --laws",
		Long: `compare integrates the configured orbit offline and reports energy
drift, periapsis precession and the radius over time. With no arguments
every registered integrator is compared. With --laws the configured
integrator is run once per force law instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("%w: --steps must be positive", dynamo.ErrParameterBounds)
			}
			var runs []*run
			if laws {
				for _, law := range physics.Laws() {
					p := a.cfg.Params()
					p.Law = law
					r, err := a.integrate(law.String(), p, a.cfg.Sim.Integrator, steps)
					if err != nil {
						return err
					}
					runs = append(runs, r)
				}
			} else {
				names := args
				if len(names) == 0 {
					names = integrators.Names()
				}
				for _, name := range names {
					r, err := a.integrate(name, a.cfg.Params(), name, steps)
					if err != nil {
						return err
					}
					runs = append(runs, r)
				}
			}
			return a.printComparison(runs, steps)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 4000, "integration steps")
	cmd.Flags().BoolVar(&laws, "laws", false, "compare force laws instead of integrators")
	return cmd
}

func (a *app) printComparison(runs []*run, steps int) error {
	dt := driver.StepScale * a.cfg.Sim.Speed
	fmt.Fprintf(a.out, "comparing over %d steps (dt=%.1f)\n\n", steps, dt)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tFINAL_R\tENERGY_DRIFT\tPRECESSION\tBOUNDED\tTIME")
	series := make([][]float64, 0, len(runs))
	for _, r := range runs {
		radii := r.tr.Radii()
		final := math.NaN()
		if len(radii) > 0 {
			final = radii[len(radii)-1]
		}
		prec := analysis.Precession(analysis.Periapses(r.tr))
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2e\t%s\t%.0f%%\t%s\n",
			r.name, r.tr.Len()-1, final, r.drift, degrees(prec), 100*r.stable, r.elapsed.Round(time.Microsecond))
		series = append(series, radii)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	names := make([]string, len(runs))
	for i, r := range runs {
		names[i] = r.name
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption("radius: "+strings.Join(names, ", "))))
	return nil
}

type analyzeOptions struct {
	steps  int
	sweep  string
	from   float64
	to     float64
	points int
	svg    string
	save   string
	width  int
	height int
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var o analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "orbit analysis: precession, period, radial spectrum",
		Long: `analyze integrates the configured orbit offline and reports the
periapsis advance per orbit, the orbital period and the dominant period
of the radial oscillation. --sweep varies one parameter (gm, exponent,
q1, q2) across [--from, --to] and tabulates the precession.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(o)
		},
	}
	cmd.Flags().IntVar(&o.steps, "steps", 8000, "integration steps")
	cmd.Flags().StringVar(&o.sweep, "sweep", "", "parameter to sweep")
	cmd.Flags().Float64Var(&o.from, "from", config.MinExponent, "sweep start")
	cmd.Flags().Float64Var(&o.to, "to", config.MaxExponent, "sweep end")
	cmd.Flags().IntVar(&o.points, "points", 6, "sweep points")
	cmd.Flags().StringVar(&o.svg, "svg", "", "write the trajectory as SVG")
	cmd.Flags().StringVar(&o.save, "save", "", "store the run summary under this directory (see 'orbitsim runs')")
	cmd.Flags().IntVar(&o.width, "width", 60, "ASCII plot width")
	cmd.Flags().IntVar(&o.height, "height", 24, "ASCII plot height")
	return cmd
}

func (a *app) analyze(o analyzeOptions) error {
	if o.steps <= 0 {
		return fmt.Errorf("%w: --steps must be positive", dynamo.ErrParameterBounds)
	}
	p := a.cfg.Params()
	r, err := a.integrate(p.Law.String(), p, a.cfg.Sim.Integrator, o.steps)
	if err != nil {
		return err
	}
	tr := r.tr
	aps := analysis.Periapses(tr)

	fmt.Fprintf(a.out, "%s, %s integrator, %d steps of dt=%.1f\n\n", p.Law, a.cfg.Sim.Integrator, tr.Len()-1, tr.DT)
	fmt.Fprint(a.out, analysis.TrajectoryToASCII(tr, o.width, o.height))
	fmt.Fprintln(a.out)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "periapses\t%d\n", len(aps))
	fmt.Fprintf(w, "precession/orbit\t%s\n", degrees(analysis.Precession(aps)))
	fmt.Fprintf(w, "orbital period\t%.1f\n", analysis.OrbitalPeriod(aps))
	fmt.Fprintf(w, "radial period (fft)\t%.1f\n", analysis.DominantPeriod(tr.Radii(), tr.DT))
	fmt.Fprintf(w, "max radius\t%.1f\n", tr.MaxRadius())
	fmt.Fprintf(w, "energy drift\t%.2e\n", r.drift)
	fmt.Fprintf(w, "bounded\t%.0f%%\n", 100*r.stable)
	if r.escape >= 0 {
		fmt.Fprintf(w, "escaped at step\t%d\n", r.escape)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if o.save != "" {
		id, err := storage.New(o.save).Save(storage.RunMetadata{
			Params:     p,
			Integrator: a.cfg.Sim.Integrator,
			Dt:         tr.DT,
			Steps:      tr.Len() - 1,
			Metrics: map[string]float64{
				"energy_drift":   r.drift,
				"bounded":        r.stable,
				"periapses":      float64(len(aps)),
				"precession":     analysis.Precession(aps),
				"orbital_period": analysis.OrbitalPeriod(aps),
				"max_radius":     tr.MaxRadius(),
			},
		})
		if err != nil {
			return err
		}
		a.log.Info("run stored", zap.String("id", id), zap.String("dir", o.save))
		fmt.Fprintf(a.out, "\nstored run %s\n", id)
	}

	if o.sweep != "" {
		integ, err := integrators.New(a.cfg.Sim.Integrator)
		if err != nil {
			return err
		}
		orbit := physics.NewOrbit(p)
		orbit.MinRadius = a.cfg.Physics.MinRadius
		data, err := analysis.PrecessionSweep(orbit, integ, o.sweep, o.from, o.to, o.points,
			orbit.InitialState, tr.DT, o.steps, escapeFactor*physics.StartRadius)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out)
		fmt.Fprint(a.out, analysis.SweepToASCII(o.sweep, data))
	}

	if o.svg != "" {
		pts := make([]dynamo.Vec2, len(tr.States))
		for i, x := range tr.States {
			pts[i] = x.Position()
		}
		svg := export.TrajectoryToSVG(pts, a.cfg.Render.Width, a.cfg.Render.Height, "#0096ff")
		if err := export.SaveSVG(o.svg, svg); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "\nwrote %s\n", o.svg)
	}
	return nil
}

func newScenarioCmd(a *app) *cobra.Command {
	var gifPath string
	var every int
	cmd := &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "replay a scripted sequence of input changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.LoadScenario(args[0])
			if err != nil {
				return err
			}
			opts, err := a.driverOptions()
			if err != nil {
				return err
			}
			runner := &scenario.Runner{Log: a.log, Opts: opts}

			var rec *raster.Recorder
			if gifPath != "" {
				rec = raster.NewRecorder(every, max(1, every*100/a.cfg.Render.FPS))
				r := raster.New()
				runner.Sink = func(f *scene.Frame) {
					rec.AddFunc(func() image.Image { return r.Render(f) })
				}
			}

			res, err := runner.Run(cmd.Context(), sc)
			if err != nil {
				return err
			}
			a.log.Info("scenario finished", zap.String("name", res.Name), zap.Uint64("restarts", res.Restarts))
			fmt.Fprintf(a.out, "%s: %d frames, %d steps applied, %d restarts\n", res.Name, res.Frames, res.Applied, res.Restarts)
			if f := res.Last; f != nil {
				fmt.Fprintf(a.out, "final: law %s, body %s, energy %.6f\n", f.Law, f.Body, f.Energy)
			}
			if rec != nil {
				if err := rec.Save(gifPath); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "wrote %s (%d frames)\n", gifPath, rec.Len())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&gifPath, "gif", "", "record the run as a GIF")
	cmd.Flags().IntVar(&every, "every", 4, "GIF: keep every k-th frame")
	return cmd
}

func newRunsCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "list stored analyze summaries, or print one as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dir)
			if len(args) == 1 {
				meta, err := st.Load(args[0])
				if err != nil {
					return err
				}
				return storage.ExportJSON(a.out, *meta)
			}

			runs, err := st.List()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLAW\tINTEGRATOR\tSTEPS\tENERGY_DRIFT\tWHEN")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2e\t%s\n",
					r.ID, r.Params.Law, r.Integrator, r.Steps, r.Metrics["energy_drift"], r.Timestamp.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "runs", "run store directory")
	return cmd
}

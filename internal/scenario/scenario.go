// Package scenario replays scripted input changes against the animation
// driver, frame by frame.
package scenario

import (
	"context"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/scene"
)

// Scenario is a scripted run: a start preset and a list of input changes
// keyed by frame number.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Preset optionally names the starting inputs; defaults otherwise.
	Preset string `yaml:"preset"`
	Frames uint64 `yaml:"frames"`
	Steps  []Step `yaml:"steps"`
}

// Step fires just before frame At is computed. Exactly one of Set, Reset
// and ResetParams must be given.
type Step struct {
	At          uint64        `yaml:"at"`
	Set         *config.Patch `yaml:"set,omitempty"`
	Reset       bool          `yaml:"reset,omitempty"`
	ResetParams bool          `yaml:"reset_params,omitempty"`
}

func (s Step) describe() string {
	switch {
	case s.Reset:
		return "reset"
	case s.ResetParams:
		return "reset_params"
	default:
		return "set"
	}
}

// Result summarizes a replay.
type Result struct {
	Name     string
	Frames   uint64
	Restarts uint64
	Applied  int
	Last     *scene.Frame
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].At < sc.Steps[j].At })
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if sc.Frames == 0 {
		return fmt.Errorf("scenario %q: frames must be positive", sc.Name)
	}
	if sc.Preset != "" && config.GetPreset(sc.Preset) == nil {
		return fmt.Errorf("scenario %q: unknown preset %q", sc.Name, sc.Preset)
	}
	for i, st := range sc.Steps {
		n := 0
		if st.Set != nil {
			n++
		}
		if st.Reset {
			n++
		}
		if st.ResetParams {
			n++
		}
		if n != 1 {
			return fmt.Errorf("step %d: exactly one of set, reset, reset_params is required", i+1)
		}
		if st.At == 0 || st.At > sc.Frames {
			return fmt.Errorf("step %d: at=%d outside frames 1..%d", i+1, st.At, sc.Frames)
		}
		if st.Set != nil {
			if _, err := st.Set.Apply(driver.DefaultInputs()); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// Inputs returns the starting inputs of the scenario.
func (sc *Scenario) Inputs() driver.Inputs {
	if sc.Preset == "" {
		return driver.DefaultInputs()
	}
	cfg := config.DefaultConfig()
	if err := cfg.ApplyPreset(sc.Preset); err != nil {
		return driver.DefaultInputs()
	}
	return cfg.Inputs()
}

// Runner drives a fresh driver through a scenario.
type Runner struct {
	Log  *zap.Logger
	Opts []driver.Option
	// Sink, if set, receives every frame.
	Sink driver.Sink
}

// Run executes every frame of sc. It stops early with ctx.Err() if the
// context is cancelled.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("scenario", sc.Name))

	live := driver.NewLiveInputs(sc.Inputs())
	d := driver.New(live, append([]driver.Option{driver.WithLogger(log)}, r.Opts...)...)
	defer d.Stop()

	steps := append([]Step(nil), sc.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })

	res := &Result{Name: sc.Name}
	next := 0
	for frame := uint64(1); frame <= sc.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		for next < len(steps) && steps[next].At == frame {
			st := steps[next]
			switch {
			case st.Reset:
				live.Reset()
			case st.ResetParams:
				live.ResetParams()
			default:
				if err := st.Set.ApplyTo(live); err != nil {
					return res, fmt.Errorf("frame %d: %w", frame, err)
				}
			}
			log.Debug("scenario step applied", zap.Uint64("frame", frame), zap.String("action", st.describe()))
			res.Applied++
			next++
		}

		f, err := d.Tick()
		if err != nil {
			return res, fmt.Errorf("frame %d: %w", frame, err)
		}
		if r.Sink != nil {
			r.Sink(f)
		}
		res.Last = f
	}

	res.Frames = d.Frames()
	res.Restarts = d.Restarts()
	log.Info("scenario finished",
		zap.Uint64("frames", res.Frames),
		zap.Uint64("restarts", res.Restarts),
		zap.Int("steps", res.Applied))
	return res, nil
}

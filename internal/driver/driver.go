// Package driver runs the update-render loop of the orbit simulator.
//
// A [Driver] owns the simulation state and the trail. Each iteration it
// reads a snapshot of the live [Inputs], restarts the orbit if the
// structural parameters changed, advances one semi-implicit Euler step,
// appends to the trail, composes a [scene.Frame] and publishes it.
//
// The driver has two states. It is Running from construction until
// [Driver.Stop] is called or the context passed to [Driver.Run] is
// cancelled, after which it is Stopped for good.
package driver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/equations"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/trail"
)

// StepScale converts simulation speed into the per-iteration time step.
const StepScale = 12.0

type Status int32

const (
	Running Status = iota
	Stopped
)

func (s Status) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Sink receives each frame once it is fully composed.
type Sink func(*scene.Frame)

// Observer is notified of restarts and frames. Implementations must not
// block.
type Observer interface {
	OnRestart(run uint64, p physics.Params)
	OnFrame(f *scene.Frame, elapsed time.Duration)
}

type Option func(*Driver)

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.log = l }
}

func WithIntegrator(integ dynamo.Integrator) Option {
	return func(d *Driver) { d.integ = integ }
}

func WithObserver(obs Observer) Option {
	return func(d *Driver) { d.obs = obs }
}

func WithRenderer(r *scene.Renderer) Option {
	return func(d *Driver) { d.renderer = r }
}

func WithTrailCapacity(n int) Option {
	return func(d *Driver) { d.trail = trail.New(n) }
}

// WithMinRadius clamps the distance to the sun from below. Zero disables it.
func WithMinRadius(r float64) Option {
	return func(d *Driver) { d.orbit.MinRadius = r }
}

type Driver struct {
	src      Source
	integ    dynamo.Integrator
	orbit    *physics.Orbit
	renderer *scene.Renderer
	trail    *trail.Trail
	log      *zap.Logger
	obs      Observer

	state   dynamo.State
	t       float64
	applied Inputs
	started bool
	run     uint64
	frames  uint64
	warned  bool

	status   atomic.Int32
	latest   atomic.Pointer[scene.Frame]
	done     chan struct{}
	stopOnce sync.Once
}

func New(src Source, opts ...Option) *Driver {
	d := &Driver{
		src:   src,
		integ: integrators.NewSymplecticEuler(),
		orbit: physics.NewOrbit(physics.DefaultParams()),
		renderer: scene.NewRenderer(scene.CanvasWidth, scene.CanvasHeight,
			scene.NewStarField(scene.DefaultStarCount, scene.CanvasWidth, scene.CanvasHeight, time.Now().UnixNano())),
		trail: trail.New(trail.DefaultCapacity),
		log:   zap.NewNop(),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Status() Status {
	return Status(d.status.Load())
}

// Stop tears the driver down. It is safe to call from any goroutine and
// more than once.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() {
		d.status.Store(int32(Stopped))
		close(d.done)
		d.log.Info("animation stopped")
	})
}

// Done is closed once the driver is stopped.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Latest returns the most recently published frame, or nil before the
// first iteration.
func (d *Driver) Latest() *scene.Frame {
	return d.latest.Load()
}

// Tick performs exactly one iteration. It must not be called concurrently
// with itself or with Run.
func (d *Driver) Tick() (*scene.Frame, error) {
	if d.Status() == Stopped {
		return nil, dynamo.ErrStopped
	}
	start := time.Now()

	in := d.src.Snapshot()
	if !d.started || in.Params != d.applied.Params || in.Epoch != d.applied.Epoch {
		d.restart(in)
	}
	d.applied = in

	dt := StepScale * in.Speed
	d.state = d.integ.Step(d.orbit, d.state, d.t, dt)
	d.t += dt
	d.frames++

	if !d.warned && !d.state.IsValid() {
		d.warned = true
		d.log.Warn("orbit state diverged",
			zap.Error(&dynamo.SimulationError{Tick: d.frames, Time: d.t, State: d.state.Clone(), Wrapped: dynamo.ErrInvalidState}),
			zap.Stringer("law", in.Params.Law))
	}

	pos := d.state.Position()
	d.trail.Append(pos)
	cam := d.renderer.Camera(in.Zoom, in.CenterOnSun, pos)

	f := &scene.Frame{
		Index:       d.frames,
		Run:         d.run,
		Time:        d.t,
		Width:       d.renderer.Width,
		Height:      d.renderer.Height,
		Law:         in.Params.Law,
		Params:      in.Params,
		Speed:       in.Speed,
		Zoom:        in.Zoom,
		CenterOnSun: in.CenterOnSun,
		Body:        pos,
		Velocity:    d.state.Velocity(),
		Energy:      d.orbit.Energy(d.state),
		TrailLen:    d.trail.Len(),
		Equations:   equations.LaTeX(in.Params),
		Primitives:  d.renderer.Compose(d.trail.Snapshot(), cam),
	}
	d.latest.Store(f)

	if d.obs != nil {
		d.obs.OnFrame(f, time.Since(start))
	}
	return f, nil
}

func (d *Driver) restart(in Inputs) {
	d.orbit.Params = in.Params
	d.state = d.orbit.InitialState()
	d.t = 0
	d.trail.Clear()
	d.started = true
	d.warned = false
	d.run++

	d.log.Info("orbit restarted",
		zap.Uint64("run", d.run),
		zap.Stringer("law", in.Params.Law),
		zap.Float64("gm", in.Params.GM),
		zap.Float64("exponent", in.Params.Exponent),
		zap.Float64("q1", in.Params.Charge1),
		zap.Float64("q2", in.Params.Charge2),
		zap.Uint64("epoch", in.Epoch))

	if d.obs != nil {
		d.obs.OnRestart(d.run, in.Params)
	}
}

// Run loops Tick, delivering every frame to sink and yielding to sched
// between iterations. It returns nil after Stop and ctx.Err() when the
// context is cancelled; either way the driver ends Stopped.
func (d *Driver) Run(ctx context.Context, sched Scheduler, sink Sink) error {
	if d.Status() == Stopped {
		return dynamo.ErrStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-d.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	d.log.Info("animation started")
	defer func() {
		d.log.Debug("animation loop exited",
			zap.Uint64("frames", d.frames),
			zap.Uint64("runs", d.run))
	}()
	for {
		f, err := d.Tick()
		if errors.Is(err, dynamo.ErrStopped) {
			return nil
		}
		if err != nil {
			d.Stop()
			return err
		}
		if sink != nil {
			sink(f)
		}

		if err := sched.Wait(ctx); err != nil {
			if d.Status() == Stopped {
				return nil
			}
			d.Stop()
			return err
		}
	}
}

// State returns a copy of the current phase-space state.
func (d *Driver) State() dynamo.State {
	return d.state.Clone()
}

// Trail returns a copy of the trail, oldest first.
func (d *Driver) Trail() []trail.Point {
	return d.trail.Snapshot()
}

// Time is the simulated time since the last restart.
func (d *Driver) Time() float64 {
	return d.t
}

// Restarts counts orbit (re)initializations, the first one included.
func (d *Driver) Restarts() uint64 {
	return d.run
}

// Frames counts completed iterations.
func (d *Driver) Frames() uint64 {
	return d.frames
}

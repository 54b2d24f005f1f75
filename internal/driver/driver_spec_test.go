package driver

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scene"
)

func testRenderer() *scene.Renderer {
	return scene.NewRenderer(scene.CanvasWidth, scene.CanvasHeight,
		scene.NewStarField(scene.DefaultStarCount, scene.CanvasWidth, scene.CanvasHeight, 1))
}

func ticks(d *Driver, n int) *scene.Frame {
	var f *scene.Frame
	for i := 0; i < n; i++ {
		var err error
		f, err = d.Tick()
		Expect(err).NotTo(HaveOccurred())
	}
	return f
}

func firstStep(p physics.Params, speed float64) dynamo.State {
	orbit := physics.NewOrbit(p)
	return integrators.NewSymplecticEuler().Step(orbit, orbit.InitialState(), 0, StepScale*speed)
}

var _ = Describe("Driver", func() {
	var (
		inputs *LiveInputs
		d      *Driver
	)

	BeforeEach(func() {
		inputs = NewLiveInputs(DefaultInputs())
		d = New(inputs, WithRenderer(testRenderer()))
	})

	It("is running before the first tick", func() {
		Expect(d.Status()).To(Equal(Running))
		Expect(d.Latest()).To(BeNil())
		Expect(d.Restarts()).To(BeZero())
	})

	It("initializes the circular orbit on the first tick", func() {
		f := ticks(d, 1)

		Expect(d.Restarts()).To(Equal(uint64(1)))
		Expect(d.Trail()).To(HaveLen(1))
		Expect(d.State()).To(Equal(firstStep(physics.DefaultParams(), 1)))
		Expect(f.Index).To(Equal(uint64(1)))
		Expect(f.Time).To(Equal(StepScale))
		Expect(d.Latest()).To(BeIdenticalTo(f))
	})

	It("composes the frame with the body pinned to the centre", func() {
		f := ticks(d, 3)

		last := f.Primitives[len(f.Primitives)-1]
		Expect(last.Layer).To(Equal(scene.LayerBody))
		Expect(last.X).To(Equal(300.0))
		Expect(last.Y).To(Equal(300.0))
		Expect(f.Equations).To(HaveLen(3))
		Expect(f.TrailLen).To(Equal(3))
	})

	It("scales the time step with simulation speed", func() {
		inputs.Update(func(in *Inputs) { in.Speed = 2.5 })
		ticks(d, 1)
		Expect(d.Time()).To(BeNumerically("~", 30.0, 1e-12))
		Expect(d.State()).To(Equal(firstStep(physics.DefaultParams(), 2.5)))
	})

	DescribeTable("keeps the trajectory when only presentation inputs change",
		func(change func(*Inputs)) {
			ticks(d, 10)
			before := d.State()

			inputs.Update(change)
			ticks(d, 1)

			Expect(d.Restarts()).To(Equal(uint64(1)))
			Expect(d.Trail()).To(HaveLen(11))
			Expect(d.State().Position().Dist(before.Position())).To(BeNumerically("<", 5))
		},
		Entry("speed", func(in *Inputs) { in.Speed = 4 }),
		Entry("zoom", func(in *Inputs) { in.Zoom = 2.5 }),
		Entry("centerOnSun", func(in *Inputs) { in.CenterOnSun = true }),
	)

	DescribeTable("restarts when a structural parameter changes",
		func(change func(*Inputs)) {
			ticks(d, 10)

			next := inputs.Update(change)
			ticks(d, 1)

			Expect(d.Restarts()).To(Equal(uint64(2)))
			Expect(d.Trail()).To(HaveLen(1))
			Expect(d.Time()).To(Equal(StepScale))
			Expect(d.State()).To(Equal(firstStep(next.Params, 1)))
		},
		Entry("law", func(in *Inputs) { in.Params.Law = physics.Relativistic }),
		Entry("gm", func(in *Inputs) { in.Params.GM = 2 }),
		Entry("exponent", func(in *Inputs) { in.Params.Exponent = 2.1 }),
		Entry("charge1", func(in *Inputs) { in.Params.Charge1 = -4 }),
		Entry("charge2", func(in *Inputs) { in.Params.Charge2 = 7 }),
	)

	It("does not restart when a structural value is rewritten unchanged", func() {
		ticks(d, 5)
		inputs.Update(func(in *Inputs) { in.Params.GM = 1 })
		ticks(d, 1)
		Expect(d.Restarts()).To(Equal(uint64(1)))
	})

	It("restores defaults and restarts on reset", func() {
		inputs.Update(func(in *Inputs) {
			in.Params = physics.Params{Law: physics.Coulomb, GM: 3, Exponent: 2, Charge1: -2, Charge2: 4}
			in.Speed, in.Zoom, in.CenterOnSun = 3, 2, true
		})
		ticks(d, 20)

		inputs.Reset()
		f := ticks(d, 1)

		Expect(d.Restarts()).To(Equal(uint64(2)))
		Expect(d.Trail()).To(HaveLen(1))
		Expect(f.Params).To(Equal(physics.DefaultParams()))
		Expect(f.Speed).To(Equal(1.0))
		Expect(f.Zoom).To(Equal(1.0))
		Expect(f.CenterOnSun).To(BeFalse())
	})

	It("restarts on reset even when inputs already hold the defaults", func() {
		ticks(d, 7)
		inputs.Reset()
		ticks(d, 1)
		Expect(d.Restarts()).To(Equal(uint64(2)))
		Expect(d.Trail()).To(HaveLen(1))
	})

	It("produces the same state after two consecutive resets", func() {
		inputs.Reset()
		ticks(d, 4)
		first := d.State()

		inputs.Reset()
		ticks(d, 4)
		Expect(d.State()).To(Equal(first))
	})

	It("lets an unknown law drift in a straight line", func() {
		inputs.Update(func(in *Inputs) { in.Params.Law = physics.LawKind(17) })
		ticks(d, 50)

		v := d.State().Velocity()
		Expect(v.X).To(BeZero())
		Expect(v.Y).To(BeNumerically("~", math.Sqrt(1.0/200), 1e-15))
		Expect(d.Latest().Equations).To(BeEmpty())
	})

	It("pushes like charges away from the sun", func() {
		inputs.Update(func(in *Inputs) {
			in.Params.Law = physics.Coulomb
			in.Params.Charge1, in.Params.Charge2 = 5, 5
		})
		ticks(d, 200)
		Expect(d.State().Position().Norm()).To(BeNumerically(">", physics.StartRadius*1.5))
	})

	It("bounds the trail", func() {
		d = New(inputs, WithRenderer(testRenderer()), WithTrailCapacity(50))
		ticks(d, 120)
		Expect(d.Trail()).To(HaveLen(50))
		Expect(d.Latest().TrailLen).To(Equal(50))
	})

	It("uses the configured integrator", func() {
		integ, err := integrators.New("rk4")
		Expect(err).NotTo(HaveOccurred())
		d = New(inputs, WithRenderer(testRenderer()), WithIntegrator(integ))
		ticks(d, 1)

		orbit := physics.NewOrbit(physics.DefaultParams())
		want := integrators.NewRK4().Step(orbit, orbit.InitialState(), 0, StepScale)
		Expect(d.State()).To(Equal(want))
	})

	It("warns once when the state diverges", func() {
		core, logs := observer.New(zapcore.WarnLevel)
		d = New(inputs, WithRenderer(testRenderer()), WithLogger(zap.New(core)))
		inputs.Update(func(in *Inputs) { in.Params.GM = -1 })

		ticks(d, 5)
		Expect(d.State().IsValid()).To(BeFalse())
		Expect(logs.FilterMessage("orbit state diverged").Len()).To(Equal(1))
	})

	It("keeps the singularity finite with a minimum radius", func() {
		d = New(inputs, WithRenderer(testRenderer()), WithMinRadius(1))
		inputs.Update(func(in *Inputs) { in.Params.GM = 0.1 })
		ticks(d, 1)
		d.state = dynamo.State{0, 0, 0, 0}
		ticks(d, 3)
		Expect(d.State().IsValid()).To(BeTrue())
	})

	Context("after Stop", func() {
		BeforeEach(func() {
			ticks(d, 2)
			d.Stop()
		})

		It("is stopped for good", func() {
			Expect(d.Status()).To(Equal(Stopped))
			_, err := d.Tick()
			Expect(err).To(MatchError(dynamo.ErrStopped))
			d.Stop()
			Expect(d.Status()).To(Equal(Stopped))
			Eventually(d.Done()).Should(BeClosed())
		})

		It("keeps the last published frame", func() {
			Expect(d.Latest()).NotTo(BeNil())
			Expect(d.Latest().Index).To(Equal(uint64(2)))
		})
	})
})

var _ = Describe("LiveInputs", func() {
	It("starts from the given inputs", func() {
		l := NewLiveInputs(DefaultInputs())
		Expect(l.Snapshot()).To(Equal(DefaultInputs()))
	})

	It("keeps the epoch across Set", func() {
		l := NewLiveInputs(DefaultInputs())
		l.Reset()
		in := DefaultInputs()
		in.Zoom = 2
		got := l.Set(in)
		Expect(got.Epoch).To(Equal(uint64(1)))
		Expect(got.Zoom).To(Equal(2.0))
	})

	It("resets everything including the law", func() {
		l := NewLiveInputs(DefaultInputs())
		l.Update(func(in *Inputs) {
			in.Params.Law = physics.ModifiedPower
			in.Params.Exponent = 2.2
			in.Speed = 5
		})
		got := l.Reset()
		Expect(got.Params).To(Equal(physics.DefaultParams()))
		Expect(got.Speed).To(Equal(1.0))
		Expect(got.Epoch).To(Equal(uint64(1)))
	})

	It("keeps the law on ResetParams", func() {
		l := NewLiveInputs(DefaultInputs())
		l.Update(func(in *Inputs) {
			in.Params.Law = physics.Coulomb
			in.Params.Charge1 = -9
		})
		got := l.ResetParams()
		Expect(got.Params.Law).To(Equal(physics.Coulomb))
		Expect(got.Params.Charge1).To(Equal(1.0))
		Expect(got.Epoch).To(Equal(uint64(1)))
	})
})

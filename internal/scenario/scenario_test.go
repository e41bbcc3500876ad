package scenario_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/integrators"
	"github.com/san-kum/gravlab/internal/logging"
	"github.com/san-kum/gravlab/internal/physics"
	"github.com/san-kum/gravlab/internal/scenario"
)

const frame = 1.0 / 60

func distance(b dynamo.Body) float64 {
	return b.Position.Norm()
}

// retuner changes G on its scenario during the first sub-step it runs.
type retuner struct {
	inner integrators.Stepper
	s     *scenario.Scenario
	g     float64
	seen  []float64
	done  bool
}

func (r *retuner) Name() string { return r.inner.Name() }

func (r *retuner) Step(g physics.Gravity, bs dynamo.Bodies, dt float64) {
	r.seen = append(r.seen, g.G)
	if !r.done {
		r.done = true
		Expect(r.s.SetG(r.g)).To(Succeed())
	}
	r.inner.Step(g, bs, dt)
}

var _ = Describe("Scenario", func() {
	var s *scenario.Scenario

	BeforeEach(func() {
		var err error
		s, err = scenario.New(config.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("starts from the reference parameters", func() {
			p := s.Params()
			Expect(p.G).To(Equal(0.8))
			Expect(p.TimeScale).To(Equal(1.0))
			Expect(p.Playing).To(BeTrue())
			Expect(s.SubSteps()).To(Equal(4))
			Expect(s.Integrator()).To(Equal("symplectic"))
			Expect(s.Bodies()).To(HaveLen(3))
		})

		DescribeTable("rejects invalid bodies",
			func(mod func(b *config.BodyConfig)) {
				cfg := config.DefaultConfig()
				mod(&cfg.Bodies[1])
				_, err := scenario.New(cfg)
				Expect(errors.Is(err, dynamo.ErrInvalidBody)).To(BeTrue())
			},
			Entry("zero mass", func(b *config.BodyConfig) { b.Mass = 0 }),
			Entry("negative mass", func(b *config.BodyConfig) { b.Mass = -1 }),
			Entry("zero radius", func(b *config.BodyConfig) { b.Radius = 0 }),
			Entry("negative radius", func(b *config.BodyConfig) { b.Radius = -0.5 }),
		)

		It("rejects an empty scenario", func() {
			cfg := config.DefaultConfig()
			cfg.Bodies = nil
			_, err := scenario.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrNoBodies))
		})

		It("rejects bad numeric settings", func() {
			cfg := config.DefaultConfig()
			cfg.SubSteps = 0
			_, err := scenario.New(cfg)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())

			cfg = config.DefaultConfig()
			cfg.TimeScale = -1
			_, err = scenario.New(cfg)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())

			for _, delay := range []float64{math.NaN(), math.Inf(1), -0.5} {
				cfg = config.DefaultConfig()
				cfg.AdvanceDelay = delay
				_, err = scenario.New(cfg)
				Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue(), "advance_delay %v", delay)
				var pe *dynamo.ParamError
				Expect(errors.As(err, &pe)).To(BeTrue())
				Expect(pe.Name).To(Equal("advance_delay"))
			}
		})

		It("rejects a NaN advance delay read from a scenario file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "nan.yaml")
			Expect(os.WriteFile(path, []byte("advance_delay: .nan\n"), 0644)).To(Succeed())
			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())

			_, err = scenario.New(cfg)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("rejects an unknown integrator", func() {
			cfg := config.DefaultConfig()
			cfg.Integrator = "rk9"
			_, err := scenario.New(cfg)
			Expect(err).To(HaveOccurred())
		})

		It("honours an explicit stepper", func() {
			s, err := scenario.New(config.DefaultConfig(), scenario.WithStepper(integrators.NewLeapfrog()))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Integrator()).To(Equal("leapfrog"))
		})
	})

	Describe("Tick", func() {
		It("never moves the fixed body", func() {
			sun := s.Bodies()[0]
			Expect(sun.Fixed).To(BeTrue())

			for i := 0; i < 500; i++ {
				if i == 200 {
					Expect(s.SetTimeScale(5)).To(Succeed())
					Expect(s.SetG(3)).To(Succeed())
				}
				after := s.Tick(frame)[0]
				Expect(after.Position).To(Equal(sun.Position))
				Expect(after.Velocity).To(Equal(sun.Velocity))
			}
		})

		It("keeps the reference earth on a bounded orbit", func() {
			for i := 0; i < 1000; i++ {
				d := distance(s.Tick(frame)[1])
				Expect(d).To(And(BeNumerically(">", 2), BeNumerically("<", 40)), "tick %d", i)
			}
		})

		It("is a no-op while paused", func() {
			s.Tick(frame)
			s.SetPlaying(false)
			before := s.Bodies()

			for _, dt := range []float64{frame, 1, 0, 100} {
				Expect(s.Tick(dt)).To(Equal(before))
			}
			Expect(s.SimTime()).To(BeNumerically("~", frame, 1e-12))
		})

		It("freezes evolution at time scale zero", func() {
			Expect(s.SetTimeScale(0)).To(Succeed())
			before := s.Bodies()
			Expect(s.Tick(frame)).To(Equal(before))
		})

		It("returns snapshots that later ticks never touch", func() {
			first := s.Tick(frame)
			kept := first.Clone()
			for i := 0; i < 10; i++ {
				s.Tick(frame)
			}
			Expect(first).To(Equal(kept))
		})

		It("treats bad frame deltas as zero", func() {
			before := s.Bodies()
			Expect(s.Tick(-1)).To(Equal(before))
			Expect(s.Tick(math.NaN())).To(Equal(before))
			Expect(s.Tick(math.Inf(1))).To(Equal(before))
			Expect(s.Time()).To(Equal(0.0))
			Expect(s.Frames()).To(Equal(3))
		})

		It("reads parameters as of tick start", func() {
			mid := &retuner{inner: integrators.NewSymplecticEuler(), g: 5}
			live, err := scenario.New(config.DefaultConfig(), scenario.WithStepper(mid))
			Expect(err).NotTo(HaveOccurred())
			mid.s = live

			got := live.Tick(frame)
			want := s.Tick(frame)

			Expect(mid.seen).To(HaveLen(4))
			for _, g := range mid.seen {
				Expect(g).To(Equal(0.8))
			}
			Expect(got).To(Equal(want))
			Expect(live.G()).To(Equal(5.0))

			live.Tick(frame)
			Expect(mid.seen[4:]).To(HaveEach(5.0))
		})
	})

	Describe("parameters", func() {
		It("rejects a negative time scale and keeps the old value", func() {
			Expect(s.SetTimeScale(2)).To(Succeed())
			err := s.SetTimeScale(-0.5)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			Expect(s.TimeScale()).To(Equal(2.0))
		})

		It("accepts negative G", func() {
			Expect(s.SetG(-1)).To(Succeed())
			Expect(s.G()).To(Equal(-1.0))
		})

		It("rejects non-finite G", func() {
			Expect(s.SetG(math.NaN())).NotTo(Succeed())
			Expect(s.SetG(math.Inf(-1))).NotTo(Succeed())
			Expect(s.G()).To(Equal(0.8))
		})

		It("toggles play state", func() {
			Expect(s.TogglePlaying()).To(BeFalse())
			Expect(s.TogglePlaying()).To(BeTrue())
		})
	})

	Describe("Reset", func() {
		It("restores the initial snapshot exactly", func() {
			initial := s.Bodies()
			params := s.Params()

			Expect(s.SetG(2.5)).To(Succeed())
			Expect(s.SetTimeScale(3)).To(Succeed())
			for i := 0; i < 300; i++ {
				s.Tick(frame)
			}
			s.SetPlaying(false)

			s.Reset()

			Expect(s.Bodies()).To(Equal(initial))
			Expect(s.Params()).To(Equal(params))
			Expect(s.Time()).To(Equal(0.0))
			Expect(s.SimTime()).To(Equal(0.0))
			Expect(s.CurrentTask()).To(Equal(0))
			for _, t := range s.Tasks() {
				Expect(t.Completed).To(BeFalse())
			}
		})

		It("cancels a pending task advance", func() {
			Expect(s.SetG(2.5)).To(Succeed())
			s.Tick(frame)
			Expect(s.Tasks()[0].Completed).To(BeTrue())

			s.Reset()
			for i := 0; i < 200; i++ {
				s.Tick(frame)
			}
			Expect(s.CurrentTask()).To(Equal(0))
			Expect(s.Tasks()[0].Completed).To(BeFalse())
		})
	})

	Describe("tasks", func() {
		It("completes once even if G drops before the advance", func() {
			Expect(s.SetG(2.5)).To(Succeed())
			s.Tick(frame)
			Expect(s.Tasks()[0].Completed).To(BeTrue())
			Expect(s.CurrentTask()).To(Equal(0))

			Expect(s.SetG(1.0)).To(Succeed())
			s.Tick(frame)
			Expect(s.Tasks()[0].Completed).To(BeTrue())

			for i := 0; i < 90; i++ {
				s.Tick(frame)
			}
			Expect(s.CurrentTask()).To(Equal(1))
			Expect(s.Tasks()[0].Completed).To(BeTrue())
		})

		It("keeps completion and index monotonic under oscillating parameters", func() {
			completed := make([]bool, len(s.Tasks()))
			last := 0
			gs := []float64{2.5, 0.3, 1.0, 0.2}
			ts := []float64{1, 2.5, 0.5, 3}

			for i := 0; i < 2000; i++ {
				Expect(s.SetG(gs[(i/37)%len(gs)])).To(Succeed())
				Expect(s.SetTimeScale(ts[(i/53)%len(ts)])).To(Succeed())
				s.Tick(frame)

				Expect(s.CurrentTask()).To(BeNumerically(">=", last))
				last = s.CurrentTask()
				for j, t := range s.Tasks() {
					if completed[j] {
						Expect(t.Completed).To(BeTrue(), "task %s was un-completed", t.ID)
					}
					completed[j] = t.Completed
				}
			}
		})

		It("advances while paused because the session clock keeps running", func() {
			s.SetPlaying(false)
			Expect(s.SetG(2.5)).To(Succeed())
			for i := 0; i < 100; i++ {
				s.Tick(frame)
			}
			Expect(s.CurrentTask()).To(Equal(1))
		})
	})

	It("logs task completions", func() {
		var buf bytes.Buffer
		s, err := scenario.New(config.DefaultConfig(), scenario.WithLogger(logging.NewLogger("debug", &buf)))
		Expect(err).NotTo(HaveOccurred())

		Expect(s.SetG(2.5)).To(Succeed())
		s.Tick(frame)
		Expect(buf.String()).To(ContainSubstring("task completed"))
		Expect(buf.String()).To(ContainSubstring("stronger-gravity"))
	})
})

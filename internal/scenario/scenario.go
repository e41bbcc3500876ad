// Package scenario owns one simulation run: the body store, the tunable
// parameters, the task list and the per-frame Tick.
//
// A Scenario is not safe for concurrent use. Drivers call parameter setters
// and Tick from one goroutine; a setter call always lands between two ticks.
package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/integrators"
	"github.com/san-kum/gravlab/internal/logging"
	"github.com/san-kum/gravlab/internal/physics"
	"github.com/san-kum/gravlab/internal/tasks"
)

type Scenario struct {
	name          string
	initial       dynamo.Bodies
	initialParams dynamo.Params
	params        dynamo.Params
	store         *dynamo.Store
	softening     float64
	stepper       integrators.Stepper
	subSteps      int
	evaluator     *tasks.Evaluator
	clock         float64
	simTime       float64
	frames        int
	logger        *slog.Logger
}

type Option func(*Scenario)

func WithLogger(l *slog.Logger) Option {
	return func(s *Scenario) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStepper overrides the integrator named in the config.
func WithStepper(st integrators.Stepper) Option {
	return func(s *Scenario) {
		if st != nil {
			s.stepper = st
		}
	}
}

// New validates cfg and builds a scenario in its initial state.
func New(cfg *config.Config, opts ...Option) (*Scenario, error) {
	bodies := cfg.GetBodies()
	if err := bodies.Validate(); err != nil {
		return nil, err
	}
	params := cfg.GetParams()
	if err := checkTimeScale(params.TimeScale); err != nil {
		return nil, err
	}
	if err := checkG(params.G); err != nil {
		return nil, err
	}
	if cfg.SubSteps < 1 {
		return nil, &dynamo.ParamError{Name: "sub_steps", Value: float64(cfg.SubSteps)}
	}
	if !(cfg.Softening >= 0) {
		return nil, &dynamo.ParamError{Name: "softening", Value: cfg.Softening}
	}
	if !(cfg.AdvanceDelay >= 0) || math.IsInf(cfg.AdvanceDelay, 0) {
		return nil, &dynamo.ParamError{Name: "advance_delay", Value: cfg.AdvanceDelay}
	}
	defs, err := cfg.GetTasks()
	if err != nil {
		return nil, err
	}

	s := &Scenario{
		name:          cfg.Name,
		initial:       bodies,
		initialParams: params,
		params:        params,
		store:         dynamo.NewStore(bodies),
		softening:     cfg.Softening,
		subSteps:      cfg.SubSteps,
		evaluator:     tasks.NewEvaluator(defs, cfg.AdvanceDelay),
		logger:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.stepper == nil {
		name := cfg.Integrator
		if name == "" {
			name = config.DefaultIntegrator
		}
		if s.stepper, err = integrators.New(name); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("scenario created",
		"name", s.name,
		"bodies", len(bodies),
		"integrator", s.stepper.Name(),
		"sub_steps", s.subSteps,
		"tasks", len(defs))
	return s, nil
}

// Tick advances the simulation by one rendered frame of frameDelta real
// seconds and returns the new body array. Parameters are read once here and
// held for every sub-step. Negative or non-finite deltas count as zero.
func (s *Scenario) Tick(frameDelta float64) dynamo.Bodies {
	if !(frameDelta > 0) || math.IsInf(frameDelta, 0) {
		frameDelta = 0
	}
	p := s.params
	s.clock += frameDelta
	s.frames++

	if p.Playing {
		back := s.store.Back()
		g := physics.Gravity{G: p.G, Softening: s.softening}
		s.simTime += integrators.Advance(s.stepper, g, back, frameDelta, p.TimeScale, s.subSteps)
		s.store.Swap()
	}

	bodies := s.store.Snapshot()
	prog := s.evaluator.Evaluate(tasks.Observation{
		G:         p.G,
		TimeScale: p.TimeScale,
		Bodies:    bodies,
		Now:       s.clock,
	})
	if prog.Completed != "" {
		s.logger.Info("task completed", "task", prog.Completed, "t", s.clock)
	}
	if prog.Advanced {
		s.logger.Debug("task advanced", "current", prog.Current, "t", s.clock)
	}
	s.logger.Log(context.Background(), logging.LevelTrace, "tick",
		"frame", s.frames, "dt", frameDelta, "sim_time", s.simTime)

	return bodies
}

// Reset restores bodies, parameters, tasks and clocks to their construction
// values in one step.
func (s *Scenario) Reset() {
	s.store.Reset(s.initial)
	s.params = s.initialParams
	s.evaluator.Reset()
	s.clock = 0
	s.simTime = 0
	s.frames = 0
	s.logger.Info("scenario reset", "name", s.name)
}

// SetG accepts any finite value; negative G makes bodies repel.
func (s *Scenario) SetG(g float64) error {
	if err := checkG(g); err != nil {
		return err
	}
	s.params.G = g
	return nil
}

// SetTimeScale rejects negative values and leaves the current one in place.
func (s *Scenario) SetTimeScale(ts float64) error {
	if err := checkTimeScale(ts); err != nil {
		return err
	}
	s.params.TimeScale = ts
	return nil
}

func (s *Scenario) SetPlaying(playing bool) {
	s.params.Playing = playing
}

func (s *Scenario) TogglePlaying() bool {
	s.params.Playing = !s.params.Playing
	return s.params.Playing
}

func (s *Scenario) Params() dynamo.Params        { return s.params }
func (s *Scenario) InitialParams() dynamo.Params { return s.initialParams }
func (s *Scenario) G() float64                   { return s.params.G }
func (s *Scenario) TimeScale() float64           { return s.params.TimeScale }
func (s *Scenario) Playing() bool                { return s.params.Playing }

// Bodies returns a copy of the current state.
func (s *Scenario) Bodies() dynamo.Bodies { return s.store.Snapshot() }

// InitialBodies returns a copy of the reset snapshot.
func (s *Scenario) InitialBodies() dynamo.Bodies { return s.initial.Clone() }

func (s *Scenario) Tasks() []tasks.Task { return s.evaluator.Tasks() }
func (s *Scenario) CurrentTask() int    { return s.evaluator.Current() }
func (s *Scenario) TasksDone() bool     { return s.evaluator.Done() }

// Time is elapsed real session seconds, paused frames included.
func (s *Scenario) Time() float64 { return s.clock }

// SimTime is integrated simulated seconds.
func (s *Scenario) SimTime() float64 { return s.simTime }

func (s *Scenario) Frames() int        { return s.frames }
func (s *Scenario) Name() string       { return s.name }
func (s *Scenario) SubSteps() int      { return s.subSteps }
func (s *Scenario) Integrator() string { return s.stepper.Name() }

// Gravity is the force model as it applies to the next tick.
func (s *Scenario) Gravity() physics.Gravity {
	return physics.Gravity{G: s.params.G, Softening: s.softening}
}

func (s *Scenario) Energy() float64 {
	return s.Gravity().Energy(s.store.Snapshot())
}

func (s *Scenario) String() string {
	return fmt.Sprintf("%s: %d bodies, G=%.3f, time x%.2f, %s", s.name, s.store.Len(), s.params.G, s.params.TimeScale, playState(s.params.Playing))
}

func playState(playing bool) string {
	if playing {
		return "running"
	}
	return "paused"
}

func checkG(g float64) error {
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return &dynamo.ParamError{Name: "gravitational_constant", Value: g}
	}
	return nil
}

func checkTimeScale(ts float64) error {
	if !(ts >= 0) || math.IsInf(ts, 0) {
		return &dynamo.ParamError{Name: "time_scale", Value: ts}
	}
	return nil
}

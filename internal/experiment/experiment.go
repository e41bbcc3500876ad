// Package experiment drives a scenario headlessly at a fixed frame rate and
// collects its trajectory and metrics.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/logging"
	"github.com/san-kum/gravlab/internal/metrics"
	"github.com/san-kum/gravlab/internal/scenario"
)

type Config struct {
	Frames int
	FPS    float64
}

// Driver changes parameters between frames. Apply is called before every
// tick with the session time the tick starts at.
type Driver interface {
	Apply(t float64, s *scenario.Scenario) error
}

type Observer interface {
	OnTick(frame int, t float64, bodies dynamo.Bodies)
}

type Result struct {
	States     []dynamo.Bodies
	Times      []float64
	Metrics    map[string]float64
	TasksDone  int
	Frames     int
	SimTime    float64
	FinalG     float64
	Integrator string
}

type Experiment struct {
	cfg       Config
	scn       *scenario.Scenario
	driver    Driver
	metrics   []metrics.Metric
	observers []Observer
	logger    *slog.Logger
}

func New(cfg Config, scn *scenario.Scenario) *Experiment {
	return &Experiment{
		cfg:    cfg,
		scn:    scn,
		logger: logging.Discard(),
	}
}

func (e *Experiment) SetDriver(d Driver)           { e.driver = d }
func (e *Experiment) AddMetric(m metrics.Metric)   { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o Observer)       { e.observers = append(e.observers, o) }
func (e *Experiment) SetLogger(l *slog.Logger)     { e.logger = l }
func (e *Experiment) Scenario() *scenario.Scenario { return e.scn }

func (e *Experiment) validate() error {
	if e.scn == nil {
		return fmt.Errorf("experiment has no scenario")
	}
	if e.cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", e.cfg.Frames)
	}
	if !(e.cfg.FPS > 0) {
		return fmt.Errorf("fps must be positive, got %f", e.cfg.FPS)
	}
	return nil
}

// Run ticks the scenario Frames times with a frame delta of 1/FPS. The
// initial state is recorded at t=0, so States has Frames+1 entries on a
// complete run. A cancelled context returns the partial result.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	result := &Result{
		States:     make([]dynamo.Bodies, 0, e.cfg.Frames+1),
		Times:      make([]float64, 0, e.cfg.Frames+1),
		Metrics:    make(map[string]float64),
		Integrator: e.scn.Integrator(),
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	dt := 1 / e.cfg.FPS
	bodies := e.scn.Bodies()
	result.States = append(result.States, bodies)
	result.Times = append(result.Times, e.scn.Time())
	e.observe(bodies)

	var runErr error
	for i := 0; i < e.cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		if e.driver != nil {
			if err := e.driver.Apply(e.scn.Time(), e.scn); err != nil {
				runErr = fmt.Errorf("frame %d: %w", i, err)
				break
			}
		}

		bodies = e.scn.Tick(dt)
		result.Frames++
		result.States = append(result.States, bodies)
		result.Times = append(result.Times, e.scn.Time())

		e.observe(bodies)
		for _, o := range e.observers {
			o.OnTick(result.Frames, e.scn.Time(), bodies)
		}
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	for _, t := range e.scn.Tasks() {
		if t.Completed {
			result.TasksDone++
		}
	}
	result.SimTime = e.scn.SimTime()
	result.FinalG = e.scn.G()

	e.logger.Debug("experiment finished",
		"scenario", e.scn.Name(),
		"frames", result.Frames,
		"sim_time", result.SimTime,
		"tasks_done", result.TasksDone)

	return result, runErr
}

func (e *Experiment) observe(bodies dynamo.Bodies) {
	if len(e.metrics) == 0 {
		return
	}
	s := metrics.Sample{
		Bodies:    bodies,
		Gravity:   e.scn.Gravity(),
		Time:      e.scn.Time(),
		TimeScale: e.scn.TimeScale(),
	}
	for _, m := range e.metrics {
		m.Observe(s)
	}
}

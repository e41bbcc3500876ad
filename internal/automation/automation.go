package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"

	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/experiment"
	"github.com/san-kum/gravlab/internal/logging"
	"github.com/san-kum/gravlab/internal/metrics"
	"github.com/san-kum/gravlab/internal/scenario"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Script is a timed sequence of parameter changes
type Script struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Events      []Event `yaml:"events"`
}

// Event applies once the session clock reaches At. Unset fields are left
// alone.
type Event struct {
	At        float64  `yaml:"at"`
	G         *float64 `yaml:"gravitational_constant,omitempty"`
	TimeScale *float64 `yaml:"time_scale,omitempty"`
	Playing   *bool    `yaml:"playing,omitempty"`
	Reset     bool     `yaml:"reset,omitempty"`
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a script and orders its events by time. Events at
// the same time keep file order.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, ev := range script.Events {
		if !(ev.At >= 0) {
			return nil, fmt.Errorf("event %d: time must be non-negative, got %v", i, ev.At)
		}
	}
	sort.SliceStable(script.Events, func(i, j int) bool {
		return script.Events[i].At < script.Events[j].At
	})
	return &script, nil
}

// Player feeds a script to a scenario. It is an experiment.Driver.
type Player struct {
	script *Script
	next   int
	logger *slog.Logger
}

func NewPlayer(script *Script, logger *slog.Logger) *Player {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Player{script: script, logger: logger}
}

// Apply runs every pending event due at or before t. A rejected parameter
// stops playback with the error; the remaining events stay pending.
func (p *Player) Apply(t float64, s *scenario.Scenario) error {
	for p.next < len(p.script.Events) && p.script.Events[p.next].At <= t {
		ev := p.script.Events[p.next]
		if err := apply(ev, s); err != nil {
			return fmt.Errorf("script event at %.3fs: %w", ev.At, err)
		}
		p.next++
		p.logger.Debug("script event", "at", ev.At, "t", t, "g", s.G(), "time_scale", s.TimeScale(), "playing", s.Playing())
	}
	return nil
}

func (p *Player) Done() bool { return p.next >= len(p.script.Events) }

func apply(ev Event, s *scenario.Scenario) error {
	if ev.Reset {
		s.Reset()
	}
	if ev.G != nil {
		if err := s.SetG(*ev.G); err != nil {
			return err
		}
	}
	if ev.TimeScale != nil {
		if err := s.SetTimeScale(*ev.TimeScale); err != nil {
			return err
		}
	}
	if ev.Playing != nil {
		s.SetPlaying(*ev.Playing)
	}
	return nil
}

// Sweep runs one headless experiment per G value, evenly spaced from From
// to To inclusive. Runs are independent and execute on up to Workers
// goroutines; zero means one per CPU.
type Sweep struct {
	Config  *config.Config
	From    float64
	To      float64
	Steps   int
	Frames  int
	FPS     float64
	Workers int
}

// SweepResult holds results for one G value
type SweepResult struct {
	G           float64
	Final       dynamo.Bodies
	EnergyDrift float64
	Stability   float64
	OrbitMin    float64
	OrbitMax    float64
}

// Values returns the G values the sweep visits.
func (sw *Sweep) Values() ([]float64, error) {
	if sw.Steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sw.Steps)
	}
	if sw.Steps == 1 {
		return []float64{sw.From}, nil
	}
	step := (sw.To - sw.From) / float64(sw.Steps-1)
	vals := make([]float64, sw.Steps)
	for i := range vals {
		vals[i] = sw.From + float64(i)*step
	}
	vals[len(vals)-1] = sw.To
	return vals, nil
}

// RunSweep executes a sweep over G. Results are in the order of Values.
// The first failing run cancels the rest.
func RunSweep(ctx context.Context, sw *Sweep, logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	values, err := sw.Values()
	if err != nil {
		return nil, err
	}
	base := sw.Config
	if base == nil {
		base = config.DefaultConfig()
	}
	workers := sw.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]SweepResult, len(values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, gv := range values {
		g.Go(func() error {
			cfg := *base
			cfg.G = gv

			r, err := sweepOne(ctx, &cfg, sw.Frames, sw.FPS)
			if err != nil {
				return fmt.Errorf("sweep G=%.4f: %w", gv, err)
			}
			results[i] = r
			logger.Info("sweep step", "step", i+1, "of", len(values), "g", gv, "stability", r.Stability)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func sweepOne(ctx context.Context, cfg *config.Config, frames int, fps float64) (SweepResult, error) {
	scn, err := scenario.New(cfg)
	if err != nil {
		return SweepResult{}, err
	}

	exp := experiment.New(experiment.Config{Frames: frames, FPS: fps}, scn)
	drift := metrics.NewEnergyDrift()
	stab := metrics.NewStability(experiment.StabilityRadius)
	exp.AddMetric(drift)
	exp.AddMetric(stab)
	var band *metrics.OrbitBand
	for _, m := range experiment.DefaultMetrics(cfg) {
		if b, ok := m.(*metrics.OrbitBand); ok {
			band = b
			exp.AddMetric(b)
		}
	}

	res, err := exp.Run(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	r := SweepResult{
		G:           cfg.G,
		Final:       res.States[len(res.States)-1],
		EnergyDrift: drift.Value(),
		Stability:   stab.Value(),
	}
	if band != nil {
		r.OrbitMin, r.OrbitMax = band.Min(), band.Value()
	}
	return r, nil
}

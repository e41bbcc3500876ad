package config

import (
	"fmt"
	"os"

	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/integrators"
	"github.com/san-kum/gravlab/internal/physics"
	"github.com/san-kum/gravlab/internal/tasks"
	"gopkg.in/yaml.v3"
)

const (
	DefaultG            = 0.8
	DefaultTimeScale    = 1.0
	DefaultSubSteps     = integrators.DefaultSubSteps
	DefaultSoftening    = physics.DefaultSoftening
	DefaultIntegrator   = "symplectic"
	DefaultAdvanceDelay = tasks.DefaultAdvanceDelay
	DefaultFPS          = 60
)

type Config struct {
	Name         string       `yaml:"name"`
	G            float64      `yaml:"gravitational_constant"`
	TimeScale    float64      `yaml:"time_scale"`
	Playing      bool         `yaml:"playing"`
	SubSteps     int          `yaml:"sub_steps"`
	Softening    float64      `yaml:"softening"`
	Integrator   string       `yaml:"integrator"`
	AdvanceDelay float64      `yaml:"advance_delay"`
	Bodies       []BodyConfig `yaml:"bodies"`
	Tasks        []TaskConfig `yaml:"tasks,omitempty"`
}

type BodyConfig struct {
	Name       string     `yaml:"name,omitempty"`
	Mass       float64    `yaml:"mass"`
	Radius     float64    `yaml:"radius"`
	Position   [3]float64 `yaml:"position,flow"`
	Velocity   [3]float64 `yaml:"velocity,flow"`
	Fixed      bool       `yaml:"fixed,omitempty"`
	Color      string     `yaml:"color,omitempty"`
	TrailColor string     `yaml:"trail_color,omitempty"`
}

type TaskConfig struct {
	ID          string  `yaml:"id"`
	Description string  `yaml:"description"`
	Hint        string  `yaml:"hint,omitempty"`
	Explanation string  `yaml:"explanation,omitempty"`
	Predicate   string  `yaml:"predicate"`
	Threshold   float64 `yaml:"threshold"`
}

// DefaultConfig is the reference teaching scenario: a fixed sun with two
// planets on tangential orbits.
func DefaultConfig() *Config {
	return &Config{
		Name:         "default",
		G:            DefaultG,
		TimeScale:    DefaultTimeScale,
		Playing:      true,
		SubSteps:     DefaultSubSteps,
		Softening:    DefaultSoftening,
		Integrator:   DefaultIntegrator,
		AdvanceDelay: DefaultAdvanceDelay,
		Bodies: []BodyConfig{
			{Name: "sun", Mass: 1000, Radius: 2, Fixed: true, Color: "#ffcc00", TrailColor: "#ffcc00"},
			{Name: "earth", Mass: 1, Radius: 0.6, Position: [3]float64{10, 0, 0}, Velocity: [3]float64{0, 0, 8}, Color: "#3399ff", TrailColor: "#1f5f99"},
			{Name: "mars", Mass: 0.5, Radius: 0.4, Position: [3]float64{16, 0, 0}, Velocity: [3]float64{0, 0, 6}, Color: "#ff5533", TrailColor: "#993322"},
		},
	}
}

// Load reads a scenario file. Fields missing from the file keep their
// DefaultConfig values; a file that lists bodies replaces the default bodies.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	cfg := DefaultConfig()
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(cfg.Bodies) == 0 {
		cfg.Bodies = DefaultConfig().Bodies
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

// GetBodies converts body entries to the simulation model. IDs follow list
// order.
func (c *Config) GetBodies() dynamo.Bodies {
	bs := make(dynamo.Bodies, len(c.Bodies))
	for i, b := range c.Bodies {
		bs[i] = dynamo.Body{
			ID:         i,
			Name:       b.Name,
			Position:   dynamo.Vec3{X: b.Position[0], Y: b.Position[1], Z: b.Position[2]},
			Velocity:   dynamo.Vec3{X: b.Velocity[0], Y: b.Velocity[1], Z: b.Velocity[2]},
			Mass:       b.Mass,
			Radius:     b.Radius,
			Fixed:      b.Fixed,
			Color:      b.Color,
			TrailColor: b.TrailColor,
		}
		if bs[i].Name == "" {
			bs[i].Name = fmt.Sprintf("body-%d", i)
		}
	}
	return bs
}

func (c *Config) GetParams() dynamo.Params {
	return dynamo.Params{G: c.G, TimeScale: c.TimeScale, Playing: c.Playing}
}

// GetTasks returns the configured task list, or the default lesson when the
// scenario defines none.
func (c *Config) GetTasks() ([]tasks.Definition, error) {
	if len(c.Tasks) == 0 {
		return tasks.DefaultDefinitions(), nil
	}
	defs := make([]tasks.Definition, 0, len(c.Tasks))
	for _, tc := range c.Tasks {
		check, err := tasks.PredicateByName(tc.Predicate, tc.Threshold)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", tc.ID, err)
		}
		defs = append(defs, tasks.Definition{
			Task: tasks.Task{
				ID:          tc.ID,
				Description: tc.Description,
				Hint:        tc.Hint,
				Explanation: tc.Explanation,
			},
			Check: check,
		})
	}
	return defs, nil
}

package config

import "sort"

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"binary": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "binary"
		cfg.G = 1.0
		cfg.Bodies = []BodyConfig{
			{Name: "alpha", Mass: 200, Radius: 1.2, Position: [3]float64{-5, 0, 0}, Velocity: [3]float64{0, 0, -2.2}, Color: "#ffdd88", TrailColor: "#aa9955"},
			{Name: "beta", Mass: 200, Radius: 1.2, Position: [3]float64{5, 0, 0}, Velocity: [3]float64{0, 0, 2.2}, Color: "#88ddff", TrailColor: "#5599aa"},
		}
		return cfg
	},
	"inner-system": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "inner-system"
		cfg.Bodies = []BodyConfig{
			{Name: "sun", Mass: 1000, Radius: 2, Fixed: true, Color: "#ffcc00", TrailColor: "#ffcc00"},
			{Name: "mercury", Mass: 0.1, Radius: 0.3, Position: [3]float64{5, 0, 0}, Velocity: [3]float64{0, 0, 12.6}, Color: "#bbbbbb", TrailColor: "#777777"},
			{Name: "venus", Mass: 0.8, Radius: 0.5, Position: [3]float64{8, 0, 0}, Velocity: [3]float64{0, 0, 10}, Color: "#eecc88", TrailColor: "#998855"},
			{Name: "earth", Mass: 1, Radius: 0.6, Position: [3]float64{10, 0, 0}, Velocity: [3]float64{0, 0, 8}, Color: "#3399ff", TrailColor: "#1f5f99"},
			{Name: "mars", Mass: 0.5, Radius: 0.4, Position: [3]float64{16, 0, 0}, Velocity: [3]float64{0, 0, 6}, Color: "#ff5533", TrailColor: "#993322"},
		}
		return cfg
	},
	// Chenciner-Montgomery figure-eight, three equal free masses, in the X-Z plane.
	"figure-eight": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "figure-eight"
		cfg.G = 1.0
		cfg.Bodies = []BodyConfig{
			{Name: "a", Mass: 1, Radius: 0.05, Position: [3]float64{-0.97000436, 0, 0.24308753}, Velocity: [3]float64{0.4662036850, 0, 0.4323657300}, Color: "#ff6688"},
			{Name: "b", Mass: 1, Radius: 0.05, Position: [3]float64{0.97000436, 0, -0.24308753}, Velocity: [3]float64{0.4662036850, 0, 0.4323657300}, Color: "#66ff88"},
			{Name: "c", Mass: 1, Radius: 0.05, Position: [3]float64{0, 0, 0}, Velocity: [3]float64{-0.93240737, 0, -0.86473146}, Color: "#6688ff"},
		}
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

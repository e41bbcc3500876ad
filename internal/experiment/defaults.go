package experiment

import (
	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/metrics"
)

// StabilityRadius is the distance from the anchor beyond which a body counts
// as escaped for the stability metric.
const StabilityRadius = 40.0

// DefaultMetrics tracks energy, escape, and the orbit band of the first free
// body.
func DefaultMetrics(cfg *config.Config) []metrics.Metric {
	ms := []metrics.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewStability(StabilityRadius),
	}
	for i, b := range cfg.Bodies {
		if !b.Fixed {
			ms = append(ms, metrics.NewOrbitBand(i))
			break
		}
	}
	return ms
}

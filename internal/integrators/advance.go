package integrators

import (
	"math"

	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/physics"
)

// DefaultSubSteps is how many integration steps one frame is split into.
const DefaultSubSteps = 4

// Stepper advances non-fixed bodies in place by dt.
type Stepper interface {
	Name() string
	Step(g physics.Gravity, bs dynamo.Bodies, dt float64)
}

// Advance integrates one frame of frameDelta real seconds scaled by
// timeScale, split into subSteps equal steps. Forces are recomputed at every
// sub-step. It returns the simulated time covered.
func Advance(s Stepper, g physics.Gravity, bs dynamo.Bodies, frameDelta, timeScale float64, subSteps int) float64 {
	if subSteps < 1 {
		subSteps = 1
	}
	span := frameDelta * timeScale
	if !(span > 0) || math.IsInf(span, 0) {
		return 0
	}

	dt := span / float64(subSteps)
	for i := 0; i < subSteps; i++ {
		s.Step(g, bs, dt)
	}
	return span
}

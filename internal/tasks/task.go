// Package tasks implements the sequential achievement list that watches the
// live simulation.
//
// Exactly one task is active at a time. When its predicate first holds, the
// task is marked completed on the spot and an advance to the next task is
// queued for [DefaultAdvanceDelay] seconds of session time later. Completion
// is never undone except by [Evaluator.Reset].
package tasks

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravlab/internal/dynamo"
)

// DefaultAdvanceDelay is how long a completed task stays on screen before the
// next one becomes active, in session seconds.
const DefaultAdvanceDelay = 1.5

// Observation is what a predicate gets to look at on one tick.
type Observation struct {
	G         float64
	TimeScale float64
	Bodies    dynamo.Bodies
	Now       float64
}

type Predicate func(Observation) bool

type Task struct {
	ID          string
	Description string
	Hint        string
	Explanation string
	Completed   bool
}

// Definition is a task together with its unlock condition.
type Definition struct {
	Task
	Check Predicate
}

func GAbove(threshold float64) Predicate {
	return func(o Observation) bool { return o.G > threshold }
}

func GBelow(threshold float64) Predicate {
	return func(o Observation) bool { return o.G < threshold }
}

func TimeScaleAtLeast(threshold float64) Predicate {
	return func(o Observation) bool { return o.TimeScale >= threshold }
}

// DistanceAbove holds once any free body is farther than threshold from the
// anchor (the first fixed body, or the origin).
func DistanceAbove(threshold float64) Predicate {
	return func(o Observation) bool {
		anchor := o.Bodies.AnchorPosition()
		for i := range o.Bodies {
			if o.Bodies[i].Fixed {
				continue
			}
			if o.Bodies[i].Position.Sub(anchor).Norm() > threshold {
				return true
			}
		}
		return false
	}
}

var predicates = map[string]func(float64) Predicate{
	"g_above":            GAbove,
	"g_below":            GBelow,
	"timescale_at_least": TimeScaleAtLeast,
	"distance_above":     DistanceAbove,
}

// PredicateByName resolves a predicate kind used in scenario files.
func PredicateByName(kind string, threshold float64) (Predicate, error) {
	fn, ok := predicates[kind]
	if !ok {
		return nil, fmt.Errorf("unknown task predicate: %s (available: %v)", kind, PredicateNames())
	}
	return fn(threshold), nil
}

func PredicateNames() []string {
	names := make([]string, 0, len(predicates))
	for name := range predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultDefinitions is the lesson shipped with the reference scenario.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Task: Task{
				ID:          "stronger-gravity",
				Description: "Raise the gravitational constant above 2.0",
				Hint:        "Press ↑ a few times and watch the planets fall inward.",
				Explanation: "Force grows linearly with G, so the same orbital speed is no longer enough to stay on a wide orbit.",
			},
			Check: GAbove(2.0),
		},
		{
			Task: Task{
				ID:          "fast-forward",
				Description: "Run time at double speed or faster",
				Hint:        "Press → until the time scale reads 2.00.",
				Explanation: "Each frame is split into sub-steps, so faster time does not blow up the orbit.",
			},
			Check: TimeScaleAtLeast(2.0),
		},
		{
			Task: Task{
				ID:          "weaker-gravity",
				Description: "Lower the gravitational constant below 0.5",
				Hint:        "Press ↓ until G drops under 0.5.",
				Explanation: "With weaker pull the planets move too fast for their orbits and swing out on wide ellipses.",
			},
			Check: GBelow(0.5),
		},
		{
			Task: Task{
				ID:          "wide-orbit",
				Description: "Send a planet more than 25 units from the sun",
				Hint:        "Keep gravity weak and let time run.",
				Explanation: "Below escape speed a planet always comes back; above it, the orbit opens into a hyperbola.",
			},
			Check: DistanceAbove(25),
		},
	}
}

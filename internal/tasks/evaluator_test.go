package tasks

import (
	"testing"

	"github.com/san-kum/gravlab/internal/dynamo"
)

func obs(g, ts, now float64) Observation {
	return Observation{G: g, TimeScale: ts, Now: now}
}

func TestEvaluatorCompletesAndAdvancesAfterDelay(t *testing.T) {
	e := NewEvaluator(DefaultDefinitions(), DefaultAdvanceDelay)

	p := e.Evaluate(obs(2.5, 1, 0))
	if p.Completed != "stronger-gravity" {
		t.Fatalf("expected stronger-gravity completed, got %q", p.Completed)
	}
	if !e.Tasks()[0].Completed {
		t.Fatal("completion flag not set synchronously")
	}
	if e.Current() != 0 {
		t.Fatal("advanced before the delay elapsed")
	}

	e.Evaluate(obs(2.5, 1, 1.4))
	if e.Current() != 0 {
		t.Fatal("advanced at 1.4s, delay is 1.5s")
	}

	p = e.Evaluate(obs(2.5, 1, 1.5))
	if !p.Advanced || e.Current() != 1 {
		t.Fatalf("expected advance to 1 at 1.5s, got current=%d advanced=%v", e.Current(), p.Advanced)
	}
}

func TestEvaluatorSingleTrigger(t *testing.T) {
	e := NewEvaluator(DefaultDefinitions(), DefaultAdvanceDelay)

	completions := 0
	steps := []struct {
		g   float64
		now float64
	}{
		{2.5, 0.0},
		{1.0, 0.1},
		{2.5, 0.2},
		{1.0, 0.3},
	}
	for _, s := range steps {
		if p := e.Evaluate(obs(s.g, 1, s.now)); p.Completed != "" {
			completions++
		}
	}

	if completions != 1 {
		t.Errorf("expected exactly one completion, got %d", completions)
	}
	if !e.Tasks()[0].Completed {
		t.Error("completion was undone by a later false predicate")
	}

	e.Evaluate(obs(1.0, 1, 2.0))
	if e.Current() != 1 {
		t.Errorf("advance should still happen after the predicate turned false, current=%d", e.Current())
	}
}

func TestEvaluatorOnlyActiveTaskEvaluated(t *testing.T) {
	e := NewEvaluator(DefaultDefinitions(), DefaultAdvanceDelay)

	// Task 1 (time scale) and task 2 (weak gravity) hold, task 0 does not.
	for i := 0; i < 10; i++ {
		e.Evaluate(obs(0.1, 3, float64(i)))
	}

	for i, task := range e.Tasks() {
		if task.Completed {
			t.Errorf("task %d (%s) completed out of order", i, task.ID)
		}
	}
	if e.Current() != 0 {
		t.Errorf("current moved without completion: %d", e.Current())
	}
}

func TestEvaluatorMonotonicAndSaturating(t *testing.T) {
	e := NewEvaluator(DefaultDefinitions(), 0.5)
	far := dynamo.Bodies{
		{ID: 0, Mass: 1, Radius: 1, Fixed: true},
		{ID: 1, Mass: 1, Radius: 1, Position: dynamo.Vec3{X: 30}},
	}

	seq := []Observation{
		{G: 3, TimeScale: 1},
		{G: 3, TimeScale: 2},
		{G: 0.1, TimeScale: 2},
		{G: 0.1, TimeScale: 2, Bodies: far},
		{G: 5, TimeScale: 0},
		{G: 0.1, TimeScale: 2, Bodies: far},
	}

	last := 0
	now := 0.0
	for round := 0; round < 4; round++ {
		for _, o := range seq {
			o.Now = now
			e.Evaluate(o)
			now += 0.25

			if e.Current() < last {
				t.Fatalf("current index decreased: %d -> %d", last, e.Current())
			}
			last = e.Current()
		}
	}

	if !e.Done() {
		t.Errorf("expected all tasks completed, got %+v", e.Tasks())
	}
	if e.Current() != len(DefaultDefinitions())-1 {
		t.Errorf("expected current to saturate at last index, got %d", e.Current())
	}
	if e.Pending() {
		t.Error("queue should be drained after saturation")
	}
}

func TestEvaluatorReset(t *testing.T) {
	e := NewEvaluator(DefaultDefinitions(), DefaultAdvanceDelay)
	e.Evaluate(obs(3, 1, 0))
	e.Evaluate(obs(3, 1, 2))
	e.Evaluate(obs(3, 2, 2.1))

	e.Reset()

	if e.Current() != 0 || e.Pending() {
		t.Errorf("reset left current=%d pending=%v", e.Current(), e.Pending())
	}
	for _, task := range e.Tasks() {
		if task.Completed {
			t.Errorf("task %s still completed after reset", task.ID)
		}
	}

	// A queued advance from before the reset must not fire afterwards.
	e.Evaluate(obs(1, 1, 10))
	if e.Current() != 0 {
		t.Errorf("stale advance fired after reset, current=%d", e.Current())
	}
}

func TestEvaluatorTasksIsCopy(t *testing.T) {
	e := NewEvaluator(DefaultDefinitions(), DefaultAdvanceDelay)
	list := e.Tasks()
	list[0].Completed = true

	if e.Tasks()[0].Completed {
		t.Error("Tasks() exposes internal state")
	}
}

func TestEvaluatorEmpty(t *testing.T) {
	e := NewEvaluator(nil, DefaultAdvanceDelay)
	p := e.Evaluate(obs(10, 10, 0))
	if p.Completed != "" || p.Advanced {
		t.Errorf("empty evaluator reported progress: %+v", p)
	}
}

func TestPredicateByName(t *testing.T) {
	tests := []struct {
		kind string
		o    Observation
		want bool
	}{
		{"g_above", Observation{G: 2.5}, true},
		{"g_above", Observation{G: 2.0}, false},
		{"g_below", Observation{G: 0.4}, true},
		{"timescale_at_least", Observation{TimeScale: 2.0}, true},
		{"timescale_at_least", Observation{TimeScale: 1.99}, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			threshold := 2.0
			if tt.kind == "g_below" {
				threshold = 0.5
			}
			p, err := PredicateByName(tt.kind, threshold)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := p(tt.o); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := PredicateByName("nope", 1); err == nil {
		t.Error("expected error for unknown predicate")
	}
}

func TestDistanceAboveIgnoresFixedBodies(t *testing.T) {
	p := DistanceAbove(5)
	bs := dynamo.Bodies{
		{ID: 0, Fixed: true, Position: dynamo.Vec3{X: 100}},
		{ID: 1, Position: dynamo.Vec3{X: 102}},
	}
	if p(Observation{Bodies: bs}) {
		t.Error("distance should be measured from the anchor, fixed bodies excluded")
	}
}

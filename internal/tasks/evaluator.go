package tasks

// advance is a queued move off task From, due at session time Due.
type advance struct {
	From int
	Due  float64
}

// Progress reports what one Evaluate call changed.
type Progress struct {
	Completed string // id of the task completed on this call, if any
	Advanced  bool   // the active index moved on this call
	Current   int
}

// Evaluator tracks the ordered task list and the active index. It is driven
// once per tick and keeps no clock of its own: time only moves through
// Observation.Now.
type Evaluator struct {
	defs    []Definition
	tasks   []Task
	current int
	delay   float64
	queue   []advance
}

func NewEvaluator(defs []Definition, delay float64) *Evaluator {
	if !(delay > 0) {
		delay = 0
	}
	e := &Evaluator{
		defs:  defs,
		tasks: make([]Task, len(defs)),
		delay: delay,
	}
	e.Reset()
	return e
}

// Evaluate fires due advances, then checks the active task's predicate.
func (e *Evaluator) Evaluate(o Observation) Progress {
	var p Progress
	if len(e.defs) == 0 {
		return p
	}

	p.Advanced = e.drain(o.Now)

	i := e.current
	if !e.tasks[i].Completed && e.defs[i].Check != nil && e.defs[i].Check(o) {
		e.tasks[i].Completed = true
		// Queued even with a zero delay, so the advance lands on a later tick.
		e.queue = append(e.queue, advance{From: i, Due: o.Now + e.delay})
		p.Completed = e.tasks[i].ID
	}

	p.Current = e.current
	return p
}

func (e *Evaluator) drain(now float64) bool {
	moved := false
	n := 0
	for _, ev := range e.queue {
		if ev.Due > now {
			e.queue[n] = ev
			n++
			continue
		}
		if ev.From == e.current && e.current < len(e.tasks)-1 {
			e.current++
			moved = true
		}
	}
	e.queue = e.queue[:n]
	return moved
}

// Tasks returns a copy of the task list.
func (e *Evaluator) Tasks() []Task {
	out := make([]Task, len(e.tasks))
	copy(out, e.tasks)
	return out
}

func (e *Evaluator) Current() int { return e.current }

// Pending reports whether an advance is queued.
func (e *Evaluator) Pending() bool { return len(e.queue) > 0 }

// Done reports whether every task is completed.
func (e *Evaluator) Done() bool {
	for i := range e.tasks {
		if !e.tasks[i].Completed {
			return false
		}
	}
	return true
}

// Reset clears completion, the active index and any queued advance.
func (e *Evaluator) Reset() {
	for i := range e.defs {
		e.tasks[i] = e.defs[i].Task
		e.tasks[i].Completed = false
	}
	e.current = 0
	e.queue = e.queue[:0]
}

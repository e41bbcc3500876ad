package integrators

import (
	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/physics"
)

// Leapfrog is kick-drift-kick. It evaluates forces twice per step.
type Leapfrog struct {
	forces []dynamo.Vec3
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(g physics.Gravity, bs dynamo.Bodies, dt float64) {
	l.forces = ensure(l.forces, len(bs))
	halfDt := dt * 0.5

	g.Forces(bs, l.forces)
	for i := range bs {
		if bs[i].Fixed {
			continue
		}
		bs[i].Velocity = bs[i].Velocity.Add(l.forces[i].Scale(halfDt / bs[i].Mass))
		bs[i].Position = bs[i].Position.Add(bs[i].Velocity.Scale(dt))
	}

	g.Forces(bs, l.forces)
	for i := range bs {
		if bs[i].Fixed {
			continue
		}
		bs[i].Velocity = bs[i].Velocity.Add(l.forces[i].Scale(halfDt / bs[i].Mass))
	}
}

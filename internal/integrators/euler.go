package integrators

import (
	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/physics"
)

// SymplecticEuler is semi-implicit Euler: velocity is kicked with the force
// at the start of the step, then position drifts with the new velocity.
type SymplecticEuler struct {
	forces []dynamo.Vec3
}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Name() string { return "symplectic" }

func (e *SymplecticEuler) Step(g physics.Gravity, bs dynamo.Bodies, dt float64) {
	e.forces = ensure(e.forces, len(bs))
	g.Forces(bs, e.forces)

	for i := range bs {
		if bs[i].Fixed {
			continue
		}
		bs[i].Velocity = bs[i].Velocity.Add(e.forces[i].Scale(dt / bs[i].Mass))
	}
	for i := range bs {
		if bs[i].Fixed {
			continue
		}
		bs[i].Position = bs[i].Position.Add(bs[i].Velocity.Scale(dt))
	}
}

// Euler is plain explicit Euler. Position drifts with the old velocity, so
// orbits spiral outward; it exists for comparison.
type Euler struct {
	forces []dynamo.Vec3
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(g physics.Gravity, bs dynamo.Bodies, dt float64) {
	e.forces = ensure(e.forces, len(bs))
	g.Forces(bs, e.forces)

	for i := range bs {
		if bs[i].Fixed {
			continue
		}
		v := bs[i].Velocity
		bs[i].Velocity = v.Add(e.forces[i].Scale(dt / bs[i].Mass))
		bs[i].Position = bs[i].Position.Add(v.Scale(dt))
	}
}

func ensure(buf []dynamo.Vec3, n int) []dynamo.Vec3 {
	if len(buf) != n {
		return make([]dynamo.Vec3, n)
	}
	return buf
}

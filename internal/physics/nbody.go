package physics

import (
	"math"

	"github.com/san-kum/gravlab/internal/dynamo"
)

// DefaultSoftening is the separation below which a pair exerts no force.
const DefaultSoftening = 0.1

// Gravity evaluates pairwise Newtonian attraction.
//
// Pairs closer than Softening are skipped outright rather than smoothed with
// an eps² term, so the force drops to zero below the cutoff instead of
// saturating. G may be negative, which turns attraction into repulsion.
type Gravity struct {
	G         float64
	Softening float64
}

func NewGravity(g float64) Gravity {
	return Gravity{G: g, Softening: DefaultSoftening}
}

// Forces writes the net force on every body into out, which must have
// len(bs) entries. Fixed bodies receive a force like any other; callers
// decide whether to apply it.
func (g Gravity) Forces(bs dynamo.Bodies, out []dynamo.Vec3) {
	n := len(bs)
	for i := range out[:n] {
		out[i] = dynamo.Vec3{}
	}
	cutoff2 := g.Softening * g.Softening

	for i := 0; i < n; i++ {
		pi := bs[i].Position

		for j := i + 1; j < n; j++ {
			d := bs[j].Position.Sub(pi)
			distSq := d.NormSq()
			if distSq < cutoff2 {
				continue
			}

			dist := math.Sqrt(distSq)
			mag := g.G * bs[i].Mass * bs[j].Mass / distSq
			f := d.Scale(mag / dist)

			out[i] = out[i].Add(f)
			out[j] = out[j].Sub(f)
		}
	}
}

// Accelerations is Forces divided by each body's mass.
func (g Gravity) Accelerations(bs dynamo.Bodies, out []dynamo.Vec3) {
	g.Forces(bs, out)
	for i := range bs {
		out[i] = out[i].Scale(1 / bs[i].Mass)
	}
}

// Energy is total kinetic plus pairwise potential energy, with the same
// cutoff as Forces.
func (g Gravity) Energy(bs dynamo.Bodies) float64 {
	ke := 0.0
	pe := 0.0
	cutoff2 := g.Softening * g.Softening

	for i := range bs {
		ke += 0.5 * bs[i].Mass * bs[i].Velocity.NormSq()

		for j := i + 1; j < len(bs); j++ {
			distSq := bs[j].Position.Sub(bs[i].Position).NormSq()
			if distSq < cutoff2 {
				continue
			}
			pe -= g.G * bs[i].Mass * bs[j].Mass / math.Sqrt(distSq)
		}
	}

	return ke + pe
}

func Momentum(bs dynamo.Bodies) dynamo.Vec3 {
	var p dynamo.Vec3
	for i := range bs {
		p = p.Add(bs[i].Velocity.Scale(bs[i].Mass))
	}
	return p
}

// AngularMomentum about the origin.
func AngularMomentum(bs dynamo.Bodies) dynamo.Vec3 {
	var l dynamo.Vec3
	for i := range bs {
		l = l.Add(bs[i].Position.Cross(bs[i].Velocity).Scale(bs[i].Mass))
	}
	return l
}

// CircularSpeed is the tangential speed of a circular orbit of radius r
// around a mass m.
func CircularSpeed(g, m, r float64) float64 {
	if r <= 0 || g*m <= 0 {
		return 0
	}
	return math.Sqrt(g * m / r)
}

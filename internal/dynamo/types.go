package dynamo

import (
	"fmt"
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(factor float64) Vec3 {
	return Vec3{v.X * factor, v.Y * factor, v.Z * factor}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) NormSq() float64 { return v.Dot(v) }
func (v Vec3) Norm() float64   { return math.Sqrt(v.Dot(v)) }

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// Body is a single gravitating sphere. Color and TrailColor are for renderers
// only and never affect the simulation.
type Body struct {
	ID         int
	Name       string
	Position   Vec3
	Velocity   Vec3
	Mass       float64
	Radius     float64
	Fixed      bool
	Color      string
	TrailColor string
}

// Validate reports whether b can take part in a simulation.
func (b Body) Validate() error {
	switch {
	case !(b.Mass > 0) || math.IsInf(b.Mass, 0):
		return &BodyError{ID: b.ID, Field: "mass", Value: b.Mass, Wrapped: ErrInvalidBody}
	case !(b.Radius > 0) || math.IsInf(b.Radius, 0):
		return &BodyError{ID: b.ID, Field: "radius", Value: b.Radius, Wrapped: ErrInvalidBody}
	case !b.Position.IsValid():
		return &BodyError{ID: b.ID, Field: "position", Value: math.NaN(), Wrapped: ErrInvalidBody}
	case !b.Velocity.IsValid():
		return &BodyError{ID: b.ID, Field: "velocity", Value: math.NaN(), Wrapped: ErrInvalidBody}
	}
	return nil
}

type Bodies []Body

func (bs Bodies) Clone() Bodies {
	if bs == nil {
		return nil
	}
	c := make(Bodies, len(bs))
	copy(c, bs)
	return c
}

func (bs Bodies) IsValid() bool {
	for i := range bs {
		if !bs[i].Position.IsValid() || !bs[i].Velocity.IsValid() {
			return false
		}
	}
	return true
}

// Anchor returns the index of the first fixed body, or -1.
func (bs Bodies) Anchor() int {
	for i := range bs {
		if bs[i].Fixed {
			return i
		}
	}
	return -1
}

// AnchorPosition is the position of the first fixed body, or the origin.
func (bs Bodies) AnchorPosition() Vec3 {
	if i := bs.Anchor(); i >= 0 {
		return bs[i].Position
	}
	return Vec3{}
}

// Validate checks every body and that ids are unique.
func (bs Bodies) Validate() error {
	if len(bs) == 0 {
		return ErrNoBodies
	}
	seen := make(map[int]struct{}, len(bs))
	for _, b := range bs {
		if err := b.Validate(); err != nil {
			return err
		}
		if _, dup := seen[b.ID]; dup {
			return &BodyError{ID: b.ID, Field: "id", Value: float64(b.ID), Wrapped: ErrDuplicateID}
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

// Params are the user-tunable globals of a scenario.
type Params struct {
	G         float64
	TimeScale float64
	Playing   bool
}

func DefaultParams() Params {
	return Params{
		G:         0.8,
		TimeScale: 1.0,
		Playing:   true,
	}
}

// Package physics provides the gravitational force model.
//
// [Gravity] computes the net Newtonian force on every body of a
// [dynamo.Bodies] array in O(n²), which is plenty for the handful of bodies
// a teaching scenario holds:
//
//	g := physics.NewGravity(0.8)
//	forces := make([]dynamo.Vec3, len(bodies))
//	g.Forces(bodies, forces)
//
// # Softening
//
// Pairs closer than [Gravity.Softening] are skipped instead of being
// evaluated with a smoothed denominator. The force is therefore
// discontinuous at the cutoff.
//
// # Energy Conservation
//
// [Gravity.Energy], [Momentum] and [AngularMomentum] are diagnostics for
// monitoring integrator drift; they never feed back into the simulation.
package physics

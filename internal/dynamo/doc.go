// Package dynamo provides the core data model of the gravity simulation.
//
// The package defines the fundamental types shared by every other package:
//
//   - [Vec3]: 3-component real vector
//   - [Body]: a gravitating sphere, optionally fixed in place
//   - [Bodies]: the ordered body array of one scenario
//   - [Params]: gravitational constant, time scale and play state
//   - [Store]: double-buffered, copy-on-write body store
//
// # Example
//
//	st := dynamo.NewStore(bodies)
//	back := st.Back()
//	stepper.Step(g, back, dt)
//	st.Swap()
//	snap := st.Snapshot()
//
// # Thread Safety
//
// Store instances are NOT thread-safe. There is exactly one writer, the
// per-frame tick. Snapshots handed out are private copies and never change.
package dynamo

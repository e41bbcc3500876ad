// Package viz is the terminal driver for a gravity scenario.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: calls Scenario.Tick once per frame with the real frame delta
//     and renders the returned bodies
//   - [Canvas]: Braille-based pixel canvas with per-cell color
//   - [Camera]: top-down projection of the orbital plane with tilt and zoom
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	↑/↓   - Scale G by 1.1
//	←/→   - Time scale ∓0.25
//	T     - Cycle color themes
//	?     - Show help overlay
//
// Parameter keys are handled between ticks, so a change applies from the
// next tick on.
package viz

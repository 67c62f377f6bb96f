// Package viz renders SIRS runs in the terminal.
//
//   - [Banner] and [Completion]: the run header and footer
//   - [PlotTrajectory]: S, I and R against time as an ASCII chart
//   - [Canvas]: Braille canvas used for the (S, I) phase portrait
//   - [Replay]: an interactive Bubble Tea view that re-runs a simulation
//
// # Replay Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from the initial state
//	Tab   - Select rate parameter
//	Up/K  - Increase selected rate (+5%) and restart
//	Down/J- Decrease selected rate (-5%) and restart
//	[ ]   - Fewer/more steps per frame
//	T     - Cycle color themes
//	Q     - Quit
package viz

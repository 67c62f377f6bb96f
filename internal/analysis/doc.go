// Package analysis characterizes SIRS trajectories.
//
//   - [Equilibrium]: disease-free or endemic fixed point of the model
//   - [Summarize]: peak, final state and per-compartment ranges of a run
//   - [DominantPeriod]: period of the strongest oscillation in a series
//
// # Endemic State
//
// When beta*N exceeds delta the infection persists and the trajectory
// spirals into the endemic equilibrium:
//
//	eq, endemic := analysis.Equilibrium(params, 1.0)
//	if endemic {
//	    fmt.Printf("I* = %.4f\n", eq.I)
//	}
package analysis

// Package dynamo provides core simulation primitives for the SIRS model.
//
// The package defines the fundamental interfaces and types shared by the
// model, the stepper and the integration loop:
//
//   - [State]: the (S, I, R) compartment proportions
//   - [Sample]: a (time, state) record emitted once per step
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Config]: step size, horizon and step bound of a run
//
// # Example
//
//	sys := models.NewSIRS(models.DefaultParams())
//	s := sim.New(sys, integrators.NewEuler())
//	result, _ := s.Run(ctx, models.DefaultState(), dynamo.DefaultConfig())
//
// # Errors
//
// Configuration problems wrap [ErrInvalidConfig]; an unwritable result
// destination wraps [ErrOutputUnavailable]. Use errors.Is to classify.
package dynamo

// Package dynamo is the lattice simulation engine.
//
// A [Simulation] owns a square lattice of unit point masses. Every mass is tied
// to the origin by a spring of constant originStiffness and coupled to its four
// axis-aligned neighbours with constant stiffness:
//
//	a(i,j) = -originStiffness*p(i,j) - stiffness * Σ p(n),  n ∈ in-bounds neighbours
//
// Neighbours that fall off the lattice are skipped, so boundaries are free:
// corner cells see two coupling terms, edge cells three, interior cells four.
//
// # Stepping
//
// [Simulation.Update] recomputes the acceleration field into a scratch grid and
// swaps it in. Without an [Integrator] that is all it does: positions and
// velocities stay put and dt is ignored. With one (see package integrators)
// the step also advances velocity and position.
//
//	s, err := dynamo.Build[float32](16).
//	    Stiffness(0.1).
//	    OriginStiffness(10).
//	    Finish()
//	for i := 0; i < steps; i++ {
//	    s.Update(1e-4)
//	}
//
// # Thread Safety
//
// A Simulation is NOT safe for concurrent use. With [Builder.Workers] > 1 the
// force pass is split across goroutines internally and joined before the
// buffer swap, so callers never observe a partial pass.
package dynamo

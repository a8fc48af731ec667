package dynamo

import (
	"github.com/san-kum/latticesim/internal/grid"
	"github.com/san-kum/latticesim/internal/vector"
)

// Cells is the storage for one per-cell vector field.
type Cells[T vector.Float] = grid.Grid[vector.Vector[T, vector.D2]]

// Field is the view of a simulation an Integrator works on.
type Field[T vector.Float] interface {
	Positions() *Cells[T]
	Velocities() *Cells[T]
	Accelerations() *Cells[T]
	// PreviousAccelerations is the field displaced by the last Recompute.
	PreviousAccelerations() *Cells[T]
	// Recompute refreshes Accelerations from Positions.
	Recompute()
}

// Integrator advances positions and velocities by one step of dt.
type Integrator[T vector.Float] interface {
	Name() string
	Step(f Field[T], dt T)
}

// Observable is what run diagnostics read from a simulation, independent of
// its element type.
type Observable interface {
	Energy() Energy
	MaxDisplacement() float64
	Steps() int
}

// Energy splits the lattice Hamiltonian (unit masses) into its terms.
//
//	Kinetic  = ½ Σ |v|²
//	Origin   = ½ originStiffness Σ |p|²
//	Coupling = stiffness Σ_edges p_a·p_b
//
// The force pass is exactly -∇(Origin+Coupling).
type Energy struct {
	Kinetic  float64
	Origin   float64
	Coupling float64
}

func (e Energy) Potential() float64 { return e.Origin + e.Coupling }
func (e Energy) Total() float64     { return e.Kinetic + e.Origin + e.Coupling }

// Metric accumulates a scalar diagnostic over sampled steps.
type Metric interface {
	Name() string
	Observe(o Observable)
	Value() float64
	Reset()
}

// Observer is notified after each completed step.
type Observer interface {
	OnStep(step, total int)
}

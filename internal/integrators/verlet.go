package integrators

import (
	"github.com/san-kum/latticesim/internal/dynamo"
	"github.com/san-kum/latticesim/internal/vector"
)

// Verlet is velocity Verlet. The acceleration of the old positions is the
// field the double buffer displaces on Recompute, so no extra scratch grid is
// needed.
//
// A Verlet value primes the acceleration field on its first step; set initial
// positions before stepping and use one Verlet per simulation.
type Verlet[T vector.Float] struct {
	primed bool
}

func NewVerlet[T vector.Float]() *Verlet[T] {
	return &Verlet[T]{}
}

func (v *Verlet[T]) Name() string { return "verlet" }

func (v *Verlet[T]) Step(f dynamo.Field[T], dt T) {
	if !v.primed {
		f.Recompute()
		v.primed = true
	}

	pos, vel := f.Positions().Cells(), f.Velocities().Cells()
	acc := f.Accelerations().Cells()
	halfDt2 := dt * dt / 2
	for k := range pos {
		pos[k] = pos[k].Add(vel[k].Scale(dt)).Add(acc[k].Scale(halfDt2))
	}

	f.Recompute()

	prev, acc := f.PreviousAccelerations().Cells(), f.Accelerations().Cells()
	halfDt := dt / 2
	for k := range vel {
		vel[k] = vel[k].Add(prev[k].Add(acc[k]).Scale(halfDt))
	}
}

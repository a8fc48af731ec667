package integrators

import (
	"github.com/san-kum/latticesim/internal/dynamo"
	"github.com/san-kum/latticesim/internal/vector"
)

// Euler is the explicit (forward) Euler method: position and velocity both
// advance from the start-of-step state. It gains energy on oscillators and is
// kept mainly as a baseline.
type Euler[T vector.Float] struct{}

func NewEuler[T vector.Float]() *Euler[T] {
	return &Euler[T]{}
}

func (e *Euler[T]) Name() string { return "euler" }

func (e *Euler[T]) Step(f dynamo.Field[T], dt T) {
	f.Recompute()
	pos, vel, acc := f.Positions().Cells(), f.Velocities().Cells(), f.Accelerations().Cells()
	for k := range pos {
		pos[k] = pos[k].Add(vel[k].Scale(dt))
		vel[k] = vel[k].Add(acc[k].Scale(dt))
	}
}

// SymplecticEuler is semi-implicit Euler: vel += acc*dt, then pos += vel*dt.
type SymplecticEuler[T vector.Float] struct{}

func NewSymplecticEuler[T vector.Float]() *SymplecticEuler[T] {
	return &SymplecticEuler[T]{}
}

func (e *SymplecticEuler[T]) Name() string { return "symplectic_euler" }

func (e *SymplecticEuler[T]) Step(f dynamo.Field[T], dt T) {
	f.Recompute()
	pos, vel, acc := f.Positions().Cells(), f.Velocities().Cells(), f.Accelerations().Cells()
	for k := range pos {
		vel[k] = vel[k].Add(acc[k].Scale(dt))
		pos[k] = pos[k].Add(vel[k].Scale(dt))
	}
}

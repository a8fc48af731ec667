package integrators

import (
	"github.com/san-kum/latticesim/internal/dynamo"
	"github.com/san-kum/latticesim/internal/vector"
)

// RK4 is the classic fourth-order Runge-Kutta method applied to the
// position/velocity pair. It evaluates the force pass four times per step and
// leaves the last stage's field in Accelerations.
type RK4[T vector.Float] struct {
	x0, v0     []vector.Vector[T, vector.D2]
	sumX, sumV []vector.Vector[T, vector.D2]
}

func NewRK4[T vector.Float]() *RK4[T] {
	return &RK4[T]{}
}

func (r *RK4[T]) Name() string { return "rk4" }

func (r *RK4[T]) ensureScratch(n int) {
	if len(r.x0) != n {
		r.x0 = make([]vector.Vector[T, vector.D2], n)
		r.v0 = make([]vector.Vector[T, vector.D2], n)
		r.sumX = make([]vector.Vector[T, vector.D2], n)
		r.sumV = make([]vector.Vector[T, vector.D2], n)
	}
}

func (r *RK4[T]) Step(f dynamo.Field[T], dt T) {
	pos, vel := f.Positions().Cells(), f.Velocities().Cells()
	r.ensureScratch(len(pos))
	copy(r.x0, pos)
	copy(r.v0, vel)

	half := dt / 2
	stages := [4]struct{ weight, advance T }{
		{1, half},
		{2, half},
		{2, dt},
		{1, 0},
	}

	for si, st := range stages {
		// pos and vel hold the stage state; the stage slopes are (vel, acc)
		f.Recompute()
		acc := f.Accelerations().Cells()
		for k := range pos {
			kx, kv := vel[k], acc[k]
			if si == 0 {
				r.sumX[k], r.sumV[k] = kx, kv
			} else {
				r.sumX[k] = r.sumX[k].Add(kx.Scale(st.weight))
				r.sumV[k] = r.sumV[k].Add(kv.Scale(st.weight))
			}
			if si < len(stages)-1 {
				pos[k] = r.x0[k].Add(kx.Scale(st.advance))
				vel[k] = r.v0[k].Add(kv.Scale(st.advance))
			}
		}
	}

	dt6 := dt / 6
	for k := range pos {
		pos[k] = r.x0[k].Add(r.sumX[k].Scale(dt6))
		vel[k] = r.v0[k].Add(r.sumV[k].Scale(dt6))
	}
}

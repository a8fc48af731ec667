package dynamo

import (
	"math"

	"github.com/san-kum/latticesim/internal/grid"
	"github.com/san-kum/latticesim/internal/vector"
)

var stencil = grid.Stencil2()

// State holds the lattice fields and spring constants. All three grids share
// the same size; cell (i, j) in each refers to the same mass.
type State[T vector.Float] struct {
	stiffness       T
	originStiffness T
	pos             *Cells[T]
	vel             *Cells[T]
	acc             *Cells[T]
}

// Simulation owns a State plus the scratch grid the force pass writes into.
type Simulation[T vector.Float] struct {
	state      State[T]
	tmpAcc     *Cells[T]
	integrator Integrator[T]
	workers    int
	steps      int
	rowsFn     func(start, end int)
}

// Builder configures a Simulation. Unset stiffnesses default to 1.
type Builder[T vector.Float] struct {
	size            int
	stiffness       *T
	originStiffness *T
	integrator      Integrator[T]
	workers         int
}

// Build starts configuring a size×size lattice.
func Build[T vector.Float](size int) *Builder[T] {
	return &Builder[T]{size: size}
}

// Stiffness sets the neighbour coupling constant.
func (b *Builder[T]) Stiffness(k T) *Builder[T] {
	b.stiffness = &k
	return b
}

// OriginStiffness sets the constant of the spring pulling every mass to the origin.
func (b *Builder[T]) OriginStiffness(k T) *Builder[T] {
	b.originStiffness = &k
	return b
}

// Integrator makes Update advance velocity and position. Nil keeps the
// acceleration-only step.
func (b *Builder[T]) Integrator(i Integrator[T]) *Builder[T] {
	b.integrator = i
	return b
}

// Workers splits the force pass across n goroutines; n <= 1 runs it serially.
func (b *Builder[T]) Workers(n int) *Builder[T] {
	b.workers = n
	return b
}

// Finish allocates the zeroed lattice. Coefficients are taken as given, so
// zero or negative values are accepted.
func (b *Builder[T]) Finish() (*Simulation[T], error) {
	stiffness, originStiffness := T(1), T(1)
	if b.stiffness != nil {
		stiffness = *b.stiffness
	}
	if b.originStiffness != nil {
		originStiffness = *b.originStiffness
	}

	fields := make([]*Cells[T], 4)
	for i := range fields {
		g, err := grid.New[vector.Vector[T, vector.D2]](b.size)
		if err != nil {
			return nil, err
		}
		fields[i] = g
	}

	s := &Simulation[T]{
		state: State[T]{
			stiffness:       stiffness,
			originStiffness: originStiffness,
			pos:             fields[0],
			vel:             fields[1],
			acc:             fields[2],
		},
		tmpAcc:     fields[3],
		integrator: b.integrator,
		workers:    b.workers,
	}
	s.rowsFn = s.computeRows
	return s, nil
}

// Update advances the simulation one step. Without an integrator it only
// recomputes the acceleration field and dt has no effect.
func (s *Simulation[T]) Update(dt T) {
	if s.integrator == nil {
		s.Recompute()
	} else {
		s.integrator.Step(s, dt)
	}
	s.steps++
}

// Recompute rebuilds the acceleration field from the current positions and
// swaps it in.
func (s *Simulation[T]) Recompute() {
	s.computeAcc()
	s.state.acc, s.tmpAcc = s.tmpAcc, s.state.acc
}

// computeAcc writes the acceleration of every cell into tmpAcc. It only reads
// pos, so rows are independent. The serial path does not allocate.
func (s *Simulation[T]) computeAcc() {
	size := s.state.pos.Size()
	if s.workers <= 1 {
		s.computeRows(0, size)
		return
	}
	ParallelFor(size, s.workers, s.rowsFn)
}

func (s *Simulation[T]) computeRows(start, end int) {
	for i := start; i < end; i++ {
		s.computeRow(i)
	}
}

func (s *Simulation[T]) computeRow(i int) {
	pos := s.state.pos
	size := pos.Size()
	stiffness, originStiffness := s.state.stiffness, s.state.originStiffness
	out := s.tmpAcc.Row(i)

	for j := range out {
		here := vector.Vec2(i, j)

		originAcc := pos.At(i, j).Scale(originStiffness).Neg()
		coupledAcc := vector.Zero[T, vector.D2]()
		for _, pair := range stencil {
			for _, off := range pair {
				n, ok := grid.FilterIndices(size, here.Add(off))
				if !ok {
					continue
				}
				coupledAcc = coupledAcc.Sub(pos.AtCoord(n).Scale(stiffness))
			}
		}

		out[j] = originAcc.Add(coupledAcc)
	}
}

func (s *Simulation[T]) Size() int                 { return s.state.pos.Size() }
func (s *Simulation[T]) Stiffness() T              { return s.state.stiffness }
func (s *Simulation[T]) OriginStiffness() T        { return s.state.originStiffness }
func (s *Simulation[T]) Steps() int                { return s.steps }
func (s *Simulation[T]) Workers() int              { return s.workers }
func (s *Simulation[T]) Integrator() Integrator[T] { return s.integrator }

func (s *Simulation[T]) Positions() *Cells[T]             { return s.state.pos }
func (s *Simulation[T]) Velocities() *Cells[T]            { return s.state.vel }
func (s *Simulation[T]) Accelerations() *Cells[T]         { return s.state.acc }
func (s *Simulation[T]) PreviousAccelerations() *Cells[T] { return s.tmpAcc }

func (s *Simulation[T]) Position(i, j int) vector.Vector[T, vector.D2] {
	return s.state.pos.At(i, j)
}

func (s *Simulation[T]) SetPosition(i, j int, p vector.Vector[T, vector.D2]) {
	s.state.pos.Set(i, j, p)
}

func (s *Simulation[T]) Velocity(i, j int) vector.Vector[T, vector.D2] {
	return s.state.vel.At(i, j)
}

func (s *Simulation[T]) SetVelocity(i, j int, v vector.Vector[T, vector.D2]) {
	s.state.vel.Set(i, j, v)
}

func (s *Simulation[T]) Acceleration(i, j int) vector.Vector[T, vector.D2] {
	return s.state.acc.At(i, j)
}

// Energy evaluates the lattice Hamiltonian. Each coupling edge is counted once
// by only looking at the +1 offset along each axis.
func (s *Simulation[T]) Energy() Energy {
	var e Energy
	pos, vel := s.state.pos, s.state.vel
	size := pos.Size()
	k, k0 := float64(s.state.stiffness), float64(s.state.originStiffness)

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			p := pos.At(i, j)
			e.Kinetic += 0.5 * float64(vel.At(i, j).Norm2())
			e.Origin += 0.5 * k0 * float64(p.Norm2())

			here := vector.Vec2(i, j)
			for _, pair := range stencil {
				n, ok := grid.FilterIndices(size, here.Add(pair[0]))
				if !ok {
					continue
				}
				e.Coupling += k * float64(p.Dot(pos.AtCoord(n)))
			}
		}
	}
	return e
}

// MaxDisplacement is the largest distance of any mass from the origin.
func (s *Simulation[T]) MaxDisplacement() float64 {
	maxDist := 0.0
	for _, p := range s.state.pos.Cells() {
		maxDist = math.Max(maxDist, p.Norm())
	}
	return maxDist
}

// IsValid reports whether every field is free of NaN and Inf.
func (s *Simulation[T]) IsValid() bool {
	for _, g := range []*Cells[T]{s.state.pos, s.state.vel, s.state.acc} {
		for _, v := range g.Cells() {
			for d := 0; d < v.Dims(); d++ {
				x := float64(v.At(d))
				if math.IsNaN(x) || math.IsInf(x, 0) {
					return false
				}
			}
		}
	}
	return true
}

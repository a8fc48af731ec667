package dynamo_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/latticesim/internal/dynamo"
	"github.com/san-kum/latticesim/internal/grid"
	"github.com/san-kum/latticesim/internal/vector"
)

type vec = vector.Vector[float64, vector.D2]

func mustBuild(b *dynamo.Builder[float64]) *dynamo.Simulation[float64] {
	s, err := b.Finish()
	Expect(err).NotTo(HaveOccurred())
	return s
}

func scatter(s *dynamo.Simulation[float64], seed int64) {
	r := rand.New(rand.NewSource(seed))
	for i := 0; i < s.Size(); i++ {
		for j := 0; j < s.Size(); j++ {
			s.SetPosition(i, j, vector.Vec2(r.Float64()*2-1, r.Float64()*2-1))
		}
	}
}

var _ = Describe("Builder", func() {
	It("defaults both stiffnesses to 1 and zeroes every field", func() {
		s := mustBuild(dynamo.Build[float64](4))

		Expect(s.Size()).To(Equal(4))
		Expect(s.Stiffness()).To(Equal(1.0))
		Expect(s.OriginStiffness()).To(Equal(1.0))
		Expect(s.Integrator()).To(BeNil())

		for _, g := range []*dynamo.Cells[float64]{s.Positions(), s.Velocities(), s.Accelerations(), s.PreviousAccelerations()} {
			Expect(g.Size()).To(Equal(4))
			for _, c := range g.Cells() {
				Expect(c).To(Equal(vec{}))
			}
		}
	})

	It("keeps the last value written to each setter", func() {
		s := mustBuild(dynamo.Build[float64](2).
			Stiffness(3).
			Stiffness(0.1).
			OriginStiffness(7).
			OriginStiffness(10))

		Expect(s.Stiffness()).To(Equal(0.1))
		Expect(s.OriginStiffness()).To(Equal(10.0))
	})

	It("accepts zero and negative coefficients", func() {
		s := mustBuild(dynamo.Build[float64](3).Stiffness(0).OriginStiffness(-2))

		Expect(s.Stiffness()).To(BeZero())
		Expect(s.OriginStiffness()).To(Equal(-2.0))
	})

	It("rejects lattices smaller than one cell", func() {
		for _, size := range []int{0, -3} {
			_, err := dynamo.Build[float32](size).Finish()
			Expect(errors.Is(err, dynamo.ErrInvalidSize)).To(BeTrue(), "size %d", size)
		}
	})

	It("builds a single-cell lattice", func() {
		s := mustBuild(dynamo.Build[float64](1).OriginStiffness(2))
		s.SetPosition(0, 0, vector.Vec2(1.0, -1.0))
		s.Update(0.1)

		Expect(s.Acceleration(0, 0)).To(Equal(vector.Vec2(-2.0, 2.0)))
	})
})

var _ = Describe("Force pass", func() {
	It("leaves a lattice at rest with zero acceleration", func() {
		s := mustBuild(dynamo.Build[float64](6).Stiffness(4.2).OriginStiffness(-3))
		s.Update(1e-3)

		for _, a := range s.Accelerations().Cells() {
			Expect(a).To(Equal(vec{}))
		}
	})

	It("only pulls toward the origin when coupling is off", func() {
		s := mustBuild(dynamo.Build[float64](5).Stiffness(0).OriginStiffness(10))
		p := vector.Vec2(0.5, -0.25)
		s.SetPosition(1, 3, p)
		s.Update(1e-4)

		for i := 0; i < 5; i++ {
			for j := 0; j < 5; j++ {
				if i == 1 && j == 3 {
					Expect(s.Acceleration(i, j)).To(Equal(p.Scale(-10)))
					continue
				}
				Expect(s.Acceleration(i, j)).To(Equal(vec{}), "cell (%d,%d)", i, j)
			}
		}
	})

	It("couples a displaced mass to exactly its four neighbours", func() {
		s := mustBuild(dynamo.Build[float64](5).Stiffness(2).OriginStiffness(0))
		p := vector.Vec2(1.0, 3.0)
		s.SetPosition(2, 2, p)
		s.Recompute()

		neighbours := map[[2]int]bool{{1, 2}: true, {3, 2}: true, {2, 1}: true, {2, 3}: true}
		for i := 0; i < 5; i++ {
			for j := 0; j < 5; j++ {
				want := vec{}
				if neighbours[[2]int{i, j}] {
					want = p.Scale(-2)
				}
				Expect(s.Acceleration(i, j)).To(Equal(want), "cell (%d,%d)", i, j)
			}
		}
	})

	DescribeTable("counts coupling terms at the free boundary",
		func(i, j int, terms float64) {
			const n = 6
			s := mustBuild(dynamo.Build[float64](n).Stiffness(1).OriginStiffness(0))
			s.Positions().Fill(vector.Vec2(1.0, 0.0))
			s.Recompute()

			Expect(s.Acceleration(i, j)).To(Equal(vector.Vec2(-terms, 0.0)))
			Expect(grid.Neighbours(n, i, j)).To(Equal(int(terms)))
		},
		Entry("top-left corner", 0, 0, 2.0),
		Entry("top-right corner", 0, 5, 2.0),
		Entry("bottom-left corner", 5, 0, 2.0),
		Entry("bottom-right corner", 5, 5, 2.0),
		Entry("top edge", 0, 3, 3.0),
		Entry("bottom edge", 5, 2, 3.0),
		Entry("left edge", 4, 0, 3.0),
		Entry("right edge", 1, 5, 3.0),
		Entry("interior", 2, 3, 4.0),
	)

	It("combines origin and coupling terms", func() {
		s := mustBuild(dynamo.Build[float64](3).Stiffness(0.5).OriginStiffness(4))
		s.SetPosition(0, 0, vector.Vec2(1.0, 0.0))
		s.SetPosition(0, 1, vector.Vec2(0.0, 2.0))
		s.Recompute()

		Expect(s.Acceleration(0, 0)).To(Equal(vector.Vec2(-4.0, -1.0)))
		Expect(s.Acceleration(0, 1)).To(Equal(vector.Vec2(-0.5, -8.0)))
		Expect(s.Acceleration(1, 1)).To(Equal(vector.Vec2(0.0, -1.0)))
	})

	It("writes the scratch grid and never the live acceleration field", func() {
		s := mustBuild(dynamo.Build[float64](4))
		s.SetPosition(1, 1, vector.Vec2(1.0, 1.0))

		live := s.Accelerations()
		s.ComputeAcc()
		for _, a := range live.Cells() {
			Expect(a).To(Equal(vec{}))
		}
		Expect(s.PreviousAccelerations().At(1, 1)).To(Equal(vector.Vec2(-1.0, -1.0)))
	})

	It("swaps the buffers instead of copying", func() {
		s := mustBuild(dynamo.Build[float64](4))
		live, scratch := s.Accelerations(), s.PreviousAccelerations()

		s.Recompute()
		Expect(s.Accelerations()).To(BeIdenticalTo(scratch))
		Expect(s.PreviousAccelerations()).To(BeIdenticalTo(live))
	})

	It("matches the serial pass when split across workers", func() {
		serial := mustBuild(dynamo.Build[float64](17).Stiffness(0.3).OriginStiffness(2))
		parallel := mustBuild(dynamo.Build[float64](17).Stiffness(0.3).OriginStiffness(2).Workers(4))
		scatter(serial, 7)
		scatter(parallel, 7)

		serial.Update(0.01)
		parallel.Update(0.01)

		Expect(parallel.Workers()).To(Equal(4))
		Expect(parallel.Accelerations().Cells()).To(Equal(serial.Accelerations().Cells()))
	})

	It("is the negative gradient of the potential energy", func() {
		s := mustBuild(dynamo.Build[float64](4).Stiffness(0.7).OriginStiffness(2.3))
		scatter(s, 3)
		s.Recompute()

		const h = 1e-6
		for _, cell := range [][2]int{{0, 0}, {1, 2}, {3, 1}} {
			i, j := cell[0], cell[1]
			p := s.Position(i, j)
			for axis := 0; axis < 2; axis++ {
				s.SetPosition(i, j, p.With(axis, p.At(axis)+h))
				up := s.Energy().Potential()
				s.SetPosition(i, j, p.With(axis, p.At(axis)-h))
				down := s.Energy().Potential()
				s.SetPosition(i, j, p)

				grad := (up - down) / (2 * h)
				Expect(-grad).To(BeNumerically("~", s.Acceleration(i, j).At(axis), 1e-6))
			}
		}
	})
})

var _ = Describe("Update without an integrator", func() {
	It("recomputes acceleration and leaves positions and velocities alone", func() {
		s := mustBuild(dynamo.Build[float64](5).Stiffness(0.1).OriginStiffness(10))
		scatter(s, 11)
		s.SetVelocity(2, 2, vector.Vec2(3.0, 3.0))
		before := s.Positions().Clone()

		s.Update(1.0)
		first := s.Accelerations().Clone()
		s.Update(1e-4)

		Expect(s.Positions().Cells()).To(Equal(before.Cells()))
		Expect(s.Velocity(2, 2)).To(Equal(vector.Vec2(3.0, 3.0)))
		Expect(s.Accelerations().Cells()).To(Equal(first.Cells()))
		Expect(s.Steps()).To(Equal(2))
	})
})

type countingIntegrator struct {
	calls int
	dt    float64
}

func (c *countingIntegrator) Name() string { return "counting" }
func (c *countingIntegrator) Step(f dynamo.Field[float64], dt float64) {
	c.calls++
	c.dt = dt
	f.Recompute()
}

var _ = Describe("Update with an integrator", func() {
	It("delegates the step and still counts it", func() {
		integ := &countingIntegrator{}
		s := mustBuild(dynamo.Build[float64](3).Integrator(integ))

		s.Update(0.25)
		s.Update(0.25)

		Expect(integ.calls).To(Equal(2))
		Expect(integ.dt).To(Equal(0.25))
		Expect(s.Steps()).To(Equal(2))
		Expect(s.Integrator()).To(BeIdenticalTo(integ))
	})
})

var _ = Describe("Energy", func() {
	It("splits into kinetic, origin and coupling terms", func() {
		s := mustBuild(dynamo.Build[float64](3).Stiffness(0.5).OriginStiffness(4))
		s.SetPosition(0, 0, vector.Vec2(1.0, 2.0))
		s.SetPosition(0, 1, vector.Vec2(3.0, -1.0))
		s.SetPosition(2, 2, vector.Vec2(1.0, 0.0))
		s.SetVelocity(1, 1, vector.Vec2(2.0, 0.0))

		e := s.Energy()
		Expect(e.Kinetic).To(Equal(2.0))
		Expect(e.Origin).To(Equal(0.5 * 4 * (5 + 10 + 1)))
		// only (0,0)-(0,1) are coupled: 0.5 * (1*3 + 2*-1)
		Expect(e.Coupling).To(Equal(0.5))
		Expect(e.Potential()).To(Equal(e.Origin + e.Coupling))
		Expect(e.Total()).To(Equal(e.Kinetic + e.Potential()))
	})

	It("reports the largest displacement", func() {
		s := mustBuild(dynamo.Build[float64](3))
		s.SetPosition(1, 2, vector.Vec2(3.0, 4.0))
		s.SetPosition(0, 0, vector.Vec2(1.0, 1.0))

		Expect(s.MaxDisplacement()).To(Equal(5.0))
	})
})

var _ = Describe("IsValid", func() {
	It("flags NaN and Inf in any field", func() {
		s := mustBuild(dynamo.Build[float64](2))
		Expect(s.IsValid()).To(BeTrue())

		s.SetVelocity(1, 0, vector.Vec2(math.NaN(), 0))
		Expect(s.IsValid()).To(BeFalse())

		s.SetVelocity(1, 0, vec{})
		s.SetPosition(0, 1, vector.Vec2(0, math.Inf(-1)))
		Expect(s.IsValid()).To(BeFalse())
	})
})

var _ = Describe("SimulationError", func() {
	It("formats the step and unwraps the cause", func() {
		err := &dynamo.SimulationError{Step: 150, Time: 1.5, Wrapped: dynamo.ErrInvalidState}

		Expect(err.Error()).To(Equal("step 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"))
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
	})
})

var _ = Describe("ParallelFor", func() {
	DescribeTable("visits every index exactly once",
		func(n, workers int) {
			hits := make([]int, n)
			dynamo.ParallelFor(n, workers, func(start, end int) {
				for i := start; i < end; i++ {
					hits[i]++
				}
			})
			for i, h := range hits {
				Expect(h).To(Equal(1), "index %d", i)
			}
		},
		Entry("serial", 10, 1),
		Entry("even split", 12, 4),
		Entry("uneven split", 13, 4),
		Entry("more workers than items", 3, 8),
		Entry("empty range", 0, 4),
	)
})

var _ = Describe("Allocation", func() {
	DescribeTable("a serial Update allocates nothing",
		func(workers int) {
			s, err := dynamo.Build[float32](16).
				Stiffness(0.1).
				OriginStiffness(10).
				Workers(workers).
				Finish()
			Expect(err).NotTo(HaveOccurred())
			s.SetPosition(3, 4, vector.Vec2[float32](1, -1))

			allocs := testing.AllocsPerRun(1000, func() { s.Update(1e-4) })
			Expect(allocs).To(BeZero())
		},
		Entry("default workers", 0),
		Entry("one worker", 1),
	)
})

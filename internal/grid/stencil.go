package grid

import (
	"slices"

	"github.com/san-kum/latticesim/internal/vector"
)

// Offsets holds the +1 and -1 unit offsets along one axis.
type Offsets[D vector.Dim] [2]vector.Vector[int, D]

// NewStencil returns the von Neumann stencil: one Offsets pair per axis.
func NewStencil[D vector.Dim]() []Offsets[D] {
	n := vector.Zero[int, D]().Dims()
	s := make([]Offsets[D], n)
	for i := 0; i < n; i++ {
		up := vector.Zero[int, D]().With(i, 1)
		s[i] = Offsets[D]{up, up.Neg()}
	}
	return s
}

var stencil2 = NewStencil[vector.D2]()

// Stencil2 returns the 2-D stencil. The result is a copy.
func Stencil2() []Offsets[vector.D2] {
	return slices.Clone(stencil2)
}

// Neighbours counts the in-bounds stencil neighbours of cell (i, j).
func Neighbours(size, i, j int) int {
	here := vector.Vec2(i, j)
	n := 0
	for _, pair := range stencil2 {
		for _, off := range pair {
			if _, ok := FilterIndices(size, here.Add(off)); ok {
				n++
			}
		}
	}
	return n
}

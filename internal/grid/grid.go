package grid

import (
	"fmt"

	"github.com/san-kum/latticesim/internal/vector"
)

// Grid is a size×size lattice of cells stored contiguously in row-major
// order, so cell (i, j) lives at i*size+j.
type Grid[E any] struct {
	size  int
	cells []E
}

// New allocates a zero-filled grid.
func New[E any](size int) (*Grid[E], error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &Grid[E]{size: size, cells: make([]E, size*size)}, nil
}

func (g *Grid[E]) Size() int { return g.size }
func (g *Grid[E]) Len() int  { return len(g.cells) }

func (g *Grid[E]) At(i, j int) E     { return g.cells[i*g.size+j] }
func (g *Grid[E]) Set(i, j int, v E) { g.cells[i*g.size+j] = v }
func (g *Grid[E]) Row(i int) []E     { return g.cells[i*g.size : (i+1)*g.size] }
func (g *Grid[E]) Cells() []E        { return g.cells }
func (g *Grid[E]) AtFlat(k int) E    { return g.cells[k] }

// AtCoord reads the cell at a coordinate already validated by FilterIndices.
func (g *Grid[E]) AtCoord(c vector.Vector[uint, vector.D2]) E {
	return g.cells[int(c.At(0))*g.size+int(c.At(1))]
}

func (g *Grid[E]) Fill(v E) {
	for k := range g.cells {
		g.cells[k] = v
	}
}

// CopyFrom copies every cell of src into g. Both grids must share a size.
func (g *Grid[E]) CopyFrom(src *Grid[E]) error {
	if src.size != g.size {
		return fmt.Errorf("grid: copy from size %d into size %d", src.size, g.size)
	}
	copy(g.cells, src.cells)
	return nil
}

func (g *Grid[E]) Clone() *Grid[E] {
	c := &Grid[E]{size: g.size, cells: make([]E, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/latticesim/internal/vector"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		size   int
		coords vector.Vector[int, vector.D2]
		want   int
		ok     bool
	}{
		{100, vector.Vec2(2, 10), 210, true},
		{10, vector.Vec2(2, 10), 0, false},
		{10, vector.Vec2(10, 2), 0, false},
		{10, vector.Vec2(9, 9), 99, true},
		{10, vector.Vec2(0, 0), 0, true},
		{10, vector.Vec2(-1, 2), 0, false},
		{10, vector.Vec2(2, -1), 0, false},
		{10, vector.Vec2(-1, -1), 0, false},
	}

	for _, tt := range tests {
		got, ok := Index(tt.size, tt.coords)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Index(%d, %v) = (%d, %v), want (%d, %v)", tt.size, tt.coords, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIndex3D(t *testing.T) {
	tests := []struct {
		size   int
		coords vector.Vector[int, vector.D3]
		want   int
		ok     bool
	}{
		{100, vector.New[vector.D3](2, 10, 5), 21005, true},
		{10, vector.New[vector.D3](2, 10, 2), 0, false},
		{10, vector.New[vector.D3](10, 2, 2), 0, false},
		{10, vector.New[vector.D3](9, 9, 9), 999, true},
		{10, vector.New[vector.D3](0, 0, 0), 0, true},
		{10, vector.New[vector.D3](-1, 2, 2), 0, false},
		{10, vector.New[vector.D3](2, -1, 2), 0, false},
		{10, vector.New[vector.D3](-1, 2, -1), 0, false},
	}

	for _, tt := range tests {
		got, ok := Index(tt.size, tt.coords)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Index(%d, %v) = (%d, %v), want (%d, %v)", tt.size, tt.coords, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDeindex(t *testing.T) {
	if got, ok := Deindex[vector.D2](100, 210); !ok || got != vector.Vec2(2, 10) {
		t.Errorf("Deindex(100, 210) = (%v, %v), want [2 10]", got, ok)
	}
	if got, ok := Deindex[vector.D2](10, 99); !ok || got != vector.Vec2(9, 9) {
		t.Errorf("Deindex(10, 99) = (%v, %v), want [9 9]", got, ok)
	}
	if got, ok := Deindex[vector.D2](10, 0); !ok || got != vector.Vec2(0, 0) {
		t.Errorf("Deindex(10, 0) = (%v, %v), want [0 0]", got, ok)
	}
	if got, ok := Deindex[vector.D3](5, 99); !ok || got != vector.New[vector.D3](3, 4, 4) {
		t.Errorf("Deindex(5, 99) = (%v, %v), want [3 4 4]", got, ok)
	}

	if _, ok := Deindex[vector.D2](100, 10000); ok {
		t.Error("Deindex accepted 2d index past end")
	}
	if _, ok := Deindex[vector.D2](100, -1); ok {
		t.Error("Deindex accepted negative 2d index")
	}
	if _, ok := Deindex[vector.D3](100, 1000000); ok {
		t.Error("Deindex accepted 3d index past end")
	}
	if _, ok := Deindex[vector.D3](100, -1); ok {
		t.Error("Deindex accepted negative 3d index")
	}
}

func TestIndexDeindexInverse(t *testing.T) {
	for _, size := range []int{1, 2, 3, 7, 16} {
		for k := 0; k < size*size; k++ {
			c, ok := Deindex[vector.D2](size, k)
			if !ok {
				t.Fatalf("size %d: Deindex(%d) rejected", size, k)
			}
			back, ok := Index(size, c)
			if !ok || back != k {
				t.Errorf("size %d: Index(Deindex(%d)) = (%d, %v)", size, k, back, ok)
			}
		}

		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				c := vector.Vec2(i, j)
				k, ok := Index(size, c)
				if !ok || k < 0 || k >= size*size {
					t.Fatalf("size %d: Index(%v) = (%d, %v)", size, c, k, ok)
				}
				back, ok := Deindex[vector.D2](size, k)
				if !ok || back != c {
					t.Errorf("size %d: Deindex(Index(%v)) = (%v, %v)", size, c, back, ok)
				}
			}
		}
	}

	for k := 0; k < 4*4*4; k++ {
		c, _ := Deindex[vector.D3](4, k)
		if back, ok := Index(4, c); !ok || back != k {
			t.Errorf("3d: Index(Deindex(%d)) = (%d, %v)", k, back, ok)
		}
	}
}

func TestFilterIndices(t *testing.T) {
	got, ok := FilterIndices(4, vector.Vec2(3, 0))
	if !ok || got != vector.Vec2[uint](3, 0) {
		t.Errorf("FilterIndices(4, [3 0]) = (%v, %v)", got, ok)
	}
	if _, ok := FilterIndices(4, vector.Vec2(4, 0)); ok {
		t.Error("FilterIndices accepted coordinate equal to size")
	}
	if _, ok := FilterIndices(4, vector.Vec2(0, -1)); ok {
		t.Error("FilterIndices accepted negative coordinate")
	}
}

func TestStencil(t *testing.T) {
	s := Stencil2()
	if len(s) != 2 {
		t.Fatalf("expected 2 axes, got %d", len(s))
	}

	want := []Offsets[vector.D2]{
		{vector.Vec2(1, 0), vector.Vec2(-1, 0)},
		{vector.Vec2(0, 1), vector.Vec2(0, -1)},
	}
	for axis := range want {
		if s[axis] != want[axis] {
			t.Errorf("axis %d: got %v, want %v", axis, s[axis], want[axis])
		}
	}

	s[0][0] = vector.Vec2(5, 5)
	if Stencil2()[0][0] != vector.Vec2(1, 0) {
		t.Error("Stencil2 result aliases the package stencil")
	}

	s3 := NewStencil[vector.D3]()
	if len(s3) != 3 || s3[2][1] != vector.New[vector.D3](0, 0, -1) {
		t.Errorf("3d stencil = %v", s3)
	}
}

func TestNeighbours(t *testing.T) {
	const n = 5
	tests := []struct {
		name string
		i, j int
		want int
	}{
		{"top-left corner", 0, 0, 2},
		{"bottom-right corner", n - 1, n - 1, 2},
		{"top edge", 0, 2, 3},
		{"left edge", 3, 0, 3},
		{"interior", 2, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Neighbours(n, tt.i, tt.j); got != tt.want {
				t.Errorf("Neighbours(%d, %d) = %d, want %d", tt.i, tt.j, got, tt.want)
			}
		})
	}

	if got := Neighbours(1, 0, 0); got != 0 {
		t.Errorf("single cell lattice has %d neighbours, want 0", got)
	}
}

func TestGrid(t *testing.T) {
	if _, err := New[int](0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("New(0) error = %v, want ErrInvalidSize", err)
	}

	g, err := New[vector.Vector[float64, vector.D2]](3)
	if err != nil {
		t.Fatalf("New(3): %v", err)
	}
	if g.Size() != 3 || g.Len() != 9 {
		t.Errorf("Size/Len = %d/%d", g.Size(), g.Len())
	}

	g.Set(1, 2, vector.Vec2(1.0, -1.0))
	k, _ := Index(3, vector.Vec2(1, 2))
	if g.AtFlat(k) != vector.Vec2(1.0, -1.0) {
		t.Error("Set does not follow row-major layout")
	}
	if g.AtCoord(vector.Vec2[uint](1, 2)) != g.At(1, 2) {
		t.Error("AtCoord disagrees with At")
	}
	if row := g.Row(1); len(row) != 3 || row[2] != g.At(1, 2) {
		t.Errorf("Row(1) = %v", row)
	}

	c := g.Clone()
	g.Fill(vector.Vec2(7.0, 7.0))
	if c.At(1, 2) != vector.Vec2(1.0, -1.0) {
		t.Error("Clone shares storage")
	}
	if err := c.CopyFrom(g); err != nil || c.At(0, 0) != vector.Vec2(7.0, 7.0) {
		t.Errorf("CopyFrom: %v", err)
	}

	other, _ := New[vector.Vector[float64, vector.D2]](2)
	if err := c.CopyFrom(other); err == nil {
		t.Error("CopyFrom accepted mismatched size")
	}
}

func TestDeindexHugeLattice(t *testing.T) {
	// size^4 = 2^80 does not fit in an int
	size := 1 << 20
	got, ok := Deindex[vector.D4](size, 5)
	if !ok {
		t.Fatalf("Deindex(%d, 5) rejected a valid index", size)
	}
	if want := vector.New[vector.D4](0, 0, 0, 5); got != want {
		t.Errorf("Deindex(%d, 5) = %v, want %v", size, got, want)
	}
}

func TestPowSaturates(t *testing.T) {
	tests := []struct {
		base, exp, want int
	}{
		{3, 4, 81},
		{7, 0, 1},
		{1 << 20, 3, 1 << 60},
		{1 << 20, 4, math.MaxInt},
		{1 << 32, 2, math.MaxInt},
	}
	for _, tt := range tests {
		if got := pow(tt.base, tt.exp); got != tt.want {
			t.Errorf("pow(%d, %d) = %d, want %d", tt.base, tt.exp, got, tt.want)
		}
	}
}

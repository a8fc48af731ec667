// Package vector provides a fixed-dimension numeric tuple used for physical
// quantities (positions, velocities, accelerations) and for integer lattice
// coordinates.
//
// The dimension is part of the type: [Vector] is parameterized by a [Dim]
// marker such as [D2], so combining a 2-D and a 3-D vector does not compile.
// Vectors are plain values backed by an array and no operation allocates.
//
//	p := vector.Vec2(1.0, 2.0)
//	q := p.Scale(-0.5).Add(vector.Broadcast[vector.D2](1.0))
package vector

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// MaxDims is the largest supported dimension.
const MaxDims = 4

// Number is the element constraint for vectors.
type Number interface {
	constraints.Integer | constraints.Float
}

// Float is the element constraint for physical quantities.
type Float interface {
	constraints.Float
}

// Dim is a type-level dimension count.
type Dim interface {
	Dims() int
}

type (
	D1 struct{}
	D2 struct{}
	D3 struct{}
	D4 struct{}
)

func (D1) Dims() int { return 1 }
func (D2) Dims() int { return 2 }
func (D3) Dims() int { return 3 }
func (D4) Dims() int { return 4 }

func dims[D Dim]() int {
	var d D
	return d.Dims()
}

// Vector is an ordered tuple of D.Dims() elements of type T.
// Slots beyond the dimension are always zero, so == compares vectors.
type Vector[T Number, D Dim] struct {
	e [MaxDims]T
}

// Zero returns the all-zero vector.
func Zero[T Number, D Dim]() Vector[T, D] {
	return Vector[T, D]{}
}

// Broadcast returns a vector with every element set to x.
func Broadcast[D Dim, T Number](x T) Vector[T, D] {
	var v Vector[T, D]
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] = x
	}
	return v
}

// FromIdx builds a vector by calling f with each axis index.
func FromIdx[D Dim, T Number](f func(i int) T) Vector[T, D] {
	var v Vector[T, D]
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] = f(i)
	}
	return v
}

// New builds a vector from exactly D.Dims() elements. It panics on a length
// mismatch.
func New[D Dim, T Number](elems ...T) Vector[T, D] {
	n := dims[D]()
	if len(elems) != n {
		panic(fmt.Sprintf("vector: New got %d elements for dimension %d", len(elems), n))
	}
	var v Vector[T, D]
	copy(v.e[:n], elems)
	return v
}

// Vec2 builds a 2-D vector.
func Vec2[T Number](x, y T) Vector[T, D2] {
	return Vector[T, D2]{e: [MaxDims]T{x, y}}
}

// Dims returns the vector's dimension.
func (v Vector[T, D]) Dims() int { return dims[D]() }

// At returns element i.
func (v Vector[T, D]) At(i int) T {
	v.check(i)
	return v.e[i]
}

// With returns a copy of v with element i replaced by x.
func (v Vector[T, D]) With(i int, x T) Vector[T, D] {
	v.check(i)
	v.e[i] = x
	return v
}

func (v Vector[T, D]) check(i int) {
	if i < 0 || i >= dims[D]() {
		panic(fmt.Sprintf("vector: index %d out of range for dimension %d", i, dims[D]()))
	}
}

// Elems returns the elements as a new slice.
func (v Vector[T, D]) Elems() []T {
	out := make([]T, dims[D]())
	copy(out, v.e[:])
	return out
}

func (v Vector[T, D]) String() string {
	return fmt.Sprint(v.e[:dims[D]()])
}

func (v Vector[T, D]) Add(o Vector[T, D]) Vector[T, D] {
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] += o.e[i]
	}
	return v
}

func (v Vector[T, D]) Sub(o Vector[T, D]) Vector[T, D] {
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] -= o.e[i]
	}
	return v
}

// Mul multiplies elementwise.
func (v Vector[T, D]) Mul(o Vector[T, D]) Vector[T, D] {
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] *= o.e[i]
	}
	return v
}

// Div divides elementwise. Integer vectors truncate toward zero.
func (v Vector[T, D]) Div(o Vector[T, D]) Vector[T, D] {
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] /= o.e[i]
	}
	return v
}

func (v Vector[T, D]) Neg() Vector[T, D] {
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] = -v.e[i]
	}
	return v
}

// Scale multiplies every element by s.
func (v Vector[T, D]) Scale(s T) Vector[T, D] {
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] *= s
	}
	return v
}

func (v Vector[T, D]) AddScalar(s T) Vector[T, D] {
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] += s
	}
	return v
}

// Apply maps f over the elements.
func (v Vector[T, D]) Apply(f func(T) T) Vector[T, D] {
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] = f(v.e[i])
	}
	return v
}

// Sum reduces left to right starting from 0.
func (v Vector[T, D]) Sum() T {
	var s T
	for i, n := 0, dims[D](); i < n; i++ {
		s += v.e[i]
	}
	return s
}

// Product reduces left to right starting from 1.
func (v Vector[T, D]) Product() T {
	p := T(1)
	for i, n := 0, dims[D](); i < n; i++ {
		p *= v.e[i]
	}
	return p
}

func (v Vector[T, D]) Dot(o Vector[T, D]) T {
	return v.Mul(o).Sum()
}

// Norm2 is the squared Euclidean norm.
func (v Vector[T, D]) Norm2() T {
	return v.Dot(v)
}

func (v Vector[T, D]) Norm() float64 {
	return math.Sqrt(float64(v.Norm2()))
}

// Map applies f to each element, possibly changing the element type.
func Map[T, U Number, D Dim](v Vector[T, D], f func(T) U) Vector[U, D] {
	var out Vector[U, D]
	for i, n := 0, dims[D](); i < n; i++ {
		out.e[i] = f(v.e[i])
	}
	return out
}

// Cast converts every element to U.
func Cast[U, T Number, D Dim](v Vector[T, D]) Vector[U, D] {
	return Map(v, func(x T) U { return U(x) })
}

// Mod is the elementwise remainder of integer vectors.
func Mod[T constraints.Integer, D Dim](v, o Vector[T, D]) Vector[T, D] {
	for i, n := 0, dims[D](); i < n; i++ {
		v.e[i] %= o.e[i]
	}
	return v
}

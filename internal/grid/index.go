// Package grid provides the lattice side of the simulation: conversion between
// integer coordinates and flat row-major indices, the nearest-neighbour stencil,
// and contiguous square storage.
//
// Coordinate lookups never fail loudly. Out-of-range input yields ok == false,
// which is how the force pass implements free boundaries.
package grid

import (
	"errors"
	"math"

	"github.com/san-kum/latticesim/internal/vector"
)

// ErrInvalidSize indicates a lattice side length below 1.
var ErrInvalidSize = errors.New("grid: size must be at least 1")

// strides returns size^(D-1-i) for each axis i.
func strides[D vector.Dim](size int) vector.Vector[int, D] {
	return vector.FromIdx[D](func(i int) int {
		return pow(size, vector.Zero[int, D]().Dims()-1-i)
	})
}

// pow saturates at math.MaxInt instead of wrapping, so a lattice whose cell
// count exceeds int still accepts every non-negative int index.
func pow(base, exp int) int {
	r := 1
	for ; exp > 0; exp-- {
		if base > 0 && r > math.MaxInt/base {
			return math.MaxInt
		}
		r *= base
	}
	return r
}

// FilterIndices checks that every coordinate lies in [0, size) and returns the
// coordinates cast to unsigned.
func FilterIndices[D vector.Dim](size int, c vector.Vector[int, D]) (vector.Vector[uint, D], bool) {
	inRange := vector.Where(c, func(x int) bool { return x >= 0 && x < size })
	if !inRange.All() {
		return vector.Vector[uint, D]{}, false
	}
	return vector.Cast[uint](c), true
}

// Index converts a coordinate to its row-major flat index, last axis fastest.
func Index[D vector.Dim](size int, c vector.Vector[int, D]) (int, bool) {
	u, ok := FilterIndices(size, c)
	if !ok {
		return 0, false
	}
	return int(u.Mul(vector.Cast[uint](strides[D](size))).Sum()), true
}

// Deindex is the inverse of Index.
func Deindex[D vector.Dim](size, k int) (vector.Vector[int, D], bool) {
	n := vector.Zero[int, D]().Dims()
	if size < 1 || k < 0 || k >= pow(size, n) {
		return vector.Vector[int, D]{}, false
	}
	q := vector.Broadcast[D](k).Div(strides[D](size))
	return vector.Mod(q, vector.Broadcast[D](size)), true
}

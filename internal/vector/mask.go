package vector

// Mask is a vector of booleans, the result of an elementwise predicate.
type Mask[D Dim] struct {
	e [MaxDims]bool
}

// Where evaluates pred on every element of v.
func Where[T Number, D Dim](v Vector[T, D], pred func(T) bool) Mask[D] {
	var m Mask[D]
	for i, n := 0, dims[D](); i < n; i++ {
		m.e[i] = pred(v.e[i])
	}
	return m
}

// All reports whether every element is true.
func (m Mask[D]) All() bool {
	for i, n := 0, dims[D](); i < n; i++ {
		if !m.e[i] {
			return false
		}
	}
	return true
}

func (m Mask[D]) Any() bool {
	for i, n := 0, dims[D](); i < n; i++ {
		if m.e[i] {
			return true
		}
	}
	return false
}

func (m Mask[D]) At(i int) bool {
	if i < 0 || i >= dims[D]() {
		panic("vector: mask index out of range")
	}
	return m.e[i]
}

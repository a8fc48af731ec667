package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/latticesim/internal/dynamo"
	"github.com/san-kum/latticesim/internal/vector"
)

// None selects the acceleration-only step.
const None = "none"

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

var names = []string{None, "euler", "symplectic_euler", "verlet", "rk4"}

// Names lists the accepted integrator names, sorted.
func Names() []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// New returns a fresh integrator by name. None and "" yield a nil integrator,
// which leaves Update in acceleration-only mode.
func New[T vector.Float](name string) (dynamo.Integrator[T], error) {
	switch name {
	case None, "":
		return nil, nil
	case "euler":
		return NewEuler[T](), nil
	case "symplectic_euler":
		return NewSymplecticEuler[T](), nil
	case "verlet":
		return NewVerlet[T](), nil
	case "rk4":
		return NewRK4[T](), nil
	}
	return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownIntegrator, name, Names())
}

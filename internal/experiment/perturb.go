package experiment

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/latticesim/internal/config"
	"github.com/san-kum/latticesim/internal/dynamo"
	"github.com/san-kum/latticesim/internal/vector"
)

// Perturb sets the initial positions described by p. Cells it does not touch
// keep their current position.
func Perturb[T vector.Float](s *dynamo.Simulation[T], p config.PerturbationConfig) error {
	size := s.Size()

	switch p.Kind {
	case "", "none":
	case "point":
		if p.Row < 0 || p.Row >= size || p.Col < 0 || p.Col >= size {
			return fmt.Errorf("%w: point (%d, %d) outside lattice", config.ErrInvalidConfig, p.Row, p.Col)
		}
		s.SetPosition(p.Row, p.Col, vector.Vec2(T(p.X), T(p.Y)))
	case "gaussian":
		if !(p.Width > 0) {
			return fmt.Errorf("%w: gaussian width %g", config.ErrInvalidConfig, p.Width)
		}
		denom := 2 * p.Width * p.Width
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				di, dj := float64(i-p.Row), float64(j-p.Col)
				w := math.Exp(-(di*di + dj*dj) / denom)
				s.SetPosition(i, j, vector.Vec2(T(p.X*w), T(p.Y*w)))
			}
		}
	case "random":
		rng := rand.New(rand.NewSource(p.Seed))
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				x := (2*rng.Float64() - 1) * p.Amplitude
				y := (2*rng.Float64() - 1) * p.Amplitude
				s.SetPosition(i, j, vector.Vec2(T(x), T(y)))
			}
		}
	default:
		return fmt.Errorf("%w: perturbation kind %q", config.ErrInvalidConfig, p.Kind)
	}
	return nil
}

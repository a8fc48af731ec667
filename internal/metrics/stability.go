package metrics

import (
	"math"

	"github.com/san-kum/latticesim/internal/dynamo"
)

// Stability is the fraction of samples in which no mass strayed further than
// threshold from the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(o dynamo.Observable) {
	s.samples++
	if d := o.MaxDisplacement(); d > s.threshold || math.IsNaN(d) {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

type PeakDisplacement struct {
	name string
	peak float64
}

func NewPeakDisplacement() *PeakDisplacement {
	return &PeakDisplacement{name: "peak_displacement"}
}

func (p *PeakDisplacement) Name() string { return p.name }

func (p *PeakDisplacement) Observe(o dynamo.Observable) {
	p.peak = math.Max(p.peak, o.MaxDisplacement())
}

func (p *PeakDisplacement) Value() float64 { return p.peak }
func (p *PeakDisplacement) Reset()         { p.peak = 0 }

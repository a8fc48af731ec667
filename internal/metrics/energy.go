package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/latticesim/internal/dynamo"
)

// MeanEnergy averages the total lattice energy over the sampled steps.
type MeanEnergy struct {
	name    string
	samples []float64
}

func NewMeanEnergy() *MeanEnergy {
	return &MeanEnergy{name: "mean_energy"}
}

func (e *MeanEnergy) Name() string { return e.name }

func (e *MeanEnergy) Observe(o dynamo.Observable) {
	e.samples = append(e.samples, o.Energy().Total())
}

func (e *MeanEnergy) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return floats.Sum(e.samples) / float64(len(e.samples))
}

func (e *MeanEnergy) Reset() {
	e.samples = e.samples[:0]
}

// EnergyDrift is the largest relative deviation of the total energy from the
// first sample. It stays 0 while the first sample's energy is 0.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(o dynamo.Observable) {
	energy := o.Energy().Total()

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// History keeps every sampled total and kinetic energy in order. Value
// reports the last total.
type History struct {
	name    string
	energy  []float64
	kinetic []float64
}

func NewHistory() *History {
	return &History{name: "energy"}
}

func (h *History) Name() string { return h.name }

func (h *History) Observe(o dynamo.Observable) {
	e := o.Energy()
	h.energy = append(h.energy, e.Total())
	h.kinetic = append(h.kinetic, e.Kinetic)
}

func (h *History) Value() float64 {
	if len(h.energy) == 0 {
		return 0
	}
	return h.energy[len(h.energy)-1]
}

// Series returns a copy of the recorded totals.
func (h *History) Series() []float64 {
	return append([]float64(nil), h.energy...)
}

// Kinetic returns a copy of the recorded kinetic energies.
func (h *History) Kinetic() []float64 {
	return append([]float64(nil), h.kinetic...)
}

func (h *History) Reset() {
	h.energy = h.energy[:0]
	h.kinetic = h.kinetic[:0]
}

package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/latticesim/internal/analysis"
	"github.com/san-kum/latticesim/internal/config"
	"github.com/san-kum/latticesim/internal/dynamo"
	"github.com/san-kum/latticesim/internal/integrators"
	"github.com/san-kum/latticesim/internal/metrics"
	"github.com/san-kum/latticesim/internal/vector"
)

type Result struct {
	Steps   int
	Elapsed time.Duration
	Metrics map[string]float64
	// Energy is the total energy at every sample, when a History metric is attached.
	Energy  []float64
	Kinetic []float64
	Final   dynamo.Energy
}

// StepsPerSecond is the throughput of the run so far.
func (r *Result) StepsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Steps) / r.Elapsed.Seconds()
}

// ModeFrequency estimates the frequency of the dominant normal mode from the
// kinetic energy samples taken every sampleEvery steps of size dt. It returns
// 0 when there are too few regular samples.
func (r *Result) ModeFrequency(sampleEvery int, dt float64) float64 {
	if sampleEvery <= 0 {
		return 0
	}
	regular := min(len(r.Kinetic), 1+r.Steps/sampleEvery)
	return analysis.DominantFrequency(r.Kinetic[:regular], float64(sampleEvery)*dt) / 2
}

// Setup validates cfg and returns a perturbed lattice ready to run.
func Setup[T vector.Float](cfg *config.Config) (*dynamo.Simulation[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	integ, err := integrators.New[T](cfg.Integrator)
	if err != nil {
		return nil, err
	}

	s, err := dynamo.Build[T](cfg.Size).
		Stiffness(T(cfg.Stiffness)).
		OriginStiffness(T(cfg.OriginStiffness)).
		Integrator(integ).
		Workers(cfg.Workers).
		Finish()
	if err != nil {
		return nil, err
	}

	if err := Perturb(s, cfg.Perturbation); err != nil {
		return nil, err
	}
	return s, nil
}

type Runner[T vector.Float] struct {
	sim       *dynamo.Simulation[T]
	metrics   []dynamo.Metric
	observers []dynamo.Observer

	// SampleEvery is the metric sampling period in steps. Zero samples only
	// the initial and final state.
	SampleEvery int
	// ValidateState checks for NaN and Inf at every sample.
	ValidateState bool
}

func NewRunner[T vector.Float](s *dynamo.Simulation[T]) *Runner[T] {
	return &Runner[T]{sim: s}
}

// NewRunnerFromConfig applies the sampling settings of cfg.
func NewRunnerFromConfig[T vector.Float](s *dynamo.Simulation[T], cfg *config.Config) *Runner[T] {
	r := NewRunner(s)
	r.SampleEvery = cfg.SampleEvery
	r.ValidateState = cfg.ValidateState
	return r
}

func (r *Runner[T]) AddMetric(m dynamo.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner[T]) AddObserver(o dynamo.Observer) { r.observers = append(r.observers, o) }

func (r *Runner[T]) Simulation() *dynamo.Simulation[T] { return r.sim }

// Run calls Update steps times. On cancellation or an invalid state it returns
// the partial result together with the error.
func (r *Runner[T]) Run(ctx context.Context, steps int, dt T) (*Result, error) {
	if steps < 0 {
		return nil, fmt.Errorf("experiment: steps must not be negative, got %d", steps)
	}

	result := &Result{Metrics: make(map[string]float64)}
	for _, m := range r.metrics {
		m.Reset()
	}

	start := time.Now()
	finish := func(err error) (*Result, error) {
		result.Elapsed = time.Since(start)
		r.collect(result)
		return result, err
	}

	r.sample()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return finish(fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()))
		default:
		}

		r.sim.Update(dt)
		result.Steps++

		step := i + 1
		if (r.SampleEvery > 0 && step%r.SampleEvery == 0) || step == steps {
			if r.ValidateState && !r.sim.IsValid() {
				return finish(&dynamo.SimulationError{
					Step:    step,
					Time:    float64(step) * float64(dt),
					Wrapped: dynamo.ErrInvalidState,
				})
			}
			r.sample()
		}

		for _, obs := range r.observers {
			obs.OnStep(step, steps)
		}
	}

	return finish(nil)
}

func (r *Runner[T]) sample() {
	for _, m := range r.metrics {
		m.Observe(r.sim)
	}
}

func (r *Runner[T]) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
		if h, ok := m.(*metrics.History); ok {
			result.Energy = h.Series()
			result.Kinetic = h.Kinetic()
		}
	}
	result.Final = r.sim.Energy()
}

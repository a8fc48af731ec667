package experiment

import (
	"fmt"
	"maps"
	"slices"

	"github.com/san-kum/latticesim/internal/dynamo"
	"github.com/san-kum/latticesim/internal/metrics"
)

// DefaultStabilityThreshold is the displacement beyond which a sample counts
// as unstable.
const DefaultStabilityThreshold = 1e3

type Registry struct {
	metrics map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() dynamo.Metric),
	}

	r.metrics["energy"] = func() dynamo.Metric { return metrics.NewHistory() }
	r.metrics["energy_drift"] = func() dynamo.Metric { return metrics.NewEnergyDrift() }
	r.metrics["mean_energy"] = func() dynamo.Metric { return metrics.NewMeanEnergy() }
	r.metrics["peak_displacement"] = func() dynamo.Metric { return metrics.NewPeakDisplacement() }
	r.metrics["stability"] = func() dynamo.Metric { return metrics.NewStability(DefaultStabilityThreshold) }

	return r
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	return slices.Sorted(maps.Keys(r.metrics))
}

// DefaultMetrics returns a fresh instance of every registered metric.
func DefaultMetrics() []dynamo.Metric {
	r := NewRegistry()
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		m, _ := r.GetMetric(name)
		out = append(out, m)
	}
	return out
}

package config

import (
	"maps"
	"slices"
)

var Presets = map[string]*Config{
	// 16x16, float32, acceleration only
	"reference": DefaultConfig(),
	"ripple": {
		Size: 64, Precision: "float64", Stiffness: 0.2, OriginStiffness: 1,
		Dt: 0.01, Steps: 20_000, Integrator: "verlet", SampleEvery: 100, ValidateState: true,
		Perturbation: PerturbationConfig{Kind: "point", Row: 32, Col: 32, X: 1},
	},
	"thermal": {
		Size: 32, Precision: "float64", Stiffness: 1, OriginStiffness: 10,
		Dt: 1e-3, Steps: 100_000, Integrator: "symplectic_euler", SampleEvery: 500, ValidateState: true,
		Perturbation: PerturbationConfig{Kind: "random", Amplitude: 0.1, Seed: 42},
	},
	"pulse": {
		Size: 48, Precision: "float64", Stiffness: 0.3, OriginStiffness: 2,
		Dt: 5e-3, Steps: 10_000, Integrator: "rk4", SampleEvery: 50, ValidateState: true,
		Perturbation: PerturbationConfig{Kind: "gaussian", Row: 24, Col: 24, X: 0.5, Y: 0.5, Width: 3},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}

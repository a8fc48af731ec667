// Package analysis provides spectral tools for sampled run diagnostics.
//
//   - [PowerSpectrum]: one-sided power of a real series
//   - [DominantFrequency]: frequency of the strongest non-DC component
//
// # Mode Frequency
//
// Kinetic energy of a lattice oscillating in a single normal mode ω swings at
// 2ω, so the mode's frequency is half the dominant kinetic frequency:
//
//	f := analysis.DominantFrequency(kinetic, sampleDt) / 2
package analysis

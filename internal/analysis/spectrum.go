package analysis

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

var ErrShortSeries = errors.New("analysis: series needs at least 4 samples")

// PowerSpectrum returns |X_k|² for k = 0..n/2 of data with its mean removed,
// along with each bin's frequency in cycles per unit of sampleDt.
func PowerSpectrum(data []float64, sampleDt float64) (freqs, power []float64, err error) {
	n := len(data)
	if n < 4 {
		return nil, nil, ErrShortSeries
	}
	if !(sampleDt > 0) {
		return nil, nil, errors.New("analysis: sample interval must be positive")
	}

	centred := make([]float64, n)
	copy(centred, data)
	floats.AddConst(-floats.Sum(centred)/float64(n), centred)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centred)

	freqs = make([]float64, len(coeffs))
	power = make([]float64, len(coeffs))
	for k, c := range coeffs {
		a := cmplx.Abs(c)
		power[k] = a * a
		freqs[k] = fft.Freq(k) / sampleDt
	}
	return freqs, power, nil
}

// DominantFrequency is the frequency of the largest non-DC spectral peak, or
// 0 when the series is too short or flat.
func DominantFrequency(data []float64, sampleDt float64) float64 {
	freqs, power, err := PowerSpectrum(data, sampleDt)
	if err != nil {
		return 0
	}
	k := floats.MaxIdx(power[1:]) + 1
	if power[k] == 0 {
		return 0
	}
	return freqs[k]
}

package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Bin is one frequency bin of a one-sided power spectrum.
type Bin struct {
	Freq  float64
	Power float64
}

// Spectrum returns the one-sided power spectrum of a uniformly sampled
// series. The mean is removed first so the DC bin carries no energy.
func Spectrum(series []float64, dt float64) []Bin {
	n := len(series)
	if n < 2 || dt <= 0 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range series {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	bins := make([]Bin, n/2+1)
	for k := range bins {
		a := cmplx.Abs(coeffs[k])
		bins[k] = Bin{
			Freq:  float64(k) / (float64(n) * dt),
			Power: a * a / float64(n),
		}
	}
	return bins
}

// PowerSpectrum returns only the power column of Spectrum.
func PowerSpectrum(series []float64, dt float64) []float64 {
	bins := Spectrum(series, dt)
	ps := make([]float64, len(bins))
	for i, b := range bins {
		ps[i] = b.Power
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-DC bin, or NaN
// if the series is flat.
func DominantPeriod(series []float64, dt float64) float64 {
	bins := Spectrum(series, dt)
	best := -1
	for k := 1; k < len(bins); k++ {
		if best < 0 || bins[k].Power > bins[best].Power {
			best = k
		}
	}
	if best < 0 || bins[best].Power == 0 {
		return math.NaN()
	}
	return 1 / bins[best].Freq
}

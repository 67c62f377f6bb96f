package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns |X_k| for k in [0, n/2) of the real series data.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period, in time units, of the strongest
// non-constant component of values sampled every dt. It returns 0 when the
// series is too short or flat.
func DominantPeriod(values []float64, dt float64) float64 {
	n := len(values)
	if n < 4 || dt <= 0 {
		return 0
	}

	centered := make([]float64, n)
	copy(centered, values)
	floats.AddConst(-floats.Sum(values)/float64(n), centered)

	ps := PowerSpectrum(centered)
	if len(ps) < 2 {
		return 0
	}
	k := floats.MaxIdx(ps[1:]) + 1
	if ps[k] == 0 {
		return 0
	}
	return float64(n) * dt / float64(k)
}

package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// PowerSpectrum returns the magnitude of the first n/2 bins of the
// mean-removed, Hann-windowed signal.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in
// samples taken every dt seconds.
func DominantPeriod(samples []float64, dt float64) (float64, error) {
	if dt <= 0 || len(samples) < 4 {
		return 0, fmt.Errorf("%w: need at least 4 samples and dt > 0", dynamo.ErrParameterBounds)
	}

	ps := PowerSpectrum(samples)
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, dynamo.ErrNoOscillation
	}

	bin := float64(peak)
	if peak+1 < len(ps) && ps[peak-1] > 0 && ps[peak+1] > 0 {
		a, b, c := math.Log(ps[peak-1]), math.Log(ps[peak]), math.Log(ps[peak+1])
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}

	freq := bin / (float64(len(samples)) * dt)
	return 1 / freq, nil
}

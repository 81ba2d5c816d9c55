package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality backed by mjibson/go-dsp
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the complex spectrum of a real signal
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// HalfMagnitude returns |X[k]| for k in [0, N/2), the non-redundant half of
// the spectrum of a real input. dst is reused when it has the right length.
func (f *FFT) HalfMagnitude(dst, x []float64) []float64 {
	half := len(x) / 2
	if len(dst) != half {
		dst = make([]float64, half)
	}
	if half == 0 {
		return dst
	}

	spectrum := f.Compute(x)
	for k := range half {
		dst[k] = cmplx.Abs(spectrum[k])
	}

	return dst
}

package windowing

import (
	"fmt"
	"math"
)

// Hann represents a Hann window function
// The symmetric form uses an N-1 denominator so both endpoints are zero
type Hann struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHann creates a new Hann window
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

// NewSymmetricHann creates the 0.5*(1-cos(2πi/(N-1))) window used for analysis frames
func NewSymmetricHann(size int) *Hann {
	return NewHann(size, true)
}

// generate creates Hann window coefficients
func (h *Hann) generate() {
	h.coefficients = make([]float64, h.size)

	if h.size == 1 {
		h.coefficients[0] = 1.0
		return
	}

	denominator := float64(h.size)
	if h.symmetric {
		denominator = float64(h.size - 1)
	}

	for i := range h.size {
		h.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}
}

// Apply applies the window to a signal (creates new array)
func (h *Hann) Apply(signal []float64) []float64 {
	if len(signal) != h.size {
		return nil
	}

	windowed := make([]float64, h.size)
	h.ApplyTo(windowed, signal)
	return windowed
}

// ApplyTo writes the windowed signal into dst, which must have the window size
func (h *Hann) ApplyTo(dst, signal []float64) {
	for i, c := range h.coefficients {
		dst[i] = signal[i] * c
	}
}

// ApplyInPlace applies the window to a signal in-place
func (h *Hann) ApplyInPlace(signal []float64) error {
	if len(signal) != h.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), h.size)
	}

	h.ApplyTo(signal, signal)
	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (h *Hann) GetCoefficients() []float64 {
	coeffs := make([]float64, len(h.coefficients))
	copy(coeffs, h.coefficients)
	return coeffs
}

// GetSize returns the window size
func (h *Hann) GetSize() int {
	return h.size
}

// GetType returns the window type
func (h *Hann) GetType() string {
	return "hann"
}

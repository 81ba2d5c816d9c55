package spectral

// SpectralFlux computes the half-wave rectified spectral flux onset measure
type SpectralFlux struct{}

// NewSpectralFlux creates a new spectral flux calculator
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Between returns the sum of strictly positive bin differences current-previous.
// A nil previous spectrum (first frame) yields 0.
func (sf *SpectralFlux) Between(previous, current []float64) float64 {
	if previous == nil {
		return 0
	}

	n := min(len(previous), len(current))
	sum := 0.0
	for f := range n {
		if diff := current[f] - previous[f]; diff > 0 {
			sum += diff
		}
	}

	return sum
}

// Compute calculates the flux of every frame of a spectrogram, with 0 for the first frame
func (sf *SpectralFlux) Compute(spectrogram [][]float64) []float64 {
	flux := make([]float64, len(spectrogram))

	for t := 1; t < len(spectrogram); t++ {
		flux[t] = sf.Between(spectrogram[t-1], spectrogram[t])
	}

	return flux
}

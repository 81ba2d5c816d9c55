package spectral

// SpectralCentroid computes the spectral centroid (center of mass) of a spectrum
type SpectralCentroid struct {
	sampleRate  int
	frameLength int
	freqBins    []float64 // Pre-calculated bin frequencies
}

// NewSpectralCentroid creates a centroid calculator for spectra of a
// frameLength-point transform. Bin k sits at k*sampleRate/frameLength Hz.
func NewSpectralCentroid(sampleRate, frameLength int) *SpectralCentroid {
	return &SpectralCentroid{
		sampleRate:  sampleRate,
		frameLength: frameLength,
	}
}

// Compute calculates Σ(freq_k*mag_k)/Σ(mag_k), or 0 when the spectrum is silent
func (sc *SpectralCentroid) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 || sc.frameLength <= 0 {
		return 0.0
	}

	if len(sc.freqBins) != len(spectrum) {
		sc.initializeFreqBins(len(spectrum))
	}

	numerator := 0.0
	denominator := 0.0

	for i, mag := range spectrum {
		numerator += sc.freqBins[i] * mag
		denominator += mag
	}

	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// ComputeFrames processes multiple frames
func (sc *SpectralCentroid) ComputeFrames(spectrogram [][]float64) []float64 {
	centroids := make([]float64, len(spectrogram))

	for t, spectrum := range spectrogram {
		centroids[t] = sc.Compute(spectrum)
	}

	return centroids
}

func (sc *SpectralCentroid) initializeFreqBins(numBins int) {
	sc.freqBins = make([]float64, numBins)
	for i := range numBins {
		sc.freqBins[i] = float64(i) * float64(sc.sampleRate) / float64(sc.frameLength)
	}
}

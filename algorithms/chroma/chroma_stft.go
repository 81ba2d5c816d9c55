package chroma

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-hook/algorithms/spectral"
)

// NumPitchClasses is the number of chroma bins (C, C#, ..., B)
const NumPitchClasses = 12

// Default chroma analysis parameters
const (
	DefaultFrameDuration = 0.0464
	DefaultHopRatio      = 0.5
	DefaultMinFreq       = 80.0
	DefaultMaxFreq       = 5000.0
	DefaultTuningFreq    = 440.0
)

// ChromaSTFT computes a chromagram from short-time magnitude spectra.
//
// Only bins in [minFreq, maxFreq] contribute, the midband where melodic and
// harmonic content dominates. Each bin adds its energy (magnitude squared) to
// the pitch class round(69 + 12*log2(f/tuning)) mod 12, and every frame is
// L2-normalized. Silent frames stay zero vectors.
type ChromaSTFT struct {
	sampleRate int
	frame      spectral.FrameParams
	tuningFreq float64
	minFreq    float64
	maxFreq    float64
}

// Chromagram is a sequence of 12-bin chroma vectors
type Chromagram struct {
	Vectors   [][]float64 `json:"vectors"`    // Frame x pitch class
	FrameStep float64     `json:"frame_step"` // Seconds between frames
}

// NewChromaSTFT creates a chromagram calculator
func NewChromaSTFT(sampleRate int, frame spectral.FrameParams, minFreq, maxFreq, tuningFreq float64) *ChromaSTFT {
	return &ChromaSTFT{
		sampleRate: sampleRate,
		frame:      frame,
		tuningFreq: tuningFreq,
		minFreq:    minFreq,
		maxFreq:    maxFreq,
	}
}

// NewChromaSTFTDefault creates a chromagram calculator with ~46 ms frames,
// half-frame hop, the 80-5000 Hz band and A4=440Hz tuning
func NewChromaSTFTDefault(sampleRate int) *ChromaSTFT {
	return NewChromaSTFT(sampleRate,
		spectral.FrameParams{FrameDuration: DefaultFrameDuration, HopRatio: DefaultHopRatio},
		DefaultMinFreq, DefaultMaxFreq, DefaultTuningFreq)
}

// ComputeChroma computes the chromagram of a mono signal
func (cs *ChromaSTFT) ComputeChroma(signal []float64) *Chromagram {
	engine := spectral.NewFrameEngine(cs.sampleRate, cs.frame)
	mapping := cs.pitchClassMapping(engine)

	vectors := make([][]float64, engine.NumFrames(len(signal)))
	engine.ForEachFrame(signal, func(index int, spectrum []float64) {
		vectors[index] = cs.foldSpectrum(spectrum, mapping)
	})

	return &Chromagram{
		Vectors:   vectors,
		FrameStep: engine.FrameStep(),
	}
}

// foldSpectrum accumulates bin energy into pitch classes and L2-normalizes
func (cs *ChromaSTFT) foldSpectrum(spectrum []float64, mapping []int) []float64 {
	vector := make([]float64, NumPitchClasses)

	for k, mag := range spectrum {
		if pc := mapping[k]; pc >= 0 {
			vector[pc] += mag * mag
		}
	}

	if norm := floats.Norm(vector, 2); norm > 0 {
		floats.Scale(1/norm, vector)
	}

	return vector
}

// pitchClassMapping maps each FFT bin to a pitch class, or -1 outside the band
func (cs *ChromaSTFT) pitchClassMapping(engine *spectral.FrameEngine) []int {
	mapping := make([]int, engine.NumBins())

	for k := range mapping {
		freq := engine.BinFrequency(k)
		if freq < cs.minFreq || freq > cs.maxFreq || freq <= 0 {
			mapping[k] = -1
			continue
		}
		mapping[k] = PitchClass(freq, cs.tuningFreq)
	}

	return mapping
}

// FrequencyToMIDI converts a frequency to a (fractional) MIDI note number
func FrequencyToMIDI(frequency, tuningFreq float64) float64 {
	if frequency <= 0 || tuningFreq <= 0 {
		return 0
	}
	// A4 (tuningFreq) = MIDI note 69
	return 69.0 + 12.0*math.Log2(frequency/tuningFreq)
}

// PitchClass returns round(midi(frequency)) mod 12 in [0, 11]
func PitchClass(frequency, tuningFreq float64) int {
	note := int(math.Round(FrequencyToMIDI(frequency, tuningFreq)))
	return ((note % NumPitchClasses) + NumPitchClasses) % NumPitchClasses
}

// Labels returns the pitch class names in bin order
func Labels() []string {
	return []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
}

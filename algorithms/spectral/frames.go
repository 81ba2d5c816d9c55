package spectral

import (
	"math"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-hook/algorithms/windowing"
)

// FrameParams describes an analysis frame layout in time units
type FrameParams struct {
	FrameDuration float64 `json:"frame_duration" yaml:"frame_duration"` // Seconds, rounded up to a power-of-two length
	HopRatio      float64 `json:"hop_ratio" yaml:"hop_ratio"`           // Hop as a fraction of frame length
}

// FrameSpectra holds the magnitude spectrum of every analysis frame
type FrameSpectra struct {
	Magnitudes  [][]float64 `json:"magnitudes"`   // Frame x bin, bins [0, N/2)
	FrameLength int         `json:"frame_length"` // Samples per frame (power of two)
	HopLength   int         `json:"hop_length"`   // Samples between frame starts
	SampleRate  int         `json:"sample_rate"`
	FrameStep   float64     `json:"frame_step"` // Seconds between frame starts
}

// FrameEngine slices a sample buffer into Hann-windowed frames and computes
// their magnitude spectra. Frames reading past the end of the buffer are
// zero-padded.
//
// The single-frame methods (RawFrame, Spectrum) share one scratch buffer and
// must not be called concurrently. ForEachFrame gives each worker its own.
type FrameEngine struct {
	sampleRate  int
	frameLength int
	hopLength   int
	window      *windowing.Hann
	fft         *FFT
	scratch     []float64
}

// NewFrameEngine creates a frame engine for the given frame duration and hop ratio
func NewFrameEngine(sampleRate int, params FrameParams) *FrameEngine {
	frameLength := FrameLengthFor(sampleRate, params.FrameDuration)
	return &FrameEngine{
		sampleRate:  sampleRate,
		frameLength: frameLength,
		hopLength:   HopLengthFor(frameLength, params.HopRatio),
		window:      windowing.NewSymmetricHann(frameLength),
		fft:         NewFFT(),
		scratch:     make([]float64, frameLength),
	}
}

// NextPowerOfTwo returns the smallest power of two >= n, never less than 2
func NextPowerOfTwo(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}

// FrameLengthFor returns the power-of-two frame length covering frameDuration seconds
func FrameLengthFor(sampleRate int, frameDuration float64) int {
	want := float64(sampleRate) * frameDuration
	if math.IsNaN(want) || want < 2 {
		return 2
	}
	return NextPowerOfTwo(int(math.Ceil(want)))
}

// HopLengthFor returns max(1, floor(frameLength*hopRatio))
func HopLengthFor(frameLength int, hopRatio float64) int {
	hop := int(math.Floor(float64(frameLength) * hopRatio))
	return max(1, hop)
}

// FrameCountFor returns max(1, floor((numSamples-frameLength)/hop)+1)
func FrameCountFor(numSamples, frameLength, hop int) int {
	if numSamples < frameLength || hop <= 0 {
		return 1
	}
	return (numSamples-frameLength)/hop + 1
}

// FrameLength returns the frame length in samples
func (e *FrameEngine) FrameLength() int {
	return e.frameLength
}

// HopLength returns the hop length in samples
func (e *FrameEngine) HopLength() int {
	return e.hopLength
}

// SampleRate returns the sample rate the engine was built for
func (e *FrameEngine) SampleRate() int {
	return e.sampleRate
}

// NumBins returns the number of magnitude bins per frame
func (e *FrameEngine) NumBins() int {
	return e.frameLength / 2
}

// FrameStep returns the time between consecutive frame starts in seconds
func (e *FrameEngine) FrameStep() float64 {
	if e.sampleRate <= 0 {
		return 0
	}
	return float64(e.hopLength) / float64(e.sampleRate)
}

// BinFrequency returns the centre frequency of bin k in Hz
func (e *FrameEngine) BinFrequency(k int) float64 {
	return float64(k) * float64(e.sampleRate) / float64(e.frameLength)
}

// NumFrames returns how many frames a buffer of numSamples produces
func (e *FrameEngine) NumFrames(numSamples int) int {
	return FrameCountFor(numSamples, e.frameLength, e.hopLength)
}

// FrameOffset returns the sample offset of frame index
func (e *FrameEngine) FrameOffset(index int) int {
	return index * e.hopLength
}

// RawFrame copies the unwindowed frame at index into dst, zero-padding past the end
func (e *FrameEngine) RawFrame(dst, samples []float64, index int) []float64 {
	if len(dst) != e.frameLength {
		dst = make([]float64, e.frameLength)
	}

	start := e.FrameOffset(index)
	n := 0
	if start < len(samples) {
		n = copy(dst, samples[start:])
	}
	clear(dst[n:])

	return dst
}

// Spectrum windows a raw frame and returns its half magnitude spectrum in dst
func (e *FrameEngine) Spectrum(dst, raw []float64) []float64 {
	return e.spectrumWith(e.scratch, dst, raw)
}

func (e *FrameEngine) spectrumWith(scratch, dst, raw []float64) []float64 {
	e.window.ApplyTo(scratch, raw)
	return e.fft.HalfMagnitude(dst, scratch)
}

// ForEachFrame computes the spectrum of every frame with a pool of workers
// and passes it to fn. fn runs concurrently for different frames, must only
// write state owned by that frame index, and must not retain the spectrum.
func (e *FrameEngine) ForEachFrame(samples []float64, fn func(index int, spectrum []float64)) {
	numFrames := e.NumFrames(len(samples))
	numWorkers := optimalWorkerCount(numFrames)

	jobs := make(chan int, numFrames)
	for i := range numFrames {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			raw := make([]float64, e.frameLength)
			scratch := make([]float64, e.frameLength)
			spectrum := make([]float64, e.NumBins())

			for index := range jobs {
				raw = e.RawFrame(raw, samples, index)
				spectrum = e.spectrumWith(scratch, spectrum, raw)
				fn(index, spectrum)
			}
		}()
	}

	wg.Wait()
}

// Compute returns the magnitude spectra of every frame in samples
func (e *FrameEngine) Compute(samples []float64) *FrameSpectra {
	magnitudes := make([][]float64, e.NumFrames(len(samples)))

	e.ForEachFrame(samples, func(index int, spectrum []float64) {
		magnitudes[index] = append([]float64(nil), spectrum...)
	})

	return &FrameSpectra{
		Magnitudes:  magnitudes,
		FrameLength: e.frameLength,
		HopLength:   e.hopLength,
		SampleRate:  e.sampleRate,
		FrameStep:   e.FrameStep(),
	}
}

// ComputeFrameSpectra is a convenience wrapper around NewFrameEngine and Compute
func ComputeFrameSpectra(samples []float64, sampleRate int, params FrameParams) *FrameSpectra {
	return NewFrameEngine(sampleRate, params).Compute(samples)
}

// optimalWorkerCount determines the number of workers based on workload
func optimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}

package extractors

import (
	"github.com/RyanBlaney/sonido-hook/algorithms/common"
	"github.com/RyanBlaney/sonido-hook/algorithms/spectral"
	"github.com/RyanBlaney/sonido-hook/algorithms/temporal"
	"github.com/RyanBlaney/sonido-hook/hook/config"
	"github.com/RyanBlaney/sonido-hook/logging"
)

// FeatureSet holds one value per analysis frame for every feature
type FeatureSet struct {
	Energy   []float64 `json:"energy"`   // RMS of the raw frame
	Centroid []float64 `json:"centroid"` // Spectral centroid in Hz
	ZCR      []float64 `json:"zcr"`      // Dead-zone zero-crossing rate in [0, 1]
	Flux     []float64 `json:"flux"`     // Half-wave rectified spectral flux
	Novelty  []float64 `json:"novelty"`  // Smoothed positive energy change

	FrameLength int     `json:"frame_length"`
	HopLength   int     `json:"hop_length"`
	SampleRate  int     `json:"sample_rate"`
	FrameStep   float64 `json:"frame_step"` // Seconds between frames
}

// Len returns the common length of all series; the shortest one wins
func (fs *FeatureSet) Len() int {
	return common.MinLength(fs.Energy, fs.Centroid, fs.ZCR, fs.Flux, fs.Novelty)
}

// Series returns the series for a feature name, or nil for an unknown name
func (fs *FeatureSet) Series(name string) []float64 {
	switch name {
	case config.FeatureEnergy:
		return fs.Energy
	case config.FeatureCentroid:
		return fs.Centroid
	case config.FeatureZCR:
		return fs.ZCR
	case config.FeatureFlux:
		return fs.Flux
	case config.FeatureNovelty:
		return fs.Novelty
	default:
		return nil
	}
}

// Duration returns the analysed span in seconds
func (fs *FeatureSet) Duration() float64 {
	return float64(fs.Len()) * fs.FrameStep
}

// UnifiedExtractor computes energy, centroid, zero-crossing rate, spectral
// flux and novelty in a single ordered pass over the signal.
type UnifiedExtractor struct {
	cfg    config.FeatureConfig
	logger logging.Logger
}

// NewUnifiedExtractor creates an extractor; a nil logger uses the global one
func NewUnifiedExtractor(cfg config.FeatureConfig, logger logging.Logger) *UnifiedExtractor {
	if logger == nil {
		logger = logging.Component("feature_extractor")
	}
	return &UnifiedExtractor{
		cfg:    cfg,
		logger: logger,
	}
}

// Extract runs the pass. It never fails: a buffer shorter than one frame is
// zero-padded into a single frame, and an empty buffer yields one all-zero frame.
func (e *UnifiedExtractor) Extract(samples []float64, sampleRate int) *FeatureSet {
	engine := spectral.NewFrameEngine(sampleRate, e.cfg.Frame)
	numFrames := engine.NumFrames(len(samples))

	if len(samples) < engine.FrameLength() {
		e.logger.Debug("Signal shorter than one analysis frame, zero-padding", logging.Fields{
			"samples":      len(samples),
			"frame_length": engine.FrameLength(),
		})
	}

	fs := &FeatureSet{
		Energy:      make([]float64, numFrames),
		Centroid:    make([]float64, numFrames),
		ZCR:         make([]float64, numFrames),
		Flux:        make([]float64, numFrames),
		FrameLength: engine.FrameLength(),
		HopLength:   engine.HopLength(),
		SampleRate:  sampleRate,
		FrameStep:   engine.FrameStep(),
	}

	energy := temporal.NewEnergy()
	zcr := spectral.NewZeroCrossingRateWithDeadZone(e.cfg.ZCRDeadZone)
	centroid := spectral.NewSpectralCentroid(sampleRate, engine.FrameLength())
	flux := spectral.NewSpectralFlux()

	raw := make([]float64, engine.FrameLength())
	current := make([]float64, engine.NumBins())
	var previous []float64

	for i := range numFrames {
		raw = engine.RawFrame(raw, samples, i)

		fs.Energy[i] = energy.RMS(raw)
		fs.ZCR[i] = zcr.Compute(raw)

		current = engine.Spectrum(current, raw)
		fs.Centroid[i] = centroid.Compute(current)
		fs.Flux[i] = flux.Between(previous, current)

		if previous == nil {
			previous = make([]float64, len(current))
		}
		previous, current = current, previous
	}

	fs.Novelty = temporal.NewNovelty(e.cfg.NoveltyRadius).Compute(fs.Energy)

	e.logger.Debug("Extracted features", logging.Fields{
		"frames":     numFrames,
		"frame_len":  fs.FrameLength,
		"frame_step": fs.FrameStep,
	})

	return fs
}

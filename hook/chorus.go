package hook

import (
	"github.com/RyanBlaney/sonido-hook/algorithms/chroma"
	"github.com/RyanBlaney/sonido-hook/algorithms/common"
	"github.com/RyanBlaney/sonido-hook/hook/config"
	"github.com/RyanBlaney/sonido-hook/logging"
)

// ChorusScorer finds the most self-repetitive window of a track from its
// chroma self-similarity.
type ChorusScorer struct {
	cfg    config.ChorusConfig
	logger logging.Logger
}

// NewChorusScorer creates a chorus scorer; a nil logger uses the global one
func NewChorusScorer(cfg config.ChorusConfig, logger logging.Logger) *ChorusScorer {
	if logger == nil {
		logger = logging.Component("chorus_scorer")
	}
	return &ChorusScorer{cfg: cfg, logger: logger}
}

// Repetition computes the per-frame repetition series for samples. The
// similarity matrix lives only inside this call.
func (s *ChorusScorer) Repetition(samples []float64, sampleRate int, windowSec float64) (*chroma.Repetition, float64) {
	stft := chroma.NewChromaSTFT(sampleRate, s.cfg.Frame, s.cfg.MinFreq, s.cfg.MaxFreq, s.cfg.TuningFreq)
	gram := stft.ComputeChroma(samples)

	n := len(gram.Vectors)
	window := windowFrames(windowSec, gram.FrameStep, s.cfg.MinWindowFrames)
	lags := chroma.LagFrames(s.cfg.MinLagSec, s.cfg.EffectiveMaxLag(windowSec), s.cfg.LagStepSec, gram.FrameStep)

	var sim chroma.SimilarityMatrix
	if n <= s.cfg.DenseFrameLimit {
		sim = chroma.NewSelfSimilarity(gram.Vectors)
	} else {
		sim = chroma.NewLagBandSimilarity(gram.Vectors, lags)
	}

	s.logger.Debug("Computing chroma repetition", logging.Fields{
		"frames": n,
		"window": window,
		"lags":   len(lags),
		"dense":  n <= s.cfg.DenseFrameLimit,
	})

	return chroma.ComputeRepetition(sim, lags, window, s.cfg.SmoothRadius), gram.FrameStep
}

// Score returns the window with the highest mean smoothed repetition. Tracks
// too short for one window, or with no lag stripe inside the matrix, get the
// safe default candidate.
func (s *ChorusScorer) Score(samples []float64, sampleRate int, windowSec float64) Candidate {
	if !validWindow(windowSec) {
		return invalidWindowCandidate(MethodChorus)
	}
	if sampleRate <= 0 {
		return safeCandidate(MethodChorus, windowSec, "invalid sample rate")
	}

	rep, frameStep := s.Repetition(samples, sampleRate, windowSec)
	n := len(rep.Smoothed)

	if n < rep.Window {
		s.logger.Debug("Track shorter than one chorus window", logging.Fields{
			"frames": n,
			"window": rep.Window,
		})
		return safeCandidate(MethodChorus, windowSec, "track shorter than one chorus window")
	}

	if !rep.HasValidLags() {
		s.logger.Debug("No repetition lag fits the track", logging.Fields{
			"frames": n,
			"lags":   len(rep.Lags),
		})
		return safeCandidate(MethodChorus, windowSec, "no repetition lag fits the track")
	}

	scan := common.BestWindow(rep.Smoothed, rep.Window, nil)
	if !scan.Found {
		s.logger.Warn("No finite chorus window, using safe default", logging.Fields{
			"frames": n,
		})
		return safeCandidate(MethodChorus, windowSec, "no finite window score")
	}

	c := Candidate{
		Method:       MethodChorus,
		StartSec:     float64(scan.Start) * frameStep,
		DurationSec:  windowSec,
		StartFrame:   scan.Start,
		WindowFrames: scan.Width,
		FrameStep:    frameStep,
		Score:        scan.Value,
		ScoreMin:     scan.MinValue,
		ScoreMax:     scan.MaxValue,
		Repetition:   rep.Smoothed,
	}

	s.logger.Debug("Chorus hook selected", logging.Fields{
		"start_sec": c.StartSec,
		"score":     c.Score,
	})

	return c
}

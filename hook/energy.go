package hook

import (
	"github.com/RyanBlaney/sonido-hook/algorithms/common"
	"github.com/RyanBlaney/sonido-hook/hook/config"
	"github.com/RyanBlaney/sonido-hook/hook/extractors"
	"github.com/RyanBlaney/sonido-hook/logging"
)

// EnergyScorer picks the window with the highest weighted feature average,
// rewarding windows that open right after a sharp energy rise.
type EnergyScorer struct {
	cfg    config.EnergyConfig
	logger logging.Logger
}

// NewEnergyScorer creates an energy scorer; a nil logger uses the global one
func NewEnergyScorer(cfg config.EnergyConfig, logger logging.Logger) *EnergyScorer {
	if logger == nil {
		logger = logging.Component("energy_scorer")
	}
	return &EnergyScorer{cfg: cfg, logger: logger}
}

// FrameScores truncates every series to the shared length, min-max normalizes
// each one independently and returns the weighted per-frame score together
// with the normalized series keyed by feature name.
func FrameScores(fs *extractors.FeatureSet, profile config.WeightProfile) ([]float64, map[string][]float64) {
	n := fs.Len()

	normalized := make(map[string][]float64, len(config.AllFeatures))
	for _, name := range config.AllFeatures {
		normalized[name] = common.MinMaxNormalize(common.Truncate(fs.Series(name), n))
	}

	scores := make([]float64, n)
	for _, name := range config.PrimaryFeatures {
		w := profile.Weight(name)
		if w == 0 {
			continue
		}
		for i, v := range normalized[name] {
			scores[i] += w * v
		}
	}

	return scores, normalized
}

// Score finds the best window of windowSec seconds
func (s *EnergyScorer) Score(fs *extractors.FeatureSet, profile config.WeightProfile, windowSec float64) Candidate {
	if !validWindow(windowSec) {
		return invalidWindowCandidate(MethodEnergy)
	}
	if fs == nil || fs.Len() == 0 {
		return safeCandidate(MethodEnergy, windowSec, "no feature frames")
	}

	scores, normalized := FrameScores(fs, profile)
	novelty := normalized[config.FeatureNovelty]
	bonus := s.cfg.EntranceBonus

	width := windowFrames(windowSec, fs.FrameStep, 1)
	scan := common.BestWindow(scores, width, func(start int) float64 {
		if start == 0 {
			return 0
		}
		return novelty[start-1] * bonus
	})

	if !scan.Found {
		s.logger.Warn("No finite energy window, using safe default", logging.Fields{
			"frames": len(scores),
			"width":  width,
		})
		return safeCandidate(MethodEnergy, windowSec, "no finite window score")
	}

	window := make(map[string][]float64, len(config.PrimaryFeatures))
	for _, name := range config.PrimaryFeatures {
		window[name] = append([]float64(nil), normalized[name][scan.Start:scan.Start+scan.Width]...)
	}

	c := Candidate{
		Method:       MethodEnergy,
		StartSec:     float64(scan.Start) * fs.FrameStep,
		DurationSec:  windowSec,
		StartFrame:   scan.Start,
		WindowFrames: scan.Width,
		FrameStep:    fs.FrameStep,
		Score:        scan.Value,
		ScoreMin:     scan.MinValue,
		ScoreMax:     scan.MaxValue,
		Features:     window,
	}

	s.logger.Debug("Energy hook selected", logging.Fields{
		"start_sec": c.StartSec,
		"score":     c.Score,
		"frames":    len(scores),
		"width":     scan.Width,
	})

	return c
}

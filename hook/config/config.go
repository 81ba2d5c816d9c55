package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/RyanBlaney/sonido-hook/algorithms/spectral"
)

// Feature names used by weight profiles and diagnostics
const (
	FeatureEnergy   = "energy"
	FeatureCentroid = "centroid"
	FeatureZCR      = "zcr"
	FeatureFlux     = "flux"
	FeatureNovelty  = "novelty"
)

// PrimaryFeatures are the weighted features of the energy scorer, in display order
var PrimaryFeatures = []string{FeatureEnergy, FeatureCentroid, FeatureZCR, FeatureFlux}

// AllFeatures are the primary features plus novelty
var AllFeatures = []string{FeatureEnergy, FeatureCentroid, FeatureZCR, FeatureFlux, FeatureNovelty}

// Method names accepted by AnalysisConfig.Method
const (
	MethodEnergy = "energy"
	MethodChorus = "chorus"
	MethodAuto   = "auto"
)

// NormalizeMethod lower-cases and trims a method name; empty means auto
func NormalizeMethod(method string) string {
	m := strings.ToLower(strings.TrimSpace(method))
	if m == "" {
		return MethodAuto
	}
	return m
}

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid analysis config")

// AnalysisConfig configures one hook analysis
type AnalysisConfig struct {
	WindowSec float64 `json:"window_sec" yaml:"window_sec"` // Clip length in seconds
	Genre     string  `json:"genre" yaml:"genre"`           // Weight profile key
	Method    string  `json:"method" yaml:"method"`         // "energy", "chorus" or "auto"

	Features FeatureConfig  `json:"features" yaml:"features"`
	Energy   EnergyConfig   `json:"energy" yaml:"energy"`
	Chorus   ChorusConfig   `json:"chorus" yaml:"chorus"`
	Selector SelectorConfig `json:"selector" yaml:"selector"`

	// Genres adds or replaces weight profiles by key
	Genres map[string]WeightProfile `json:"genres,omitempty" yaml:"genres,omitempty"`
}

// FeatureConfig configures the unified feature extractor
type FeatureConfig struct {
	Frame         spectral.FrameParams `json:"frame" yaml:"frame"`
	NoveltyRadius int                  `json:"novelty_radius" yaml:"novelty_radius"`
	ZCRDeadZone   float64              `json:"zcr_dead_zone" yaml:"zcr_dead_zone"`
}

// EnergyConfig configures the energy hook scorer
type EnergyConfig struct {
	// EntranceBonus scales the normalized novelty of the frame before a window
	EntranceBonus float64 `json:"entrance_bonus" yaml:"entrance_bonus"`
}

// ChorusConfig configures the chroma self-similarity scorer
type ChorusConfig struct {
	Frame           spectral.FrameParams `json:"frame" yaml:"frame"`
	MinLagSec       float64              `json:"min_lag_sec" yaml:"min_lag_sec"`
	MaxLagSec       float64              `json:"max_lag_sec" yaml:"max_lag_sec"` // 0 adapts to the window length
	LagStepSec      float64              `json:"lag_step_sec" yaml:"lag_step_sec"`
	MinWindowFrames int                  `json:"min_window_frames" yaml:"min_window_frames"`
	SmoothRadius    int                  `json:"smooth_radius" yaml:"smooth_radius"`
	MinFreq         float64              `json:"min_freq" yaml:"min_freq"`
	MaxFreq         float64              `json:"max_freq" yaml:"max_freq"`
	TuningFreq      float64              `json:"tuning_freq" yaml:"tuning_freq"`
	// DenseFrameLimit is the largest frame count for which the full matrix is
	// built; longer tracks only materialize the swept lag diagonals
	DenseFrameLimit int `json:"dense_frame_limit" yaml:"dense_frame_limit"`
}

// SelectorConfig configures auto method selection
type SelectorConfig struct {
	// ChorusBias is the factor the chorus score must beat the energy score by
	ChorusBias   float64 `json:"chorus_bias" yaml:"chorus_bias"`
	RangeEpsilon float64 `json:"range_epsilon" yaml:"range_epsilon"`
}

// DefaultAnalysisConfig returns the stock configuration: 15 s clips, auto
// method selection and the default genre profile
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		WindowSec: 15.0,
		Genre:     DefaultGenre,
		Method:    MethodAuto,
		Features:  DefaultFeatureConfig(),
		Energy:    DefaultEnergyConfig(),
		Chorus:    DefaultChorusConfig(),
		Selector:  DefaultSelectorConfig(),
	}
}

// DefaultFeatureConfig returns ~100 ms frames with a half-frame hop
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		Frame:         spectral.FrameParams{FrameDuration: 0.1, HopRatio: 0.5},
		NoveltyRadius: 5,
		ZCRDeadZone:   spectral.DefaultZCRDeadZone,
	}
}

// DefaultEnergyConfig returns the stock entrance bonus
func DefaultEnergyConfig() EnergyConfig {
	return EnergyConfig{
		EntranceBonus: 0.2,
	}
}

// DefaultChorusConfig returns ~46 ms chroma frames and a 6 s to adaptive lag sweep
func DefaultChorusConfig() ChorusConfig {
	return ChorusConfig{
		Frame:           spectral.FrameParams{FrameDuration: 0.0464, HopRatio: 0.5},
		MinLagSec:       6.0,
		MaxLagSec:       0,
		LagStepSec:      0.25,
		MinWindowFrames: 8,
		SmoothRadius:    5,
		MinFreq:         80.0,
		MaxFreq:         5000.0,
		TuningFreq:      440.0,
		DenseFrameLimit: 3000,
	}
}

// DefaultSelectorConfig returns a 5% preference for the chorus method
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		ChorusBias:   1.05,
		RangeEpsilon: 1e-9,
	}
}

// EffectiveMaxLag returns MaxLagSec, or min(60, max(30, 3*windowSec)) when unset
func (c ChorusConfig) EffectiveMaxLag(windowSec float64) float64 {
	if c.MaxLagSec > 0 {
		return c.MaxLagSec
	}
	return math.Min(60, math.Max(30, 3*windowSec))
}

// Profile resolves a genre key against the config overrides, then the
// built-in table, then the default profile
func (c *AnalysisConfig) Profile(genre string) WeightProfile {
	key := NormalizeGenre(genre)
	if p, ok := c.Genres[key]; ok {
		return p.Sanitized()
	}
	return LookupProfile(key)
}

// Validate checks user-supplied values
func (c *AnalysisConfig) Validate() error {
	if !(c.WindowSec > 0) || math.IsInf(c.WindowSec, 0) {
		return fmt.Errorf("%w: window_sec must be positive, got %v", ErrInvalidConfig, c.WindowSec)
	}

	switch NormalizeMethod(c.Method) {
	case MethodEnergy, MethodChorus, MethodAuto:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, c.Method)
	}

	if err := validateFrame("features.frame", c.Features.Frame); err != nil {
		return err
	}
	if err := validateFrame("chorus.frame", c.Chorus.Frame); err != nil {
		return err
	}

	if c.Chorus.MinLagSec < 0 || c.Chorus.LagStepSec <= 0 {
		return fmt.Errorf("%w: chorus lag sweep needs min_lag_sec >= 0 and lag_step_sec > 0", ErrInvalidConfig)
	}
	if c.Chorus.MaxLagSec > 0 && c.Chorus.MaxLagSec < c.Chorus.MinLagSec {
		return fmt.Errorf("%w: chorus max_lag_sec %v below min_lag_sec %v", ErrInvalidConfig, c.Chorus.MaxLagSec, c.Chorus.MinLagSec)
	}
	if c.Chorus.MinFreq >= c.Chorus.MaxFreq {
		return fmt.Errorf("%w: chorus min_freq must be below max_freq", ErrInvalidConfig)
	}

	if c.Selector.ChorusBias <= 0 {
		return fmt.Errorf("%w: selector chorus_bias must be positive", ErrInvalidConfig)
	}

	for key, profile := range c.Genres {
		for name, w := range profile {
			if w < 0 {
				return fmt.Errorf("%w: genre %q weight %q is negative", ErrInvalidConfig, key, name)
			}
		}
	}

	return nil
}

func validateFrame(name string, f spectral.FrameParams) error {
	if !(f.FrameDuration > 0) {
		return fmt.Errorf("%w: %s.frame_duration must be positive", ErrInvalidConfig, name)
	}
	if !(f.HopRatio > 0) || f.HopRatio > 1 {
		return fmt.Errorf("%w: %s.hop_ratio must be in (0, 1]", ErrInvalidConfig, name)
	}
	return nil
}

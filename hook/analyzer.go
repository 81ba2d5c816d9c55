package hook

import (
	"math"

	"github.com/RyanBlaney/sonido-hook/hook/config"
	"github.com/RyanBlaney/sonido-hook/hook/extractors"
	"github.com/RyanBlaney/sonido-hook/logging"
)

// Result is the outcome of one analysis
type Result struct {
	Requested Method    `json:"requested"`
	Selection Selection `json:"selection"`

	// Energy and Chorus are set for each strategy that ran
	Energy *Candidate `json:"energy,omitempty"`
	Chorus *Candidate `json:"chorus,omitempty"`

	Genre         string  `json:"genre"`
	SampleRate    int     `json:"sample_rate"`
	TrackDuration float64 `json:"track_duration"` // Seconds
}

// Hook returns the chosen candidate
func (r *Result) Hook() Candidate {
	return r.Selection.Winner
}

// ClipBounds returns the clip start and end, pulled back so the clip fits
// inside the track when possible and never starting before 0. A duration that
// is not positive gives an empty clip, so end is never before start.
func (r *Result) ClipBounds() (start, end float64) {
	c := r.Hook()
	duration := c.DurationSec
	if !(duration > 0) {
		duration = 0
	}
	start = c.StartSec
	if r.TrackDuration > 0 && start+duration > r.TrackDuration {
		start = r.TrackDuration - duration
	}
	start = math.Max(0, start)
	end = start + duration
	if r.TrackDuration > 0 {
		end = math.Min(end, r.TrackDuration)
	}
	return start, end
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLogger sets the analyzer logger, which is also handed to every stage
func WithLogger(logger logging.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Analyzer runs the complete hook pipeline. It holds no per-track state, so
// one analyzer may serve many calls, including concurrent ones.
type Analyzer struct {
	cfg    *config.AnalysisConfig
	logger logging.Logger

	extractor *extractors.UnifiedExtractor
	energy    *EnergyScorer
	chorus    *ChorusScorer
	selector  *Selector
}

// NewAnalyzer creates an analyzer; a nil config uses DefaultAnalysisConfig
func NewAnalyzer(cfg *config.AnalysisConfig, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}

	a := &Analyzer{
		cfg:    cfg,
		logger: logging.Component("hook"),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.extractor = extractors.NewUnifiedExtractor(cfg.Features, a.logger.WithFields(logging.Fields{"stage": "features"}))
	a.energy = NewEnergyScorer(cfg.Energy, a.logger.WithFields(logging.Fields{"stage": "energy"}))
	a.chorus = NewChorusScorer(cfg.Chorus, a.logger.WithFields(logging.Fields{"stage": "chorus"}))
	a.selector = NewSelector(cfg.Selector)

	return a
}

// Config returns the analyzer configuration
func (a *Analyzer) Config() *config.AnalysisConfig {
	return a.cfg
}

// Analyze runs the configured method, genre and window length over a mono signal
func (a *Analyzer) Analyze(samples []float64, sampleRate int) *Result {
	method, err := ParseMethod(a.cfg.Method)
	if err != nil {
		a.logger.Warn("Unknown method in config, using auto", logging.Fields{"method": a.cfg.Method})
		method = MethodAuto
	}
	return a.AnalyzeWith(samples, sampleRate, method, a.cfg.Genre, a.cfg.WindowSec)
}

// AnalyzeWith runs the pipeline with an explicit method, genre and window
// length. It always returns a structurally valid result; degenerate input
// produces a zero-score candidate starting at 0, and a window length that is
// not positive and finite produces one of duration 0.
func (a *Analyzer) AnalyzeWith(samples []float64, sampleRate int, method Method, genre string, windowSec float64) *Result {
	res := &Result{
		Requested:  method,
		Genre:      config.NormalizeGenre(genre),
		SampleRate: sampleRate,
	}

	if sampleRate <= 0 {
		a.logger.Warn("Invalid sample rate, returning safe default", logging.Fields{"sample_rate": sampleRate})
		energy := safeCandidate(MethodEnergy, windowSec, "invalid sample rate")
		res.Energy = &energy
		res.Selection = a.selector.Force(MethodEnergy, &energy, nil)
		return res
	}

	res.TrackDuration = float64(len(samples)) / float64(sampleRate)

	if !validWindow(windowSec) {
		a.logger.Warn("Invalid window length, returning safe default", logging.Fields{"window_sec": windowSec})
		energy := invalidWindowCandidate(MethodEnergy)
		res.Energy = &energy
		res.Selection = a.selector.Force(MethodEnergy, &energy, nil)
		return res
	}

	if method == MethodChorus || method == MethodAuto {
		chorus := a.chorus.Score(samples, sampleRate, windowSec)
		res.Chorus = &chorus
	}

	if method != MethodChorus || res.Chorus.Degenerate {
		energy := a.energy.Score(a.extractor.Extract(samples, sampleRate), a.cfg.Profile(genre), windowSec)
		res.Energy = &energy
	}

	if method == MethodAuto {
		res.Selection = a.selector.Choose(*res.Energy, *res.Chorus)
	} else {
		res.Selection = a.selector.Force(method, res.Energy, res.Chorus)
	}

	a.logger.Info("Hook selected", logging.Fields{
		"method":     res.Selection.Method,
		"requested":  method,
		"start_sec":  res.Selection.Winner.StartSec,
		"score":      res.Selection.Winner.Score,
		"normalized": res.Selection.Normalized,
		"genre":      res.Genre,
		"reason":     res.Selection.Reason,
	})

	return res
}

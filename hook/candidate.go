// Package hook locates the most salient fixed-length segment of a mono
// track. Two strategies compete: an energy/novelty scorer over per-frame
// features and a chorus detector over a chroma self-similarity matrix.
package hook

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-hook/algorithms/common"
	"github.com/RyanBlaney/sonido-hook/hook/config"
)

// Method names a hook scoring strategy
type Method string

const (
	MethodEnergy Method = config.MethodEnergy
	MethodChorus Method = config.MethodChorus
	MethodAuto   Method = config.MethodAuto
)

// ErrUnknownMethod is returned by ParseMethod for anything but energy, chorus or auto
var ErrUnknownMethod = errors.New("unknown hook method")

// ParseMethod validates a method selector, case-insensitively. Empty means auto.
func ParseMethod(s string) (Method, error) {
	switch m := Method(config.NormalizeMethod(s)); m {
	case MethodEnergy, MethodChorus, MethodAuto:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Candidate is one strategy's answer. It is built once and never mutated.
type Candidate struct {
	Method       Method  `json:"method"`
	StartSec     float64 `json:"start_sec"`
	DurationSec  float64 `json:"duration_sec"`
	StartFrame   int     `json:"start_frame"`
	WindowFrames int     `json:"window_frames"`
	FrameStep    float64 `json:"frame_step"`

	Score float64 `json:"score"`
	// ScoreMin and ScoreMax span every candidate window this strategy scored
	ScoreMin float64 `json:"score_min"`
	ScoreMax float64 `json:"score_max"`

	// Degenerate marks the safe default returned when no window could be scored
	Degenerate bool   `json:"degenerate"`
	Reason     string `json:"reason,omitempty"`

	// Features holds the normalized feature slices inside the winning window (energy method)
	Features map[string][]float64 `json:"features,omitempty"`
	// Repetition holds the full normalized repetition series (chorus method)
	Repetition []float64 `json:"repetition,omitempty"`
}

// EndSec returns the end of the clip
func (c Candidate) EndSec() float64 {
	return c.StartSec + c.DurationSec
}

// NormalizedScore maps Score onto this strategy's own [ScoreMin, ScoreMax]
// range; a collapsed range is widened to epsilon
func (c Candidate) NormalizedScore(epsilon float64) float64 {
	return common.NormalizeScore(c.Score, c.ScoreMin, c.ScoreMax, epsilon)
}

// safeCandidate is the zero-score default used whenever a strategy cannot score a window
func safeCandidate(method Method, windowSec float64, reason string) Candidate {
	return Candidate{
		Method:      method,
		DurationSec: windowSec,
		ScoreMin:    0,
		ScoreMax:    1,
		Degenerate:  true,
		Reason:      reason,
	}
}

// validWindow reports whether windowSec is a usable clip length
func validWindow(windowSec float64) bool {
	return windowSec > 0 && common.IsFinite(windowSec)
}

// invalidWindowCandidate is the safe default for a window length that is not
// positive and finite. Its duration is 0 so the result stays encodable.
func invalidWindowCandidate(method Method) Candidate {
	return safeCandidate(method, 0, "invalid window length")
}

// windowFrames converts a duration to max(floor, floor(windowSec/frameStep)) frames
func windowFrames(windowSec, frameStep float64, floor int) int {
	if frameStep <= 0 || !common.IsFinite(frameStep) || !common.IsFinite(windowSec) {
		return floor
	}
	n := windowSec / frameStep
	if n > float64(1<<30) {
		return 1 << 30
	}
	return max(floor, int(n))
}

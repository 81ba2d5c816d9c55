package chroma

import (
	"math"

	"github.com/RyanBlaney/sonido-hook/algorithms/common"
)

// Repetition holds the lag-averaged repetition score of every frame
type Repetition struct {
	Raw        []float64 `json:"raw"`        // Mean stripe similarity per frame
	Normalized []float64 `json:"normalized"` // Raw min-max normalized to [0, 1]
	Smoothed   []float64 `json:"smoothed"`   // Normalized, centered moving average
	ValidLags  []int     `json:"valid_lags"` // Stripes that fit inside the matrix, per frame
	Lags       []int     `json:"lags"`       // Lag set in frames
	Window     int       `json:"window"`     // Stripe length in frames
}

// HasValidLags reports whether any frame had at least one stripe inside the matrix
func (r *Repetition) HasValidLags() bool {
	for _, n := range r.ValidLags {
		if n > 0 {
			return true
		}
	}
	return false
}

// maxLagSteps bounds the number of lags a single sweep may produce
const maxLagSteps = 1 << 20

// LagFrames converts a lag sweep from minLagSec to maxLagSec in steps of
// lagStepSec into distinct positive frame offsets, in increasing order.
// Non-finite arguments yield no lags.
func LagFrames(minLagSec, maxLagSec, lagStepSec, frameStep float64) []int {
	if frameStep <= 0 || !common.AllFinite([]float64{minLagSec, maxLagSec, lagStepSec, frameStep}) || maxLagSec < minLagSec {
		return nil
	}

	count := 0
	if lagStepSec > 0 {
		count = int(math.Min(maxLagSteps, math.Floor((maxLagSec-minLagSec)/lagStepSec+1e-9)))
	}

	lags := make([]int, 0, count+1)
	last := 0
	for k := 0; k <= count; k++ {
		sec := minLagSec + float64(k)*lagStepSec
		frames := int(math.Round(sec / frameStep))
		if frames <= last {
			continue
		}
		lags = append(lags, frames)
		last = frames
	}

	return lags
}

// ComputeRepetition scores each frame i by averaging, over every lag and both
// directions, the mean similarity along the length-window stripe starting at
// (i, i+lag) or (i, i-lag). Stripes that would leave the matrix are skipped;
// a frame with no valid stripe scores 0.
//
// Each lag diagonal is reduced to prefix sums once, so the cost is
// O(N * lags) regardless of the window length.
func ComputeRepetition(s SimilarityMatrix, lags []int, window, smoothRadius int) *Repetition {
	n := s.Frames()
	window = max(1, window)

	sums := make([]float64, n)
	counts := make([]int, n)

	for _, lag := range lags {
		if lag <= 0 || lag+window > n {
			continue
		}

		prefix := common.PrefixSums(Diagonal(s, lag))
		w := float64(window)

		for i := 0; i+window <= n; i++ {
			// forward stripe S[i+k][i+k+lag] lies on diagonal entries i..i+window
			if i+lag+window <= n {
				if mean := (prefix[i+window] - prefix[i]) / w; common.IsFinite(mean) {
					sums[i] += mean
					counts[i]++
				}
			}
			// backward stripe S[i+k][i+k-lag] lies on diagonal entries i-lag..i-lag+window
			if i >= lag {
				if mean := (prefix[i-lag+window] - prefix[i-lag]) / w; common.IsFinite(mean) {
					sums[i] += mean
					counts[i]++
				}
			}
		}
	}

	raw := make([]float64, n)
	for i := range raw {
		if counts[i] > 0 {
			raw[i] = sums[i] / float64(counts[i])
		}
	}

	normalized := common.MinMaxNormalize(raw)

	return &Repetition{
		Raw:        raw,
		Normalized: normalized,
		Smoothed:   common.CenteredMovingAverage(normalized, smoothRadius),
		ValidLags:  counts,
		Lags:       lags,
		Window:     window,
	}
}

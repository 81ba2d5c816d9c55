package spectral

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultZCRDeadZone is the magnitude below which a DC-removed sample counts as zero
const DefaultZCRDeadZone = 1e-4

// ZeroCrossingRate counts sign changes of a DC-removed frame. Samples inside
// the dead zone are classified as 0 and never take part in a crossing, so
// near-silent noise does not inflate the rate.
type ZeroCrossingRate struct {
	deadZone float64
}

// NewZeroCrossingRate creates a calculator with the default dead zone
func NewZeroCrossingRate() *ZeroCrossingRate {
	return NewZeroCrossingRateWithDeadZone(DefaultZCRDeadZone)
}

// NewZeroCrossingRateWithDeadZone creates a calculator with a custom dead zone
func NewZeroCrossingRateWithDeadZone(deadZone float64) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		deadZone: math.Abs(deadZone),
	}
}

// Compute returns crossings/(len(frame)-1) in [0, 1]
func (zcr *ZeroCrossingRate) Compute(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	mean := stat.Mean(frame, nil)

	crossings := 0
	prev := zcr.sign(frame[0] - mean)
	for i := 1; i < len(frame); i++ {
		cur := zcr.sign(frame[i] - mean)
		if prev != 0 && cur != 0 && prev != cur {
			crossings++
		}
		prev = cur
	}

	return float64(crossings) / float64(len(frame)-1)
}

// ComputeFrames calculates the rate for each frame
func (zcr *ZeroCrossingRate) ComputeFrames(frames [][]float64) []float64 {
	rates := make([]float64, len(frames))
	for i, frame := range frames {
		rates[i] = zcr.Compute(frame)
	}
	return rates
}

func (zcr *ZeroCrossingRate) sign(v float64) int {
	switch {
	case v > 0 && v >= zcr.deadZone:
		return 1
	case v < 0 && v <= -zcr.deadZone:
		return -1
	default:
		return 0
	}
}

package temporal

import (
	"github.com/RyanBlaney/sonido-hook/algorithms/common"
)

// Energy computes frame energy on the raw, unwindowed signal. Applying an
// analysis window first would deflate the level of every frame.
type Energy struct{}

// NewEnergy creates a new energy calculator
func NewEnergy() *Energy {
	return &Energy{}
}

// RMS returns sqrt(mean(sample²)) of one frame
func (e *Energy) RMS(frame []float64) float64 {
	return common.RMS(frame)
}

// ComputeFrames returns the RMS energy of each frame
func (e *Energy) ComputeFrames(frames [][]float64) []float64 {
	energies := make([]float64, len(frames))
	for i, frame := range frames {
		energies[i] = e.RMS(frame)
	}
	return energies
}

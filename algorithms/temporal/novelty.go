package temporal

import (
	"github.com/RyanBlaney/sonido-hook/algorithms/common"
)

// DefaultNoveltyRadius is the half-width of the novelty smoothing window
const DefaultNoveltyRadius = 5

// Novelty derives an onset-strength curve from an energy series: the
// half-wave rectified first difference, smoothed with a centered moving average.
type Novelty struct {
	radius int
}

// NewNovelty creates a novelty calculator with the given smoothing radius
func NewNovelty(radius int) *Novelty {
	return &Novelty{radius: radius}
}

// Rise returns max(0, energy[i]-energy[i-1]) with 0 for the first frame
func (n *Novelty) Rise(energies []float64) []float64 {
	rise := make([]float64, len(energies))
	for i := 1; i < len(energies); i++ {
		rise[i] = max(0, energies[i]-energies[i-1])
	}
	return rise
}

// Compute returns the smoothed novelty series for energies
func (n *Novelty) Compute(energies []float64) []float64 {
	return common.CenteredMovingAverage(n.Rise(energies), n.radius)
}

package common

// CenteredMovingAverage smooths data with a window of radius r around each
// index. Near the edges the window shrinks to the values that exist, so the
// average never reads out of bounds.
func CenteredMovingAverage(data []float64, radius int) []float64 {
	smoothed := make([]float64, len(data))
	if len(data) == 0 {
		return smoothed
	}
	if radius <= 0 {
		copy(smoothed, data)
		return smoothed
	}

	prefix := PrefixSums(data)
	last := len(data) - 1

	for i := range data {
		lo := max(0, i-radius)
		hi := min(last, i+radius)
		smoothed[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}

	return smoothed
}

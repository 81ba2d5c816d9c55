package common

// MinMaxNormalize maps data onto [0, 1]. A constant series has its range
// treated as 1, so every value maps to 0 rather than NaN.
func MinMaxNormalize(data []float64) []float64 {
	normalized, _, _ := MinMaxNormalizeRange(data)
	return normalized
}

// MinMaxNormalizeRange normalizes data and also returns the observed min and max
func MinMaxNormalizeRange(data []float64) (normalized []float64, lo, hi float64) {
	normalized = make([]float64, len(data))
	if len(data) == 0 {
		return normalized, 0, 0
	}

	lo, hi = Range(data)
	span := hi - lo
	if span == 0 || !IsFinite(span) {
		span = 1
	}

	for i, val := range data {
		normalized[i] = (val - lo) / span
	}

	return normalized, lo, hi
}

// NormalizeScore maps a score onto [0, 1] using a known [lo, hi] range.
// A collapsed range is widened to epsilon.
func NormalizeScore(score, lo, hi, epsilon float64) float64 {
	span := hi - lo
	if span <= 0 {
		span = epsilon
	}
	return (score - lo) / span
}

package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions used across algorithms using gonum for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// Range returns the minimum and maximum of data, or (0, 0) when empty
func Range(data []float64) (lo, hi float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every value in data is finite
func AllFinite(data []float64) bool {
	for _, v := range data {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// PrefixSums returns p with p[0]=0 and p[i+1]=p[i]+data[i]
func PrefixSums(data []float64) []float64 {
	prefix := make([]float64, len(data)+1)
	if len(data) > 0 {
		floats.CumSum(prefix[1:], data)
	}
	return prefix
}

// Truncate returns data limited to its first n values
func Truncate(data []float64, n int) []float64 {
	if n >= len(data) {
		return data
	}
	return data[:n]
}

// MinLength returns the length of the shortest series, or 0 when none are given
func MinLength(series ...[]float64) int {
	if len(series) == 0 {
		return 0
	}

	n := len(series[0])
	for _, s := range series[1:] {
		n = min(n, len(s))
	}
	return n
}

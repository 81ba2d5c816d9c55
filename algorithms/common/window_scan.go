package common

import "math"

// WindowScan is the outcome of a sliding-window maximization
type WindowScan struct {
	Start      int     `json:"start"`      // Winning window start index
	Width      int     `json:"width"`      // Window width actually used
	Value      float64 `json:"value"`      // Winning value (mean plus bonus)
	Mean       float64 `json:"mean"`       // Winning window mean without bonus
	MinValue   float64 `json:"min_value"`  // Smallest finite candidate value
	MaxValue   float64 `json:"max_value"`  // Largest finite candidate value
	Candidates int     `json:"candidates"` // Number of finite candidates seen
	Found      bool    `json:"found"`
}

// WindowBonus returns an additive adjustment for a window starting at start
type WindowBonus func(start int) float64

// BestWindow finds the start index maximizing mean(values[i:i+width]) + bonus(i)
// using prefix sums, so each candidate costs O(1).
//
// Candidates are visited start-to-end and the best is replaced only on strict
// improvement, so ties keep the earliest start. A width larger than the
// series is clamped to the series length. Non-finite candidates are skipped;
// if none remain, Found is false.
func BestWindow(values []float64, width int, bonus WindowBonus) WindowScan {
	n := len(values)
	width = min(max(1, width), max(1, n))

	scan := WindowScan{
		Width:    width,
		Value:    math.Inf(-1),
		MinValue: math.Inf(1),
		MaxValue: math.Inf(-1),
	}
	if n == 0 {
		return scan.notFound()
	}

	prefix := PrefixSums(values)
	w := float64(width)

	for i := 0; i+width <= n; i++ {
		mean := (prefix[i+width] - prefix[i]) / w
		value := mean
		if bonus != nil {
			value += bonus(i)
		}
		if !IsFinite(value) {
			continue
		}

		scan.Candidates++
		scan.MinValue = math.Min(scan.MinValue, value)
		scan.MaxValue = math.Max(scan.MaxValue, value)

		if value > scan.Value {
			scan.Start = i
			scan.Value = value
			scan.Mean = mean
			scan.Found = true
		}
	}

	if !scan.Found {
		return scan.notFound()
	}

	return scan
}

func (s WindowScan) notFound() WindowScan {
	return WindowScan{
		Width:    s.Width,
		MinValue: 0,
		MaxValue: 1,
	}
}

package chroma

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func sine(freq float64, sampleRate int, seconds float64) []float64 {
	out := make([]float64, int(seconds*float64(sampleRate)))
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestPitchClass(t *testing.T) {
	tests := []struct {
		freq float64
		want int
	}{
		{440, 9},
		{261.63, 0},
		{27.5, 9},
		{493.88, 11},
		{277.18, 1},
	}

	for _, tt := range tests {
		if got := PitchClass(tt.freq, 440); got != tt.want {
			t.Errorf("PitchClass(%v) = %d, want %d", tt.freq, got, tt.want)
		}
	}

	// far below A0 the MIDI number is negative but the class must not be
	if got := PitchClass(5, 440); got < 0 || got >= NumPitchClasses {
		t.Errorf("Expected a class in [0, 12), got %d", got)
	}

	if len(Labels()) != NumPitchClasses {
		t.Errorf("Expected %d labels", NumPitchClasses)
	}
}

func TestComputeChromaSine(t *testing.T) {
	const sampleRate = 22050
	gram := NewChromaSTFTDefault(sampleRate).ComputeChroma(sine(440, sampleRate, 1))

	if len(gram.Vectors) == 0 {
		t.Fatal("Expected chroma frames")
	}
	if math.Abs(gram.FrameStep-512.0/sampleRate) > 1e-12 {
		t.Errorf("Expected a frame step of 512 samples, got %v", gram.FrameStep)
	}

	for i, v := range gram.Vectors {
		if len(v) != NumPitchClasses {
			t.Fatalf("Frame %d has %d bins", i, len(v))
		}
		if math.Abs(floats.Norm(v, 2)-1) > 1e-9 {
			t.Errorf("Frame %d is not unit length: %v", i, floats.Norm(v, 2))
		}
		if floats.MaxIdx(v) != 9 {
			t.Errorf("Frame %d: expected pitch class A, got %s", i, Labels()[floats.MaxIdx(v)])
		}
	}
}

func TestComputeChromaSilence(t *testing.T) {
	const sampleRate = 22050
	cs := NewChromaSTFTDefault(sampleRate)

	for name, signal := range map[string][]float64{
		"silence": make([]float64, sampleRate),
		"empty":   nil,
	} {
		gram := cs.ComputeChroma(signal)
		if len(gram.Vectors) == 0 {
			t.Fatalf("%s: expected at least one frame", name)
		}
		for i, v := range gram.Vectors {
			if floats.Max(v) != 0 || floats.Min(v) != 0 {
				t.Errorf("%s frame %d: expected a zero vector, got %v", name, i, v)
			}
		}
	}
}

func randomVectors(rng *rand.Rand, n int) [][]float64 {
	vectors := make([][]float64, n)
	for i := range vectors {
		v := make([]float64, NumPitchClasses)
		// every fifth frame is silent
		if i%5 != 4 {
			for k := range v {
				v[k] = rng.Float64()
			}
		}
		vectors[i] = v
	}
	return vectors
}

func TestSelfSimilarityProperties(t *testing.T) {
	vectors := randomVectors(rand.New(rand.NewSource(1)), 40)
	s := NewSelfSimilarity(vectors)

	if s.Frames() != 40 {
		t.Fatalf("Expected 40 frames, got %d", s.Frames())
	}

	for i := range 40 {
		if s.At(i, i) != 1 {
			t.Errorf("Expected a diagonal of 1 at %d, got %v", i, s.At(i, i))
		}
		for j := range 40 {
			v := s.At(i, j)
			if v != s.At(j, i) {
				t.Fatalf("Matrix is not symmetric at (%d, %d)", i, j)
			}
			if v < -1 || v > 1 {
				t.Fatalf("Similarity %v out of range at (%d, %d)", v, i, j)
			}
			if i != j && (i%5 == 4 || j%5 == 4) && v != 0 {
				t.Errorf("Expected 0 against a silent frame at (%d, %d), got %v", i, j, v)
			}
		}
	}

	if NewSelfSimilarity(nil).Frames() != 0 {
		t.Error("Expected an empty matrix for no vectors")
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float64{1, 0, 0}
	if got := CosineSimilarity(a, []float64{2, 0, 0}); got != 1 {
		t.Errorf("Expected 1 for parallel vectors, got %v", got)
	}
	if got := CosineSimilarity(a, []float64{0, 3, 0}); got != 0 {
		t.Errorf("Expected 0 for orthogonal vectors, got %v", got)
	}
	if got := CosineSimilarity(a, []float64{0, 0, 0}); got != 0 {
		t.Errorf("Expected 0 against a zero vector, got %v", got)
	}
}

func TestLagBandMatchesDense(t *testing.T) {
	vectors := randomVectors(rand.New(rand.NewSource(2)), 60)
	lags := []int{3, 7, 20}

	dense := NewSelfSimilarity(vectors)
	band := NewLagBandSimilarity(vectors, lags)

	for i := range 60 {
		for j := range 60 {
			if math.Abs(dense.At(i, j)-band.At(i, j)) > 1e-12 {
				t.Fatalf("Band and dense differ at (%d, %d): %v vs %v", i, j, band.At(i, j), dense.At(i, j))
			}
		}
	}

	for _, lag := range append(lags, 11) {
		if !floats.EqualApprox(Diagonal(dense, lag), Diagonal(band, lag), 1e-12) {
			t.Errorf("Diagonal %d differs between band and dense", lag)
		}
		if len(Diagonal(band, lag)) != 60-lag {
			t.Errorf("Expected diagonal %d to have %d entries", lag, 60-lag)
		}
	}

	if Diagonal(dense, 60) != nil {
		t.Error("Expected no diagonal at a lag equal to the frame count")
	}
}

func TestLagFrames(t *testing.T) {
	if got := LagFrames(0, 1, 0.25, 0.5); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected [1 2], got %v", got)
	}

	frameStep := 512.0 / 22050
	lags := LagFrames(6, 30, 0.25, frameStep)
	if len(lags) == 0 {
		t.Fatal("Expected lags")
	}
	if lags[0] != int(math.Round(6/frameStep)) {
		t.Errorf("Expected the first lag at 6 s, got %d", lags[0])
	}
	for i := 1; i < len(lags); i++ {
		if lags[i] <= lags[i-1] {
			t.Fatalf("Lags not strictly increasing at %d: %v", i, lags)
		}
	}

	if LagFrames(6, 30, 0.25, 0) != nil {
		t.Error("Expected no lags for a zero frame step")
	}
	if LagFrames(30, 6, 0.25, frameStep) != nil {
		t.Error("Expected no lags for an inverted sweep")
	}

	nonFinite := []struct {
		name                 string
		minLag, maxLag, step float64
	}{
		{"nan max", 6, math.NaN(), 0.25},
		{"nan min", math.NaN(), 30, 0.25},
		{"inf max", 6, math.Inf(1), 0.25},
		{"nan step", 6, 30, math.NaN()},
		{"inf step", 6, 30, math.Inf(1)},
	}
	for _, tt := range nonFinite {
		if got := LagFrames(tt.minLag, tt.maxLag, tt.step, frameStep); got != nil {
			t.Errorf("%s: expected no lags, got %d", tt.name, len(got))
		}
	}

	if got := LagFrames(0, 1e12, 1e-3, 1e9); len(got) > maxLagSteps+1 {
		t.Errorf("Expected at most %d lags, got %d", maxLagSteps+1, len(got))
	}
}

func periodicVectors(n, period int) [][]float64 {
	vectors := make([][]float64, n)
	for i := range vectors {
		v := make([]float64, NumPitchClasses)
		v[i%period] = 1
		vectors[i] = v
	}
	return vectors
}

func TestComputeRepetitionPeriodic(t *testing.T) {
	s := NewSelfSimilarity(periodicVectors(20, 5))
	rep := ComputeRepetition(s, []int{5}, 3, 0)

	for i := range 18 {
		if rep.Raw[i] != 1 {
			t.Errorf("Frame %d: expected raw repetition 1, got %v", i, rep.Raw[i])
		}
	}
	if rep.Raw[18] != 0 || rep.Raw[19] != 0 {
		t.Errorf("Expected frames without a full stripe to score 0, got %v", rep.Raw[18:])
	}

	wantCounts := map[int]int{0: 1, 4: 1, 5: 2, 12: 2, 13: 1, 17: 1, 18: 0}
	for i, want := range wantCounts {
		if rep.ValidLags[i] != want {
			t.Errorf("Frame %d: expected %d valid stripes, got %d", i, want, rep.ValidLags[i])
		}
	}

	if !rep.HasValidLags() {
		t.Error("Expected valid lags")
	}
}

func TestComputeRepetitionRange(t *testing.T) {
	s := NewSelfSimilarity(randomVectors(rand.New(rand.NewSource(3)), 120))
	rep := ComputeRepetition(s, []int{10, 25, 40}, 8, 5)

	for name, series := range map[string][]float64{"normalized": rep.Normalized, "smoothed": rep.Smoothed} {
		if len(series) != 120 {
			t.Fatalf("%s: expected 120 values, got %d", name, len(series))
		}
		for i, v := range series {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%s value %v at %d outside [0, 1]", name, v, i)
			}
		}
	}
}

func TestComputeRepetitionNoValidLag(t *testing.T) {
	s := NewSelfSimilarity(periodicVectors(10, 3))
	rep := ComputeRepetition(s, []int{8, 20}, 4, 2)

	if rep.HasValidLags() {
		t.Error("Expected no stripe to fit")
	}
	if floats.Max(rep.Smoothed) != 0 {
		t.Errorf("Expected an all-zero series, got %v", rep.Smoothed)
	}
}

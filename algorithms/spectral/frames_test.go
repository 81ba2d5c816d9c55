package spectral

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestFrameLengthFor(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		duration   float64
		want       int
	}{
		{"100ms at 22050", 22050, 0.1, 4096},
		{"100ms at 44100", 44100, 0.1, 8192},
		{"chroma frame at 22050", 22050, 0.0464, 1024},
		{"exact power of two", 1024, 0.5, 512},
		{"tiny duration", 8000, 0.0001, 2},
		{"zero sample rate", 0, 0.1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrameLengthFor(tt.sampleRate, tt.duration); got != tt.want {
				t.Errorf("FrameLengthFor(%d, %v) = %d, want %d", tt.sampleRate, tt.duration, got, tt.want)
			}
		})
	}
}

func TestHopAndFrameCount(t *testing.T) {
	if got := HopLengthFor(1024, 0.5); got != 512 {
		t.Errorf("Expected hop 512, got %d", got)
	}
	if got := HopLengthFor(2, 0.1); got != 1 {
		t.Errorf("Expected hop floor of 1, got %d", got)
	}

	tests := []struct {
		samples, frame, hop, want int
	}{
		{10000, 1024, 512, 18},
		{1024, 1024, 512, 1},
		{1536, 1024, 512, 2},
		{100, 1024, 512, 1},
		{0, 1024, 512, 1},
	}
	for _, tt := range tests {
		if got := FrameCountFor(tt.samples, tt.frame, tt.hop); got != tt.want {
			t.Errorf("FrameCountFor(%d, %d, %d) = %d, want %d", tt.samples, tt.frame, tt.hop, got, tt.want)
		}
	}
}

func TestRawFrameZeroPads(t *testing.T) {
	engine := NewFrameEngine(16, FrameParams{FrameDuration: 0.5, HopRatio: 0.5})
	if engine.FrameLength() != 8 || engine.HopLength() != 4 {
		t.Fatalf("Expected frame 8 / hop 4, got %d / %d", engine.FrameLength(), engine.HopLength())
	}

	samples := []float64{1, 2, 3, 4, 5, 6}
	frame := engine.RawFrame(nil, samples, 1)

	want := []float64{5, 6, 0, 0, 0, 0, 0, 0}
	if !floats.Equal(frame, want) {
		t.Errorf("Expected %v, got %v", want, frame)
	}

	// stale data in a reused buffer must be cleared
	frame = engine.RawFrame(frame, samples, 5)
	if !floats.Equal(frame, make([]float64, 8)) {
		t.Errorf("Expected an all-zero frame past the end, got %v", frame)
	}
}

func TestHalfMagnitudeSine(t *testing.T) {
	const n = 64
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 8 * float64(i) / n)
	}

	mags := NewFFT().HalfMagnitude(nil, x)
	if len(mags) != n/2 {
		t.Fatalf("Expected %d bins, got %d", n/2, len(mags))
	}
	if math.Abs(mags[8]-n/2) > 1e-9 {
		t.Errorf("Expected magnitude %d at bin 8, got %v", n/2, mags[8])
	}
	if floats.MaxIdx(mags) != 8 {
		t.Errorf("Expected the peak at bin 8, got %d", floats.MaxIdx(mags))
	}
}

func TestComputeMatchesSequentialSpectrum(t *testing.T) {
	const sampleRate = 8000
	samples := make([]float64, sampleRate)
	for i := range samples {
		samples[i] = math.Sin(2*math.Pi*440*float64(i)/sampleRate) + 0.3*math.Sin(2*math.Pi*1250*float64(i)/sampleRate)
	}

	engine := NewFrameEngine(sampleRate, FrameParams{FrameDuration: 0.032, HopRatio: 0.5})
	spectra := engine.Compute(samples)

	if len(spectra.Magnitudes) != engine.NumFrames(len(samples)) {
		t.Fatalf("Expected %d frames, got %d", engine.NumFrames(len(samples)), len(spectra.Magnitudes))
	}
	if spectra.FrameStep != float64(engine.HopLength())/sampleRate {
		t.Errorf("Unexpected frame step %v", spectra.FrameStep)
	}

	raw := make([]float64, engine.FrameLength())
	for i, got := range spectra.Magnitudes {
		raw = engine.RawFrame(raw, samples, i)
		want := engine.Spectrum(nil, raw)
		if !floats.EqualApprox(got, want, 1e-12) {
			t.Fatalf("Frame %d differs between parallel and sequential paths", i)
		}
	}
}

func TestEmptySignalHasOneFrame(t *testing.T) {
	spectra := ComputeFrameSpectra(nil, 22050, FrameParams{FrameDuration: 0.1, HopRatio: 0.5})
	if len(spectra.Magnitudes) != 1 {
		t.Fatalf("Expected a single padded frame, got %d", len(spectra.Magnitudes))
	}
	if floats.Max(spectra.Magnitudes[0]) != 0 {
		t.Error("Expected a silent spectrum for an empty signal")
	}
}

package hook

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/RyanBlaney/sonido-hook/hook/config"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(config.DefaultAnalysisConfig(), WithLogger(quiet))
}

func TestAnalyzeWithForcedEnergy(t *testing.T) {
	signal := silence(30)
	writeTone(signal, 660, 0.5, 12, 16)

	res := newTestAnalyzer().AnalyzeWith(signal, testSampleRate, MethodEnergy, "rock", 6)
	if res.Chorus != nil {
		t.Error("Expected the chorus strategy not to run")
	}
	if res.Selection.Method != MethodEnergy || res.Energy == nil {
		t.Fatalf("Expected an energy selection, got %+v", res.Selection)
	}
	if res.Genre != "rock" || res.Requested != MethodEnergy {
		t.Errorf("Unexpected result metadata %+v", res)
	}
	if math.Abs(res.TrackDuration-30) > 1e-9 {
		t.Errorf("Expected a 30 s track, got %v", res.TrackDuration)
	}

	start, end := res.ClipBounds()
	if start > 12 || end < 16 {
		t.Errorf("Expected the clip to cover 12-16 s, got %.2f-%.2f", start, end)
	}
}

func TestAnalyzeAutoRunsBoth(t *testing.T) {
	res := newTestAnalyzer().AnalyzeWith(structuredTrack(), testSampleRate, MethodAuto, "", 4)

	if res.Energy == nil || res.Chorus == nil {
		t.Fatal("Expected both strategies to run in auto mode")
	}
	if res.Chorus.Degenerate {
		t.Errorf("Expected a usable chorus candidate, got %s", res.Chorus.Reason)
	}
	if res.Selection.Method != MethodEnergy && res.Selection.Method != MethodChorus {
		t.Errorf("Unexpected method %q", res.Selection.Method)
	}
	if res.Hook().Method != res.Selection.Method {
		t.Error("Expected the winner to match the selected method")
	}
	if res.Genre != config.DefaultGenre {
		t.Errorf("Expected the default genre, got %q", res.Genre)
	}
}

func TestAnalyzeForcedChorusFallsBack(t *testing.T) {
	signal := silence(3)
	writeTone(signal, 440, 0.5, 0, 3)

	res := newTestAnalyzer().AnalyzeWith(signal, testSampleRate, MethodChorus, "pop", 15)
	if res.Selection.Method != MethodEnergy {
		t.Fatalf("Expected fallback to energy, got %s", res.Selection.Method)
	}
	if res.Energy == nil || res.Chorus == nil || !res.Chorus.Degenerate {
		t.Error("Expected a degenerate chorus and a computed energy candidate")
	}
	if !strings.Contains(res.Selection.Reason, "fell back") {
		t.Errorf("Expected a fallback reason, got %q", res.Selection.Reason)
	}

	start, end := res.ClipBounds()
	if start != 0 || math.Abs(end-3) > 1e-9 {
		t.Errorf("Expected the clip clamped to the 3 s track, got %.2f-%.2f", start, end)
	}
}

func TestAnalyzeDegenerateInputs(t *testing.T) {
	tests := []struct {
		name       string
		samples    []float64
		sampleRate int
	}{
		{"zero sample rate", silence(5), 0},
		{"negative sample rate", silence(5), -8000},
		{"empty", nil, testSampleRate},
		{"silence", silence(20), testSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestAnalyzer().AnalyzeWith(tt.samples, tt.sampleRate, MethodAuto, "", 15)
			hook := res.Hook()
			if hook.StartSec != 0 {
				t.Errorf("Expected start 0, got %v", hook.StartSec)
			}
			if math.IsNaN(hook.Score) || math.IsInf(hook.Score, 0) {
				t.Errorf("Expected a finite score, got %v", hook.Score)
			}
			if hook.DurationSec != 15 {
				t.Errorf("Expected duration 15, got %v", hook.DurationSec)
			}
		})
	}
}

func TestAnalyzeInvalidWindow(t *testing.T) {
	signal := structuredTrack()

	for _, window := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -4} {
		for _, method := range []Method{MethodAuto, MethodEnergy, MethodChorus} {
			res := newTestAnalyzer().AnalyzeWith(signal, testSampleRate, method, "pop", window)
			hook := res.Hook()

			if !hook.Degenerate || hook.StartSec != 0 || hook.Score != 0 || hook.DurationSec != 0 {
				t.Errorf("window %v, %s: expected the zero-length safe default, got %+v", window, method, hook)
			}
			start, end := res.ClipBounds()
			if start != 0 || end != 0 {
				t.Errorf("window %v, %s: expected clip 0-0, got %v-%v", window, method, start, end)
			}
			if _, err := json.Marshal(res); err != nil {
				t.Errorf("window %v, %s: result not encodable: %v", window, method, err)
			}
		}
	}
}

func TestAnalyzeUsesConfig(t *testing.T) {
	cfg := config.DefaultAnalysisConfig()
	cfg.Method = "Energy"
	cfg.WindowSec = 2

	res := NewAnalyzer(cfg, WithLogger(quiet)).Analyze(silence(5), testSampleRate)
	if res.Requested != MethodEnergy || res.Chorus != nil {
		t.Errorf("Expected the configured energy method, got %+v", res)
	}
	if res.Hook().DurationSec != 2 {
		t.Errorf("Expected the configured window, got %v", res.Hook().DurationSec)
	}

	cfg.Method = "nonsense"
	res = NewAnalyzer(cfg, WithLogger(quiet)).Analyze(silence(5), testSampleRate)
	if res.Requested != MethodAuto {
		t.Errorf("Expected an unknown configured method to fall back to auto, got %s", res.Requested)
	}
}

func TestClipBounds(t *testing.T) {
	tests := []struct {
		name            string
		start, duration float64
		track           float64
		wantStart       float64
		wantEnd         float64
	}{
		{"inside", 5, 10, 60, 5, 15},
		{"pulled back", 28, 5, 30, 25, 30},
		{"track shorter than clip", 0, 15, 3, 0, 3},
		{"unknown length", 4, 5, 0, 4, 9},
		{"negative duration", 3, -5, 30, 3, 3},
		{"nan duration", 3, math.NaN(), 30, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &Result{
				Selection:     Selection{Winner: Candidate{StartSec: tt.start, DurationSec: tt.duration}},
				TrackDuration: tt.track,
			}
			start, end := res.ClipBounds()
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Expected %v-%v, got %v-%v", tt.wantStart, tt.wantEnd, start, end)
			}
		})
	}
}

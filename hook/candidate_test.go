package hook

import (
	"errors"
	"testing"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"energy", MethodEnergy, false},
		{" Chorus ", MethodChorus, false},
		{"AUTO", MethodAuto, false},
		{"", MethodAuto, false},
		{"loudest", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownMethod) {
				t.Errorf("ParseMethod(%q): expected ErrUnknownMethod, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestWindowFrames(t *testing.T) {
	tests := []struct {
		name      string
		windowSec float64
		frameStep float64
		floor     int
		want      int
	}{
		{"exact", 5, 0.5, 1, 10},
		{"truncates", 5, 0.3, 1, 16},
		{"floor wins", 0.1, 0.5, 8, 8},
		{"zero step", 5, 0, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := windowFrames(tt.windowSec, tt.frameStep, tt.floor); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCandidateNormalizedScore(t *testing.T) {
	c := Candidate{Score: 0.6, ScoreMin: 0.2, ScoreMax: 1.0}
	if got := c.NormalizedScore(1e-9); got < 0.4999 || got > 0.5001 {
		t.Errorf("Expected 0.5, got %v", got)
	}

	safe := safeCandidate(MethodChorus, 15, "too short")
	if !safe.Degenerate || safe.StartSec != 0 || safe.Score != 0 || safe.EndSec() != 15 {
		t.Errorf("Unexpected safe candidate %+v", safe)
	}
	if safe.NormalizedScore(1e-9) != 0 {
		t.Errorf("Expected a safe candidate to normalize to 0, got %v", safe.NormalizedScore(1e-9))
	}
}

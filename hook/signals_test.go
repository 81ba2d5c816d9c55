package hook

import (
	"math"

	"github.com/RyanBlaney/sonido-hook/logging"
)

const testSampleRate = 22050

var quiet = &logging.NoOpLogger{}

// noteFrequency returns the equal-tempered frequency of a pitch class in an octave (C4 = 261.63 Hz)
func noteFrequency(pitchClass, octave int) float64 {
	midi := 12*(octave+1) + pitchClass
	return 440 * math.Pow(2, float64(midi-69)/12)
}

// writeTone adds a sine of amplitude amp over [startSec, endSec) into signal
func writeTone(signal []float64, freq, amp, startSec, endSec float64) {
	from := int(startSec * testSampleRate)
	to := min(len(signal), int(endSec*testSampleRate))
	for i := from; i < to; i++ {
		signal[i] += amp * math.Sin(2*math.Pi*freq*float64(i)/testSampleRate)
	}
}

// writeMelody cycles through pitch classes in octave 7, noteSec per note, over [startSec, endSec)
func writeMelody(signal []float64, classes []int, noteSec, startSec, endSec float64) {
	k := 0
	for t := startSec; t < endSec-1e-9; t += noteSec {
		writeTone(signal, noteFrequency(classes[k%len(classes)], 7), 0.4, t, min(t+noteSec, endSec))
		k++
	}
}

func silence(seconds float64) []float64 {
	return make([]float64, int(seconds*testSampleRate))
}

// structuredTrack is A(0-8) B(8-14) C(14-20) A(20-28) then silence to 36 s
func structuredTrack() []float64 {
	signal := silence(36)
	a := []int{0, 3, 6, 9}
	writeMelody(signal, a, 0.5, 0, 8)
	writeMelody(signal, []int{1, 4, 7, 10}, 0.5, 8, 14)
	writeMelody(signal, []int{2, 5, 8, 11}, 0.5, 14, 20)
	writeMelody(signal, a, 0.5, 20, 28)
	return signal
}

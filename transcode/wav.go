package transcode

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeWAVFile opens and decodes a PCM WAV file
func DecodeWAVFile(filename string) (*AudioData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer file.Close()

	data, err := DecodeWAV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	data.Source = filename
	return data, nil
}

// DecodeWAV decodes a PCM WAV stream into a mono float signal
func DecodeWAV(r io.ReadSeeker) (*AudioData, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrUnsupportedFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read PCM buffer: %w", err)
	}

	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: WAV header has no sample rate", ErrInvalidSampleRate)
	}

	channels := max(1, buf.Format.NumChannels)
	pcm := Downmix(intBufferToFloat(buf), channels)

	return newAudioData(pcm, buf.Format.SampleRate, channels, ""), nil
}

// intBufferToFloat scales integer samples by the source bit depth into [-1, 1]
func intBufferToFloat(buf *audio.IntBuffer) []float64 {
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}

	scale := float64(int64(1) << (bitDepth - 1))
	out := make([]float64, len(buf.Data))

	for i, v := range buf.Data {
		// 8-bit WAV is unsigned
		if bitDepth == 8 {
			out[i] = (float64(v) - 128) / 128
			continue
		}
		out[i] = float64(v) / scale
	}

	return out
}

// Downmix averages interleaved channels into one. A trailing partial frame is dropped.
func Downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)

	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}

	return mono
}

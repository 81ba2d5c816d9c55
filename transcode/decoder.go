package transcode

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-hook/logging"
)

// ErrUnsupportedFormat is returned when no decoder handles a file
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ErrInvalidSampleRate is returned for non-positive sample rates
var ErrInvalidSampleRate = errors.New("invalid sample rate")

// AudioData is a decoded mono signal
type AudioData struct {
	PCM        []float64     `json:"-"` // Mono samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channels in the source before downmix
	Duration   time.Duration `json:"duration"`
	Source     string        `json:"source"`
}

func newAudioData(pcm []float64, sampleRate, channels int, source string) *AudioData {
	var duration time.Duration
	if sampleRate > 0 {
		duration = time.Duration(float64(len(pcm)) / float64(sampleRate) * float64(time.Second))
	}
	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   duration,
		Source:     source,
	}
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate" yaml:"target_sample_rate"` // ffmpeg output rate; 0 keeps the source rate
	MaxDuration      time.Duration `json:"max_duration" yaml:"max_duration"`             // 0 decodes everything
	FFmpegPath       string        `json:"ffmpeg_path" yaml:"ffmpeg_path"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`
	PreferNativeWAV  bool          `json:"prefer_native_wav" yaml:"prefer_native_wav"` // Decode .wav without ffmpeg
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 44100,
		FFmpegPath:       "ffmpeg", // Assume in PATH
		Timeout:          2 * time.Minute,
		PreferNativeWAV:  true,
	}
}

// Decoder turns audio files into mono PCM for the hook analyzer
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.Component("audio_decoder"),
	}
}

// DecodeFile decodes an audio file to mono PCM. WAV files are read natively
// when PreferNativeWAV is set; everything else goes through ffmpeg.
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function": "DecodeFile",
		"filename": filename,
	})

	if d.config.PreferNativeWAV && strings.EqualFold(filepath.Ext(filename), ".wav") {
		logger.Debug("Decoding WAV natively")
		return DecodeWAVFile(filename)
	}

	logger.Debug("Decoding with ffmpeg")
	return d.decodeWithFFmpeg(ctx, filename)
}

// decodeWithFFmpeg asks ffmpeg for mono f64le on stdout
func (d *Decoder) decodeWithFFmpeg(ctx context.Context, filename string) (*AudioData, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	args := append([]string{"-i", filename}, d.buildFFmpegArgs()...)
	args = append(args, "pipe:1")

	d.logger.Debug("Running ffmpeg command", logging.Fields{
		"args": strings.Join(args, " "),
	})

	output, err := exec.CommandContext(ctx, d.config.FFmpegPath, args...).Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			d.logger.Error(err, "Ffmpeg decode failed", logging.Fields{
				"stderr": string(exitError.Stderr),
			})
		}
		return nil, fmt.Errorf("ffmpeg decode %s: %w", filename, err)
	}

	sampleRate := d.config.TargetSampleRate
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: ffmpeg output needs a target sample rate", ErrInvalidSampleRate)
	}

	return newAudioData(BytesToFloat64(output), sampleRate, 0, filename), nil
}

// buildFFmpegArgs builds the ffmpeg output arguments
func (d *Decoder) buildFFmpegArgs() []string {
	args := []string{
		"-vn",
		"-f", "f64le", // Output raw float64 little-endian
		"-ac", "1", // Let ffmpeg do the downmix
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
	}

	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.2f", d.config.MaxDuration.Seconds()))
	}

	// Suppress ffmpeg output
	return append(args, "-v", "error")
}

// BytesToFloat64 converts raw little-endian float64 bytes, dropping a trailing partial sample
func BytesToFloat64(data []byte) []float64 {
	sampleCount := len(data) / 8
	samples := make([]float64, sampleCount)

	for i := range sampleCount {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return samples
}

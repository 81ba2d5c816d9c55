package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-hook/hook"
	"github.com/RyanBlaney/sonido-hook/hook/config"
	"github.com/RyanBlaney/sonido-hook/logging"
	"github.com/RyanBlaney/sonido-hook/transcode"
)

type analyzeOptions struct {
	configPath  string
	duration    float64
	genre       string
	method      string
	sampleRate  int
	jsonOut     bool
	diagnostics bool
	verbose     bool
	logLevel    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hookscan",
		Short:        "Find the hook of a music track",
		SilenceUsage: true,
	}

	root.AddCommand(newAnalyzeCmd(), newGenresCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <audio-file>",
		Short: "Locate the best clip start in an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML analysis config")
	flags.Float64VarP(&opts.duration, "duration", "d", 0, "clip length in seconds (overrides config)")
	flags.StringVarP(&opts.genre, "genre", "g", "", "genre weight profile (overrides config)")
	flags.StringVarP(&opts.method, "method", "m", "", "energy, chorus or auto (overrides config)")
	flags.IntVar(&opts.sampleRate, "sample-rate", 44100, "decode sample rate for non-WAV input")
	flags.BoolVar(&opts.jsonOut, "json", false, "print the full result as JSON")
	flags.BoolVar(&opts.diagnostics, "diagnostics", false, "keep per-frame diagnostics in JSON output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging (same as --log-level debug)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")

	return cmd
}

func newGenresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List built-in genre weight profiles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, genre := range config.Genres() {
				p := config.LookupProfile(genre)
				parts := make([]string, 0, len(config.PrimaryFeatures))
				for _, name := range config.PrimaryFeatures {
					parts = append(parts, fmt.Sprintf("%s=%.2f", name, p.Weight(name)))
				}
				fmt.Fprintf(out, "%-10s %s\n", genre, strings.Join(parts, " "))
			}
		},
	}
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, path string) error {
	// stdout carries the result
	logger := logging.NewDefaultLoggerWithWriters(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	logger.SetLevel(logLevel(opts))
	logging.SetGlobalLogger(logger)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if _, custom := cfg.Genres[config.NormalizeGenre(cfg.Genre)]; !custom && !config.HasProfile(cfg.Genre) {
		logger.Warn("Unknown genre, using the default profile", logging.Fields{"genre": cfg.Genre})
	}

	decCfg := transcode.DefaultDecoderConfig()
	decCfg.TargetSampleRate = opts.sampleRate
	audio, err := transcode.NewDecoder(decCfg).DecodeFile(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	logger.Info("Decoded audio", logging.Fields{
		"file":        path,
		"sample_rate": audio.SampleRate,
		"duration":    audio.Duration.String(),
	})

	res := hook.NewAnalyzer(cfg, hook.WithLogger(logger)).Analyze(audio.PCM, audio.SampleRate)

	if !opts.diagnostics {
		stripDiagnostics(res)
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	start, end := res.ClipBounds()
	winner := res.Hook()
	fmt.Fprintf(out, "method:     %s (requested %s)\n", res.Selection.Method, res.Requested)
	fmt.Fprintf(out, "start:      %.2fs\n", start)
	fmt.Fprintf(out, "end:        %.2fs\n", end)
	fmt.Fprintf(out, "score:      %.4f (normalized %.3f)\n", winner.Score, res.Selection.Normalized)
	fmt.Fprintf(out, "reason:     %s\n", res.Selection.Reason)
	return nil
}

func logLevel(opts *analyzeOptions) logging.Level {
	if opts.verbose {
		return logging.DebugLevel
	}
	return logging.ParseLevel(opts.logLevel)
}

func loadConfig(opts *analyzeOptions) (*config.AnalysisConfig, error) {
	cfg := config.DefaultAnalysisConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.duration > 0 {
		cfg.WindowSec = opts.duration
	}
	if opts.genre != "" {
		cfg.Genre = opts.genre
	}
	if opts.method != "" {
		method, err := hook.ParseMethod(opts.method)
		if err != nil {
			return nil, err
		}
		cfg.Method = string(method)
	}

	return cfg, cfg.Validate()
}

func stripDiagnostics(res *hook.Result) {
	res.Selection.Winner.Features = nil
	res.Selection.Winner.Repetition = nil
	if res.Energy != nil {
		res.Energy.Features = nil
	}
	if res.Chorus != nil {
		res.Chorus.Repetition = nil
	}
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML document at path and overlays it on the defaults.
// Genre profiles in the file are added to, or replace, the built-in ones.
func LoadFile(path string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes a YAML document over DefaultAnalysisConfig and validates the result
func Parse(data []byte) (*AnalysisConfig, error) {
	cfg := DefaultAnalysisConfig()

	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}

	cfg.Method = NormalizeMethod(cfg.Method)

	if len(cfg.Genres) > 0 {
		genres := make(map[string]WeightProfile, len(cfg.Genres))
		for key, profile := range cfg.Genres {
			genres[NormalizeGenre(key)] = profile
		}
		cfg.Genres = genres
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

package config

import (
	"maps"
	"slices"
	"strings"
)

// DefaultGenre is the profile used for unknown or empty genre keys
const DefaultGenre = "default"

// WeightProfile maps a feature name to a non-negative weight. Weights are
// used as given and need not sum to 1.
type WeightProfile map[string]float64

// Weight returns the weight for a feature, 0 when absent
func (p WeightProfile) Weight(feature string) float64 {
	return p[feature]
}

// Sanitized returns a copy with negative weights clamped to 0
func (p WeightProfile) Sanitized() WeightProfile {
	out := make(WeightProfile, len(p))
	for name, w := range p {
		out[strings.ToLower(name)] = max(0, w)
	}
	return out
}

var builtinProfiles = map[string]WeightProfile{
	DefaultGenre: {FeatureEnergy: 0.45, FeatureCentroid: 0.20, FeatureZCR: 0.10, FeatureFlux: 0.25},
	"pop":        {FeatureEnergy: 0.40, FeatureCentroid: 0.20, FeatureZCR: 0.10, FeatureFlux: 0.30},
	"rock":       {FeatureEnergy: 0.50, FeatureCentroid: 0.15, FeatureZCR: 0.15, FeatureFlux: 0.20},
	"edm":        {FeatureEnergy: 0.35, FeatureCentroid: 0.15, FeatureZCR: 0.10, FeatureFlux: 0.40},
	"hiphop":     {FeatureEnergy: 0.45, FeatureCentroid: 0.10, FeatureZCR: 0.10, FeatureFlux: 0.35},
	"rnb":        {FeatureEnergy: 0.50, FeatureCentroid: 0.20, FeatureZCR: 0.10, FeatureFlux: 0.20},
	"jazz":       {FeatureEnergy: 0.30, FeatureCentroid: 0.35, FeatureZCR: 0.15, FeatureFlux: 0.20},
	"classical":  {FeatureEnergy: 0.60, FeatureCentroid: 0.20, FeatureZCR: 0.05, FeatureFlux: 0.15},
	"acoustic":   {FeatureEnergy: 0.50, FeatureCentroid: 0.25, FeatureZCR: 0.10, FeatureFlux: 0.15},
}

var genreAliases = map[string]string{
	"electronic": "edm",
	"dance":      "edm",
	"house":      "edm",
	"techno":     "edm",
	"hip-hop":    "hiphop",
	"hip hop":    "hiphop",
	"rap":        "hiphop",
	"r&b":        "rnb",
	"soul":       "rnb",
	"metal":      "rock",
	"punk":       "rock",
	"folk":       "acoustic",
	"orchestral": "classical",
}

// NormalizeGenre lower-cases a genre key and resolves aliases
func NormalizeGenre(genre string) string {
	key := strings.ToLower(strings.TrimSpace(genre))
	if key == "" {
		return DefaultGenre
	}
	if alias, ok := genreAliases[key]; ok {
		return alias
	}
	return key
}

// LookupProfile returns a copy of the built-in profile for genre, falling back to the default
func LookupProfile(genre string) WeightProfile {
	if p, ok := builtinProfiles[NormalizeGenre(genre)]; ok {
		return maps.Clone(p)
	}
	return maps.Clone(builtinProfiles[DefaultGenre])
}

// HasProfile reports whether genre resolves to a built-in profile rather than the fallback
func HasProfile(genre string) bool {
	_, ok := builtinProfiles[NormalizeGenre(genre)]
	return ok
}

// Genres returns the built-in genre keys in sorted order
func Genres() []string {
	return slices.Sorted(maps.Keys(builtinProfiles))
}

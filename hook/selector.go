package hook

import (
	"github.com/RyanBlaney/sonido-hook/hook/config"
)

// Selection is the selector's verdict between the two strategies
type Selection struct {
	Method           Method    `json:"method"`
	Winner           Candidate `json:"winner"`
	Normalized       float64   `json:"normalized"`        // Winner's score on its own range
	EnergyNormalized float64   `json:"energy_normalized"` // Energy score on the energy range
	ChorusNormalized float64   `json:"chorus_normalized"` // Chorus score on the chorus range
	Reason           string    `json:"reason"`
}

// Selector compares an energy and a chorus candidate. Raw scores of the two
// strategies are not comparable, so each is first normalized against the
// range of windows that strategy itself scanned.
type Selector struct {
	cfg config.SelectorConfig
}

// NewSelector creates a selector
func NewSelector(cfg config.SelectorConfig) *Selector {
	return &Selector{cfg: cfg}
}

// Choose picks chorus only when its normalized score beats the energy
// score by the configured bias factor, and energy otherwise. A degenerate
// chorus candidate always loses.
func (s *Selector) Choose(energy, chorus Candidate) Selection {
	energyN := energy.NormalizedScore(s.cfg.RangeEpsilon)
	chorusN := chorus.NormalizedScore(s.cfg.RangeEpsilon)

	sel := Selection{
		EnergyNormalized: energyN,
		ChorusNormalized: chorusN,
	}

	switch {
	case chorus.Degenerate:
		sel.Method, sel.Winner, sel.Normalized = MethodEnergy, energy, energyN
		sel.Reason = "chorus unavailable: " + chorus.Reason
	case chorusN > energyN*s.cfg.ChorusBias:
		sel.Method, sel.Winner, sel.Normalized = MethodChorus, chorus, chorusN
		sel.Reason = "chorus score beats biased energy score"
	default:
		sel.Method, sel.Winner, sel.Normalized = MethodEnergy, energy, energyN
		sel.Reason = "energy score within chorus bias"
	}

	return sel
}

// Force returns the candidate for an explicitly requested method. A forced
// chorus falls back to energy when the chorus strategy is unavailable.
func (s *Selector) Force(method Method, energy, chorus *Candidate) Selection {
	if method == MethodChorus && chorus != nil && !chorus.Degenerate {
		return Selection{
			Method:           MethodChorus,
			Winner:           *chorus,
			Normalized:       chorus.NormalizedScore(s.cfg.RangeEpsilon),
			ChorusNormalized: chorus.NormalizedScore(s.cfg.RangeEpsilon),
			Reason:           "chorus method requested",
		}
	}

	sel := Selection{
		Method:           MethodEnergy,
		Winner:           *energy,
		Normalized:       energy.NormalizedScore(s.cfg.RangeEpsilon),
		EnergyNormalized: energy.NormalizedScore(s.cfg.RangeEpsilon),
		Reason:           "energy method requested",
	}
	if method == MethodChorus {
		sel.Reason = "chorus requested but unavailable, fell back to energy"
		if chorus != nil && chorus.Reason != "" {
			sel.Reason += ": " + chorus.Reason
		}
	}
	return sel
}

package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// ThresholdTable holds the score boundaries separating risk tiers.
//
// Classification only uses Low and Moderate: HIGH starts at Moderate. High is kept for
// display and preview.
type ThresholdTable struct {
	Low      int
	Moderate int
	High     int
}

// Validate requires every threshold to be at least 1 and Low < Moderate < High
func (t ThresholdTable) Validate() error {
	if t.Low < 1 || t.Moderate < 1 || t.High < 1 {
		return goerr.Wrap(ErrConfiguration, "thresholds must be at least 1",
			goerr.V(ThresholdsKey, t))
	}
	if t.Low >= t.Moderate || t.Moderate >= t.High {
		return goerr.Wrap(ErrConfiguration, "thresholds must satisfy low < moderate < high",
			goerr.V(ThresholdsKey, t))
	}
	return nil
}

// Band is one closed-open score range mapped to a tier. Max is exclusive; Unbounded bands have no Max.
type Band struct {
	Tier      types.RiskTier
	Min       int
	Max       int
	Unbounded bool
}

// Bands returns the score ranges used by classification, lowest tier first
func (t ThresholdTable) Bands() []Band {
	return []Band{
		{Tier: types.RiskTierLow, Min: 0, Max: t.Low},
		{Tier: types.RiskTierModerate, Min: t.Low, Max: t.Moderate},
		{Tier: types.RiskTierHigh, Min: t.Moderate, Unbounded: true},
	}
}

package types

import "fmt"

// RiskTier is the discrete classification derived from a total score
type RiskTier string

const (
	RiskTierLow      RiskTier = "LOW"
	RiskTierModerate RiskTier = "MODERATE"
	RiskTierHigh     RiskTier = "HIGH"
)

// AllRiskTiers returns all tiers ordered from lowest to highest
func AllRiskTiers() []RiskTier {
	return []RiskTier{
		RiskTierLow,
		RiskTierModerate,
		RiskTierHigh,
	}
}

// IsValid checks if the risk tier is valid
func (t RiskTier) IsValid() bool {
	switch t {
	case RiskTierLow, RiskTierModerate, RiskTierHigh:
		return true
	default:
		return false
	}
}

// Rank returns 0, 1, 2 for LOW, MODERATE, HIGH and -1 for unknown tiers
func (t RiskTier) Rank() int {
	switch t {
	case RiskTierLow:
		return 0
	case RiskTierModerate:
		return 1
	case RiskTierHigh:
		return 2
	default:
		return -1
	}
}

// String returns the string representation of the risk tier
func (t RiskTier) String() string {
	return string(t)
}

// ParseRiskTier parses a string into a RiskTier
func ParseRiskTier(s string) (RiskTier, error) {
	tier := RiskTier(s)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid risk tier: %s", s)
	}
	return tier, nil
}

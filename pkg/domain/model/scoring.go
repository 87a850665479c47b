package model

import (
	"sort"

	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// Tally is the raw outcome of summing a ResponseSet against a catalog
type Tally struct {
	Total int
	// Stale are selected option IDs the catalog no longer has. They contribute nothing.
	Stale []types.OptionID
}

// TallyScore sums the points of every selected option. The sum is commutative, so neither
// criterion iteration order nor selection order affects Total. Unknown option IDs are skipped and
// returned in Stale, sorted.
func TallyScore(rs *ResponseSet, catalog *config.Catalog) Tally {
	var tally Tally
	for _, answer := range rs.answers {
		for _, id := range answer.OptionIDs() {
			points, ok := catalog.Points(id)
			if !ok {
				tally.Stale = append(tally.Stale, id)
				continue
			}
			tally.Total += points
		}
	}
	sort.Slice(tally.Stale, func(i, j int) bool { return tally.Stale[i] < tally.Stale[j] })
	return tally
}

// Classify maps a total score to a risk tier. A score equal to a threshold belongs to the higher
// tier. HIGH starts at Moderate; High is not consulted.
func Classify(score int, thresholds config.ThresholdTable) types.RiskTier {
	switch {
	case score >= thresholds.Moderate:
		return types.RiskTierHigh
	case score >= thresholds.Low:
		return types.RiskTierModerate
	default:
		return types.RiskTierLow
	}
}

// AssessmentResult is derived from a ResponseSet and never mutated directly
type AssessmentResult struct {
	TotalScore        int
	RiskTier          types.RiskTier
	SelectedOptionIDs []types.OptionID
}

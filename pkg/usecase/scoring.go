package usecase

import (
	"context"

	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
)

// ComputeResult scores rs against the session snapshot and classifies the total. Stale option
// IDs are skipped and reported as a warning.
func (s *Session) ComputeResult(ctx context.Context, rs *model.ResponseSet) model.AssessmentResult {
	tally := model.TallyScore(rs, s.snapshot.Catalog)
	if len(tally.Stale) > 0 {
		logging.From(ctx).Warn("stale option references skipped while scoring",
			"error", model.ErrStaleReference,
			"option_ids", tally.Stale)
	}

	return model.AssessmentResult{
		TotalScore:        tally.Total,
		RiskTier:          model.Classify(tally.Total, s.snapshot.Thresholds),
		SelectedOptionIDs: rs.SelectedOptionIDs(s.snapshot.Catalog),
	}
}

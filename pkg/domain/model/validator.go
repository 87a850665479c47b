package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// ResponseValidator checks incoming answers against a configuration snapshot
type ResponseValidator struct {
	snapshot *config.Snapshot
}

// NewResponseValidator creates a new ResponseValidator with the given snapshot
func NewResponseValidator(snapshot *config.Snapshot) *ResponseValidator {
	return &ResponseValidator{
		snapshot: snapshot,
	}
}

// ValidateOption checks that option belongs to the criterion
func (v *ResponseValidator) ValidateOption(criterion config.Criterion, option types.OptionID) error {
	if !criterion.HasOption(option) {
		return goerr.Wrap(ErrValidation, "option does not belong to criterion",
			goerr.V(CriterionIDKey, criterion.ID),
			goerr.V(OptionIDKey, option))
	}
	return nil
}

// ValidateComplete requires every criterion of the catalog to be answered
func (v *ResponseValidator) ValidateComplete(rs *ResponseSet) error {
	missing := rs.Unanswered(v.snapshot.Catalog)
	if len(missing) > 0 {
		return goerr.Wrap(ErrValidation, fmt.Sprintf("%d criteria not answered", len(missing)),
			goerr.V(UnansweredKey, len(missing)),
			goerr.V(CriterionIDKey, missing))
	}
	return nil
}

// ValidateSelection rebuilds a ResponseSet from a flat option list and rejects lists that put
// several options on a single-mode criterion or leave criteria unanswered. Stale IDs are not an
// error here; they are returned in the report for the caller to log.
func (v *ResponseValidator) ValidateSelection(optionIDs []types.OptionID) (*ResponseSet, SeedReport, error) {
	rs, report := SeedResponseSet(v.snapshot.Catalog, v.snapshot.Modes, optionIDs)

	if len(report.Overwritten) > 0 {
		return nil, report, goerr.Wrap(ErrValidation, "several options selected for a single-select criterion",
			goerr.V(OptionIDKey, report.Overwritten))
	}

	if err := v.ValidateComplete(rs); err != nil {
		return nil, report, err
	}

	return rs, report, nil
}

package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
)

// Assessment engine errors
var (
	// ErrConfiguration is fatal: the session cannot start. Alias of config.ErrConfiguration.
	ErrConfiguration = config.ErrConfiguration

	// ErrValidation blocks one transition; the message names the unmet condition.
	ErrValidation = goerr.New("validation failed")

	// ErrStaleReference marks an option ID that is no longer in the catalog. Scoring skips it.
	ErrStaleReference = goerr.New("stale option reference")

	// ErrSubmission wraps failures of the external submission collaborator.
	ErrSubmission = goerr.New("assessment submission failed")

	// ErrInvalidState is returned for operations issued in the wrong wizard state.
	ErrInvalidState = goerr.New("operation not allowed in current state")

	// ErrNotFound is returned by record stores for unknown IDs
	ErrNotFound = goerr.New("not found")
)

// Context keys for error values
const (
	AssessmentIDKey = "assessment_id"
	CriterionIDKey  = "criterion_id"
	OptionIDKey     = "option_id"
	StateKey        = "state"
	UnansweredKey   = "unanswered"
)

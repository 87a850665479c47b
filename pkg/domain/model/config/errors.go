package config

import "github.com/m-mizutani/goerr/v2"

// ErrConfiguration marks a catalog, selection config or threshold table that cannot be used
// for scoring. It is fatal for the assessment session that loaded it.
var ErrConfiguration = goerr.New("assessment configuration is invalid")

// Context keys for error values
const (
	CriterionIDKey = "criterion_id"
	OptionIDKey    = "option_id"
	ModeKey        = "mode"
	ThresholdsKey  = "thresholds"
	ReasonKey      = "reason"
)

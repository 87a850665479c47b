package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound       = goerr.New("configuration file not found")
	ErrInvalidConfig        = goerr.New("invalid configuration")
	ErrNoCriteria           = goerr.New("at least one criterion is required")
	ErrDuplicateCriterionID = goerr.New("duplicate criterion ID")
	ErrDuplicateOptionID    = goerr.New("duplicate option ID")
	ErrInvalidCriterionID   = goerr.New("invalid criterion ID format")
	ErrInvalidOptionID      = goerr.New("invalid option ID format")
	ErrInvalidMode          = goerr.New("invalid selection mode")
	ErrMissingOptions       = goerr.New("criterion requires at least one option")
	ErrNegativePoints       = goerr.New("option points must not be negative")
	ErrInvalidThresholds    = goerr.New("thresholds must satisfy 1 <= low < moderate < high")
	ErrMissingName          = goerr.New("name is required")
)

// Context keys for error values
const (
	ConfigPathKey     = "config_path"
	CriterionIDKey    = "criterion_id"
	OptionIDKey       = "option_id"
	ModeKey           = "mode"
	CriterionIndexKey = "criterion_index"
	OptionIndexKey    = "option_index"
	ThresholdsKey     = "thresholds"
)

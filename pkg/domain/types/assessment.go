package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// AssessmentID is a UUID-based identifier of a persisted assessment record
type AssessmentID string

// NewAssessmentID generates a new UUID v4 AssessmentID
func NewAssessmentID() AssessmentID {
	return AssessmentID(uuid.New().String())
}

// Validate checks if the AssessmentID is a UUID
func (a AssessmentID) Validate() error {
	if a == "" {
		return goerr.New("assessment ID cannot be empty")
	}
	if _, err := uuid.Parse(string(a)); err != nil {
		return goerr.Wrap(err, "assessment ID must be a UUID", goerr.V("id", a))
	}
	return nil
}

// String returns the string representation of AssessmentID
func (a AssessmentID) String() string {
	return string(a)
}

// BranchID identifies the organizational branch an assessment belongs to
type BranchID string

// String returns the string representation of BranchID
func (b BranchID) String() string {
	return string(b)
}

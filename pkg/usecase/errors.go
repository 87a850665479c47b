package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrAssessmentNotFound = goerr.New("assessment not found")

	// Capability errors
	ErrUnknownRole = goerr.New("unknown role")
)

// Context keys for error values
const (
	AssessmentIDKey = "assessment_id"
	BranchIDKey     = "branch_id"
	RoleKey         = "role"
)

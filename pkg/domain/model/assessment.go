package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// AssessmentRecord is the persisted assessment owned by the record store
type AssessmentRecord struct {
	ID                types.AssessmentID
	SubjectName       string
	BranchID          types.BranchID // Optional
	SelectedOptionIDs []types.OptionID
	TotalScore        int
	RiskTier          types.RiskTier
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone returns a deep copy
func (r *AssessmentRecord) Clone() *AssessmentRecord {
	cloned := *r
	cloned.SelectedOptionIDs = slices.Clone(r.SelectedOptionIDs)
	return &cloned
}

// ExistingAssessment is what the edit flow reads back from the store
type ExistingAssessment struct {
	ID                types.AssessmentID
	SubjectName       string
	BranchID          types.BranchID
	SelectedOptionIDs []types.OptionID
}

// SubmitAssessmentRequest creates a new assessment
type SubmitAssessmentRequest struct {
	SubjectName       string
	BranchID          types.BranchID
	SelectedOptionIDs []types.OptionID
}

// SubmitAssessmentResponse carries the score and tier the store computed
type SubmitAssessmentResponse struct {
	ID         types.AssessmentID
	TotalScore int
	RiskTier   types.RiskTier
}

// UpdateAssessmentRequest replaces the subject name and answers of an existing assessment
type UpdateAssessmentRequest struct {
	SubjectName       string
	SelectedOptionIDs []types.OptionID
}

// UpdateAssessmentResponse reports the outcome of an update
type UpdateAssessmentResponse struct {
	Success    bool
	TotalScore int
	RiskTier   types.RiskTier
}

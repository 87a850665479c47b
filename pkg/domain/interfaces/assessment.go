package interfaces

import (
	"context"

	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// AssessmentGateway is the external collaborator the wizard reads existing assessments from and
// writes results to. Implementations are bound to one set of endpoints before the wizard sees them.
type AssessmentGateway interface {
	GetExistingAssessment(ctx context.Context, id types.AssessmentID) (*model.ExistingAssessment, error)
	SubmitAssessment(ctx context.Context, req *model.SubmitAssessmentRequest) (*model.SubmitAssessmentResponse, error)
	UpdateAssessment(ctx context.Context, id types.AssessmentID, req *model.UpdateAssessmentRequest) (*model.UpdateAssessmentResponse, error)
}

// AssessmentRepository defines the interface for AssessmentRecord data access
type AssessmentRepository interface {
	// Create stores a new record. ID, CreatedAt and UpdatedAt are assigned by the repository.
	Create(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error)

	// Get retrieves a record by ID
	Get(ctx context.Context, id types.AssessmentID) (*model.AssessmentRecord, error)

	// List retrieves all records, most recently updated first
	List(ctx context.Context) ([]*model.AssessmentRecord, error)

	// ListByBranch retrieves the records of one branch, most recently updated first
	ListByBranch(ctx context.Context, branchID types.BranchID) ([]*model.AssessmentRecord, error)

	// Update replaces an existing record, keeping CreatedAt
	Update(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error)

	// Delete deletes a record by ID
	Delete(ctx context.Context, id types.AssessmentID) error
}

package usecase

import (
	"context"

	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// LocalGateway is an in-process AssessmentGateway over AssessmentUseCase. A non-empty scope binds
// it to one branch the way an officer's endpoints are.
type LocalGateway struct {
	uc    *AssessmentUseCase
	scope types.BranchID
}

var _ interfaces.AssessmentGateway = &LocalGateway{}

func NewLocalGateway(uc *AssessmentUseCase, scope types.BranchID) *LocalGateway {
	return &LocalGateway{uc: uc, scope: scope}
}

func (g *LocalGateway) GetExistingAssessment(ctx context.Context, id types.AssessmentID) (*model.ExistingAssessment, error) {
	record, err := g.uc.Get(ctx, id, g.scope)
	if err != nil {
		return nil, err
	}
	return &model.ExistingAssessment{
		ID:                record.ID,
		SubjectName:       record.SubjectName,
		BranchID:          record.BranchID,
		SelectedOptionIDs: record.SelectedOptionIDs,
	}, nil
}

func (g *LocalGateway) SubmitAssessment(ctx context.Context, req *model.SubmitAssessmentRequest) (*model.SubmitAssessmentResponse, error) {
	bound := *req
	if g.scope != "" {
		bound.BranchID = g.scope
	}

	created, err := g.uc.Create(ctx, &bound)
	if err != nil {
		return nil, err
	}
	return &model.SubmitAssessmentResponse{
		ID:         created.ID,
		TotalScore: created.TotalScore,
		RiskTier:   created.RiskTier,
	}, nil
}

func (g *LocalGateway) UpdateAssessment(ctx context.Context, id types.AssessmentID, req *model.UpdateAssessmentRequest) (*model.UpdateAssessmentResponse, error) {
	updated, err := g.uc.Update(ctx, id, req, g.scope)
	if err != nil {
		return nil, err
	}
	return &model.UpdateAssessmentResponse{
		Success:    true,
		TotalScore: updated.TotalScore,
		RiskTier:   updated.RiskTier,
	}, nil
}

package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/utils/async"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
)

// AssessmentUseCase is the record store side of assessments. Scores and tiers are always
// recomputed from the server's own snapshot; whatever a client computed is not trusted.
//
// Every read and write takes a branch scope. An empty scope sees all branches; a non-empty scope
// only sees records of that branch and reports others as not found.
type AssessmentUseCase struct {
	repo     interfaces.Repository
	session  *Session
	notifier interfaces.Notifier
}

func NewAssessmentUseCase(repo interfaces.Repository, session *Session, notifier interfaces.Notifier) *AssessmentUseCase {
	return &AssessmentUseCase{
		repo:     repo,
		session:  session,
		notifier: notifier,
	}
}

// Session returns the snapshot the use case scores against
func (uc *AssessmentUseCase) Session() *Session {
	return uc.session
}

// Preview scores a flat option list without storing it. Incomplete lists are allowed; several
// options on one single-select criterion are not.
func (uc *AssessmentUseCase) Preview(ctx context.Context, optionIDs []types.OptionID) (*model.AssessmentResult, error) {
	rs, report := model.SeedResponseSet(uc.session.Catalog(), uc.session.Modes(), optionIDs)
	if len(report.Overwritten) > 0 {
		return nil, goerr.Wrap(model.ErrValidation, "several options selected for a single-select criterion",
			goerr.V(model.OptionIDKey, report.Overwritten))
	}
	if len(report.Stale) > 0 {
		logging.From(ctx).Warn("stale option references skipped while scoring",
			"error", model.ErrStaleReference,
			"option_ids", report.Stale)
	}

	result := uc.session.ComputeResult(ctx, rs)
	return &result, nil
}

func (uc *AssessmentUseCase) evaluate(ctx context.Context, subjectName string, optionIDs []types.OptionID) (model.AssessmentResult, error) {
	if strings.TrimSpace(subjectName) == "" {
		return model.AssessmentResult{}, goerr.Wrap(model.ErrValidation, "name required")
	}

	rs, report, err := uc.session.Validator().ValidateSelection(optionIDs)
	if err != nil {
		return model.AssessmentResult{}, err
	}
	if len(report.Stale) > 0 {
		logging.From(ctx).Warn("stale option references dropped from submission",
			"error", model.ErrStaleReference,
			"option_ids", report.Stale)
	}

	return uc.session.ComputeResult(ctx, rs), nil
}

// Create validates and scores a submission and stores it
func (uc *AssessmentUseCase) Create(ctx context.Context, req *model.SubmitAssessmentRequest) (*model.AssessmentRecord, error) {
	result, err := uc.evaluate(ctx, req.SubjectName, req.SelectedOptionIDs)
	if err != nil {
		return nil, err
	}

	created, err := uc.repo.Assessment().Create(ctx, &model.AssessmentRecord{
		SubjectName:       req.SubjectName,
		BranchID:          req.BranchID,
		SelectedOptionIDs: result.SelectedOptionIDs,
		TotalScore:        result.TotalScore,
		RiskTier:          result.RiskTier,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment")
	}

	logging.From(ctx).Info("assessment created",
		"assessment_id", created.ID,
		"branch_id", created.BranchID,
		"total_score", created.TotalScore,
		"risk_tier", created.RiskTier)

	uc.notify(ctx, created)
	return created, nil
}

// Get returns one record within scope
func (uc *AssessmentUseCase) Get(ctx context.Context, id types.AssessmentID, scope types.BranchID) (*model.AssessmentRecord, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(ErrAssessmentNotFound, "invalid assessment ID", goerr.V(AssessmentIDKey, id))
	}

	record, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(AssessmentIDKey, id))
	}

	if scope != "" && record.BranchID != scope {
		return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found in branch",
			goerr.V(AssessmentIDKey, id),
			goerr.V(BranchIDKey, scope))
	}

	return record, nil
}

// List returns the records within scope, most recently updated first
func (uc *AssessmentUseCase) List(ctx context.Context, scope types.BranchID) ([]*model.AssessmentRecord, error) {
	var (
		records []*model.AssessmentRecord
		err     error
	)
	if scope == "" {
		records, err = uc.repo.Assessment().List(ctx)
	} else {
		records, err = uc.repo.Assessment().ListByBranch(ctx, scope)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(BranchIDKey, scope))
	}
	return records, nil
}

// Update replaces subject name and answers of a record within scope. The branch is kept.
func (uc *AssessmentUseCase) Update(ctx context.Context, id types.AssessmentID, req *model.UpdateAssessmentRequest, scope types.BranchID) (*model.AssessmentRecord, error) {
	existing, err := uc.Get(ctx, id, scope)
	if err != nil {
		return nil, err
	}

	result, err := uc.evaluate(ctx, req.SubjectName, req.SelectedOptionIDs)
	if err != nil {
		return nil, err
	}

	next := existing.Clone()
	next.SubjectName = req.SubjectName
	next.SelectedOptionIDs = result.SelectedOptionIDs
	next.TotalScore = result.TotalScore
	next.RiskTier = result.RiskTier

	updated, err := uc.repo.Assessment().Update(ctx, next)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V(AssessmentIDKey, id))
	}

	logging.From(ctx).Info("assessment updated",
		"assessment_id", updated.ID,
		"total_score", updated.TotalScore,
		"risk_tier", updated.RiskTier)

	if existing.RiskTier != types.RiskTierHigh {
		uc.notify(ctx, updated)
	}
	return updated, nil
}

// Delete removes a record within scope
func (uc *AssessmentUseCase) Delete(ctx context.Context, id types.AssessmentID, scope types.BranchID) error {
	if _, err := uc.Get(ctx, id, scope); err != nil {
		return err
	}

	if err := uc.repo.Assessment().Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete assessment", goerr.V(AssessmentIDKey, id))
	}
	return nil
}

// notify announces records that reach the HIGH tier. Delivery runs in the background and its
// failure never fails the write.
func (uc *AssessmentUseCase) notify(ctx context.Context, record *model.AssessmentRecord) {
	if uc.notifier == nil || record.RiskTier != types.RiskTierHigh {
		return
	}

	snapshot := record.Clone()
	async.Dispatch(ctx, "notify high risk assessment", func(ctx context.Context) error {
		if err := uc.notifier.NotifyAssessment(ctx, snapshot); err != nil {
			return goerr.Wrap(err, "failed to notify high risk assessment",
				goerr.V(AssessmentIDKey, snapshot.ID))
		}
		return nil
	})
}

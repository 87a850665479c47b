package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
)

// WizardState is the step an assessment wizard is on
type WizardState int

const (
	StateAwaitingSubjectInfo WizardState = iota
	StateAnsweringCriterion
	StateReadyToReview
	StateSubmitted
)

func (s WizardState) String() string {
	switch s {
	case StateAwaitingSubjectInfo:
		return "awaiting_subject_info"
	case StateAnsweringCriterion:
		return "answering_criterion"
	case StateReadyToReview:
		return "ready_to_review"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Outcome is what Submit reports back
type Outcome struct {
	ID     types.AssessmentID
	Result model.AssessmentResult
	// Unchanged is set when an edit had nothing to save. No write was made.
	Unchanged bool
}

// Wizard drives one operator through the criteria of a session. It is not safe for concurrent use.
type Wizard struct {
	session       *Session
	gateway       interfaces.AssessmentGateway
	requireBranch bool

	state       WizardState
	index       int
	subjectName string
	branchID    types.BranchID
	responses   *model.ResponseSet

	// set for edit wizards only
	original *model.ExistingAssessment

	outcome *Outcome
}

// NewWizard starts a wizard for a new assessment
func NewWizard(session *Session, gateway interfaces.AssessmentGateway, requireBranch bool) *Wizard {
	return &Wizard{
		session:       session,
		gateway:       gateway,
		requireBranch: requireBranch,
		state:         StateAwaitingSubjectInfo,
		responses:     model.NewResponseSet(),
	}
}

// NewEditWizard loads an existing assessment and seeds a wizard with its subject, branch and
// answers. The wizard starts in AwaitingSubjectInfo with the subject prefilled.
func NewEditWizard(ctx context.Context, session *Session, gateway interfaces.AssessmentGateway, requireBranch bool, id types.AssessmentID) (*Wizard, error) {
	existing, err := gateway.GetExistingAssessment(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load existing assessment", goerr.V(AssessmentIDKey, id))
	}

	w := NewWizard(session, gateway, requireBranch)
	w.original = existing
	w.subjectName = existing.SubjectName
	w.branchID = existing.BranchID
	w.responses = session.Seed(ctx, existing.SelectedOptionIDs)
	return w, nil
}

func (w *Wizard) invalidState(op string) error {
	return goerr.Wrap(model.ErrInvalidState, op+" is not allowed now", goerr.V(model.StateKey, w.state.String()))
}

// SetSubject records the subject name and branch. Only allowed before Start. An edit keeps the
// stored branch: an empty branchID keeps it and a different one is an ErrValidation.
func (w *Wizard) SetSubject(name string, branchID types.BranchID) error {
	if w.state != StateAwaitingSubjectInfo {
		return w.invalidState("setting the subject")
	}
	if w.original != nil {
		if branchID != "" && branchID != w.original.BranchID {
			return goerr.Wrap(model.ErrValidation, "branch cannot change on edit",
				goerr.V(model.AssessmentIDKey, w.original.ID),
				goerr.V("branch_id", branchID))
		}
		branchID = w.original.BranchID
	}
	w.subjectName = name
	w.branchID = branchID
	return nil
}

// Start leaves AwaitingSubjectInfo for the first criterion
func (w *Wizard) Start() error {
	if w.state != StateAwaitingSubjectInfo {
		return w.invalidState("start")
	}
	if err := w.validateSubject(); err != nil {
		return err
	}
	w.state = StateAnsweringCriterion
	w.index = 0
	return nil
}

func (w *Wizard) validateSubject() error {
	if strings.TrimSpace(w.subjectName) == "" {
		return goerr.Wrap(model.ErrValidation, "name required")
	}
	if w.requireBranch && strings.TrimSpace(w.branchID.String()) == "" {
		return goerr.Wrap(model.ErrValidation, "branch required")
	}
	return nil
}

// Answer selects or toggles optionID on the current criterion. Single-select criteria advance
// automatically; on the last criterion that only happens once every criterion is answered.
func (w *Wizard) Answer(optionID types.OptionID) error {
	if w.state != StateAnsweringCriterion {
		return w.invalidState("answer")
	}

	criterion := w.session.Catalog().At(w.index)
	if err := w.session.Validator().ValidateOption(criterion, optionID); err != nil {
		return err
	}

	mode := w.session.Modes().ModeOf(criterion.ID)
	w.responses.Apply(criterion.ID, mode, optionID)
	if mode == types.SelectionModeMultiple {
		return nil
	}

	if w.index < w.session.Catalog().Len()-1 {
		w.index++
		return nil
	}
	if len(w.responses.Unanswered(w.session.Catalog())) == 0 {
		w.state = StateReadyToReview
	}
	return nil
}

// Next advances past the current criterion, which must be answered. From the last criterion it
// enters ReadyToReview, which requires every criterion to be answered.
func (w *Wizard) Next() error {
	if w.state != StateAnsweringCriterion {
		return w.invalidState("next")
	}

	criterion := w.session.Catalog().At(w.index)
	if !w.responses.IsAnswered(criterion.ID) {
		return goerr.Wrap(model.ErrValidation, "current criterion not answered",
			goerr.V(model.CriterionIDKey, criterion.ID))
	}

	if w.index < w.session.Catalog().Len()-1 {
		w.index++
		return nil
	}

	if err := w.session.Validator().ValidateComplete(w.responses); err != nil {
		return err
	}
	w.state = StateReadyToReview
	return nil
}

// Previous steps back one criterion without clearing any answer. From the first criterion it
// returns to AwaitingSubjectInfo; from ReadyToReview it returns to the last criterion.
func (w *Wizard) Previous() error {
	switch w.state {
	case StateAnsweringCriterion:
		if w.index == 0 {
			w.state = StateAwaitingSubjectInfo
			return nil
		}
		w.index--
		return nil
	case StateReadyToReview:
		w.state = StateAnsweringCriterion
		w.index = w.session.Catalog().Len() - 1
		return nil
	default:
		return w.invalidState("previous")
	}
}

// GoTo jumps to criterion i. From ReadyToReview any criterion can be revisited; while answering,
// backward jumps are free and forward jumps may only pass over answered criteria.
func (w *Wizard) GoTo(i int) error {
	if w.state != StateAnsweringCriterion && w.state != StateReadyToReview {
		return w.invalidState("go to")
	}
	if i < 0 || i >= w.session.Catalog().Len() {
		return goerr.Wrap(model.ErrValidation, "criterion index out of range", goerr.V("index", i))
	}

	if w.state == StateAnsweringCriterion && i > w.index {
		for j := w.index; j < i; j++ {
			c := w.session.Catalog().At(j)
			if !w.responses.IsAnswered(c.ID) {
				return goerr.Wrap(model.ErrValidation, "cannot skip an unanswered criterion",
					goerr.V(model.CriterionIDKey, c.ID))
			}
		}
	}

	w.state = StateAnsweringCriterion
	w.index = i
	return nil
}

// CurrentState returns the wizard state
func (w *Wizard) CurrentState() WizardState {
	return w.state
}

// CurrentIndex returns the position of the current criterion. Only meaningful while answering.
func (w *Wizard) CurrentIndex() int {
	return w.index
}

// CurrentCriterion returns the criterion being answered. ok is false outside AnsweringCriterion.
func (w *Wizard) CurrentCriterion() (criterion config.Criterion, ok bool) {
	if w.state != StateAnsweringCriterion {
		return config.Criterion{}, false
	}
	return w.session.Catalog().At(w.index), true
}

// CurrentMode returns the selection mode of the current criterion
func (w *Wizard) CurrentMode() types.SelectionMode {
	criterion, ok := w.CurrentCriterion()
	if !ok {
		return config.DefaultSelectionMode
	}
	return w.session.Modes().ModeOf(criterion.ID)
}

// IsSelected reports whether optionID is currently selected for criterion
func (w *Wizard) IsSelected(criterion types.CriterionID, optionID types.OptionID) bool {
	answer, ok := w.responses.Answer(criterion)
	return ok && answer.Contains(optionID)
}

// CanAdvance reports whether the forward transition out of the current state would succeed
func (w *Wizard) CanAdvance() bool {
	switch w.state {
	case StateAwaitingSubjectInfo:
		return w.validateSubject() == nil
	case StateAnsweringCriterion:
		criterion := w.session.Catalog().At(w.index)
		if !w.responses.IsAnswered(criterion.ID) {
			return false
		}
		if w.index == w.session.Catalog().Len()-1 {
			return len(w.responses.Unanswered(w.session.Catalog())) == 0
		}
		return true
	case StateReadyToReview:
		return true
	default:
		return false
	}
}

// CompletedSteps is the number of answered criteria. It always matches the responses, so it
// drops when the last option of a multiple-select criterion is deselected.
func (w *Wizard) CompletedSteps() int {
	return w.responses.AnsweredCount(w.session.Catalog())
}

// TotalSteps is the number of criteria
func (w *Wizard) TotalSteps() int {
	return w.session.Catalog().Len()
}

// ProgressFraction is CompletedSteps / TotalSteps in [0, 1]
func (w *Wizard) ProgressFraction() float64 {
	total := w.TotalSteps()
	if total == 0 {
		return 0
	}
	return float64(w.CompletedSteps()) / float64(total)
}

// SubjectName returns the subject name as entered
func (w *Wizard) SubjectName() string {
	return w.subjectName
}

// BranchID returns the selected branch
func (w *Wizard) BranchID() types.BranchID {
	return w.branchID
}

// RequireBranch reports whether the caller must pick a branch
func (w *Wizard) RequireBranch() bool {
	return w.requireBranch
}

// IsEdit reports whether the wizard edits an existing assessment
func (w *Wizard) IsEdit() bool {
	return w.original != nil
}

// Responses returns a copy of the current answers
func (w *Wizard) Responses() *model.ResponseSet {
	return w.responses.Clone()
}

// Session returns the snapshot the wizard scores against
func (w *Wizard) Session() *Session {
	return w.session
}

// ComputeResult derives the result from the current answers. Only available once every criterion
// is answered, in ReadyToReview or Submitted.
func (w *Wizard) ComputeResult(ctx context.Context) (model.AssessmentResult, error) {
	if w.state != StateReadyToReview && w.state != StateSubmitted {
		return model.AssessmentResult{}, w.invalidState("computing the result")
	}
	return w.session.ComputeResult(ctx, w.responses), nil
}

// Outcome returns the outcome of the last successful Submit, or nil
func (w *Wizard) Outcome() *Outcome {
	return w.outcome
}

// Submit hands the result to the gateway. An edit with no change in answers or subject name
// returns an Unchanged outcome without writing and stays in ReadyToReview. A gateway failure is
// an ErrSubmission and also leaves the wizard in ReadyToReview so it can be retried.
func (w *Wizard) Submit(ctx context.Context) (*Outcome, error) {
	if w.state != StateReadyToReview {
		return nil, w.invalidState("submit")
	}

	result := w.session.ComputeResult(ctx, w.responses)
	logger := logging.From(ctx)

	if w.original != nil {
		if !model.HasChanges(w.original.SelectedOptionIDs, result.SelectedOptionIDs, w.original.SubjectName, w.subjectName) {
			logger.Info("assessment unchanged, nothing to update", "assessment_id", w.original.ID)
			return &Outcome{ID: w.original.ID, Result: result, Unchanged: true}, nil
		}

		resp, err := w.gateway.UpdateAssessment(ctx, w.original.ID, &model.UpdateAssessmentRequest{
			SubjectName:       w.subjectName,
			SelectedOptionIDs: result.SelectedOptionIDs,
		})
		if err != nil {
			return nil, goerr.Wrap(errors.Join(model.ErrSubmission, err), "failed to update assessment",
				goerr.V(model.AssessmentIDKey, w.original.ID))
		}
		if !resp.Success {
			return nil, goerr.Wrap(model.ErrSubmission, "update was not accepted",
				goerr.V(model.AssessmentIDKey, w.original.ID))
		}
		w.checkStoredResult(ctx, result, resp.TotalScore, resp.RiskTier)

		w.outcome = &Outcome{ID: w.original.ID, Result: result}
		w.state = StateSubmitted
		return w.outcome, nil
	}

	resp, err := w.gateway.SubmitAssessment(ctx, &model.SubmitAssessmentRequest{
		SubjectName:       w.subjectName,
		BranchID:          w.branchID,
		SelectedOptionIDs: result.SelectedOptionIDs,
	})
	if err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrSubmission, err), "failed to submit assessment")
	}
	w.checkStoredResult(ctx, result, resp.TotalScore, resp.RiskTier)

	w.outcome = &Outcome{ID: resp.ID, Result: result}
	w.state = StateSubmitted
	return w.outcome, nil
}

// checkStoredResult warns when the record store scored differently, e.g. because its
// configuration changed after this session was loaded
func (w *Wizard) checkStoredResult(ctx context.Context, local model.AssessmentResult, score int, tier types.RiskTier) {
	if score == local.TotalScore && tier == local.RiskTier {
		return
	}
	logging.From(ctx).Warn("record store scored the assessment differently",
		"local_score", local.TotalScore,
		"local_tier", local.RiskTier,
		"stored_score", score,
		"stored_tier", tier)
}

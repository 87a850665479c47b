package usecase_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/usecase"
)

func startedWizard(t *testing.T, gw *fakeGateway) *usecase.Wizard {
	t.Helper()
	w := usecase.NewWizard(scenarioSession(t), gw, false)
	gt.NoError(t, w.SetSubject("Alice Example", "")).Required()
	gt.NoError(t, w.Start()).Required()
	return w
}

func TestWizard_Start(t *testing.T) {
	session := scenarioSession(t)

	t.Run("name required", func(t *testing.T) {
		w := usecase.NewWizard(session, newFakeGateway(), false)
		gt.NoError(t, w.SetSubject("   ", "")).Required()

		err := w.Start()
		gt.Error(t, err).Is(model.ErrValidation)
		gt.String(t, err.Error()).Contains("name required")
		gt.Value(t, w.CurrentState()).Equal(usecase.StateAwaitingSubjectInfo)
		gt.Bool(t, w.CanAdvance()).False()
	})

	t.Run("branch required when the role picks one", func(t *testing.T) {
		w := usecase.NewWizard(session, newFakeGateway(), true)
		gt.NoError(t, w.SetSubject("Alice", "")).Required()

		err := w.Start()
		gt.Error(t, err).Is(model.ErrValidation)
		gt.String(t, err.Error()).Contains("branch required")
		gt.Value(t, w.CurrentState()).Equal(usecase.StateAwaitingSubjectInfo)

		gt.NoError(t, w.SetSubject("Alice", "tokyo")).Required()
		gt.Bool(t, w.CanAdvance()).True()
		gt.NoError(t, w.Start()).Required()
		gt.Value(t, w.CurrentState()).Equal(usecase.StateAnsweringCriterion)
	})

	t.Run("branch optional otherwise", func(t *testing.T) {
		w := usecase.NewWizard(session, newFakeGateway(), false)
		gt.NoError(t, w.SetSubject("Alice", "")).Required()
		gt.NoError(t, w.Start()).Required()

		criterion, ok := w.CurrentCriterion()
		gt.Bool(t, ok).True()
		gt.Value(t, criterion.ID).Equal(types.CriterionID("income"))
	})

	t.Run("subject cannot change after start", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())
		gt.Error(t, w.SetSubject("Bob", "")).Is(model.ErrInvalidState)
	})
}

func TestWizard_Answer(t *testing.T) {
	t.Run("single select auto-advances", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())

		gt.NoError(t, w.Answer("b")).Required()
		gt.Number(t, w.CurrentIndex()).Equal(1)

		gt.NoError(t, w.Answer("e")).Required()
		gt.Number(t, w.CurrentIndex()).Equal(2)
		gt.Value(t, w.CurrentMode()).Equal(types.SelectionModeMultiple)
	})

	t.Run("option of another criterion is rejected", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())

		err := w.Answer("e")
		gt.Error(t, err).Is(model.ErrValidation)
		gt.Number(t, w.CurrentIndex()).Equal(0)
		gt.Number(t, w.CompletedSteps()).Equal(0)
	})

	t.Run("multiple select toggles without advancing", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())
		gt.NoError(t, w.Answer("b")).Required()
		gt.NoError(t, w.Answer("e")).Required()

		gt.Bool(t, w.CanAdvance()).False()
		gt.Error(t, w.Next()).Is(model.ErrValidation)

		gt.NoError(t, w.Answer("f")).Required()
		gt.NoError(t, w.Answer("h")).Required()
		gt.Number(t, w.CurrentIndex()).Equal(2)
		gt.Value(t, w.CurrentState()).Equal(usecase.StateAnsweringCriterion)
		gt.Bool(t, w.IsSelected("occupations", "f")).True()
		gt.Bool(t, w.IsSelected("occupations", "h")).True()

		// deselect
		gt.NoError(t, w.Answer("f")).Required()
		gt.Bool(t, w.IsSelected("occupations", "f")).False()
		gt.Bool(t, w.CanAdvance()).True()

		gt.NoError(t, w.Next()).Required()
		gt.Value(t, w.CurrentState()).Equal(usecase.StateReadyToReview)

		result, err := w.ComputeResult(context.Background())
		gt.NoError(t, err).Required()
		gt.Number(t, result.TotalScore).Equal(5 + 8 + 6)
	})

	t.Run("answer outside answering state", func(t *testing.T) {
		w := usecase.NewWizard(scenarioSession(t), newFakeGateway(), false)
		gt.Error(t, w.Answer("a")).Is(model.ErrInvalidState)
	})
}

func TestWizard_SingleSelectOnlyCatalog(t *testing.T) {
	store := newScenarioStore()
	store.modes = map[string]string{}
	session, err := usecase.LoadSession(context.Background(), store)
	gt.NoError(t, err).Required()

	w := usecase.NewWizard(session, newFakeGateway(), false)
	gt.NoError(t, w.SetSubject("Alice", "")).Required()
	gt.NoError(t, w.Start()).Required()

	// N forward transitions without any explicit Next
	gt.NoError(t, w.Answer("c")).Required()
	gt.NoError(t, w.Answer("e")).Required()
	gt.NoError(t, w.Answer("g")).Required()
	gt.Value(t, w.CurrentState()).Equal(usecase.StateReadyToReview)
	gt.Number(t, w.CompletedSteps()).Equal(3)
	gt.Value(t, w.ProgressFraction()).Equal(1.0)
}

func TestWizard_Navigation(t *testing.T) {
	t.Run("previous never clears answers", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())
		gt.NoError(t, w.Answer("b")).Required()
		gt.NoError(t, w.Answer("e")).Required()

		gt.NoError(t, w.Previous()).Required()
		gt.Number(t, w.CurrentIndex()).Equal(1)
		gt.NoError(t, w.Previous()).Required()
		gt.Number(t, w.CurrentIndex()).Equal(0)
		gt.Number(t, w.CompletedSteps()).Equal(2)
		gt.Bool(t, w.IsSelected("income", "b")).True()

		gt.NoError(t, w.Previous()).Required()
		gt.Value(t, w.CurrentState()).Equal(usecase.StateAwaitingSubjectInfo)
		gt.Number(t, w.CompletedSteps()).Equal(2)

		gt.NoError(t, w.Start()).Required()
		gt.NoError(t, w.Next()).Required()
		gt.Number(t, w.CurrentIndex()).Equal(1)
	})

	t.Run("previous from review returns to the last criterion", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())
		gt.NoError(t, w.Answer("a")).Required()
		gt.NoError(t, w.Answer("d")).Required()
		gt.NoError(t, w.Answer("g")).Required()
		gt.NoError(t, w.Next()).Required()
		gt.Value(t, w.CurrentState()).Equal(usecase.StateReadyToReview)

		gt.NoError(t, w.Previous()).Required()
		gt.Value(t, w.CurrentState()).Equal(usecase.StateAnsweringCriterion)
		gt.Number(t, w.CurrentIndex()).Equal(2)
	})

	t.Run("single select change after going back", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())
		gt.NoError(t, w.Answer("a")).Required()
		gt.NoError(t, w.Answer("d")).Required()
		gt.NoError(t, w.Answer("g")).Required()
		gt.NoError(t, w.Next()).Required()

		gt.NoError(t, w.GoTo(0)).Required()
		gt.NoError(t, w.Answer("c")).Required()
		gt.Number(t, w.CurrentIndex()).Equal(1)
		gt.Bool(t, w.IsSelected("income", "a")).False()
		gt.Bool(t, w.IsSelected("income", "c")).True()
	})

	t.Run("goto cannot skip unanswered criteria", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())
		gt.NoError(t, w.Answer("a")).Required()

		gt.Error(t, w.GoTo(2)).Is(model.ErrValidation)
		gt.Number(t, w.CurrentIndex()).Equal(1)

		gt.NoError(t, w.GoTo(0)).Required()
		gt.NoError(t, w.GoTo(1)).Required()
		gt.Error(t, w.GoTo(3)).Is(model.ErrValidation)
		gt.Error(t, w.GoTo(-1)).Is(model.ErrValidation)
	})

	t.Run("deselecting from review blocks returning to review", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())
		gt.NoError(t, w.Answer("a")).Required()
		gt.NoError(t, w.Answer("d")).Required()
		gt.NoError(t, w.Answer("g")).Required()
		gt.NoError(t, w.Next()).Required()

		gt.NoError(t, w.GoTo(2)).Required()
		gt.NoError(t, w.Answer("g")).Required()
		gt.Number(t, w.CompletedSteps()).Equal(2)

		err := w.Next()
		gt.Error(t, err).Is(model.ErrValidation)
		gt.Value(t, w.CurrentState()).Equal(usecase.StateAnsweringCriterion)

		_, err = w.ComputeResult(context.Background())
		gt.Error(t, err).Is(model.ErrInvalidState)
	})
}

// A multi-select criterion first lets an operator empty an earlier answer after reaching the end
func TestWizard_ReviewRequiresEveryCriterion(t *testing.T) {
	store := &fakeStore{
		criteria: []config.Criterion{
			{ID: "channels", Options: []config.Option{{ID: "web", Points: 1}, {ID: "branch", Points: 2}}},
			{ID: "volume", Options: []config.Option{{ID: "low", Points: 0}, {ID: "high", Points: 9}}},
			{ID: "products", Options: []config.Option{{ID: "loan", Points: 3}, {ID: "fx", Points: 5}}},
		},
		modes:      map[string]string{"channels": "multiple", "products": "multiple"},
		thresholds: scenarioThresholds,
	}
	session, err := usecase.LoadSession(context.Background(), store)
	gt.NoError(t, err).Required()

	w := usecase.NewWizard(session, newFakeGateway(), false)
	gt.NoError(t, w.SetSubject("Alice", "")).Required()
	gt.NoError(t, w.Start()).Required()
	gt.NoError(t, w.Answer("web")).Required()
	gt.NoError(t, w.Next()).Required()
	gt.NoError(t, w.Answer("high")).Required()
	gt.NoError(t, w.Answer("fx")).Required()
	gt.NoError(t, w.Next()).Required()
	gt.Value(t, w.CurrentState()).Equal(usecase.StateReadyToReview)

	gt.NoError(t, w.GoTo(0)).Required()
	gt.NoError(t, w.Answer("web")).Required()
	gt.Number(t, w.CompletedSteps()).Equal(2)

	gt.Error(t, w.GoTo(2)).Is(model.ErrValidation)
	gt.Error(t, w.Next()).Is(model.ErrValidation)
	gt.Bool(t, w.CanAdvance()).False()
	gt.Value(t, w.CurrentState()).Equal(usecase.StateAnsweringCriterion)
}

func TestWizard_NavigationInvariants(t *testing.T) {
	session := scenarioSession(t)
	options := []types.OptionID{"a", "b", "c", "d", "e", "f", "g", "h"}
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 200; round++ {
		w := usecase.NewWizard(session, newFakeGateway(), false)
		gt.NoError(t, w.SetSubject("Alice", "")).Required()

		for step := 0; step < 40; step++ {
			switch rng.IntN(5) {
			case 0:
				_ = w.Start()
			case 1:
				_ = w.Answer(options[rng.IntN(len(options))])
			case 2:
				_ = w.Next()
			case 3:
				_ = w.Previous()
			case 4:
				_ = w.GoTo(rng.IntN(4))
			}

			rs := w.Responses()
			answered := rs.AnsweredCount(session.Catalog())
			gt.Number(t, w.CompletedSteps()).Equal(answered)
			gt.Value(t, w.ProgressFraction()).Equal(float64(answered) / 3)

			if w.CurrentState() == usecase.StateReadyToReview {
				gt.Array(t, rs.Unanswered(session.Catalog())).Length(0)
				_, err := w.ComputeResult(context.Background())
				gt.NoError(t, err)
			}
		}
	}
}

func TestWizard_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("new assessment is submitted once", func(t *testing.T) {
		gw := newFakeGateway()
		w := startedWizard(t, gw)
		gt.NoError(t, w.Answer("c")).Required()
		gt.NoError(t, w.Answer("e")).Required()
		gt.NoError(t, w.Answer("f")).Required()
		gt.NoError(t, w.Next()).Required()

		outcome, err := w.Submit(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, outcome.Unchanged).False()
		gt.Number(t, outcome.Result.TotalScore).Equal(21)
		gt.Value(t, outcome.Result.RiskTier).Equal(types.RiskTierHigh)
		gt.Value(t, w.CurrentState()).Equal(usecase.StateSubmitted)

		gt.Array(t, gw.submits).Length(1).Required()
		gt.Value(t, gw.submits[0].SubjectName).Equal("Alice Example")
		gt.Value(t, gw.submits[0].SelectedOptionIDs).Equal([]types.OptionID{"c", "e", "f"})

		_, err = w.Submit(ctx)
		gt.Error(t, err).Is(model.ErrInvalidState)
	})

	t.Run("submit before review", func(t *testing.T) {
		w := startedWizard(t, newFakeGateway())
		_, err := w.Submit(ctx)
		gt.Error(t, err).Is(model.ErrInvalidState)
	})

	t.Run("gateway failure keeps answers for a retry", func(t *testing.T) {
		gw := newFakeGateway()
		gw.failWrite = errors.New("503 service unavailable")
		w := startedWizard(t, gw)
		gt.NoError(t, w.Answer("b")).Required()
		gt.NoError(t, w.Answer("d")).Required()
		gt.NoError(t, w.Answer("g")).Required()
		gt.NoError(t, w.Next()).Required()

		_, err := w.Submit(ctx)
		gt.Error(t, err).Is(model.ErrSubmission)
		gt.Value(t, w.CurrentState()).Equal(usecase.StateReadyToReview)
		gt.Number(t, w.CompletedSteps()).Equal(3)

		gw.failWrite = nil
		outcome, err := w.Submit(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, outcome.Result.TotalScore).Equal(9)
		gt.Array(t, gw.submits).Length(1)
	})
}

func TestWizard_Edit(t *testing.T) {
	ctx := context.Background()
	session := scenarioSession(t)
	id := types.NewAssessmentID()

	newGateway := func() *fakeGateway {
		gw := newFakeGateway()
		gw.existing[id] = &model.ExistingAssessment{
			ID:                id,
			SubjectName:       "Alice",
			BranchID:          "tokyo",
			SelectedOptionIDs: []types.OptionID{"h", "f", "c", "e"},
		}
		return gw
	}

	reviewAll := func(t *testing.T, w *usecase.Wizard) {
		t.Helper()
		gt.NoError(t, w.Start()).Required()
		for range 3 {
			gt.NoError(t, w.Next()).Required()
		}
		gt.Value(t, w.CurrentState()).Equal(usecase.StateReadyToReview)
	}

	t.Run("seeded from the existing assessment", func(t *testing.T) {
		w, err := usecase.NewEditWizard(ctx, session, newGateway(), true, id)
		gt.NoError(t, err).Required()

		gt.Bool(t, w.IsEdit()).True()
		gt.Value(t, w.CurrentState()).Equal(usecase.StateAwaitingSubjectInfo)
		gt.Value(t, w.SubjectName()).Equal("Alice")
		gt.Value(t, w.BranchID()).Equal(types.BranchID("tokyo"))
		gt.Number(t, w.CompletedSteps()).Equal(3)
		gt.Bool(t, w.IsSelected("occupations", "h")).True()
	})

	t.Run("unchanged edit makes no write", func(t *testing.T) {
		gw := newGateway()
		w, err := usecase.NewEditWizard(ctx, session, gw, false, id)
		gt.NoError(t, err).Required()
		reviewAll(t, w)

		outcome, err := w.Submit(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, outcome.Unchanged).True()
		gt.Value(t, outcome.ID).Equal(id)
		gt.Array(t, gw.updates).Length(0)
		gt.Value(t, w.CurrentState()).Equal(usecase.StateReadyToReview)
	})

	t.Run("renamed subject is an update", func(t *testing.T) {
		gw := newGateway()
		w, err := usecase.NewEditWizard(ctx, session, gw, false, id)
		gt.NoError(t, err).Required()
		gt.NoError(t, w.SetSubject("Alice B.", w.BranchID())).Required()
		reviewAll(t, w)

		outcome, err := w.Submit(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, outcome.Unchanged).False()
		gt.Array(t, gw.updates).Length(1).Required()
		gt.Value(t, gw.updates[0].SubjectName).Equal("Alice B.")
		gt.Value(t, w.CurrentState()).Equal(usecase.StateSubmitted)
	})

	t.Run("branch cannot change on edit", func(t *testing.T) {
		gw := newGateway()
		w, err := usecase.NewEditWizard(ctx, session, gw, true, id)
		gt.NoError(t, err).Required()

		gt.Error(t, w.SetSubject("Alice", "osaka")).Is(model.ErrValidation)
		gt.Value(t, w.BranchID()).Equal(types.BranchID("tokyo"))
		gt.Value(t, w.CurrentState()).Equal(usecase.StateAwaitingSubjectInfo)
	})

	t.Run("empty or same branch keeps the stored one", func(t *testing.T) {
		w, err := usecase.NewEditWizard(ctx, session, newGateway(), true, id)
		gt.NoError(t, err).Required()

		gt.NoError(t, w.SetSubject("Alice", "")).Required()
		gt.Value(t, w.BranchID()).Equal(types.BranchID("tokyo"))
		gt.NoError(t, w.SetSubject("Alice", "tokyo")).Required()
		gt.NoError(t, w.Start())
	})

	t.Run("changed answer is an update", func(t *testing.T) {
		gw := newGateway()
		w, err := usecase.NewEditWizard(ctx, session, gw, false, id)
		gt.NoError(t, err).Required()
		reviewAll(t, w)

		gt.NoError(t, w.GoTo(2)).Required()
		gt.NoError(t, w.Answer("f")).Required()
		gt.NoError(t, w.Next()).Required()

		outcome, err := w.Submit(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, outcome.Result.TotalScore).Equal(24)
		gt.Array(t, gw.updates).Length(1).Required()
		gt.Value(t, gw.updates[0].SelectedOptionIDs).Equal([]types.OptionID{"c", "e", "h"})
	})

	t.Run("unknown assessment", func(t *testing.T) {
		_, err := usecase.NewEditWizard(ctx, session, newGateway(), false, types.NewAssessmentID())
		gt.Value(t, err).NotNil()
	})
}

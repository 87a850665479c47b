package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/usecase"
)

// income a=0 b=5 c=10, source d=0 e=8, occupations (multiple) f=3 g=4 h=6
func scenarioCriteria() []config.Criterion {
	return []config.Criterion{
		{
			ID:       "income",
			Category: "Income",
			Options: []config.Option{
				{ID: "a", Label: "A", Points: 0},
				{ID: "b", Label: "B", Points: 5},
				{ID: "c", Label: "C", Points: 10},
			},
		},
		{
			ID:       "source",
			Category: "Source",
			Options: []config.Option{
				{ID: "d", Label: "D", Points: 0},
				{ID: "e", Label: "E", Points: 8},
			},
		},
		{
			ID:       "occupations",
			Category: "Occupations",
			Options: []config.Option{
				{ID: "f", Label: "F", Points: 3},
				{ID: "g", Label: "G", Points: 4},
				{ID: "h", Label: "H", Points: 6},
			},
		},
	}
}

var scenarioThresholds = config.ThresholdTable{Low: 10, Moderate: 16, High: 19}

func scenarioModes() map[string]string {
	return map[string]string{"occupations": "multiple"}
}

type fakeStore struct {
	criteria   []config.Criterion
	modes      map[string]string
	thresholds config.ThresholdTable
	err        error
}

func newScenarioStore() *fakeStore {
	return &fakeStore{
		criteria:   scenarioCriteria(),
		modes:      scenarioModes(),
		thresholds: scenarioThresholds,
	}
}

func (s *fakeStore) GetCriteria(ctx context.Context) ([]config.Criterion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.criteria, nil
}

func (s *fakeStore) GetSelectionConfig(ctx context.Context) (map[string]string, error) {
	return s.modes, nil
}

func (s *fakeStore) GetRiskThresholds(ctx context.Context) (config.ThresholdTable, error) {
	return s.thresholds, nil
}

func scenarioSession(t *testing.T) *usecase.Session {
	t.Helper()
	session, err := usecase.LoadSession(context.Background(), newScenarioStore())
	gt.NoError(t, err).Required()
	return session
}

// fakeGateway records calls and can be told to fail
type fakeGateway struct {
	mu        sync.Mutex
	existing  map[types.AssessmentID]*model.ExistingAssessment
	submits   []*model.SubmitAssessmentRequest
	updates   []*model.UpdateAssessmentRequest
	failWrite error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{existing: map[types.AssessmentID]*model.ExistingAssessment{}}
}

func (g *fakeGateway) GetExistingAssessment(ctx context.Context, id types.AssessmentID) (*model.ExistingAssessment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.existing[id]
	if !ok {
		return nil, goerr.New("not found", goerr.V("id", id))
	}
	return e, nil
}

func (g *fakeGateway) SubmitAssessment(ctx context.Context, req *model.SubmitAssessmentRequest) (*model.SubmitAssessmentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrite != nil {
		return nil, g.failWrite
	}
	g.submits = append(g.submits, req)
	return &model.SubmitAssessmentResponse{ID: types.NewAssessmentID()}, nil
}

func (g *fakeGateway) UpdateAssessment(ctx context.Context, id types.AssessmentID, req *model.UpdateAssessmentRequest) (*model.UpdateAssessmentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrite != nil {
		return nil, g.failWrite
	}
	g.updates = append(g.updates, req)
	return &model.UpdateAssessmentResponse{Success: true}, nil
}

// fakeNotifier forwards every notified record to a channel
type fakeNotifier struct {
	ch chan *model.AssessmentRecord
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan *model.AssessmentRecord, 8)}
}

func (n *fakeNotifier) NotifyAssessment(ctx context.Context, record *model.AssessmentRecord) error {
	n.ch <- record
	return nil
}

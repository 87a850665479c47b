package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

type assessmentRepository struct {
	mu      sync.RWMutex
	records map[types.AssessmentID]*model.AssessmentRecord
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		records: make(map[types.AssessmentID]*model.AssessmentRecord),
	}
}

func (r *assessmentRepository) Create(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := record.Clone()
	if created.ID == "" {
		created.ID = types.NewAssessmentID()
	}
	if _, exists := r.records[created.ID]; exists {
		return nil, goerr.New("assessment already exists", goerr.V("id", created.ID))
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.records[created.ID] = created
	return created.Clone(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id types.AssessmentID) (*model.AssessmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return record.Clone(), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.AssessmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.AssessmentRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record.Clone())
	}
	sortByUpdatedAt(records)
	return records, nil
}

func (r *assessmentRepository) ListByBranch(ctx context.Context, branchID types.BranchID) ([]*model.AssessmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*model.AssessmentRecord
	for _, record := range r.records {
		if record.BranchID == branchID {
			records = append(records, record.Clone())
		}
	}
	sortByUpdatedAt(records)
	return records, nil
}

func (r *assessmentRepository) Update(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.records[record.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", record.ID))
	}

	updated := record.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.records[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id types.AssessmentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	delete(r.records, id)
	return nil
}

func sortByUpdatedAt(records []*model.AssessmentRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
}

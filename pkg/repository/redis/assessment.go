package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// assessmentValue is the JSON stored under each record key
type assessmentValue struct {
	ID                string    `json:"id"`
	SubjectName       string    `json:"subject_name"`
	BranchID          string    `json:"branch_id,omitempty"`
	SelectedOptionIDs []string  `json:"selected_option_ids"`
	TotalScore        int       `json:"total_score"`
	RiskTier          string    `json:"risk_tier"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// assessmentRepository keeps one JSON value per record plus sorted sets scored by
// UpdatedAt: one for all records and one per branch.
type assessmentRepository struct {
	client    *goredis.Client
	keyPrefix string
}

func newAssessmentRepository(client *goredis.Client) *assessmentRepository {
	return &assessmentRepository{client: client}
}

func (r *assessmentRepository) recordKey(id types.AssessmentID) string {
	return r.keyPrefix + "assessment:" + id.String()
}

func (r *assessmentRepository) indexKey() string {
	return r.keyPrefix + "assessments"
}

func (r *assessmentRepository) branchIndexKey(branchID types.BranchID) string {
	return r.keyPrefix + "assessments:branch:" + branchID.String()
}

func toAssessmentValue(record *model.AssessmentRecord) *assessmentValue {
	return &assessmentValue{
		ID:                record.ID.String(),
		SubjectName:       record.SubjectName,
		BranchID:          record.BranchID.String(),
		SelectedOptionIDs: types.OptionIDsToStrings(record.SelectedOptionIDs),
		TotalScore:        record.TotalScore,
		RiskTier:          record.RiskTier.String(),
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}

func toAssessmentModel(v *assessmentValue) *model.AssessmentRecord {
	return &model.AssessmentRecord{
		ID:                types.AssessmentID(v.ID),
		SubjectName:       v.SubjectName,
		BranchID:          types.BranchID(v.BranchID),
		SelectedOptionIDs: types.OptionIDsFromStrings(v.SelectedOptionIDs),
		TotalScore:        v.TotalScore,
		RiskTier:          types.RiskTier(v.RiskTier),
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

func (r *assessmentRepository) write(ctx context.Context, pipe goredis.Pipeliner, record *model.AssessmentRecord) error {
	data, err := json.Marshal(toAssessmentValue(record))
	if err != nil {
		return goerr.Wrap(err, "failed to encode assessment", goerr.V("id", record.ID))
	}

	member := goredis.Z{
		Score:  float64(record.UpdatedAt.UnixNano()),
		Member: record.ID.String(),
	}
	pipe.Set(ctx, r.recordKey(record.ID), data, 0)
	pipe.ZAdd(ctx, r.indexKey(), member)
	if record.BranchID != "" {
		pipe.ZAdd(ctx, r.branchIndexKey(record.BranchID), member)
	}
	return nil
}

func (r *assessmentRepository) Create(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error) {
	now := time.Now().UTC()
	created := record.Clone()
	if created.ID == "" {
		created.ID = types.NewAssessmentID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	exists, err := r.client.Exists(ctx, r.recordKey(created.ID)).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check assessment", goerr.V("id", created.ID))
	}
	if exists > 0 {
		return nil, goerr.New("assessment already exists", goerr.V("id", created.ID))
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		return r.write(ctx, pipe, created)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id types.AssessmentID) (*model.AssessmentRecord, error) {
	data, err := r.client.Get(ctx, r.recordKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var v assessmentValue
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assessment", goerr.V("id", id))
	}
	return toAssessmentModel(&v), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.AssessmentRecord, error) {
	return r.listIndex(ctx, r.indexKey())
}

func (r *assessmentRepository) ListByBranch(ctx context.Context, branchID types.BranchID) ([]*model.AssessmentRecord, error) {
	records, err := r.listIndex(ctx, r.branchIndexKey(branchID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments by branch", goerr.V("branch_id", branchID))
	}
	return records, nil
}

func (r *assessmentRepository) listIndex(ctx context.Context, index string) ([]*model.AssessmentRecord, error) {
	ids, err := r.client.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read assessment index", goerr.V("index", index))
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.recordKey(types.AssessmentID(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read assessments", goerr.V("index", index))
	}

	records := make([]*model.AssessmentRecord, 0, len(values))
	for i, raw := range values {
		// index entries can outlive their record when a delete races a list
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var v assessmentValue
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, goerr.Wrap(err, "failed to decode assessment", goerr.V("id", ids[i]))
		}
		records = append(records, toAssessmentModel(&v))
	}
	return records, nil
}

func (r *assessmentRepository) Update(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error) {
	existing, err := r.Get(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	updated := record.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		if existing.BranchID != "" && existing.BranchID != updated.BranchID {
			pipe.ZRem(ctx, r.branchIndexKey(existing.BranchID), existing.ID.String())
		}
		return r.write(ctx, pipe, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V("id", record.ID))
	}

	return updated, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id types.AssessmentID) error {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, r.recordKey(id))
		pipe.ZRem(ctx, r.indexKey(), id.String())
		if existing.BranchID != "" {
			pipe.ZRem(ctx, r.branchIndexKey(existing.BranchID), id.String())
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("id", id))
	}
	return nil
}

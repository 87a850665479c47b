package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type assessmentDocument struct {
	ID                string    `firestore:"id"`
	SubjectName       string    `firestore:"subject_name"`
	BranchID          string    `firestore:"branch_id"`
	SelectedOptionIDs []string  `firestore:"selected_option_ids"`
	TotalScore        int       `firestore:"total_score"`
	RiskTier          string    `firestore:"risk_tier"`
	CreatedAt         time.Time `firestore:"created_at"`
	UpdatedAt         time.Time `firestore:"updated_at"`
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client, collectionPrefix string) *assessmentRepository {
	return &assessmentRepository{
		client:           client,
		collectionPrefix: collectionPrefix,
	}
}

// AssessmentCollection returns the collection name assessments are stored in
func AssessmentCollection(prefix string) string {
	if prefix != "" {
		return prefix + "_assessments"
	}
	return "assessments"
}

func (r *assessmentRepository) assessmentsCollection() string {
	return AssessmentCollection(r.collectionPrefix)
}

func toAssessmentDocument(record *model.AssessmentRecord) *assessmentDocument {
	return &assessmentDocument{
		ID:                record.ID.String(),
		SubjectName:       record.SubjectName,
		BranchID:          string(record.BranchID),
		SelectedOptionIDs: types.OptionIDsToStrings(record.SelectedOptionIDs),
		TotalScore:        record.TotalScore,
		RiskTier:          record.RiskTier.String(),
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}

func toAssessmentModel(doc *assessmentDocument) *model.AssessmentRecord {
	return &model.AssessmentRecord{
		ID:                types.AssessmentID(doc.ID),
		SubjectName:       doc.SubjectName,
		BranchID:          types.BranchID(doc.BranchID),
		SelectedOptionIDs: types.OptionIDsFromStrings(doc.SelectedOptionIDs),
		TotalScore:        doc.TotalScore,
		RiskTier:          types.RiskTier(doc.RiskTier),
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
}

func (r *assessmentRepository) Create(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error) {
	now := time.Now().UTC()
	created := record.Clone()
	if created.ID == "" {
		created.ID = types.NewAssessmentID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.assessmentsCollection()).Doc(created.ID.String())
	if _, err := docRef.Create(ctx, toAssessmentDocument(created)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(err, "assessment already exists", goerr.V("id", created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id types.AssessmentID) (*model.AssessmentRecord, error) {
	docSnap, err := r.client.Collection(r.assessmentsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var doc assessmentDocument
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assessment", goerr.V("id", id))
	}

	return toAssessmentModel(&doc), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.AssessmentRecord, error) {
	query := r.client.Collection(r.assessmentsCollection()).
		OrderBy("updated_at", firestore.Desc)
	return r.collect(query.Documents(ctx))
}

func (r *assessmentRepository) ListByBranch(ctx context.Context, branchID types.BranchID) ([]*model.AssessmentRecord, error) {
	query := r.client.Collection(r.assessmentsCollection()).
		Where("branch_id", "==", string(branchID)).
		OrderBy("updated_at", firestore.Desc)
	records, err := r.collect(query.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments by branch", goerr.V("branch_id", branchID))
	}
	return records, nil
}

func (r *assessmentRepository) collect(iter *firestore.DocumentIterator) ([]*model.AssessmentRecord, error) {
	defer iter.Stop()

	var records []*model.AssessmentRecord
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		var doc assessmentDocument
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode assessment", goerr.V("doc_id", docSnap.Ref.ID))
		}
		records = append(records, toAssessmentModel(&doc))
	}

	return records, nil
}

func (r *assessmentRepository) Update(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error) {
	docRef := r.client.Collection(r.assessmentsCollection()).Doc(record.ID.String())

	var updated *model.AssessmentRecord
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", record.ID))
			}
			return goerr.Wrap(err, "failed to get assessment", goerr.V("id", record.ID))
		}

		var existing assessmentDocument
		if err := docSnap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode assessment", goerr.V("id", record.ID))
		}

		updated = record.Clone()
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(docRef, toAssessmentDocument(updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V("id", record.ID))
	}

	return updated, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id types.AssessmentID) error {
	docRef := r.client.Collection(r.assessmentsCollection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("id", id))
	}
	return nil
}

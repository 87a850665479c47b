package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
)

// Store keeps assessments in a Firestore database. Several deployments may share one database
// by giving each a distinct collection prefix.
type Store struct {
	client      *firestore.Client
	assessments *assessmentRepository
}

var _ interfaces.Repository = &Store{}

type settings struct {
	collectionPrefix string
}

type Option func(*settings)

// WithCollectionPrefix must match the prefix given to IndexConfig when migrating.
func WithCollectionPrefix(prefix string) Option {
	return func(s *settings) {
		s.collectionPrefix = prefix
	}
}

// New opens a client for projectID. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Store, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open firestore",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}

	return &Store{
		client:      client,
		assessments: newAssessmentRepository(client, cfg.collectionPrefix),
	}, nil
}

func (s *Store) Assessment() interfaces.AssessmentRepository { return s.assessments }

func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}

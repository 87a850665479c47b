package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/repository/firestore"
	"github.com/secmon-lab/riskscore/pkg/repository/memory"
	"github.com/secmon-lab/riskscore/pkg/repository/redis"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	redisAddr        string
	redisPassword    string
	redisDB          int64
	redisKeyPrefix   string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (firestore, redis or memory)",
			Value:       "memory",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKSCORE_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKSCORE_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKSCORE_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for Firestore collection names",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKSCORE_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address host:port (required when using redis backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKSCORE_REDIS_ADDR"),
			Destination: &r.redisAddr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKSCORE_REDIS_PASSWORD"),
			Destination: &r.redisPassword,
		},
		&cli.Int64Flag{
			Name:        "redis-db",
			Usage:       "Redis logical database",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKSCORE_REDIS_DB"),
			Destination: &r.redisDB,
		},
		&cli.StringFlag{
			Name:        "redis-key-prefix",
			Usage:       "Prefix for Redis keys",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKSCORE_REDIS_KEY_PREFIX"),
			Destination: &r.redisKeyPrefix,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("firestore_project_id", r.projectID),
		slog.String("firestore_database_id", r.databaseID),
		slog.String("redis_addr", r.redisAddr),
		slog.Int("redis_password.len", len(r.redisPassword)),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "firestore":
		if r.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case "redis":
		if r.redisAddr == "" {
			return nil, goerr.New("redis-addr is required when using redis backend")
		}
		var opts []redis.Option
		if r.redisPassword != "" {
			opts = append(opts, redis.WithPassword(r.redisPassword))
		}
		if r.redisKeyPrefix != "" {
			opts = append(opts, redis.WithKeyPrefix(r.redisKeyPrefix))
		}
		repo, err := redis.New(ctx, r.redisAddr, int(r.redisDB), opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis repository")
		}
		logging.Default().Info("Using Redis repository",
			"addr", r.redisAddr,
			"db", r.redisDB,
		)
		return repo, nil

	case "memory":
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}

package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/repository/firestore"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type migrateTarget struct {
	projectID        string
	databaseID       string
	collectionPrefix string
	dryRun           bool
}

func (x *migrateTarget) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required)",
			Required:    true,
			Sources:     cli.EnvVars("RISKSCORE_FIRESTORE_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("RISKSCORE_FIRESTORE_DATABASE_ID"),
			Destination: &x.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for Firestore collection names, as given to serve",
			Sources:     cli.EnvVars("RISKSCORE_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &x.collectionPrefix,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Show the migration plan without applying it",
			Destination: &x.dryRun,
		},
	}
}

func (x migrateTarget) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", x.projectID),
		slog.String("database_id", x.databaseID),
		slog.String("collection_prefix", x.collectionPrefix),
		slog.Bool("dry_run", x.dryRun),
	)
}

func cmdMigrate() *cli.Command {
	var target migrateTarget

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the Firestore indexes the assessment store queries need",
		Flags:   target.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return runMigrate(ctx, target)
		},
	}
}

// runMigrate always computes the plan first; the plan is applied only when it has steps and
// this is not a dry run
func runMigrate(ctx context.Context, target migrateTarget) error {
	logger := logging.From(ctx).With("target", target)

	client, err := fireconf.NewClient(ctx, target.projectID, target.databaseID)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close fireconf client", "error", err)
		}
	}()

	indexes := firestore.IndexConfig(target.collectionPrefix)
	plan, err := client.GetMigrationPlan(ctx, indexes)
	if err != nil {
		return goerr.Wrap(err, "failed to create migration plan")
	}
	if len(plan.Steps) == 0 {
		logger.Info("Indexes are up to date")
		return nil
	}

	for _, step := range plan.Steps {
		logger.Info("Planned index change",
			"collection", step.Collection,
			"operation", step.Operation,
			"description", step.Description,
			"destructive", step.Destructive)
	}
	if target.dryRun {
		return nil
	}

	if err := client.Migrate(ctx, indexes); err != nil {
		return goerr.Wrap(err, "failed to apply index migration", goerr.V("steps", len(plan.Steps)))
	}
	logger.Info("Index migration applied", "steps", len(plan.Steps))
	return nil
}

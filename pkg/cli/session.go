package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/cli/config"
	"github.com/secmon-lab/riskscore/pkg/service/catalog"
	"github.com/secmon-lab/riskscore/pkg/usecase"
)

// loadLocalSession loads the TOML configuration and takes a session snapshot of it
func loadLocalSession(ctx context.Context, assessmentCfg *config.Assessment) (*usecase.Session, error) {
	appCfg, err := assessmentCfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load assessment configuration")
	}

	store := catalog.New(appCfg.ToDomainCriteria(), appCfg.SelectionConfig(), appCfg.ToDomainThresholds())
	session, err := usecase.LoadSession(ctx, store)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load assessment session")
	}
	return session, nil
}

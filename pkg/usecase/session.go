package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Session is the configuration snapshot one assessment is filled out and scored against.
// It is loaded once and never refreshed.
type Session struct {
	snapshot *config.Snapshot
}

// NewSession wraps an already validated snapshot
func NewSession(snapshot *config.Snapshot) *Session {
	return &Session{snapshot: snapshot}
}

// LoadSession fetches criteria, selection config and thresholds from store concurrently and
// validates them together. Any failure is an ErrConfiguration and no session is returned.
func LoadSession(ctx context.Context, store interfaces.ConfigStore) (*Session, error) {
	var (
		criteria   []config.Criterion
		modes      map[string]string
		thresholds config.ThresholdTable
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		v, err := store.GetCriteria(egCtx)
		if err != nil {
			return goerr.Wrap(errors.Join(model.ErrConfiguration, err), "failed to fetch criteria")
		}
		criteria = v
		return nil
	})
	eg.Go(func() error {
		v, err := store.GetSelectionConfig(egCtx)
		if err != nil {
			return goerr.Wrap(errors.Join(model.ErrConfiguration, err), "failed to fetch selection config")
		}
		modes = v
		return nil
	})
	eg.Go(func() error {
		v, err := store.GetRiskThresholds(egCtx)
		if err != nil {
			return goerr.Wrap(errors.Join(model.ErrConfiguration, err), "failed to fetch risk thresholds")
		}
		thresholds = v
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	snapshot, err := config.NewSnapshot(criteria, modes, thresholds)
	if err != nil {
		return nil, goerr.Wrap(err, "assessment unavailable")
	}

	if unknown := snapshot.Modes.UnknownCriteria(snapshot.Catalog); len(unknown) > 0 {
		logging.From(ctx).Warn("selection config names criteria that are not in the catalog",
			"criterion_ids", unknown)
	}

	logging.From(ctx).Debug("assessment session loaded",
		"criteria", snapshot.Catalog.Len(),
		"thresholds", snapshot.Thresholds)

	return NewSession(snapshot), nil
}

// Snapshot returns the configuration the session was loaded with
func (s *Session) Snapshot() *config.Snapshot {
	return s.snapshot
}

func (s *Session) Catalog() *config.Catalog {
	return s.snapshot.Catalog
}

func (s *Session) Modes() *config.SelectionModeRegistry {
	return s.snapshot.Modes
}

func (s *Session) Thresholds() config.ThresholdTable {
	return s.snapshot.Thresholds
}

// Validator returns a ResponseValidator bound to the session snapshot
func (s *Session) Validator() *model.ResponseValidator {
	return model.NewResponseValidator(s.snapshot)
}

// Seed rebuilds a ResponseSet from a persisted option list and logs anything that could not be
// placed as-is
func (s *Session) Seed(ctx context.Context, optionIDs []types.OptionID) *model.ResponseSet {
	rs, report := model.SeedResponseSet(s.snapshot.Catalog, s.snapshot.Modes, optionIDs)
	if len(report.Stale) > 0 {
		logging.From(ctx).Warn("stale option references dropped while seeding",
			"error", model.ErrStaleReference,
			"option_ids", report.Stale)
	}
	if len(report.Overwritten) > 0 {
		logging.From(ctx).Warn("several options stored for a single-select criterion, kept the last one",
			"option_ids", report.Overwritten)
	}
	return rs
}

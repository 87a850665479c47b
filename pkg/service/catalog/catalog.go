package catalog

import (
	"context"

	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
)

// Static is a ConfigStore serving a configuration held in memory, typically the TOML file the
// process was started with. Every call returns a fresh copy.
type Static struct {
	criteria   []config.Criterion
	selection  map[string]string
	thresholds config.ThresholdTable
}

var _ interfaces.ConfigStore = &Static{}

func New(criteria []config.Criterion, selection map[string]string, thresholds config.ThresholdTable) *Static {
	s := &Static{
		criteria:   cloneCriteria(criteria),
		selection:  make(map[string]string, len(selection)),
		thresholds: thresholds,
	}
	for k, v := range selection {
		s.selection[k] = v
	}
	return s
}

func (s *Static) GetCriteria(ctx context.Context) ([]config.Criterion, error) {
	return cloneCriteria(s.criteria), nil
}

func (s *Static) GetSelectionConfig(ctx context.Context) (map[string]string, error) {
	selection := make(map[string]string, len(s.selection))
	for k, v := range s.selection {
		selection[k] = v
	}
	return selection, nil
}

func (s *Static) GetRiskThresholds(ctx context.Context) (config.ThresholdTable, error) {
	return s.thresholds, nil
}

func cloneCriteria(criteria []config.Criterion) []config.Criterion {
	cloned := make([]config.Criterion, len(criteria))
	for i, c := range criteria {
		cloned[i] = c
		cloned[i].Options = append([]config.Option(nil), c.Options...)
	}
	return cloned
}

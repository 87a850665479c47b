package interfaces

import (
	"context"

	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
)

// ConfigStore is the external configuration collaborator an assessment session reads its
// snapshot from. It is read-only from the engine's point of view.
type ConfigStore interface {
	// GetCriteria returns the criteria with their nested options, in display order
	GetCriteria(ctx context.Context) ([]config.Criterion, error)

	// GetSelectionConfig returns criterion ID -> "single" | "multiple". Absent criteria are single.
	GetSelectionConfig(ctx context.Context) (map[string]string, error)

	// GetRiskThresholds returns the threshold table
	GetRiskThresholds(ctx context.Context) (config.ThresholdTable, error)
}

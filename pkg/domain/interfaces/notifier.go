package interfaces

import (
	"context"

	"github.com/secmon-lab/riskscore/pkg/domain/model"
)

// Notifier announces stored assessments to humans (e.g. a chat channel for HIGH tier results)
type Notifier interface {
	NotifyAssessment(ctx context.Context, record *model.AssessmentRecord) error
}

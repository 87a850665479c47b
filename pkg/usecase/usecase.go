package usecase

import (
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
)

type UseCases struct {
	repo       interfaces.Repository
	session    *Session
	notifier   interfaces.Notifier
	Assessment *AssessmentUseCase
}

type Option func(*UseCases)

// WithNotifier announces HIGH tier assessments through n
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

func New(repo interfaces.Repository, session *Session, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:    repo,
		session: session,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Assessment = NewAssessmentUseCase(repo, session, uc.notifier)

	return uc
}

// Session returns the configuration snapshot the use cases were built with
func (uc *UseCases) Session() *Session {
	return uc.session
}

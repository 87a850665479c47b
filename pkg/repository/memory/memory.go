// Package memory keeps assessments in process memory. Records are lost on exit, so it suits
// tests, the score command and single-instance trial deployments.
package memory

import (
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
)

type Store struct {
	assessments *assessmentRepository
}

var _ interfaces.Repository = &Store{}

func New() *Store {
	return &Store{assessments: newAssessmentRepository()}
}

func (s *Store) Assessment() interfaces.AssessmentRepository { return s.assessments }

// Close is a no-op.
func (s *Store) Close() error { return nil }

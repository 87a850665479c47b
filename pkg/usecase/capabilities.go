package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// Assessment endpoint roots of the record store API
const (
	AdminAssessmentsPath   = "/api/admin/assessments"
	OfficerAssessmentsPath = "/api/assessments"
)

// AssessmentEndpoints is the set of record store URLs a gateway adapter talks to
type AssessmentEndpoints struct {
	Base string
}

// Collection is the URL assessments are listed from and submitted to
func (e AssessmentEndpoints) Collection() string {
	return e.Base
}

// Item is the URL of one assessment
func (e AssessmentEndpoints) Item(id types.AssessmentID) string {
	return e.Base + "/" + id.String()
}

// Capabilities is what a caller's role decides for an assessment session. The wizard only sees
// RequireBranch and a gateway already bound to Endpoints.
type Capabilities struct {
	RequireBranch bool
	Endpoints     AssessmentEndpoints
}

// ResolveCapabilities maps a role to its capabilities. Admins pick the branch explicitly;
// officers are bound to the branch of their own context.
func ResolveCapabilities(role types.Role) (Capabilities, error) {
	switch role {
	case types.RoleAdmin:
		return Capabilities{
			RequireBranch: true,
			Endpoints:     AssessmentEndpoints{Base: AdminAssessmentsPath},
		}, nil
	case types.RoleOfficer:
		return Capabilities{
			RequireBranch: false,
			Endpoints:     AssessmentEndpoints{Base: OfficerAssessmentsPath},
		}, nil
	default:
		return Capabilities{}, goerr.Wrap(ErrUnknownRole, "cannot resolve capabilities", goerr.V(RoleKey, role))
	}
}

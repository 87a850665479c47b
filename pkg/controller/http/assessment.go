package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/model/api"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

func assessmentID(r *http.Request) types.AssessmentID {
	return types.AssessmentID(chi.URLParam(r, "id"))
}

func (s *Server) listAssessments(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.uc.Assessment.List(r.Context(), scope(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, api.NewAssessmentList(records))
	}
}

// createAssessment takes the branch from the body on admin routes and from the header otherwise
func (s *Server) createAssessment(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.AssessmentRequest
		if err := readJSON(r, w, &req); err != nil {
			handleError(w, r, err)
			return
		}

		branchID := scope(r)
		if branchID == "" {
			branchID = types.BranchID(req.BranchID)
			if branchID == "" {
				handleError(w, r, goerr.Wrap(model.ErrValidation, "branch required"))
				return
			}
		}

		record, err := s.uc.Assessment.Create(r.Context(), &model.SubmitAssessmentRequest{
			SubjectName:       req.SubjectName,
			BranchID:          branchID,
			SelectedOptionIDs: types.OptionIDsFromStrings(req.SelectedOptionIDs),
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, api.NewAssessment(record))
	}
}

func (s *Server) getAssessment(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := s.uc.Assessment.Get(r.Context(), assessmentID(r), scope(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, api.NewAssessment(record))
	}
}

func (s *Server) updateAssessment(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.AssessmentRequest
		if err := readJSON(r, w, &req); err != nil {
			handleError(w, r, err)
			return
		}

		record, err := s.uc.Assessment.Update(r.Context(), assessmentID(r), &model.UpdateAssessmentRequest{
			SubjectName:       req.SubjectName,
			SelectedOptionIDs: types.OptionIDsFromStrings(req.SelectedOptionIDs),
		}, scope(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, api.NewAssessment(record))
	}
}

func (s *Server) deleteAssessment(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.uc.Assessment.Delete(r.Context(), assessmentID(r), scope(r)); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
